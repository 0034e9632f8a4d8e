package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"instapic-ticketing/internal/models"
	"instapic-ticketing/internal/tickets"

	"github.com/lib/pq"
	"github.com/uptrace/bun"
)

const pgUniqueViolation = "23505"

type DB struct {
	Bun *bun.DB
}

// CreateSchema creates the tickets table when it does not exist yet. Postgres
// deployments use the SQL migrations instead; this is for sqlite and tests.
func (d *DB) CreateSchema(ctx context.Context) error {
	_, err := d.Bun.NewCreateTable().
		Model((*models.Ticket)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create tickets table: %w", err)
	}
	return nil
}

// InsertTicket stores a new ISSUED ticket. The unique index on ticket_code is
// authoritative: a concurrent issuance that drew the same code fails here with
// ErrDuplicateCode.
func (d *DB) InsertTicket(ctx context.Context, ticket models.Ticket) (*models.Ticket, error) {
	ticket.ID = 0
	ticket.Status = models.TicketStatusIssued
	ticket.SessionID = nil
	ticket.ImageURL = nil
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now().UTC()
	}

	_, err := d.Bun.NewInsert().
		Model(&ticket).
		Returning("id").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", tickets.ErrDuplicateCode, ticket.TicketCode)
		}
		return nil, fmt.Errorf("failed to insert ticket: %w", err)
	}
	return &ticket, nil
}

func (d *DB) GetTicketByCode(ctx context.Context, code string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("ticket_code = ?", code).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tickets.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to fetch ticket %s: %w", code, err)
	}
	return &ticket, nil
}

// CodeExists checks the full history of tickets, USED ones included.
func (d *DB) CodeExists(ctx context.Context, code string) (bool, error) {
	exists, err := d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Where("ticket_code = ?", code).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check ticket code: %w", err)
	}
	return exists, nil
}

// MarkTicketUsed sets the ticket to USED and fills session_id and image_url
// only when a new value is supplied. Update and re-read share one transaction.
func (d *DB) MarkTicketUsed(ctx context.Context, code string, sessionID, imageURL *string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Ticket)(nil)).
			Set("status = ?", models.TicketStatusUsed).
			Set("session_id = COALESCE(?, session_id)", sessionID).
			Set("image_url = COALESCE(?, image_url)", imageURL).
			Where("ticket_code = ?", code).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update ticket %s: %w", code, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read update result: %w", err)
		}
		if affected == 0 {
			return tickets.ErrTicketNotFound
		}

		return tx.NewSelect().
			Model(&ticket).
			Where("ticket_code = ?", code).
			Limit(1).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListRecentTickets returns up to limit tickets, newest first.
func (d *DB) ListRecentTickets(ctx context.Context, limit int) ([]models.Ticket, error) {
	var list []models.Ticket
	err := d.Bun.NewSelect().
		Model(&list).
		OrderExpr("id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return list, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	// sqlite drivers (modernc and mattn) only expose the message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
