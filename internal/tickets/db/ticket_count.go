package db

import (
	"context"
	"fmt"

	"instapic-ticketing/internal/models"
)

// GetTotalTicketsCount returns the total count of tickets in the database
func (d *DB) GetTotalTicketsCount(ctx context.Context) (int, error) {
	count, err := d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

// CountTicketsByEvent groups tickets by event code and status.
func (d *DB) CountTicketsByEvent(ctx context.Context) ([]models.TicketCount, error) {
	var counts []models.TicketCount
	err := d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Column("event_code", "status").
		ColumnExpr("COUNT(*) AS count").
		Group("event_code", "status").
		Order("event_code", "status").
		Scan(ctx, &counts)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets by event: %w", err)
	}
	return counts, nil
}
