package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"instapic-ticketing/internal/auth"
	"instapic-ticketing/internal/catalog"
	"instapic-ticketing/internal/logger"
	"instapic-ticketing/internal/models"
	"instapic-ticketing/internal/monitoring"
	"instapic-ticketing/internal/payment"
	"instapic-ticketing/internal/sse"
	"instapic-ticketing/internal/tickets"
	"instapic-ticketing/internal/tickets/codegen"
	"instapic-ticketing/internal/tickets/qr"
)

const DefaultListLimit = 50

type TicketDBLayer interface {
	InsertTicket(ctx context.Context, ticket models.Ticket) (*models.Ticket, error)
	GetTicketByCode(ctx context.Context, code string) (*models.Ticket, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	MarkTicketUsed(ctx context.Context, code string, sessionID, imageURL *string) (*models.Ticket, error)
	ListRecentTickets(ctx context.Context, limit int) ([]models.Ticket, error)
	GetTotalTicketsCount(ctx context.Context) (int, error)
	CountTicketsByEvent(ctx context.Context) ([]models.TicketCount, error)
}

// EventPublisher announces ticket lifecycle changes to other services.
type EventPublisher interface {
	PublishTicketIssued(ctx context.Context, ticket models.Ticket) error
	PublishTicketUsed(ctx context.Context, ticket models.Ticket) error
}

// Options are fixed at construction.
type Options struct {
	DefaultEventCode string
	MaxCodeAttempts  int
}

type TicketService struct {
	DB        TicketDBLayer
	Catalog   *catalog.Catalog
	Verifier  payment.Verifier
	Codes     *codegen.Generator
	Publisher EventPublisher
	Emitter   *sse.TicketEventEmitter
	QR        *qr.QRGenerator
	Logger    *logger.Logger

	opts Options
}

func NewTicketService(db TicketDBLayer, cat *catalog.Catalog, verifier payment.Verifier, log *logger.Logger, opts Options) *TicketService {
	if verifier == nil {
		verifier = payment.Unconfigured{}
	}
	if log == nil {
		log = logger.Nop()
	}
	codes := codegen.NewGenerator(db, opts.MaxCodeAttempts)
	opts.MaxCodeAttempts = codes.MaxAttempts()

	return &TicketService{
		DB:       db,
		Catalog:  cat,
		Verifier: verifier,
		Codes:    codes,
		Logger:   log,
		opts:     opts,
	}
}

func (s *TicketService) Options() Options {
	return s.opts
}

// IssueDev issues a ticket for a catalog package without any payment.
func (s *TicketService) IssueDev(ctx context.Context, packageID string) (*models.Ticket, error) {
	pkg, ok := s.Catalog.Get(strings.TrimSpace(packageID))
	if !ok {
		monitoring.RecordIssuanceFailure("unknown_package")
		return nil, fmt.Errorf("%w: %q", tickets.ErrUnknownPackage, packageID)
	}

	ticket, err := s.issue(ctx, models.Ticket{
		PackageID:   pkg.ID,
		EventCode:   s.opts.DefaultEventCode,
		AmountCents: pkg.AmountCents,
	})
	if err != nil {
		return nil, err
	}

	monitoring.RecordTicketIssued(monitoring.SourceDev)
	s.Logger.LogTicket("ISSUE", ticket.TicketCode, fmt.Sprintf("issued via dev path for package %s", pkg.ID))
	return ticket, nil
}

// IssueFromPayment verifies orderID with the payment verifier and issues a
// ticket for what the verifier reports. Nothing is written unless the
// verifier confirms the order.
func (s *TicketService) IssueFromPayment(ctx context.Context, orderID string) (*models.Ticket, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, tickets.ErrMissingOrderID
	}

	info, err := s.Verifier.Verify(ctx, orderID)
	if err != nil {
		monitoring.RecordIssuanceFailure("payment_unverified")
		s.Logger.Warn("PAYMENT", fmt.Sprintf("Verification of order %s failed: %v", orderID, err))
		return nil, fmt.Errorf("%w: %v", tickets.ErrPaymentUnverified, err)
	}
	if info == nil {
		monitoring.RecordIssuanceFailure("payment_unverified")
		return nil, tickets.ErrPaymentUnverified
	}

	eventCode := info.EventCode
	if eventCode == "" {
		eventCode = s.opts.DefaultEventCode
	}

	ticket, err := s.issue(ctx, models.Ticket{
		PackageID:       info.PackageID,
		EventCode:       eventCode,
		AmountCents:     info.AmountCents,
		ExternalOrderID: &orderID,
	})
	if err != nil {
		return nil, err
	}

	monitoring.RecordTicketIssued(monitoring.SourcePayment)
	s.Logger.LogTicket("ISSUE", ticket.TicketCode, fmt.Sprintf("issued for order %s", orderID))
	return ticket, nil
}

// issue draws a code and inserts the ticket. A code found taken by the
// existence check and an insert lost to a concurrent issuance both use up
// one attempt of the same MaxCodeAttempts budget.
func (s *TicketService) issue(ctx context.Context, draft models.Ticket) (*models.Ticket, error) {
	for attempt := 1; attempt <= s.opts.MaxCodeAttempts; attempt++ {
		code, free, err := s.Codes.Draw(ctx)
		if err != nil {
			return nil, err
		}
		if !free {
			monitoring.RecordCodeCollision()
			continue
		}

		draft.TicketCode = code
		ticket, err := s.DB.InsertTicket(ctx, draft)
		if errors.Is(err, tickets.ErrDuplicateCode) {
			monitoring.RecordCodeCollision()
			s.Logger.Debug("TICKET", fmt.Sprintf("Code %s taken concurrently, drawing again (attempt %d)", code, attempt))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to insert ticket: %w", err)
		}

		s.announce(ctx, models.TicketEventIssued, ticket)
		return ticket, nil
	}

	monitoring.RecordIssuanceFailure("exhausted_code_space")
	s.Logger.Error("TICKET", fmt.Sprintf("No free code after %d attempts", s.opts.MaxCodeAttempts))
	return nil, fmt.Errorf("%w after %d attempts", tickets.ErrExhaustedCodeSpace, s.opts.MaxCodeAttempts)
}

func (s *TicketService) GetTicket(ctx context.Context, code string) (*models.Ticket, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, tickets.ErrMissingCode
	}
	return s.DB.GetTicketByCode(ctx, code)
}

// TicketLookup is what an attendee sees after entering their code.
type TicketLookup struct {
	Ticket  *models.Ticket   `json:"ticket"`
	Package *catalog.Package `json:"package"`
}

func (s *TicketService) LookupTicket(ctx context.Context, code string) (*TicketLookup, error) {
	ticket, err := s.GetTicket(ctx, code)
	if err != nil {
		return nil, err
	}

	lookup := &TicketLookup{Ticket: ticket}
	if pkg, ok := s.Catalog.Get(ticket.PackageID); ok {
		lookup.Package = &pkg
	}
	return lookup, nil
}

type RedeemExtras struct {
	Prints        *int `json:"prints"`
	GIF           bool `json:"gif"`
	Boomerang     bool `json:"boomerang"`
	DigitalAccess bool `json:"digital_access"`
}

// RedeemResult is the Mirror's view of a code. A valid result always carries
// every ticket field; an invalid one carries only the reason.
type RedeemResult struct {
	Valid       bool
	Reason      string
	TicketCode  string
	PackageID   string
	EventCode   string
	Status      models.TicketStatus
	AmountCents int64
	Extras      *RedeemExtras
}

type validRedeemJSON struct {
	Valid       bool                `json:"valid"`
	TicketCode  string              `json:"ticket_code"`
	PackageID   string              `json:"package_id"`
	EventCode   string              `json:"event_code"`
	Status      models.TicketStatus `json:"status"`
	AmountCents int64               `json:"amount_cents"`
	Extras      *RedeemExtras       `json:"extras"`
}

type invalidRedeemJSON struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

func (r RedeemResult) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return json.Marshal(invalidRedeemJSON{Reason: r.Reason})
	}
	return json.Marshal(validRedeemJSON{
		Valid:       true,
		TicketCode:  r.TicketCode,
		PackageID:   r.PackageID,
		EventCode:   r.EventCode,
		Status:      r.Status,
		AmountCents: r.AmountCents,
		Extras:      r.Extras,
	})
}

// RedeemCheck tells the Mirror whether a code can be used. It only reads.
func (s *TicketService) RedeemCheck(ctx context.Context, code string) (RedeemResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		monitoring.RecordRedeemCheck(tickets.ReasonMissingCode)
		return RedeemResult{Reason: tickets.ReasonMissingCode}, tickets.ErrMissingCode
	}

	ticket, err := s.DB.GetTicketByCode(ctx, code)
	if errors.Is(err, tickets.ErrTicketNotFound) {
		monitoring.RecordRedeemCheck(tickets.ReasonUnknownCode)
		return RedeemResult{Reason: tickets.ReasonUnknownCode}, err
	}
	if err != nil {
		return RedeemResult{}, fmt.Errorf("failed to look up ticket: %w", err)
	}

	extras := &RedeemExtras{}
	if pkg, ok := s.Catalog.Get(ticket.PackageID); ok {
		prints := pkg.Prints
		extras.Prints = &prints
		extras.GIF = pkg.GIF
		extras.Boomerang = pkg.Boomerang
		extras.DigitalAccess = pkg.DigitalAccess
	}

	monitoring.RecordRedeemCheck("valid")
	s.Logger.LogTicket("REDEEM", ticket.TicketCode, "redeem check"+kioskSuffix(ctx))
	return RedeemResult{
		Valid:       true,
		TicketCode:  ticket.TicketCode,
		PackageID:   ticket.PackageID,
		EventCode:   ticket.EventCode,
		Status:      ticket.Status,
		AmountCents: ticket.AmountCents,
		Extras:      extras,
	}, nil
}

// RedeemByQR opens a scanned QR payload and checks the code inside it.
func (s *TicketService) RedeemByQR(ctx context.Context, payload string) (RedeemResult, error) {
	if s.QR == nil {
		return RedeemResult{Reason: tickets.ReasonInvalidQR}, tickets.ErrInvalidQR
	}
	claims, err := s.QR.DecryptQRData(strings.TrimSpace(payload))
	if err != nil {
		monitoring.RecordRedeemCheck(tickets.ReasonInvalidQR)
		s.Logger.LogSecurity("QR", fmt.Sprintf("Rejected QR payload: %v", err))
		return RedeemResult{Reason: tickets.ReasonInvalidQR}, err
	}
	return s.RedeemCheck(ctx, claims.TicketCode)
}

// CompleteSession marks the ticket USED and fills in session and image
// values. Values already stored are kept when the new ones are absent.
func (s *TicketService) CompleteSession(ctx context.Context, code string, sessionID, imageURL *string) (*models.Ticket, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, tickets.ErrMissingCode
	}

	existing, err := s.DB.GetTicketByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing.IsUsed() {
		s.Logger.LogTicket("COMPLETE", code, "ticket already used, merging session details")
	}

	ticket, err := s.DB.MarkTicketUsed(ctx, code, blankToNil(sessionID), blankToNil(imageURL))
	if err != nil {
		return nil, err
	}

	monitoring.RecordSessionCompleted()
	s.Logger.LogTicket("COMPLETE", code, "session complete"+kioskSuffix(ctx))
	s.announce(ctx, models.TicketEventUsed, ticket)
	return ticket, nil
}

// TicketRow is one line of the debug listing.
type TicketRow struct {
	models.Ticket
	PackageName   string `json:"package_name"`
	AmountDollars string `json:"amount_dollars"`
}

func (s *TicketService) ListRecent(ctx context.Context, limit int) ([]TicketRow, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	list, err := s.DB.ListRecentTickets(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	rows := make([]TicketRow, 0, len(list))
	for _, t := range list {
		rows = append(rows, TicketRow{
			Ticket:        t,
			PackageName:   s.Catalog.NameOf(t.PackageID),
			AmountDollars: formatDollars(t.AmountCents),
		})
	}
	return rows, nil
}

// announce fans a lifecycle change out to live subscribers and the broker.
// Broker failures are logged only; the store is already committed.
func (s *TicketService) announce(ctx context.Context, eventType string, ticket *models.Ticket) {
	if s.Emitter != nil {
		s.Emitter.Emit(models.NewTicketEventDto(eventType, ticket))
	}
	if s.Publisher == nil {
		return
	}

	var err error
	switch eventType {
	case models.TicketEventIssued:
		err = s.Publisher.PublishTicketIssued(ctx, *ticket)
	case models.TicketEventUsed:
		err = s.Publisher.PublishTicketUsed(ctx, *ticket)
	}
	if err != nil {
		s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish %s for %s: %v", eventType, ticket.TicketCode, err))
	}
}

// kioskSuffix names the Mirror kiosk behind the request, if it authenticated.
func kioskSuffix(ctx context.Context) string {
	if id := auth.KioskID(ctx); id != "" {
		return " by kiosk " + id
	}
	return ""
}

func blankToNil(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}
