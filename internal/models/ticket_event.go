package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TicketEventIssued = "ticket.issued"
	TicketEventUsed   = "ticket.used"
	// sent once when a status stream opens
	TicketEventStatus = "ticket.status"
)

// TicketEventDto is the payload published to the ticket topics and pushed to
// status-stream subscribers.
type TicketEventDto struct {
	MessageID   string       `json:"message_id"`
	Type        string       `json:"type"`
	TicketCode  string       `json:"ticket_code"`
	PackageID   string       `json:"package_id"`
	EventCode   string       `json:"event_code"`
	Status      TicketStatus `json:"status"`
	AmountCents int64        `json:"amount_cents"`
	SessionID   *string      `json:"session_id,omitempty"`
	ImageURL    *string      `json:"image_url,omitempty"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

func NewTicketEventDto(eventType string, ticket *Ticket) TicketEventDto {
	return TicketEventDto{
		MessageID:   uuid.NewString(),
		Type:        eventType,
		TicketCode:  ticket.TicketCode,
		PackageID:   ticket.PackageID,
		EventCode:   ticket.EventCode,
		Status:      ticket.Status,
		AmountCents: ticket.AmountCents,
		SessionID:   ticket.SessionID,
		ImageURL:    ticket.ImageURL,
		OccurredAt:  time.Now().UTC(),
	}
}
