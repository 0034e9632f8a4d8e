package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TicketStatus string

const (
	TicketStatusIssued TicketStatus = "ISSUED"
	TicketStatusUsed   TicketStatus = "USED"
)

// Ticket is a prepaid photo-package redemption right identified by a 6-digit code.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID              int64        `json:"id" bun:"id,pk,autoincrement"`
	TicketCode      string       `json:"ticket_code" bun:"ticket_code,notnull,unique"`
	PackageID       string       `json:"package_id" bun:"package_id,notnull"`
	EventCode       string       `json:"event_code" bun:"event_code,notnull"`
	AmountCents     int64        `json:"amount_cents" bun:"amount_cents,notnull"`
	Status          TicketStatus `json:"status" bun:"status,notnull"`
	ExternalOrderID *string      `json:"external_order_id" bun:"external_order_id"`
	SessionID       *string      `json:"session_id" bun:"session_id"`
	ImageURL        *string      `json:"image_url" bun:"image_url"`
	CreatedAt       time.Time    `json:"created_at" bun:"created_at,notnull"`
}

func (t *Ticket) IsUsed() bool {
	return t.Status == TicketStatusUsed
}
