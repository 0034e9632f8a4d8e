package models

// TicketCount is one row of the per-event, per-status ticket summary.
type TicketCount struct {
	EventCode string       `json:"event_code" bun:"event_code"`
	Status    TicketStatus `json:"status" bun:"status"`
	Count     int          `json:"count" bun:"count"`
}
