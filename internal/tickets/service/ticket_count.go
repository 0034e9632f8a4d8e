package service

import (
	"context"
	"fmt"

	"instapic-ticketing/internal/models"

	"github.com/shopspring/decimal"
)

// TicketSummary backs the admin dashboard counters.
type TicketSummary struct {
	Total   int                  `json:"total"`
	ByEvent []models.TicketCount `json:"by_event"`
}

// GetTotalTicketsCount returns the total count of tickets
func (s *TicketService) GetTotalTicketsCount(ctx context.Context) (int, error) {
	return s.DB.GetTotalTicketsCount(ctx)
}

func (s *TicketService) Summary(ctx context.Context) (*TicketSummary, error) {
	total, err := s.DB.GetTotalTicketsCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}
	byEvent, err := s.DB.CountTicketsByEvent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets by event: %w", err)
	}
	return &TicketSummary{Total: total, ByEvent: byEvent}, nil
}

func formatDollars(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
