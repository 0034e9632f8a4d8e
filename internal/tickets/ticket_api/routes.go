package ticket_api

import (
	"net/http"

	"instapic-ticketing/internal/ratelimit"

	"github.com/go-chi/chi/v5"
)

// RouteOptions carries the optional middleware for the public routes.
type RouteOptions struct {
	// Limiter throttles the endpoints that take a guessable code. Nil disables it.
	Limiter *ratelimit.Limiter
	// MirrorAuth guards the kiosk endpoints. Nil leaves them open.
	MirrorAuth func(http.Handler) http.Handler
}

func (h *Handler) Routes(r chi.Router, opts RouteOptions) {
	limit := func(scope string) func(http.Handler) http.Handler {
		if opts.Limiter == nil {
			return passthrough
		}
		return opts.Limiter.Middleware(scope)
	}
	mirror := opts.MirrorAuth
	if mirror == nil {
		mirror = passthrough
	}

	r.Get("/health", h.Health)

	r.Post("/payment/dev-complete", h.DevComplete)
	r.Get("/payment/complete", h.PaymentComplete)

	r.Get("/api/packages", h.ListPackages)
	r.Get("/api/packages/{packageID}/checkout", h.Checkout)

	r.With(limit("lookup")).Get("/api/tickets/{ticketCode}", h.ViewTicket)
	r.With(limit("lookup")).Post("/code", h.EnterCode)
	r.With(limit("lookup")).Get("/ticket/{ticketCode}/qr.png", h.TicketQR)
	r.With(limit("lookup")).Get("/ticket/{ticketCode}/ticket.pdf", h.TicketPDF)
	r.With(limit("lookup")).Get("/ticket/{ticketCode}/events", h.TicketEvents)

	r.Group(func(r chi.Router) {
		r.Use(mirror)
		r.Post("/api/redeem", h.Redeem)
		r.Post("/api/session-complete", h.SessionComplete)
	})

	r.Get("/debug/tickets", h.DebugTickets)
	r.Get("/debug/tickets/count", h.GetTotalTicketsCount)
	r.Get("/debug/tickets/summary", h.Summary)
}

func passthrough(next http.Handler) http.Handler {
	return next
}
