package ticket_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"instapic-ticketing/internal/models"
	"instapic-ticketing/internal/utils"

	"github.com/go-chi/chi/v5"
)

// TicketEvents streams status changes of one ticket, starting with its
// current state, so the attendee page updates when the photos are ready.
func (h *Handler) TicketEvents(w http.ResponseWriter, r *http.Request) {
	emitter := h.TicketService.Emitter
	if emitter == nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "Live updates are not enabled", "sse_disabled")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.WriteError(w, http.StatusInternalServerError, "Streaming unsupported", "internal")
		return
	}

	ticket, err := h.TicketService.GetTicket(r.Context(), chi.URLParam(r, "ticketCode"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	ctx := r.Context()
	events := emitter.Subscribe(ctx, ticket.TicketCode)

	setupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	h.writeEvent(w, models.NewTicketEventDto(models.TicketEventStatus, ticket))
	flusher.Flush()

	h.Logger.Debug("SSE", fmt.Sprintf("Client subscribed to ticket %s", ticket.TicketCode))

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			h.writeEvent(w, event)
			flusher.Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client left ticket %s", ticket.TicketCode))
			return
		}
	}
}

func (h *Handler) writeEvent(w http.ResponseWriter, event models.TicketEventDto) {
	jsonData, err := json.Marshal(event)
	if err != nil {
		h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize ticket event: %v", err))
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, jsonData)
}

func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}

