package ticket_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"instapic-ticketing/internal/catalog"
	"instapic-ticketing/internal/logger"
	"instapic-ticketing/internal/models"
	"instapic-ticketing/internal/payment"
	"instapic-ticketing/internal/tickets"
	"instapic-ticketing/internal/tickets/service"
	"instapic-ticketing/internal/tickets/template"
	"instapic-ticketing/internal/utils"

	"github.com/go-chi/chi/v5"
)

const defaultQRSize = 256

type Handler struct {
	TicketService *service.TicketService
	CheckoutURLs  payment.CheckoutURLs
	Logger        *logger.Logger
	// Vouchers renders printable tickets. Nil disables the PDF route.
	Vouchers *template.TicketPDFGenerator
}

// NewHandler creates a new Handler instance
func NewHandler(ticketService *service.TicketService, checkout payment.CheckoutURLs, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		TicketService: ticketService,
		CheckoutURLs:  checkout,
		Logger:        log,
	}
}

// DevComplete issues a ticket without payment.
// Accepts {"package_id": "..."} or a form field package_id.
func (h *Handler) DevComplete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PackageID string `json:"package_id"`
	}
	if err := decodeBody(r, &req, "package_id", &req.PackageID); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body", "invalid_body")
		return
	}

	ticket, err := h.TicketService.IssueDev(r.Context(), req.PackageID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, ticket)
}

// PaymentComplete is where the payment provider sends the attendee back.
func (h *Handler) PaymentComplete(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order_id")
	if orderID == "" {
		orderID = r.URL.Query().Get("sq_order_id")
	}

	ticket, err := h.TicketService.IssueFromPayment(r.Context(), orderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, ticket)
}

func (h *Handler) ViewTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.TicketService.GetTicket(r.Context(), chi.URLParam(r, "ticketCode"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ticket)
}

// EnterCode backs the attendee "enter your code" page.
func (h *Handler) EnterCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TicketCode string `json:"ticket_code"`
	}
	if err := decodeBody(r, &req, "ticket_code", &req.TicketCode); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body", "invalid_body")
		return
	}

	lookup, err := h.TicketService.LookupTicket(r.Context(), req.TicketCode)
	if errors.Is(err, tickets.ErrTicketNotFound) {
		utils.WriteError(w, http.StatusNotFound, "We can't find that code. Check it and try again.", tickets.ReasonUnknownCode)
		return
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, lookup)
}

func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	if h.TicketService.QR == nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "QR codes are not enabled", "qr_disabled")
		return
	}

	ticket, err := h.TicketService.GetTicket(r.Context(), chi.URLParam(r, "ticketCode"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	size := defaultQRSize
	if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && v >= 64 && v <= 1024 {
		size = v
	}

	png, err := h.TicketService.QR.GenerateEncryptedQR(*ticket, size)
	if err != nil {
		h.Logger.Error("QR", fmt.Sprintf("Failed to render QR for %s: %v", ticket.TicketCode, err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to render QR code", "internal")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// TicketPDF serves a printable voucher with the code and its QR.
func (h *Handler) TicketPDF(w http.ResponseWriter, r *http.Request) {
	if h.Vouchers == nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "Printable tickets are not enabled", "pdf_disabled")
		return
	}

	lookup, err := h.TicketService.LookupTicket(r.Context(), chi.URLParam(r, "ticketCode"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	var qrPNG []byte
	if h.TicketService.QR != nil {
		qrPNG, err = h.TicketService.QR.GenerateEncryptedQR(*lookup.Ticket, defaultQRSize)
		if err != nil {
			h.Logger.Warn("PDF", fmt.Sprintf("Rendering %s without QR: %v", lookup.Ticket.TicketCode, err))
			qrPNG = nil
		}
	}

	pdf, err := h.Vouchers.Generate(*lookup.Ticket, lookup.Package, qrPNG)
	if err != nil {
		h.Logger.Error("PDF", fmt.Sprintf("Failed to render ticket %s: %v", lookup.Ticket.TicketCode, err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to render ticket", "internal")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"ticket-%s.pdf\"", lookup.Ticket.TicketCode))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

type redeemRequest struct {
	TicketCode string `json:"ticket_code"`
	QRPayload  string `json:"qr_payload"`
}

// Redeem lets the Mirror check a typed code or a scanned QR payload.
func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	// an unreadable body is treated as an empty one
	_ = json.NewDecoder(r.Body).Decode(&req)

	var (
		result service.RedeemResult
		err    error
	)
	if strings.TrimSpace(req.QRPayload) != "" {
		result, err = h.TicketService.RedeemByQR(r.Context(), req.QRPayload)
	} else {
		result, err = h.TicketService.RedeemCheck(r.Context(), req.TicketCode)
	}

	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusOK, result)
	case errors.Is(err, tickets.ErrMissingCode), errors.Is(err, tickets.ErrInvalidQR):
		utils.WriteJSON(w, http.StatusBadRequest, result)
	case errors.Is(err, tickets.ErrTicketNotFound):
		utils.WriteJSON(w, http.StatusNotFound, result)
	default:
		h.writeServiceError(w, err)
	}
}

type sessionCompleteRequest struct {
	TicketCode string  `json:"ticket_code"`
	SessionID  *string `json:"session_id"`
	ImageURL   *string `json:"image_url"`
}

type sessionCompleteResponse struct {
	OK     bool                `json:"ok"`
	Status models.TicketStatus `json:"status,omitempty"`
	Reason string              `json:"reason,omitempty"`
}

// SessionComplete is called by the Mirror once photos are ready.
func (h *Handler) SessionComplete(w http.ResponseWriter, r *http.Request) {
	var req sessionCompleteRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	ticket, err := h.TicketService.CompleteSession(r.Context(), req.TicketCode, req.SessionID, req.ImageURL)
	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusOK, sessionCompleteResponse{OK: true, Status: ticket.Status})
	case errors.Is(err, tickets.ErrMissingCode):
		utils.WriteJSON(w, http.StatusBadRequest, sessionCompleteResponse{Reason: tickets.ReasonMissingCode})
	case errors.Is(err, tickets.ErrTicketNotFound):
		utils.WriteJSON(w, http.StatusNotFound, sessionCompleteResponse{Reason: tickets.ReasonUnknownCode})
	default:
		h.writeServiceError(w, err)
	}
}

// DebugTickets lists recent tickets. A bad or missing limit means the default.
func (h *Handler) DebugTickets(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = service.DefaultListLimit
	}

	rows, err := h.TicketService.ListRecent(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"limit":   limit,
		"tickets": rows,
	})
}

func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string][]catalog.Package{
		"packages": h.TicketService.Catalog.All(),
	})
}

// Checkout sends the attendee to the hosted checkout page of a package.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	packageID := chi.URLParam(r, "packageID")
	if _, ok := h.TicketService.Catalog.Get(packageID); !ok {
		utils.WriteError(w, http.StatusNotFound, "Unknown package", "unknown_package")
		return
	}

	url, ok := h.CheckoutURLs.CheckoutURL(packageID)
	if !ok {
		utils.WriteError(w, http.StatusNotFound, "Online checkout is not available for this package yet", "checkout_unavailable")
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeServiceError maps the ticket error taxonomy to HTTP responses. Anything
// unexpected is logged and reported as a generic 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tickets.ErrUnknownPackage):
		utils.WriteError(w, http.StatusBadRequest, "Unknown package.", "unknown_package")
	case errors.Is(err, tickets.ErrMissingOrderID):
		utils.WriteError(w, http.StatusBadRequest, "Payment information missing. Ask the attendant for help.", "missing_order_id")
	case errors.Is(err, tickets.ErrPaymentUnverified):
		utils.WriteError(w, http.StatusPaymentRequired, "Payment could not be confirmed yet. Ask the attendant for help.", "payment_unverified")
	case errors.Is(err, tickets.ErrMissingCode):
		utils.WriteError(w, http.StatusBadRequest, "Please enter your ticket code.", tickets.ReasonMissingCode)
	case errors.Is(err, tickets.ErrTicketNotFound):
		utils.WriteError(w, http.StatusNotFound, "Ticket not found", tickets.ReasonUnknownCode)
	case errors.Is(err, tickets.ErrInvalidQR):
		utils.WriteError(w, http.StatusBadRequest, "Invalid QR code", tickets.ReasonInvalidQR)
	default:
		h.Logger.Error("API", fmt.Sprintf("Request failed: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Something went wrong. Please try again.", "internal")
	}
}

// decodeBody reads JSON bodies into v and falls back to a single form field
// for HTML form posts.
func decodeBody(r *http.Request, v interface{}, field string, dst *string) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return json.NewDecoder(r.Body).Decode(v)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	*dst = r.PostFormValue(field)
	return nil
}
