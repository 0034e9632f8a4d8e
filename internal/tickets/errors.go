// Package tickets holds the error taxonomy shared by the code generator, the
// ticket store and the ticket service. Handlers map these to transport
// responses with errors.Is.
package tickets

import "errors"

var (
	ErrUnknownPackage     = errors.New("unknown package")
	ErrPaymentUnverified  = errors.New("payment could not be verified")
	ErrDuplicateCode      = errors.New("ticket code already exists")
	ErrExhaustedCodeSpace = errors.New("no free ticket code found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrMissingCode        = errors.New("ticket code is required")
	ErrMissingOrderID     = errors.New("order id is required")
	ErrInvalidQR          = errors.New("invalid QR payload")
)

// Reason codes returned to the Mirror kiosk.
const (
	ReasonMissingCode = "missing_code"
	ReasonUnknownCode = "unknown_code"
	ReasonInvalidQR   = "invalid_qr"
)
