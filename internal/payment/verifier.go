package payment

import (
	"context"
	"strings"
)

// Verification is what a confirmed external order tells us about the ticket
// to issue. EventCode may be empty; the caller falls back to the default.
type Verification struct {
	PackageID   string
	AmountCents int64
	EventCode   string
}

// Verifier confirms an external order. A nil Verification with a nil error
// means the integration cannot verify orders (e.g. it is not configured).
type Verifier interface {
	Verify(ctx context.Context, orderID string) (*Verification, error)
}

// Unconfigured is the default verifier: every order is unverifiable.
type Unconfigured struct{}

func (Unconfigured) Verify(ctx context.Context, orderID string) (*Verification, error) {
	return nil, nil
}

// CheckoutURLs maps package ids to hosted checkout pages.
type CheckoutURLs map[string]string

// CheckoutURL returns the hosted checkout page for a package, if any.
func (c CheckoutURLs) CheckoutURL(packageID string) (string, bool) {
	url := strings.TrimSpace(c[packageID])
	return url, url != ""
}
