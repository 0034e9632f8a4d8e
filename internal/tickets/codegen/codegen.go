package codegen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"instapic-ticketing/internal/tickets"
)

const (
	CodeLength         = 6
	DefaultMaxAttempts = 50
)

var codeSpace = big.NewInt(1_000_000)

// CodeChecker reports whether a code has ever been issued.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

type Generator struct {
	checker     CodeChecker
	maxAttempts int
	draw        func() (int64, error)
}

func NewGenerator(checker CodeChecker, maxAttempts int) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{
		checker:     checker,
		maxAttempts: maxAttempts,
		draw:        randomDraw,
	}
}

// WithDraw replaces the random source. Used by tests to force collisions.
func (g *Generator) WithDraw(draw func() (int64, error)) *Generator {
	g.draw = draw
	return g
}

func (g *Generator) MaxAttempts() int {
	return g.maxAttempts
}

// Generate returns a zero-padded 6-digit code that no ticket has used so far.
// The check is advisory: the store's unique index is what reserves the code.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		code, free, err := g.Draw(ctx)
		if err != nil {
			return "", err
		}
		if free {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", tickets.ErrExhaustedCodeSpace, g.maxAttempts)
}

// Draw makes a single attempt: one random code and one existence check.
// Callers that also retry the insert count each Draw against their own cap.
func (g *Generator) Draw(ctx context.Context) (code string, free bool, err error) {
	n, err := g.draw()
	if err != nil {
		return "", false, fmt.Errorf("failed to draw ticket code: %w", err)
	}
	code = FormatCode(n)

	exists, err := g.checker.CodeExists(ctx, code)
	if err != nil {
		return "", false, fmt.Errorf("failed to check ticket code: %w", err)
	}
	return code, !exists, nil
}

func FormatCode(n int64) string {
	return fmt.Sprintf("%0*d", CodeLength, n)
}

// IsWellFormed reports whether code is exactly six ASCII digits.
func IsWellFormed(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

func randomDraw() (int64, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}
