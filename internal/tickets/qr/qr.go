package qr

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"instapic-ticketing/internal/models"
	"instapic-ticketing/internal/tickets"

	"github.com/skip2/go-qrcode"
	"golang.org/x/crypto/chacha20poly1305"
)

// Claims is the sealed content of a ticket QR code.
type Claims struct {
	TicketCode string `json:"c"`
	EventCode  string `json:"e"`
}

// QRGenerator seals ticket codes with the site secret so the Mirror can
// redeem by scanning instead of typing.
type QRGenerator struct {
	secret []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:]}
}

// GenerateEncryptedQR renders a PNG QR code of the sealed ticket payload.
func (q *QRGenerator) GenerateEncryptedQR(ticket models.Ticket, size int) ([]byte, error) {
	payload, err := q.Seal(ticket)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(payload, qrcode.Medium, size)
}

func (q *QRGenerator) Seal(ticket models.Ticket) (string, error) {
	data, err := json.Marshal(Claims{TicketCode: ticket.TicketCode, EventCode: ticket.EventCode})
	if err != nil {
		return "", err
	}

	aead, err := chacha20poly1305.NewX(q.secret)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(data)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, data, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// DecryptQRData opens a payload produced by Seal. Any tampering or a payload
// sealed with another secret yields ErrInvalidQR.
func (q *QRGenerator) DecryptQRData(payload string) (Claims, error) {
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", tickets.ErrInvalidQR, err)
	}

	aead, err := chacha20poly1305.NewX(q.secret)
	if err != nil {
		return Claims{}, err
	}
	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return Claims{}, fmt.Errorf("%w: payload too short", tickets.ErrInvalidQR)
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", tickets.ErrInvalidQR, err)
	}

	var claims Claims
	if err := json.Unmarshal(plain, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", tickets.ErrInvalidQR, err)
	}
	return claims, nil
}
