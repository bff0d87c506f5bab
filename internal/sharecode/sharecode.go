// Package sharecode encodes and decodes the time-limited invitation tokens
// that let a user join somebody else's shopping list, usually by scanning
// a QR code. A code only carries intent: membership is still checked when
// the invitation is redeemed.
package sharecode

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Houeta/pricewatch/internal/models"
	"github.com/google/uuid"
)

// DefaultTTL is how long a share code stays valid after it was issued.
const DefaultTTL = 24 * time.Hour

// maxClockSkew tolerates codes minted on a device whose clock runs slightly ahead.
const maxClockSkew = 5 * time.Minute

var (
	ErrEmptyListID   = errors.New("share code: list id is empty")
	ErrMalformedCode = errors.New("share code: malformed")
	ErrExpiredCode   = errors.New("share code: expired")
)

// payload is the compact wire form of an invitation.
type payload struct {
	ListID   string `json:"l"`
	IssuedAt int64  `json:"t"`
	Nonce    string `json:"n"`
}

// Codec turns invitations into share codes and back.
type Codec struct {
	ttl   time.Duration
	now   func() time.Time
	nonce func() string
}

// NewCodec creates a Codec whose codes expire after ttl. A non-positive ttl
// falls back to DefaultTTL.
func NewCodec(ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{ttl: ttl, now: time.Now, nonce: uuid.NewString}
}

// Encode issues a fresh invitation for listID and returns its share code.
func (c *Codec) Encode(listID string) (string, error) {
	if strings.TrimSpace(listID) == "" {
		return "", ErrEmptyListID
	}

	return c.Marshal(models.ShareInvitation{
		ListID:   listID,
		IssuedAt: c.now(),
		Nonce:    c.nonce(),
	})
}

// Marshal serialises an explicit invitation without touching its timestamp.
func (c *Codec) Marshal(inv models.ShareInvitation) (string, error) {
	if strings.TrimSpace(inv.ListID) == "" {
		return "", ErrEmptyListID
	}

	raw, err := json.Marshal(payload{
		ListID:   inv.ListID,
		IssuedAt: inv.IssuedAt.UnixMilli(),
		Nonce:    inv.Nonce,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal share invitation: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode parses a share code. Any input that is not a well-formed code
// yields ErrMalformedCode and a code older than the TTL yields
// ErrExpiredCode; in both cases the invitation is nil.
func (c *Codec) Decode(code string) (*models.ShareInvitation, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(code))
	if err != nil {
		return nil, ErrMalformedCode
	}

	var p payload
	if err = json.Unmarshal(raw, &p); err != nil {
		return nil, ErrMalformedCode
	}

	if strings.TrimSpace(p.ListID) == "" || p.Nonce == "" || p.IssuedAt <= 0 {
		return nil, ErrMalformedCode
	}

	inv := &models.ShareInvitation{
		ListID:   p.ListID,
		IssuedAt: time.UnixMilli(p.IssuedAt),
		Nonce:    p.Nonce,
	}

	age := inv.Age(c.now())
	if age < -maxClockSkew {
		return nil, ErrMalformedCode
	}
	if age > c.ttl {
		return nil, ErrExpiredCode
	}

	return inv, nil
}
