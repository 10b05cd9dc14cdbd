package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession      = errors.New("no_session")
	ErrMalformedToken = errors.New("malformed_token")
)

// tokenPayload mirrors the payload segment as issued by the API.
type tokenPayload struct {
	Subject    string      `json:"sub"`
	FullName   string      `json:"FullName"`
	UniqueName string      `json:"unique_name"`
	Role       RoleClaim   `json:"role"`
	ExpiresAt  json.Number `json:"exp"`
}

// Decoder reads the claims out of a bearer token WITHOUT verifying its
// signature. The browser never holds the signing key; the API re-verifies
// the token on every request, so claims only drive navigation.
type Decoder struct {
	parser *jwt.Parser
}

func NewDecoder() *Decoder {
	return &Decoder{parser: jwt.NewParser()}
}

// Decode fails with ErrMalformedToken when the input is not three
// dot-separated segments or the payload is not base64url JSON.
// Header, signature and expiry are not checked here.
func (d *Decoder) Decode(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: token has %d segments", ErrMalformedToken, len(parts))
	}

	raw, err := d.parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrMalformedToken, err)
	}

	var p tokenPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: payload json: %v", ErrMalformedToken, err)
	}

	claims := &Claims{
		Subject:    p.Subject,
		FullName:   p.FullName,
		UniqueName: p.UniqueName,
		Role:       p.Role,
	}
	// exp keeps its fraction; issuers are not bound to whole seconds
	if p.ExpiresAt != "" {
		exp, err := p.ExpiresAt.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: exp: %v", ErrMalformedToken, err)
		}
		claims.ExpiresAt = exp
	}
	return claims, nil
}
