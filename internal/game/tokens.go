package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Control names which paddles a control token may steer.
type Control string

const (
	ControlLeft  Control = "left"
	ControlRight Control = "right"
	ControlBoth  Control = "both"
)

// Allows reports whether the holder may move the paddle on side.
func (c Control) Allows(side Side) bool {
	return c == ControlBoth || string(c) == string(side)
}

// ControlClaims are carried by a signed match control token.
type ControlClaims struct {
	Match   string  `json:"match"`
	Control Control `json:"control"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies match control tokens (HS256).
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token granting control over a match.
func (ti *TokenIssuer) Issue(matchToken string, control Control) (string, error) {
	now := time.Now()
	claims := ControlClaims{
		Match:   matchToken,
		Control: control,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign control token: %w", err)
	}
	return signed, nil
}

// IssueAll returns left, right and both-sides tokens for a match.
func (ti *TokenIssuer) IssueAll(matchToken string) (map[Control]string, error) {
	out := make(map[Control]string, 3)
	for _, c := range []Control{ControlLeft, ControlRight, ControlBoth} {
		tok, err := ti.Issue(matchToken, c)
		if err != nil {
			return nil, err
		}
		out[c] = tok
	}
	return out, nil
}

// Parse verifies a control token and returns its claims.
func (ti *TokenIssuer) Parse(tokenString string) (*ControlClaims, error) {
	claims := &ControlClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return ti.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid control token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid control token")
	}
	switch claims.Control {
	case ControlLeft, ControlRight, ControlBoth:
	default:
		return nil, fmt.Errorf("invalid control %q", claims.Control)
	}
	return claims, nil
}

// generateMatchToken generates a unique hosted match token
func generateMatchToken() string {
	return "match_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}
