package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/turismo/turismo-api/internal/core/ports"
)

const (
	// DefaultTokenTTL is the lifetime of a session token.
	DefaultTokenTTL = 7 * 24 * time.Hour
	// MinSecretLength is the shortest accepted HMAC secret, in bytes.
	MinSecretLength = 32
)

var (
	ErrSecretTooShort  = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)
	ErrTokenMalformed  = errors.New("token malformed")
	ErrTokenSignature  = errors.New("token signature invalid")
	ErrTokenNoExpiry   = errors.New("token has no expiration")
	ErrTokenNoIdentity = errors.New("token has no subject")
)

// sessionClaims is the wire form of ports.TokenClaims.
type sessionClaims struct {
	Role string `json:"rol"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 session tokens. It holds no mutable
// state after construction and is safe for concurrent use.
type TokenCodec struct {
	key    []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// Option customises a TokenCodec.
type Option func(*TokenCodec)

// WithClock replaces the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec builds a codec for secret. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewTokenCodec(secret string, ttl time.Duration, opts ...Option) (*TokenCodec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	c := &TokenCodec{
		key: []byte(secret),
		ttl: ttl,
		now: time.Now,
		// Expiry is evaluated by IsValid against c.now, not by the parser.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL reports the lifetime given to issued tokens.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

func (c *TokenCodec) Issue(subject, role string) (string, error) {
	now := c.now()
	claims := sessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (c *TokenCodec) Decode(token string) (*ports.TokenClaims, error) {
	var claims sessionClaims
	if _, err := c.parser.ParseWithClaims(token, &claims, c.keyFunc); err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrTokenUnverifiable) {
			return nil, fmt.Errorf("%w: %v", ErrTokenSignature, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if claims.ExpiresAt == nil {
		return nil, ErrTokenNoExpiry
	}
	if claims.Subject == "" {
		return nil, ErrTokenNoIdentity
	}

	out := &ports.TokenClaims{
		ID:        claims.ID,
		Subject:   claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

func (c *TokenCodec) IsValid(token string) bool {
	claims, err := c.Decode(token)
	if err != nil {
		return false
	}
	return claims.ExpiresAt.After(c.now())
}

func (c *TokenCodec) Subject(token string) (string, bool) {
	claims, err := c.Decode(token)
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}

func (c *TokenCodec) RoleClaim(token string) (string, bool) {
	claims, err := c.Decode(token)
	if err != nil || claims.Role == "" {
		return "", false
	}
	return claims.Role, true
}

func (c *TokenCodec) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return c.key, nil
}
