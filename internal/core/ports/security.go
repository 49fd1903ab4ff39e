package ports

import "time"

// PasswordHasher produces and checks salted adaptive password hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. A mismatch is not an error.
	Verify(plaintext, hash string) bool
}

// TokenClaims is the closed set of claims carried by a session token.
type TokenClaims struct {
	ID        string
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec issues and inspects signed session tokens.
type TokenCodec interface {
	Issue(subject, role string) (string, error)
	Decode(token string) (*TokenClaims, error)
	IsValid(token string) bool
	Subject(token string) (string, bool)
	RoleClaim(token string) (string, bool)
}
