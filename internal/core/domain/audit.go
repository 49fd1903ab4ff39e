package domain

import "time"

// AuthEventKind identifies what happened in an authentication attempt.
type AuthEventKind string

const (
	AuthEventRegister     AuthEventKind = "register"
	AuthEventLoginSuccess AuthEventKind = "login_success"
	AuthEventLoginFailure AuthEventKind = "login_failure"
)

// AuthEvent is an entry in the authentication audit trail.
type AuthEvent struct {
	Kind      AuthEventKind
	Email     string
	Role      string
	RequestID string
	At        time.Time
}
