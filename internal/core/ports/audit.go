package ports

import (
	"context"

	"github.com/turismo/turismo-api/internal/core/domain"
)

// AuditRepository appends entries to the authentication audit trail.
type AuditRepository interface {
	InsertAuthEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditSink accepts audit events without blocking the caller on persistence.
type AuditSink interface {
	Enqueue(event domain.AuthEvent)
}
