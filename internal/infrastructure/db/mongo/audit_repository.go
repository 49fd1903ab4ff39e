package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAuthEvents)}
}

// InsertAuthEvent appends an event to the auth_events collection.
func (r *AuditRepository) InsertAuthEvent(ctx context.Context, event *domain.AuthEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"kind":  string(event.Kind),
		"email": event.Email,
		"at":    event.At.UTC(),
	}
	if event.Role != "" {
		doc["role"] = event.Role
	}
	if event.RequestID != "" {
		doc["request_id"] = event.RequestID
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
