package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/turismo/turismo-api/internal/core/domain"
)

type EmprendedorRepository struct {
	col *mongo.Collection
}

func NewEmprendedorRepository(db *mongo.Database) *EmprendedorRepository {
	return &EmprendedorRepository{col: db.Collection(collectionEmprendedores)}
}

type emprendedorDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Category    string             `bson:"category,omitempty"`
	Location    string             `bson:"location,omitempty"`
	Phone       string             `bson:"phone,omitempty"`
	Email       string             `bson:"email,omitempty"`
	OwnerEmail  string             `bson:"owner_email"`
	Active      bool               `bson:"active"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toEmprendedorDoc(e *domain.Emprendedor) emprendedorDoc {
	return emprendedorDoc{
		Name:        e.Name,
		Description: e.Description,
		Category:    e.Category,
		Location:    e.Location,
		Phone:       e.Phone,
		Email:       e.Email,
		OwnerEmail:  e.OwnerEmail,
		Active:      e.Active,
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
	}
}

func (d *emprendedorDoc) toDomain() *domain.Emprendedor {
	return &domain.Emprendedor{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Location:    d.Location,
		Phone:       d.Phone,
		Email:       d.Email,
		OwnerEmail:  d.OwnerEmail,
		Active:      d.Active,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// ListActive returns active emprendedores ordered by name.
func (r *EmprendedorRepository) ListActive(ctx context.Context) ([]*domain.Emprendedor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"active": true}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list emprendedores: %w", err)
	}
	defer cur.Close(ctx)

	var docs []emprendedorDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode emprendedores: %w", err)
	}
	out := make([]*domain.Emprendedor, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *EmprendedorRepository) FindByID(ctx context.Context, id string) (*domain.Emprendedor, error) {
	oid, err := objectID(id, domain.ErrEmprendedorNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc emprendedorDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEmprendedorNotFound
		}
		return nil, fmt.Errorf("find emprendedor: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EmprendedorRepository) Exists(ctx context.Context, id string) (bool, error) {
	oid, err := objectID(id, domain.ErrEmprendedorNotFound)
	if err != nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count emprendedores: %w", err)
	}
	return n > 0, nil
}

func (r *EmprendedorRepository) Create(ctx context.Context, e *domain.Emprendedor) (*domain.Emprendedor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toEmprendedorDoc(e)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert emprendedor: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *EmprendedorRepository) Update(ctx context.Context, e *domain.Emprendedor) (*domain.Emprendedor, error) {
	oid, err := objectID(e.ID, domain.ErrEmprendedorNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toEmprendedorDoc(e)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, fmt.Errorf("update emprendedor: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrEmprendedorNotFound
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *EmprendedorRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrEmprendedorNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete emprendedor: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEmprendedorNotFound
	}
	return nil
}
