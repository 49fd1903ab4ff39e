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

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(collectionReviews)}
}

type reviewDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	EmprendedorID string             `bson:"emprendedor_id"`
	AuthorName    string             `bson:"author_name"`
	AuthorEmail   string             `bson:"author_email,omitempty"`
	Comment       string             `bson:"comment"`
	Rating        int                `bson:"rating"`
	Images        []string           `bson:"images,omitempty"`
	Status        string             `bson:"status"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d *reviewDoc) toDomain() *domain.Review {
	return &domain.Review{
		ID:            d.ID.Hex(),
		EmprendedorID: d.EmprendedorID,
		AuthorName:    d.AuthorName,
		AuthorEmail:   d.AuthorEmail,
		Comment:       d.Comment,
		Rating:        d.Rating,
		Images:        d.Images,
		Status:        domain.ReviewStatus(d.Status),
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

// ListByEmprendedor returns the reviews of one emprendedor, newest first.
func (r *ReviewRepository) ListByEmprendedor(ctx context.Context, emprendedorID string) ([]*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"emprendedor_id": emprendedorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer cur.Close(ctx)

	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	out := make([]*domain.Review, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := reviewDoc{
		EmprendedorID: rv.EmprendedorID,
		AuthorName:    rv.AuthorName,
		AuthorEmail:   rv.AuthorEmail,
		Comment:       rv.Comment,
		Rating:        rv.Rating,
		Images:        rv.Images,
		Status:        string(rv.Status),
		CreatedAt:     rv.CreatedAt.UTC(),
		UpdatedAt:     rv.UpdatedAt.UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ReviewRepository) UpdateStatus(ctx context.Context, emprendedorID, id string, status domain.ReviewStatus, at time.Time) (*domain.Review, error) {
	oid, err := objectID(id, domain.ErrReviewNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc reviewDoc
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "emprendedor_id": emprendedorID},
		bson.M{"$set": bson.M{"status": string(status), "updated_at": at.UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("update review status: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, emprendedorID, id string) error {
	oid, err := objectID(id, domain.ErrReviewNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "emprendedor_id": emprendedorID})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}
