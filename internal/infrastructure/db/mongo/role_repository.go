package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/turismo/turismo-api/internal/core/domain"
)

// RoleRepository implements ports.RoleRepository using MongoDB. Permissions
// are embedded in the role document.
type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

type roleDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Permissions []permissionDoc    `bson:"permissions"`
}

type permissionDoc struct {
	ID          string `bson:"id,omitempty"`
	Name        string `bson:"name"`
	Title       string `bson:"title,omitempty"`
	Description string `bson:"description,omitempty"`
}

func toRoleDoc(r *domain.Role) roleDoc {
	perms := make([]permissionDoc, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, permissionDoc(p))
	}
	return roleDoc{
		Name:        r.Name,
		Title:       r.Title,
		Description: r.Description,
		Permissions: perms,
	}
}

func (d *roleDoc) toDomain() *domain.Role {
	perms := make([]domain.Permission, 0, len(d.Permissions))
	for _, p := range d.Permissions {
		perms = append(perms, domain.Permission(p))
	}
	return &domain.Role{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Title:       d.Title,
		Description: d.Description,
		Permissions: perms,
	}
}

func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []roleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	roles := make([]*domain.Role, 0, len(docs))
	for i := range docs {
		roles = append(roles, docs[i].toDomain())
	}
	return roles, nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	oid, err := objectID(id, domain.ErrRoleNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *RoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"name": name}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count roles: %w", err)
	}
	return n > 0, nil
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toRoleDoc(role)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRoleExists
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	oid, err := objectID(role.ID, domain.ErrRoleNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toRoleDoc(role)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRoleExists
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrRoleNotFound
	}

	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrRoleNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

func (r *RoleRepository) findOne(ctx context.Context, filter bson.M) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return doc.toDomain(), nil
}
