package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/infrastructure/security"
)

const testSecret = "test-secret-with-at-least-32-bytes!!"

// ---------------------------------------------------------------------------
// In-memory user store. Create enforces email uniqueness under a lock, like
// the unique index on the real collection.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	nextID  int
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err == domain.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%d", r.nextID)
	r.byID[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, u := range r.byID {
		if id != user.ID && u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.byID[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, roleID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.byID {
		if u.Role.ID == roleID {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) SyncRoleRef(_ context.Context, ref domain.RoleRef) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.byID {
		if u.Role.ID == ref.ID {
			u.Role = ref
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// In-memory role store.
// ---------------------------------------------------------------------------

type stubRoleRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Role
	nextID    int
	findCalls int
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{byID: make(map[string]*domain.Role)}
}

func cloneRole(r *domain.Role) *domain.Role {
	clone := *r
	return &clone
}

func (r *stubRoleRepo) List(_ context.Context) ([]*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Role, 0, len(r.byID))
	for _, role := range r.byID {
		out = append(out, cloneRole(role))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return cloneRole(role), nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	for _, role := range r.byID {
		if role.Name == name {
			return cloneRole(role), nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, role := range r.byID {
		if role.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Name == role.Name {
			return nil, domain.ErrRoleExists
		}
	}
	r.nextID++
	created := cloneRole(role)
	created.ID = fmt.Sprintf("r%d", r.nextID)
	r.byID[created.ID] = cloneRole(created)
	return created, nil
}

func (r *stubRoleRepo) Update(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[role.ID]; !ok {
		return nil, domain.ErrRoleNotFound
	}
	r.byID[role.ID] = cloneRole(role)
	return cloneRole(role), nil
}

func (r *stubRoleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Role cache and audit sink stubs.
// ---------------------------------------------------------------------------

type stubRoleCache struct {
	mu          sync.Mutex
	roles       map[string]*domain.Role
	invalidated []string
}

func newStubRoleCache() *stubRoleCache {
	return &stubRoleCache{roles: make(map[string]*domain.Role)}
}

func (c *stubRoleCache) Get(_ context.Context, name string) (*domain.Role, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	role, ok := c.roles[name]
	if !ok {
		return nil, false, nil
	}
	return cloneRole(role), true, nil
}

func (c *stubRoleCache) Set(_ context.Context, role *domain.Role) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles[role.Name] = cloneRole(role)
	return nil
}

func (c *stubRoleCache) Invalidate(_ context.Context, names ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range names {
		delete(c.roles, n)
		c.invalidated = append(c.invalidated, n)
	}
	return nil
}

type stubAudit struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (a *stubAudit) Enqueue(e domain.AuthEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *stubAudit) kinds() []domain.AuthEventKind {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuthEventKind, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Kind)
	}
	return out
}

// ---------------------------------------------------------------------------
// Fixture: an AuthService over seeded roles, cheap bcrypt and a real codec.
// ---------------------------------------------------------------------------

type authFixture struct {
	svc      *AuthService
	users    *stubUserRepo
	roles    *RoleService
	roleRepo *stubRoleRepo
	codec    *security.TokenCodec
	audit    *stubAudit
	clock    *time.Time
	hasher   *security.BcryptHasher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f := &authFixture{
		users:  newStubUserRepo(),
		audit:  &stubAudit{},
		clock:  &now,
		hasher: security.NewBcryptHasher(bcrypt.MinCost),
	}
	f.roleRepo = newStubRoleRepo()
	f.roles = NewRoleService(f.roleRepo, f.users, nil, zerolog.Nop())
	if _, err := f.roles.InitializeRoles(context.Background()); err != nil {
		t.Fatalf("seed roles: %v", err)
	}

	codec, err := security.NewTokenCodec(testSecret, security.DefaultTokenTTL, security.WithClock(func() time.Time { return *f.clock }))
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	f.codec = codec

	svc, err := NewAuthService(f.users, f.roles, f.hasher, codec, f.audit, zerolog.Nop())
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	f.svc = svc
	return f
}
