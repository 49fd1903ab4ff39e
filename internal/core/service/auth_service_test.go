package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

func validRegister(email string) ports.RegisterInput {
	return ports.RegisterInput{
		Email:       email,
		Password:    "pass123",
		DisplayName: "Ana",
		Surname:     "Quispe",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture(t)

	res, err := f.svc.Register(context.Background(), validRegister("ana@example.com"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
	if res.User.PasswordHash != "" {
		t.Fatalf("expected redacted user, got hash %q", res.User.PasswordHash)
	}
	if res.User.Role.Name != domain.RoleRegular {
		t.Fatalf("expected default role regular, got %q", res.User.Role.Name)
	}
	if res.RoleTitle != "Regular User" {
		t.Fatalf("unexpected role title %q", res.RoleTitle)
	}
	if !strings.Contains(res.Message, "Ana") {
		t.Fatalf("unexpected message %q", res.Message)
	}

	stored, _ := f.users.FindByEmail(context.Background(), "ana@example.com")
	if stored.PasswordHash == "pass123" || !f.hasher.Verify("pass123", stored.PasswordHash) {
		t.Fatalf("expected stored password to be a matching hash")
	}
	if !stored.Active {
		t.Fatalf("expected new user to be active")
	}
}

func TestAuthService_Register_ExplicitRole(t *testing.T) {
	f := newAuthFixture(t)
	in := validRegister("emp@example.com")
	in.Role = domain.RoleEmprendedor

	res, err := f.svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if role, _ := f.codec.RoleClaim(res.Token); role != domain.RoleEmprendedor {
		t.Fatalf("expected emprendedor claim, got %q", role)
	}
}

func TestAuthService_Register_ValidationOrder(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    ports.RegisterInput
		field string
	}{
		{"all empty", ports.RegisterInput{}, "email"},
		{"missing password", ports.RegisterInput{Email: "a@x.com"}, "password"},
		{"missing display name", ports.RegisterInput{Email: "a@x.com", Password: "p"}, "display_name"},
		{"missing surname", ports.RegisterInput{Email: "a@x.com", Password: "p", DisplayName: "A"}, "surname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, tt.in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, ve.Field)
			}
		})
	}
}

func TestAuthService_Register_EmailCheckedBeforeRole(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, validRegister("dup@example.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}

	in := validRegister("dup@example.com")
	in.Role = "ghost"
	if _, err := f.svc.Register(ctx, in); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Register_UnknownRole(t *testing.T) {
	f := newAuthFixture(t)
	in := validRegister("x@example.com")
	in.Role = "ghost"

	_, err := f.svc.Register(context.Background(), in)
	if !errors.Is(err, domain.ErrRoleNotFound) || !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected role-not-found validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Fatalf("expected role name in message, got %q", err.Error())
	}
	if exists, _ := f.users.ExistsByEmail(context.Background(), "x@example.com"); exists {
		t.Fatalf("user must not be persisted")
	}
}

func TestAuthService_RegisterThenLogin_SameClaims(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, validRegister("ana@example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	login, err := f.svc.Login(ctx, "ana@example.com", "pass123", "req-1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	a, err := f.codec.Decode(reg.Token)
	if err != nil {
		t.Fatalf("decode register token: %v", err)
	}
	b, err := f.codec.Decode(login.Token)
	if err != nil {
		t.Fatalf("decode login token: %v", err)
	}
	if a.Subject != b.Subject || a.Role != b.Role {
		t.Fatalf("claims differ: %+v vs %+v", a, b)
	}
	if login.User.PasswordHash != "" {
		t.Fatalf("expected redacted user")
	}
	if !strings.HasPrefix(login.Message, "Welcome back") {
		t.Fatalf("unexpected message %q", login.Message)
	}

	kinds := f.audit.kinds()
	if len(kinds) != 2 || kinds[0] != domain.AuthEventRegister || kinds[1] != domain.AuthEventLoginSuccess {
		t.Fatalf("unexpected audit trail: %v", kinds)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, _ = f.svc.Register(ctx, validRegister("ana@example.com"))

	_, wrongPassword := f.svc.Login(ctx, "ana@example.com", "badpass", "")
	_, unknownEmail := f.svc.Login(ctx, "ghost@example.com", "pass123", "")

	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	reg, _ := f.svc.Register(ctx, validRegister("ana@example.com"))

	stored, _ := f.users.FindByID(ctx, reg.User.ID)
	stored.Active = false
	_, _ = f.users.Update(ctx, stored)

	if _, err := f.svc.Login(ctx, "ana@example.com", "pass123", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.svc.Login(context.Background(), "", "x", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	f := newAuthFixture(t)
	f.users.findErr = errors.New("connection reset")

	_, err := f.svc.Login(context.Background(), "ana@example.com", "pass123", "")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestAuthService_TokenCarriesRoleSnapshot(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg, _ := f.svc.Register(ctx, validRegister("ana@example.com"))

	stored, _ := f.users.FindByID(ctx, reg.User.ID)
	admin, _ := f.roles.GetByName(ctx, domain.RoleAdmin)
	stored.Role = admin.Ref()
	_, _ = f.users.Update(ctx, stored)

	if role, _ := f.codec.RoleClaim(reg.Token); role != domain.RoleRegular {
		t.Fatalf("issued token must keep its role, got %q", role)
	}
	login, _ := f.svc.Login(ctx, "ana@example.com", "pass123", "")
	if role, _ := f.codec.RoleClaim(login.Token); role != domain.RoleAdmin {
		t.Fatalf("new token must carry current role, got %q", role)
	}
}

func TestAuthService_TokenExpiresAfterTTL(t *testing.T) {
	f := newAuthFixture(t)
	res, _ := f.svc.Register(context.Background(), validRegister("ana@example.com"))

	if !f.codec.IsValid(res.Token) {
		t.Fatalf("expected valid token right after issuance")
	}
	*f.clock = f.clock.Add(f.codec.TTL() + 1e9)
	if f.codec.IsValid(res.Token) {
		t.Fatalf("expected token to be invalid past TTL")
	}
}

func TestAuthService_ConcurrentRegisterSameEmail(t *testing.T) {
	f := newAuthFixture(t)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Register(context.Background(), validRegister("race@example.com"))
		}(i)
	}
	wg.Wait()

	succeeded, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrEmailTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || conflicts != n-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", n-1, succeeded, conflicts)
	}
}

func TestAuthService_RegisterLegacy(t *testing.T) {
	f := newAuthFixture(t)

	user, err := f.svc.RegisterLegacy(context.Background(), validRegister("old@example.com"))
	if err != nil {
		t.Fatalf("register legacy: %v", err)
	}
	if user.PasswordHash != "" || user.Role.Name != domain.RoleRegular {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthService_Login_FollowsRoleRename(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	in := validRegister("ana@example.com")
	in.Role = domain.RoleAdmin
	reg, err := f.svc.Register(ctx, in)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	admin, _ := f.roles.GetByName(ctx, domain.RoleAdmin)
	newName, newTitle := "superadmin", "Super Administrator"
	if _, err := f.roles.Update(ctx, admin.ID, ports.RolePatch{Name: &newName, Title: &newTitle}); err != nil {
		t.Fatalf("rename role: %v", err)
	}

	login, err := f.svc.Login(ctx, "ana@example.com", "pass123", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if role, _ := f.codec.RoleClaim(login.Token); role != newName {
		t.Fatalf("expected renamed role claim %q, got %q", newName, role)
	}
	if login.RoleTitle != newTitle || login.User.Role.Name != newName {
		t.Fatalf("unexpected role in result: title=%q ref=%+v", login.RoleTitle, login.User.Role)
	}

	stored, _ := f.users.FindByID(ctx, reg.User.ID)
	if stored.Role.Name != newName || stored.Role.Title != newTitle {
		t.Fatalf("expected stored reference to follow rename, got %+v", stored.Role)
	}
}

func TestAuthService_Login_RoleRemoved(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	in := validRegister("ana@example.com")
	in.Role = domain.RoleAdmin
	if _, err := f.svc.Register(ctx, in); err != nil {
		t.Fatalf("register: %v", err)
	}

	admin, _ := f.roles.GetByName(ctx, domain.RoleAdmin)
	if err := f.roles.Delete(ctx, admin.ID); !errors.Is(err, domain.ErrRoleInUse) {
		t.Fatalf("expected ErrRoleInUse, got %v", err)
	}

	// Removed behind the service's back, e.g. by a manual migration.
	_ = f.roleRepo.Delete(ctx, admin.ID)

	res, err := f.svc.Login(ctx, "ana@example.com", "pass123", "")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v (result %+v)", err, res)
	}
}
