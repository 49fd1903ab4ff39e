package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

func sampleResult() *ports.AuthResult {
	return &ports.AuthResult{
		Token:     "jwt-token",
		RoleTitle: "Regular User",
		Message:   "Welcome Ana!",
		User: &domain.User{
			ID:          "u1",
			Email:       "ana@example.com",
			DisplayName: "Ana",
			Surname:     "Quispe",
			Role:        domain.RoleRef{ID: "r2", Name: domain.RoleRegular, Title: "Regular User"},
		},
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Email != "ana@example.com" || in.DisplayName != "Ana" || in.Surname != "Quispe" || in.Role != "emprendedor" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return sampleResult(), nil
		},
	}
	h := NewAuthHandler(stub, &stubRoleService{})

	c, rec := newContext(http.MethodPost, "/api/auth/register",
		`{"email":"ana@example.com","password":"pass123","display_name":"Ana","surname":"Quispe","role":"emprendedor"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "jwt-token" || resp["role_title"] != "Regular User" || resp["message"] != "Welcome Ana!" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	profile, ok := resp["profile"].(map[string]any)
	if !ok || profile["email"] != "ana@example.com" || profile["role"] != domain.RoleRegular {
		t.Fatalf("unexpected profile: %+v", resp["profile"])
	}
	if _, leaked := profile["password_hash"]; leaked {
		t.Fatalf("profile must not carry the password hash")
	}
}

func TestAuthHandler_Register_PropagatesError(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	h := NewAuthHandler(stub, &stubRoleService{})

	c, _ := newContext(http.MethodPost, "/api/auth/register", `{"email":"ana@example.com"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthHandler_Register_BadPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubRoleService{})

	c, _ := newContext(http.MethodPost, "/api/auth/register", `{"email":`)
	if err := h.Register(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password, _ string) (*ports.AuthResult, error) {
			if email != "ana@example.com" || password != "pass123" {
				return nil, domain.ErrInvalidCredentials
			}
			return sampleResult(), nil
		},
	}
	h := NewAuthHandler(stub, &stubRoleService{})

	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"pass123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newContext(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"bad"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_RolesAndInit(t *testing.T) {
	roles := &stubRoleService{
		roles:   []*domain.Role{{ID: "r1", Name: domain.RoleAdmin, Title: "Administrator"}},
		created: 2,
	}
	h := NewAuthHandler(&stubAuthService{}, roles)

	c, rec := newContext(http.MethodGet, "/api/auth/roles", "")
	if err := h.Roles(c); err != nil {
		t.Fatalf("roles: %v", err)
	}
	var list []domain.Role
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("unexpected roles payload: %s", rec.Body.String())
	}

	c, rec = newContext(http.MethodPost, "/api/auth/init-roles", "")
	if err := h.InitRoles(c); err != nil {
		t.Fatalf("init: %v", err)
	}
	var resp initRolesResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.RolesCreated != 2 {
		t.Fatalf("expected 2 roles created, got %+v", resp)
	}
}

func TestLegacyUserHandler_Login(t *testing.T) {
	res := sampleResult()
	res.User.Role.Name = domain.RoleAdmin
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, _, _ string) (*ports.AuthResult, error) {
			if email != "ana@example.com" {
				return nil, domain.ErrInvalidCredentials
			}
			return res, nil
		},
	}
	h := NewLegacyUserHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/users/login", `{"email":"ana@example.com","password":"x"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp legacyLoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "Bearer jwt-token" || resp.Rol != "ADMIN" || resp.Message != "Welcome, Admin" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	c, rec = newContext(http.MethodPost, "/api/users/login", `{"email":"ghost@example.com","password":"x"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLegacyUserHandler_Register(t *testing.T) {
	stub := &stubAuthService{
		registerLegacyFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			return &domain.User{ID: "u9", Email: in.Email, PasswordHash: "must-not-leak"}, nil
		},
	}
	h := NewLegacyUserHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/users/register", `{"email":"old@example.com","password":"x"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["email"] != "old@example.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	for k := range resp {
		if k == "password_hash" || k == "PasswordHash" {
			t.Fatalf("password hash leaked")
		}
	}
}
