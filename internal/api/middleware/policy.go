package middleware

import (
	"net/http"
	"strings"

	"github.com/turismo/turismo-api/internal/core/domain"
)

// Requirement is the access condition attached to a policy rule.
type Requirement struct {
	public      bool
	authorities []string
}

// Public lets the request through without looking at credentials.
func Public() Requirement { return Requirement{public: true} }

// Authenticated requires any valid identity.
func Authenticated() Requirement { return Requirement{} }

// AnyRole requires an identity holding at least one of roles.
func AnyRole(roles ...string) Requirement {
	auths := make([]string, 0, len(roles))
	for _, r := range roles {
		auths = append(auths, domain.Authority(r))
	}
	return Requirement{authorities: auths}
}

// IsPublic reports whether the requirement skips authentication.
func (r Requirement) IsPublic() bool { return r.public }

// Allows reports whether id satisfies the requirement. id may be nil.
func (r Requirement) Allows(id *Identity) bool {
	if r.public {
		return true
	}
	if id == nil {
		return false
	}
	if len(r.authorities) == 0 {
		return true
	}
	for _, a := range r.authorities {
		if id.HasAuthority(a) {
			return true
		}
	}
	return false
}

// Rule matches a set of methods and path patterns. An empty method list
// matches every method. A pattern ending in "/**" matches its base path and
// everything below it; any other pattern must match exactly.
type Rule struct {
	Methods  []string
	Patterns []string
	Require  Requirement
}

func (r Rule) matches(method, path string) bool {
	if len(r.Methods) > 0 {
		found := false
		for _, m := range r.Methods {
			if m == method {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, p := range r.Patterns {
		if matchPattern(p, path) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, path string) bool {
	if base, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == base || strings.HasPrefix(path, base+"/")
	}
	return path == pattern
}

// Policy is an ordered rule table. The first matching rule decides; requests
// that match nothing fall back to Default.
type Policy struct {
	Rules   []Rule
	Default Requirement
}

// Resolve returns the requirement for a request.
func (p *Policy) Resolve(method, path string) Requirement {
	path = normalizePath(path)
	for _, r := range p.Rules {
		if r.matches(method, path) {
			return r.Require
		}
	}
	return p.Default
}

func normalizePath(path string) string {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}

// DefaultPolicy is the access table of the API.
func DefaultPolicy() *Policy {
	const (
		admin       = domain.RoleAdmin
		regular     = domain.RoleRegular
		emprendedor = domain.RoleEmprendedor
	)
	var (
		get    = []string{http.MethodGet}
		post   = []string{http.MethodPost}
		modify = []string{http.MethodPut, http.MethodDelete}
	)

	return &Policy{
		Rules: []Rule{
			{Patterns: []string{
				"/api/auth/login",
				"/api/auth/register",
				"/api/auth/roles",
				"/api/auth/init-roles",
				"/api/users/login",
				"/api/users/register",
				"/doc/**",
				"/health/**",
				"/metrics",
			}, Require: Public()},
			{Methods: post, Patterns: []string{"/api/admin/roles/init"}, Require: Public()},
			{Methods: get, Patterns: []string{"/api/emprendedores/**", "/api/alojamientos/**"}, Require: Public()},
			{Methods: post, Patterns: []string{"/api/alojamientos"}, Require: AnyRole(regular, emprendedor, admin)},
			{Methods: modify, Patterns: []string{"/api/alojamientos/**"}, Require: AnyRole(regular, emprendedor, admin)},
			{Methods: post, Patterns: []string{"/api/emprendedores"}, Require: AnyRole(emprendedor, admin)},
			{Methods: modify, Patterns: []string{"/api/emprendedores/**"}, Require: AnyRole(emprendedor, admin)},
			{Patterns: []string{"/api/admin/**"}, Require: AnyRole(admin)},
			{Methods: get, Patterns: []string{"/api/reservas/todas"}, Require: AnyRole(admin)},
			{Methods: post, Patterns: []string{"/api/reservas"}, Require: AnyRole(regular, emprendedor, admin)},
			{Methods: get, Patterns: []string{"/api/reservas/**"}, Require: AnyRole(regular, emprendedor, admin)},
		},
		Default: Authenticated(),
	}
}
