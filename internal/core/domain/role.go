package domain

import "strings"

const (
	RoleAdmin       = "admin"
	RoleRegular     = "regular"
	RoleEmprendedor = "emprendedor"
)

// AuthorityPrefix marks an authority derived from a role claim.
const AuthorityPrefix = "ROLE_"

// Role groups users under a named set of permissions.
type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions"`
}

// Permission is attached to roles but not evaluated by the request gate.
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Ref returns the reference stored on users holding this role.
func (r *Role) Ref() RoleRef {
	return RoleRef{ID: r.ID, Name: r.Name, Title: r.Title}
}

// DefaultRoles is the set created by the role seed, in creation order.
func DefaultRoles() []Role {
	return []Role{
		{Name: RoleAdmin, Title: "Administrator", Description: "Full access to the system"},
		{Name: RoleRegular, Title: "Regular User", Description: "Basic access to the system"},
		{Name: RoleEmprendedor, Title: "Entrepreneur", Description: "Manages their own businesses and accommodations"},
	}
}

// DefaultRoleNames lists the names of DefaultRoles.
func DefaultRoleNames() []string {
	return []string{RoleAdmin, RoleRegular, RoleEmprendedor}
}

// Authority converts a role claim into the tag matched by the access policy,
// e.g. "admin" -> "ROLE_ADMIN".
func Authority(role string) string {
	return AuthorityPrefix + strings.ToUpper(role)
}
