package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/turismo/turismo-api/internal/api/metrics"
	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

const identityKey = "identity"

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	Subject     string
	Role        string
	Authorities []string
}

// HasAuthority reports whether the identity carries authority.
func (id *Identity) HasAuthority(authority string) bool {
	for _, a := range id.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// SetIdentity attaches id to the request context.
func SetIdentity(c echo.Context, id *Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity set by Gate, if any.
func IdentityFrom(c echo.Context) (*Identity, bool) {
	id, ok := c.Get(identityKey).(*Identity)
	return id, ok && id != nil
}

// Gate resolves the caller from the bearer token and enforces policy. Token
// problems never produce their own error: the request simply carries no
// identity and the rule's requirement decides.
func Gate(tokens ports.TokenCodec, policy *Policy, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			require := policy.Resolve(req.Method, req.URL.Path)
			if require.IsPublic() {
				metrics.GateDecisionsTotal.WithLabelValues("public").Inc()
				return next(c)
			}

			id := identify(tokens, req.Header.Get(echo.HeaderAuthorization), log)
			if id != nil {
				SetIdentity(c, id)
			}

			if !require.Allows(id) {
				metrics.GateDecisionsTotal.WithLabelValues("denied").Inc()
				log.Debug().
					Str("method", req.Method).
					Str("path", req.URL.Path).
					Bool("authenticated", id != nil).
					Msg("request denied")
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}

			metrics.GateDecisionsTotal.WithLabelValues("allowed").Inc()
			return next(c)
		}
	}
}

func identify(tokens ports.TokenCodec, header string, log zerolog.Logger) *Identity {
	token, ok := bearerToken(header)
	if !ok {
		return nil
	}
	if !tokens.IsValid(token) {
		log.Debug().Msg("rejected invalid or expired token")
		return nil
	}

	subject, ok := tokens.Subject(token)
	if !ok {
		return nil
	}
	id := &Identity{Subject: subject}
	if role, ok := tokens.RoleClaim(token); ok {
		id.Role = role
		id.Authorities = []string{domain.Authority(role)}
	}
	return id
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
