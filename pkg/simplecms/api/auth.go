package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

const roleAdmin = "admin"

type contextKey struct{ name string }

var identityKey = &contextKey{"identity"}

// NewJWTAuth returns an HS256 verifier for secret, or nil when secret is
// empty. A nil verifier rejects every admin request.
func NewJWTAuth(secret string) *jwtauth.JWTAuth {
	if secret == "" {
		return nil
	}
	return jwtauth.New("HS256", []byte(secret), nil)
}

// IssueToken signs a token for identity that expires after ttl.
func IssueToken(ja *jwtauth.JWTAuth, identity simplecms.Identity, ttl time.Duration) (string, error) {
	claims := map[string]interface{}{
		"sub":  identity.Subject,
		"name": identity.Name,
	}
	if identity.Admin {
		claims["role"] = roleAdmin
		claims["admin"] = true
	}
	jwtauth.SetIssuedNow(claims)
	if ttl > 0 {
		jwtauth.SetExpiryIn(claims, ttl)
	}
	_, token, err := ja.Encode(claims)
	return token, err
}

// AdminOnly verifies the bearer token and admits administrators only.
// Missing or invalid tokens get 401, valid non-admin tokens get 403. The
// request body is never read before the caller is admitted.
func AdminOnly(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		gate := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				respond(w, r, http.StatusUnauthorized, nil, "Unauthorized: invalid or missing token")
				return
			}

			identity := identityFromClaims(claims)
			if !identity.Admin {
				respond(w, r, http.StatusForbidden, nil, "Forbidden: admin access required")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})

		if ja == nil {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				respond(w, r, http.StatusUnauthorized, nil, "Unauthorized: invalid or missing token")
			})
		}
		return jwtauth.Verifier(ja)(gate)
	}
}

// WithIdentity stores the admitted caller in ctx
func WithIdentity(ctx context.Context, identity *simplecms.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the caller admitted by AdminOnly, or nil
func IdentityFromContext(ctx context.Context) *simplecms.Identity {
	identity, _ := ctx.Value(identityKey).(*simplecms.Identity)
	return identity
}

func identityFromClaims(claims map[string]interface{}) *simplecms.Identity {
	identity := &simplecms.Identity{}
	identity.Subject, _ = claims["sub"].(string)
	identity.Name, _ = claims["name"].(string)

	if admin, ok := claims["admin"].(bool); ok && admin {
		identity.Admin = true
	}
	if role, ok := claims["role"].(string); ok && role == roleAdmin {
		identity.Admin = true
	}
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, role := range roles {
			if s, ok := role.(string); ok && s == roleAdmin {
				identity.Admin = true
			}
		}
	}
	return identity
}
