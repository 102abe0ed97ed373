package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/corray333/backend-labs/storefront/internal/service/models/identity"
	"github.com/corray333/backend-labs/storefront/internal/service/models/role"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload.
type Claims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Guard verifies bearer tokens signed with a shared secret.
type Guard struct {
	secret []byte
	method string
}

// NewGuard creates a Guard accepting only tokens signed with method (HS256 when empty).
func NewGuard(secret string, method string) *Guard {
	if method == "" {
		method = jwt.SigningMethodHS256.Alg()
	}

	return &Guard{secret: []byte(secret), method: method}
}

// Authenticate rejects requests without a token (401) or with an invalid one
// (403) and attaches the caller identity to the request context.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r.Header.Get("Authorization"))
		if raw == "" {
			respond.Message(w, r, http.StatusUnauthorized, "No token provided")

			return
		}

		id, err := g.verify(raw)
		if err != nil {
			slog.WarnContext(r.Context(), "Token validation failed", "error", err)
			respond.Message(w, r, http.StatusForbidden, "Invalid or expired token")

			return
		}

		next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
	})
}

// RequireAdmin rejects callers whose verified role is not privileged.
// It must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.FromContext(r.Context())
		if !ok || !id.Role.IsPrivileged() {
			respond.Message(w, r, http.StatusForbidden, "Admins only")

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (g *Guard) verify(raw string) (identity.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{g.method}))
	if err != nil {
		return identity.Identity{}, err
	}

	r, err := role.ParseRole(claims.Role)
	if err != nil {
		return identity.Identity{}, err
	}

	return identity.Identity{UserID: claims.UserID, Email: claims.Email, Role: r}, nil
}

// Sign issues a token for id. Used by tooling and tests; the service itself
// only verifies.
func (g *Guard) Sign(id identity.Identity, registered jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(g.method), Claims{
		UserID:           id.UserID,
		Email:            id.Email,
		Role:             id.Role.String(),
		RegisteredClaims: registered,
	})

	return token.SignedString(g.secret)
}

// bearerToken returns the second space-separated part of the header.
func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}

	return parts[1]
}
