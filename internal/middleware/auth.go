package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"tourguard/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// Auth validates the Bearer token and stores the caller identity in the
// request context. Tokens carry `sub` (user id) and `role` claims.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}

			raw := strings.TrimPrefix(header, "Bearer ")
			claims := jwt.MapClaims{}

			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			id, err := identityFromClaims(claims)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles rejects callers whose role is not in the allowed set.
// It must run after Auth.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := CallerIdentity(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if _, ok := allowed[id.Role]; !ok {
				writeAuthError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CallerIdentity extracts the authenticated caller from the request context.
func CallerIdentity(r *http.Request) (domain.Identity, bool) {
	id, ok := r.Context().Value(identityKey).(domain.Identity)
	return id, ok
}

// WithIdentity is a test helper that injects an identity without a token.
func WithIdentity(r *http.Request, id domain.Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, id))
}

func identityFromClaims(claims jwt.MapClaims) (domain.Identity, error) {
	var userID int64
	switch sub := claims["sub"].(type) {
	case float64:
		userID = int64(sub)
	case string:
		parsed, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return domain.Identity{}, fmt.Errorf("invalid subject claim")
		}
		userID = parsed
	default:
		return domain.Identity{}, fmt.Errorf("missing subject claim")
	}

	roleStr, _ := claims["role"].(string)
	role := domain.Role(roleStr)
	if !role.Valid() {
		return domain.Identity{}, fmt.Errorf("unknown role claim")
	}

	return domain.Identity{UserID: userID, Role: role}, nil
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
