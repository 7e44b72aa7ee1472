package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/core"
	"github.com/tekashi/storefront/internal/model"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*model.JWTClaims, error)
}

// UserLookup loads the stored state of a token's subject.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type authError struct{ msg string }

func (e *authError) Error() string { return e.msg }

// resolve validates token and takes role and email from the user record, so
// a demoted or deactivated account loses access before its token expires.
func resolve(ctx context.Context, tokens TokenValidator, users UserLookup, token string) (*model.JWTClaims, error) {
	claims, err := tokens.ValidateToken(token)
	if err != nil {
		return nil, &authError{msg: err.Error()}
	}

	user, err := users.GetByID(ctx, claims.Sub)
	if errors.Is(err, core.ErrNotFound) {
		return nil, &authError{msg: "account not found"}
	}
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, &authError{msg: "account disabled"}
	}

	fresh := *claims
	fresh.Role = user.Role
	fresh.Email = user.Email
	return &fresh, nil
}

// Auth returns middleware that validates JWT Bearer tokens against the
// current user record and injects claims into context.
func Auth(tokens TokenValidator, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.WriteError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			token := extractBearer(authHeader)
			if token == "" {
				response.WriteError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			claims, err := resolve(r.Context(), tokens, users, token)
			if err != nil {
				var ae *authError
				if errors.As(err, &ae) {
					response.WriteError(w, http.StatusUnauthorized, ae.msg)
					return
				}
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("load authenticated user")
				response.WriteError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth injects claims when a valid Bearer token of an active user is
// present and otherwise lets the request through anonymously.
func OptionalAuth(tokens TokenValidator, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := extractBearer(r.Header.Get("Authorization")); token != "" {
				if claims, err := resolve(r.Context(), tokens, users, token); err == nil {
					r = r.WithContext(WithClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractBearer(header string) string {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// WithClaims stores claims in ctx.
func WithClaims(ctx context.Context, claims *model.JWTClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaims extracts JWT claims from the request context.
func GetClaims(ctx context.Context) *model.JWTClaims {
	claims, _ := ctx.Value(claimsKey).(*model.JWTClaims)
	return claims
}
