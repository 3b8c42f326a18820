package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Middleware provides HTTP authentication middleware backed by a JWKS client.
type Middleware struct {
	jwks   JWKSClientInterface
	logger *zap.Logger
}

// NewMiddleware creates a new auth middleware with the given JWKS client.
func NewMiddleware(jwks JWKSClientInterface, logger *zap.Logger) *Middleware {
	return &Middleware{
		jwks:   jwks,
		logger: logger,
	}
}

// RequireAuth validates the bearer token and sets claims and token in
// context for downstream handlers.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, token, err := m.validateRequest(r)
		if err != nil {
			m.unauthorized(w, "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		ctx = context.WithValue(ctx, TokenKey, token)
		next(w, r.WithContext(ctx))
	}
}

// RequireAuthForUser validates the bearer token and checks that the token
// subject matches the user id in the URL path. Use for endpoints like
// /api/users/{uid}/... where learners may only read their own data.
// pathParamName is the name used in r.PathValue() (e.g., "uid").
func (m *Middleware) RequireAuthForUser(pathParamName string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, token, err := m.validateRequest(r)
			if err != nil {
				m.unauthorized(w, "Authentication required")
				return
			}

			if claims.Subject == "" {
				m.badRequest(w, "Missing user id in token")
				return
			}

			// Get path parameter using Go 1.22+ http.ServeMux
			urlUserID := r.PathValue(pathParamName)
			if urlUserID != claims.Subject {
				m.logger.Warn("user id mismatch between token and URL",
					zap.String("subject", claims.Subject),
					zap.String("path", r.URL.Path))
				m.forbidden(w, "User id mismatch between token and URL")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = context.WithValue(ctx, TokenKey, token)
			next(w, r.WithContext(ctx))
		}
	}
}

// validateRequest extracts and validates the bearer token from the request.
func (m *Middleware) validateRequest(r *http.Request) (*Claims, string, error) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, "", errors.New("missing bearer token")
	}

	claims, err := m.jwks.ValidateToken(token)
	if err != nil {
		m.logger.Debug("token validation failed", zap.Error(err))
		return nil, "", err
	}

	return claims, token, nil
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}

// badRequest returns a 400 response with JSON error body.
func (m *Middleware) badRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "bad_request",
		"message": message,
	})
}

// forbidden returns a 403 response with JSON error body.
func (m *Middleware) forbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "forbidden",
		"message": message,
	})
}
