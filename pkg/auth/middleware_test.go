package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockJWKSClient returns fixed claims or a fixed error.
type mockJWKSClient struct {
	claims *Claims
	err    error
}

func (m *mockJWKSClient) ValidateToken(_ string) (*Claims, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func (m *mockJWKSClient) Close() {}

func claimsForUser(userID string) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Email:            "learner@example.com",
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	mw := NewMiddleware(&mockJWKSClient{claims: claimsForUser(uuid.NewString())}, zap.NewNop())
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/courses", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	mw := NewMiddleware(&mockJWKSClient{err: errors.New("expired")}, zap.NewNop())
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ValidTokenSetsContext(t *testing.T) {
	userID := uuid.NewString()
	mw := NewMiddleware(&mockJWKSClient{claims: claimsForUser(userID)}, zap.NewNop())

	var gotUserID uuid.UUID
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		id, err := RequireUserIDFromContext(r.Context())
		require.NoError(t, err)
		gotUserID = id
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUserID.String())
}

func TestRequireAuthForUser_PathMatch(t *testing.T) {
	userID := uuid.NewString()
	mw := NewMiddleware(&mockJWKSClient{claims: claimsForUser(userID)}, zap.NewNop())

	mux := http.NewServeMux()
	called := false
	mux.HandleFunc("GET /api/users/{uid}/recommendations",
		mw.RequireAuthForUser("uid")(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/"+userID+"/recommendations", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestRequireAuthForUser_PathMismatch(t *testing.T) {
	mw := NewMiddleware(&mockJWKSClient{claims: claimsForUser(uuid.NewString())}, zap.NewNop())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users/{uid}/recommendations",
		mw.RequireAuthForUser("uid")(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/"+uuid.NewString()+"/recommendations", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetUserIDFromContext_InvalidSubject(t *testing.T) {
	mw := NewMiddleware(&mockJWKSClient{claims: claimsForUser("not-a-uuid")}, zap.NewNop())

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		_, ok := GetUserIDFromContext(r.Context())
		assert.False(t, ok)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWKSClient_UnverifiedMode(t *testing.T) {
	client, err := NewJWKSClient(&JWKSConfig{EnableVerification: false})
	require.NoError(t, err)
	defer client.Close()

	userID := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
	})
	signed, err := token.SignedString([]byte("dev-secret"))
	require.NoError(t, err)

	claims, err := client.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
}
