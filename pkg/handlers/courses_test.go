package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

// stubCatalog implements services.CatalogService for handler tests.
type stubCatalog struct {
	courses   []*models.Course
	reloadErr error
	reloads   int
}

func (s *stubCatalog) Courses(_ context.Context) []*models.Course { return s.courses }
func (s *stubCatalog) Loaded() bool                               { return true }
func (s *stubCatalog) Reload(_ context.Context) error {
	s.reloads++
	return s.reloadErr
}

func TestListCourses(t *testing.T) {
	catalog := &stubCatalog{courses: []*models.Course{
		{ID: uuid.New(), Title: "Network Defense", Category: "network-security"},
		{ID: uuid.New(), Title: "Applied Crypto", Category: "cryptography"},
	}}
	h := NewCoursesHandler(catalog, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ListCourses(rec, httptest.NewRequest(http.MethodGet, "/api/courses", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Courses []*models.Course `json:"courses"`
		Total   int              `json:"total"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 2, body.Total)
	assert.Len(t, body.Courses, 2)
}

func TestReloadCatalog(t *testing.T) {
	catalog := &stubCatalog{}
	h := NewCoursesHandler(catalog, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ReloadCatalog(rec, httptest.NewRequest(http.MethodPost, "/api/courses/reload", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, catalog.reloads)
}

func TestReloadCatalog_Failure(t *testing.T) {
	catalog := &stubCatalog{reloadErr: assert.AnError}
	h := NewCoursesHandler(catalog, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ReloadCatalog(rec, httptest.NewRequest(http.MethodPost, "/api/courses/reload", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
