package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cyberpath-academy/learning-engine/pkg/models"
	"github.com/cyberpath-academy/learning-engine/pkg/repositories"
)

// catalogSnapshotKey is the fixed Redis key holding the serialized catalog.
const catalogSnapshotKey = "learning-engine:catalog:snapshot"

// CatalogService is the explicit, injectable course-catalog cache. The
// catalog is read-mostly: loaded once per process lifetime and shared by
// every recommendation algorithm. A load failure caches an empty list for
// the process lifetime; Reload is the recovery path.
type CatalogService interface {
	// Courses returns the cached catalog, loading it on first use.
	// Never fails: load errors degrade to an empty catalog.
	Courses(ctx context.Context) []*models.Course
	// Reload discards the cached catalog and fetches a fresh one.
	Reload(ctx context.Context) error
	// Loaded reports whether a catalog (possibly empty) has been cached.
	Loaded() bool
}

type catalogService struct {
	repo   repositories.CourseRepository
	rdb    *redis.Client // optional snapshot cache, may be nil
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.RWMutex
	courses []*models.Course
	loaded  bool
}

// NewCatalogService creates a catalog cache backed by the course repository
// with an optional Redis snapshot layer. rdb may be nil.
func NewCatalogService(repo repositories.CourseRepository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.Named("catalog"),
	}
}

var _ CatalogService = (*catalogService)(nil)

func (s *catalogService) Courses(ctx context.Context) []*models.Course {
	s.mu.RLock()
	if s.loaded {
		courses := s.courses
		s.mu.RUnlock()
		return courses
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.courses
	}

	s.courses = s.load(ctx)
	s.loaded = true
	return s.courses
}

func (s *catalogService) Reload(ctx context.Context) error {
	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		return err
	}

	s.storeSnapshot(ctx, courses)

	s.mu.Lock()
	s.courses = courses
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("catalog reloaded", zap.Int("courses", len(courses)))
	return nil
}

func (s *catalogService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// load fetches the catalog, preferring the Redis snapshot over the record
// store. Failures cache an empty catalog rather than retrying per call.
func (s *catalogService) load(ctx context.Context) []*models.Course {
	if courses, ok := s.loadSnapshot(ctx); ok {
		s.logger.Debug("catalog loaded from snapshot", zap.Int("courses", len(courses)))
		return courses
	}

	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		s.logger.Error("failed to load catalog, caching empty list until reload", zap.Error(err))
		return []*models.Course{}
	}

	s.storeSnapshot(ctx, courses)
	s.logger.Info("catalog loaded", zap.Int("courses", len(courses)))
	return courses
}

func (s *catalogService) loadSnapshot(ctx context.Context) ([]*models.Course, bool) {
	if s.rdb == nil {
		return nil, false
	}

	raw, err := s.rdb.Get(ctx, catalogSnapshotKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("failed to read catalog snapshot", zap.Error(err))
		}
		return nil, false
	}

	var courses []*models.Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		s.logger.Warn("corrupt catalog snapshot ignored", zap.Error(err))
		return nil, false
	}

	return courses, true
}

func (s *catalogService) storeSnapshot(ctx context.Context, courses []*models.Course) {
	if s.rdb == nil {
		return
	}

	raw, err := json.Marshal(courses)
	if err != nil {
		s.logger.Warn("failed to serialize catalog snapshot", zap.Error(err))
		return
	}

	if err := s.rdb.Set(ctx, catalogSnapshotKey, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to store catalog snapshot", zap.Error(err))
	}
}
