package service

import (
	"context"
	"encoding/json"
	"time"

	domain "course-portal/internal/domain/registration"
	"course-portal/internal/infrastructure/cache"
	interfaces "course-portal/internal/interfaces/infrastructure"
	serviceInterfaces "course-portal/internal/interfaces/service"
	"course-portal/pkg/logger"
)

const DefaultCourseListTTL = 5 * time.Minute

var _ serviceInterfaces.CatalogService = (*CatalogService)(nil)

// CatalogService serves the current term and its courses. When a cache is
// configured, course lists are cached per term; cache failures only cost a
// repository read.
type CatalogService struct {
	termRepo   interfaces.TermRepository
	courseRepo interfaces.CourseRepository
	cache      interfaces.CacheService
	courseTTL  time.Duration
	metrics    *MetricsService
}

func NewCatalogService(
	termRepo interfaces.TermRepository,
	courseRepo interfaces.CourseRepository,
	cacheService interfaces.CacheService,
	courseTTL time.Duration,
	metrics *MetricsService,
) *CatalogService {
	if courseTTL <= 0 {
		courseTTL = DefaultCourseListTTL
	}
	return &CatalogService{
		termRepo:   termRepo,
		courseRepo: courseRepo,
		cache:      cacheService,
		courseTTL:  courseTTL,
		metrics:    metrics,
	}
}

func (s *CatalogService) GetCurrentTerm(ctx context.Context) (*domain.Term, error) {
	term, err := s.termRepo.GetCurrent(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to load current term", err)
	}
	if term == nil {
		return nil, domain.NewNotFoundError(domain.MsgTermNotFound)
	}
	return term, nil
}

func (s *CatalogService) GetCoursesForTerm(ctx context.Context, termID int) ([]*domain.Course, error) {
	if courses, ok := s.cachedCourses(ctx, termID); ok {
		return courses, nil
	}

	term, err := s.termRepo.GetByID(ctx, termID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load term", err)
	}
	if term == nil {
		return nil, domain.NewNotFoundError(domain.MsgTermNotFound)
	}

	courses, err := s.courseRepo.ListByTerm(ctx, termID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load courses", err)
	}

	s.storeCourses(ctx, termID, courses)
	return courses, nil
}

func (s *CatalogService) cachedCourses(ctx context.Context, termID int) ([]*domain.Course, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, found, err := s.cache.Get(ctx, cache.TermCoursesKey(termID))
	if err != nil {
		logger.Warn("Course cache read failed for term %d: %v", termID, err)
	}
	if err != nil || !found {
		s.metrics.RecordCacheLookup(false)
		return nil, false
	}

	var courses []*domain.Course
	if err := json.Unmarshal([]byte(raw), &courses); err != nil {
		logger.Warn("Discarding corrupt course cache entry for term %d: %v", termID, err)
		s.metrics.RecordCacheLookup(false)
		return nil, false
	}

	s.metrics.RecordCacheLookup(true)
	return courses, true
}

func (s *CatalogService) storeCourses(ctx context.Context, termID int, courses []*domain.Course) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(courses)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.TermCoursesKey(termID), string(data), s.courseTTL); err != nil {
		logger.Warn("Course cache write failed for term %d: %v", termID, err)
	}
}
