package portal

import (
	"context"
	"sync"
	"time"

	"course-portal/internal/client"
	domain "course-portal/internal/domain/registration"
	"course-portal/pkg/logger"
)

const loadFallback = "Error loading data"

// CatalogAPI is the catalog and enrollment collaborator.
type CatalogAPI interface {
	GetCurrentTerm(ctx context.Context, token string) (*domain.Term, error)
	GetCourses(ctx context.Context, termID int, token string) ([]domain.Course, error)
	GetStudentRegistrations(ctx context.Context, studentID, token string) ([]domain.Registration, error)
	GetStudentProfile(ctx context.Context, studentID, token string) (*domain.StudentProfile, error)
	RegisterForCourse(ctx context.Context, studentID string, courseID, termID int, token string) (*domain.Registration, error)
}

// CourseStore holds the loaded catalog, the student's registrations and the
// transient status message. State is never locked across collaborator calls.
type CourseStore struct {
	api        CatalogAPI
	messageTTL time.Duration

	mu               sync.RWMutex
	courses          []domain.Course
	currentTerm      *domain.Term
	registrations    []domain.Registration
	completedCourses []int
	loading          bool
	err              string
	message          Message

	// generation is bumped by Reset; results from older generations are dropped.
	generation   uint64
	messageSeq   uint64
	messageTimer *time.Timer
}

func NewCourseStore(api CatalogAPI, messageTTL time.Duration) *CourseStore {
	return &CourseStore{
		api:        api,
		messageTTL: messageTTL,
	}
}

// Snapshot is a consistent copy of the store for rendering.
type Snapshot struct {
	Courses          []domain.Course
	CurrentTerm      *domain.Term
	Registrations    []domain.Registration
	CompletedCourses []int
	Loading          bool
	Error            string
	Message          Message
}

type loaded struct {
	term          *domain.Term
	courses       []domain.Course
	registrations []domain.Registration
	completed     []int
}

// LoadData fetches the current term, its courses, the student's
// registrations and completed courses. Nothing is merged unless every step
// succeeds.
func (s *CourseStore) LoadData(ctx context.Context, userID, token string) Result {
	s.mu.Lock()
	gen := s.generation
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	data, err := s.fetch(ctx, userID, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return superseded()
	}
	s.loading = false

	if err != nil {
		res := failure(err, loadFallback)
		s.err = res.Error
		s.setMessageLocked(Message{Text: res.Error, Type: MessageError}, false)
		logger.WithField("student_id", userID).Errorf("Error loading data: %v", err)
		return res
	}

	s.currentTerm = data.term
	s.courses = data.courses
	s.registrations = data.registrations
	s.completedCourses = data.completed
	s.err = ""
	return ok()
}

func (s *CourseStore) fetch(ctx context.Context, userID, token string) (*loaded, error) {
	term, err := s.api.GetCurrentTerm(ctx, token)
	if err != nil {
		return nil, err
	}

	courses, err := s.api.GetCourses(ctx, term.ID, token)
	if err != nil {
		return nil, err
	}

	registrations, err := s.api.GetStudentRegistrations(ctx, userID, token)
	if err != nil {
		return nil, err
	}

	completed := []int{}
	profile, err := s.api.GetStudentProfile(ctx, userID, token)
	switch {
	case err == nil:
		if profile.CompletedCourses != nil {
			completed = profile.CompletedCourses
		}
	case client.KindOf(err) == domain.KindNotFound:
		// unknown students have completed nothing
	default:
		return nil, err
	}

	if courses == nil {
		courses = []domain.Course{}
	}
	if registrations == nil {
		registrations = []domain.Registration{}
	}
	return &loaded{
		term:          term,
		courses:       courses,
		registrations: registrations,
		completed:     completed,
	}, nil
}

// Reset empties the store and cancels any pending message expiry. In-flight
// loads and registrations started before the reset are discarded.
func (s *CourseStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.courses = nil
	s.currentTerm = nil
	s.registrations = nil
	s.completedCourses = nil
	s.loading = false
	s.err = ""
	s.setMessageLocked(Message{}, false)
}

// Close stops the pending message timer.
func (s *CourseStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

func (s *CourseStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Courses:          append([]domain.Course(nil), s.courses...),
		Registrations:    append([]domain.Registration(nil), s.registrations...),
		CompletedCourses: append([]int(nil), s.completedCourses...),
		Loading:          s.loading,
		Error:            s.err,
		Message:          s.message,
	}
	if s.currentTerm != nil {
		t := *s.currentTerm
		snap.CurrentTerm = &t
	}
	return snap
}

func (s *CourseStore) Courses() []domain.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Course(nil), s.courses...)
}

func (s *CourseStore) CurrentTerm() *domain.Term {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentTerm == nil {
		return nil
	}
	t := *s.currentTerm
	return &t
}

func (s *CourseStore) Registrations() []domain.Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Registration(nil), s.registrations...)
}

func (s *CourseStore) CompletedCourses() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int(nil), s.completedCourses...)
}

func (s *CourseStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *CourseStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
