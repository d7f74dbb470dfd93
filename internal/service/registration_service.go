package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	domain "course-portal/internal/domain/registration"
	interfaces "course-portal/internal/interfaces/infrastructure"
	serviceInterfaces "course-portal/internal/interfaces/service"
	"course-portal/pkg/logger"

	"gorm.io/gorm"
)

var _ serviceInterfaces.RegistrationService = (*RegistrationService)(nil)

type RegistrationService struct {
	studentRepo      interfaces.StudentRepository
	courseRepo       interfaces.CourseRepository
	termRepo         interfaces.TermRepository
	registrationRepo interfaces.RegistrationRepository
	idempotency      *IdempotencyService
	metrics          *MetricsService

	// serialises the duplicate check and insert for stores without a
	// unique constraint
	mutex sync.Mutex
}

func NewRegistrationService(
	studentRepo interfaces.StudentRepository,
	courseRepo interfaces.CourseRepository,
	termRepo interfaces.TermRepository,
	registrationRepo interfaces.RegistrationRepository,
	idempotency *IdempotencyService,
	metrics *MetricsService,
) *RegistrationService {
	return &RegistrationService{
		studentRepo:      studentRepo,
		courseRepo:       courseRepo,
		termRepo:         termRepo,
		registrationRepo: registrationRepo,
		idempotency:      idempotency,
		metrics:          metrics,
	}
}

type registerPayload struct {
	CourseID int `json:"course_id"`
	TermID   int `json:"term_id"`
}

// Register enrolls a student in a course. Checks run in this order: student
// and course exist, term exists, prerequisites are completed, no existing
// registration for the same course and term.
func (s *RegistrationService) Register(ctx context.Context, studentID string, courseID int, req *domain.RegisterRequest, idempotencyKey string) (*domain.Registration, error) {
	payload := registerPayload{CourseID: courseID, TermID: req.TermID}

	if s.idempotency != nil && idempotencyKey != "" {
		existing, duplicate, err := s.idempotency.CheckDuplicateRequest(ctx, idempotencyKey, studentID, payload)
		if err != nil {
			if errors.Is(err, ErrIdempotencyKeyReused) {
				return nil, domain.NewValidationError(err.Error())
			}
			return nil, domain.NewInternalError("idempotency check failed", err)
		}
		if duplicate {
			var replay domain.RegisterResponse
			if err := json.Unmarshal([]byte(existing.ResponseData), &replay); err == nil && replay.Registration != nil {
				return replay.Registration, nil
			}
			logger.Warn("Stored response for idempotency key %s is unreadable, processing again", idempotencyKey)
		}
	}

	reg, err := s.register(ctx, studentID, courseID, req.TermID)
	s.metrics.RecordRegistration(err)
	if err != nil {
		return nil, err
	}

	if s.idempotency != nil {
		resp := domain.RegisterResponse{Registration: reg}
		if err := s.idempotency.StoreProcessedRequest(ctx, idempotencyKey, studentID, payload, resp, http.StatusCreated); err != nil {
			logger.Warn("Registration %d succeeded but idempotency key was not stored: %v", reg.ID, err)
		}
	}

	return reg, nil
}

func (s *RegistrationService) register(ctx context.Context, studentID string, courseID, termID int) (*domain.Registration, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load student", err)
	}
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load course", err)
	}
	if student == nil || course == nil {
		return nil, domain.ErrStudentOrCourseGone
	}

	term, err := s.termRepo.GetByID(ctx, termID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load term", err)
	}
	if term == nil {
		return nil, domain.NewNotFoundError(domain.MsgTermNotFound)
	}

	if missing := course.MissingPrereqs(student.CompletedCourses); len(missing) > 0 {
		logger.Info("Student %s missing prerequisites %v for course %d", studentID, missing, courseID)
		return nil, domain.NewPrerequisitesError(missing)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	exists, err := s.registrationRepo.ExistsForCourseAndTerm(ctx, studentID, courseID, termID)
	if err != nil {
		return nil, domain.NewInternalError("failed to check registrations", err)
	}
	if exists {
		return nil, domain.ErrAlreadyRegistered
	}

	reg := &domain.Registration{
		StudentID: studentID,
		CourseID:  course.ID,
		TermID:    term.ID,
		Status:    domain.StatusEnrolled,
		Course:    *course,
		Term:      *term,
	}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, domain.NewInternalError("failed to create registration", err)
	}

	logger.Info("Student %s enrolled in course %d for term %d", studentID, courseID, termID)
	return reg, nil
}

// GetStudentRegistrations lists a student's registrations; unknown students
// simply have none.
func (s *RegistrationService) GetStudentRegistrations(ctx context.Context, studentID string) ([]*domain.Registration, error) {
	registrations, err := s.registrationRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load registrations", err)
	}
	return registrations, nil
}
