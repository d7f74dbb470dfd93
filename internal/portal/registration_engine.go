package portal

import (
	"context"
	"time"

	domain "course-portal/internal/domain/registration"
	"course-portal/pkg/logger"
)

const (
	registerFallback = "Error registering for course"
	// RegisteredMessage is shown after a successful registration.
	RegisteredMessage = "Successfully registered for the course!"
)

// Eligibility is the presentation state of a course row.
type Eligibility int

const (
	Locked Eligibility = iota
	Eligible
	Registered
)

func (e Eligibility) String() string {
	switch e {
	case Registered:
		return "Registered"
	case Eligible:
		return "Eligible"
	default:
		return "Locked"
	}
}

// RegisterForCourse submits a registration and, on success, replaces the
// local registrations with a fresh copy from the server. There is no
// prerequisite check here; the server is the authority.
func (s *CourseStore) RegisterForCourse(ctx context.Context, userID string, courseID, termID int, token string) Result {
	s.mu.Lock()
	gen := s.generation
	s.setMessageLocked(Message{}, false)
	s.mu.Unlock()

	registrations, err := s.register(ctx, userID, courseID, termID, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return superseded()
	}

	if err != nil {
		res := failure(err, registerFallback)
		s.setMessageLocked(Message{Text: res.Error, Type: MessageError}, false)
		logger.WithFields(map[string]interface{}{
			"student_id": userID,
			"course_id":  courseID,
			"kind":       res.Kind,
		}).Warn("Registration failed")
		return res
	}

	s.registrations = registrations
	s.setMessageLocked(Message{Text: RegisteredMessage, Type: MessageSuccess}, true)
	return ok()
}

func (s *CourseStore) register(ctx context.Context, userID string, courseID, termID int, token string) ([]domain.Registration, error) {
	if _, err := s.api.RegisterForCourse(ctx, userID, courseID, termID, token); err != nil {
		return nil, err
	}
	registrations, err := s.api.GetStudentRegistrations(ctx, userID, token)
	if err != nil {
		return nil, err
	}
	if registrations == nil {
		registrations = []domain.Registration{}
	}
	return registrations, nil
}

// IsRegistered reports whether any loaded registration is for courseID,
// in any term.
func (s *CourseStore) IsRegistered(courseID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRegisteredLocked(courseID)
}

func (s *CourseStore) isRegisteredLocked(courseID int) bool {
	for _, r := range s.registrations {
		if r.Course.ID == courseID {
			return true
		}
	}
	return false
}

// CanRegister reports whether every prerequisite of course is completed.
func (s *CourseStore) CanRegister(course domain.Course) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return course.PrerequisitesMet(s.completedCourses)
}

// MissingPrereqs lists the prerequisites of course not yet completed.
func (s *CourseStore) MissingPrereqs(course domain.Course) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return course.MissingPrereqs(s.completedCourses)
}

func (s *CourseStore) GetCourseName(courseID int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.courses {
		if c.ID == courseID {
			return c.Name
		}
	}
	return domain.FallbackCourseName(courseID)
}

func (s *CourseStore) Eligibility(course domain.Course) Eligibility {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.isRegisteredLocked(course.ID):
		return Registered
	case course.PrerequisitesMet(s.completedCourses):
		return Eligible
	default:
		return Locked
	}
}

func (s *CourseStore) Message() Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message
}

func (s *CourseStore) ClearMessage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setMessageLocked(Message{}, false)
}

// setMessageLocked replaces the message and cancels any pending expiry. When
// expire is set the new message clears itself after messageTTL unless a newer
// message replaced it first.
func (s *CourseStore) setMessageLocked(m Message, expire bool) {
	s.stopTimerLocked()
	s.messageSeq++
	s.message = m
	if !expire || s.messageTTL <= 0 {
		return
	}
	seq := s.messageSeq
	s.messageTimer = time.AfterFunc(s.messageTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.messageSeq != seq {
			return
		}
		s.message = Message{}
		s.messageTimer = nil
	})
}

func (s *CourseStore) stopTimerLocked() {
	if s.messageTimer != nil {
		s.messageTimer.Stop()
		s.messageTimer = nil
	}
}
