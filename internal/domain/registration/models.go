package domain

import (
	"fmt"
	"time"
)

// Student represents a student account. CompletedCourses is backend data; the
// wire identity returned on login only carries id and username.
type Student struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(32)"`
	Username         string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash     string    `json:"-" gorm:"not null"`
	CompletedCourses []int     `json:"completedCourses" gorm:"type:jsonb;serializer:json;not null"`
	CreatedAt        time.Time `json:"-" gorm:"autoCreateTime"`
}

// Course is an offering in a term. Prereqs lists course ids in display order.
type Course struct {
	ID      int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	TermID  int    `json:"-" gorm:"not null;index"`
	Name    string `json:"name" gorm:"not null"`
	Prereqs []int  `json:"prereqs" gorm:"type:jsonb;serializer:json;not null"`
}

// Term is an academic period. Dates are ISO calendar dates (YYYY-MM-DD).
type Term struct {
	ID        int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name      string `json:"name" gorm:"not null"`
	StartDate string `json:"start_date" gorm:"type:varchar(10);not null"`
	EndDate   string `json:"end_date" gorm:"type:varchar(10);not null"`
	IsCurrent bool   `json:"-" gorm:"not null;default:false"`
}

// RegistrationStatus represents the status of a registration
type RegistrationStatus string

const (
	StatusEnrolled  RegistrationStatus = "enrolled"
	StatusPending   RegistrationStatus = "pending"
	StatusCompleted RegistrationStatus = "completed"
	StatusFailed    RegistrationStatus = "failed"
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case StatusEnrolled, StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Registration records a student's enrollment in a course for a term. The
// owning student is implied by the request path and never serialised.
type Registration struct {
	ID        int64              `json:"id" gorm:"primaryKey;autoIncrement"`
	StudentID string             `json:"-" gorm:"type:varchar(32);not null;index"`
	CourseID  int                `json:"-" gorm:"not null"`
	TermID    int                `json:"-" gorm:"not null"`
	Status    RegistrationStatus `json:"status" gorm:"type:text;not null;default:enrolled"`
	CreatedAt time.Time          `json:"-" gorm:"autoCreateTime"`
	Course    Course             `json:"course" gorm:"foreignKey:CourseID"`
	Term      Term               `json:"term" gorm:"foreignKey:TermID"`
}

// IdempotencyKey stores the response of a processed registration request so a
// retried request with the same key gets the same answer.
type IdempotencyKey struct {
	Key          string    `json:"key" gorm:"primaryKey;type:varchar(255)"`
	StudentID    string    `json:"student_id"`
	RequestHash  string    `json:"request_hash"`
	ResponseData string    `json:"response_data"`
	StatusCode   int       `json:"status_code"`
	ProcessedAt  time.Time `json:"processed_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (k *IdempotencyKey) IsExpired() bool {
	return time.Now().After(k.ExpiresAt)
}

// MissingPrereqs returns the prerequisites of c that are not in completed,
// in the order c lists them. Enrollment never counts as completion.
func (c Course) MissingPrereqs(completed []int) []int {
	done := make(map[int]struct{}, len(completed))
	for _, id := range completed {
		done[id] = struct{}{}
	}

	missing := make([]int, 0)
	for _, id := range c.Prereqs {
		if _, ok := done[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func (c Course) PrerequisitesMet(completed []int) bool {
	return len(c.MissingPrereqs(completed)) == 0
}

// FallbackCourseName is shown for ids not present in the loaded catalog.
func FallbackCourseName(id int) string {
	return fmt.Sprintf("Course %d", id)
}

// StudentProfile is the public view of a student including completed courses.
type StudentProfile struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	CompletedCourses []int  `json:"completedCourses"`
}

func (s *Student) Profile() StudentProfile {
	completed := s.CompletedCourses
	if completed == nil {
		completed = []int{}
	}
	return StudentProfile{ID: s.ID, Username: s.Username, CompletedCourses: completed}
}

// Request DTOs

// RegisterRequest is the body of a course registration.
type RegisterRequest struct {
	TermID int `json:"termId" validate:"required,gt=0"`
}

// RegisterResponse wraps the created registration.
type RegisterResponse struct {
	Registration *Registration `json:"registration"`
}

type CoursesResponse struct {
	Courses []*Course `json:"courses"`
}

type RegistrationsResponse struct {
	Registrations []*Registration `json:"registrations"`
}
