package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourse_MissingPrereqs(t *testing.T) {
	algorithms := Course{ID: 3, Name: "Algorithms", Prereqs: []int{1, 2}}

	tests := []struct {
		name      string
		completed []int
		missing   []int
	}{
		{"all completed", []int{1, 2}, []int{}},
		{"one missing keeps order", []int{1}, []int{2}},
		{"none completed", nil, []int{1, 2}},
		{"unrelated completions", []int{5, 7}, []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.missing, algorithms.MissingPrereqs(tt.completed))
			assert.Equal(t, len(tt.missing) == 0, algorithms.PrerequisitesMet(tt.completed))
		})
	}
}

func TestCourse_NoPrereqsAlwaysEligible(t *testing.T) {
	intro := Course{ID: 1, Name: "Introduction to Programming", Prereqs: []int{}}
	assert.True(t, intro.PrerequisitesMet(nil))
	assert.True(t, intro.PrerequisitesMet([]int{}))
}

func TestFallbackCourseName(t *testing.T) {
	assert.Equal(t, "Course 99", FallbackCourseName(99))
}

func TestStudent_ProfileNeverNil(t *testing.T) {
	s := &Student{ID: "003", Username: "student003"}
	p := s.Profile()
	assert.NotNil(t, p.CompletedCourses)
	assert.Empty(t, p.CompletedCourses)
}

func TestRegistrationStatus_Valid(t *testing.T) {
	assert.True(t, StatusEnrolled.Valid())
	assert.True(t, StatusFailed.Valid())
	assert.False(t, RegistrationStatus("dropped").Valid())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(nil))
	assert.Equal(t, KindTransport, KindOf(errors.New("boom")))
	assert.Equal(t, KindPrerequisitesNotMet, KindOf(NewPrerequisitesError([]int{2})))

	wrapped := fmt.Errorf("register: %w", ErrAlreadyRegistered)
	assert.Equal(t, KindAlreadyRegistered, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, ErrAlreadyRegistered))
	assert.False(t, errors.Is(wrapped, ErrUnauthorized))
}

func TestKindFromResponse(t *testing.T) {
	assert.Equal(t, KindAlreadyRegistered, KindFromResponse(http.StatusBadRequest, "ALREADY_REGISTERED", "x"))
	assert.Equal(t, KindAuthenticationFailed, KindFromResponse(http.StatusUnauthorized, "", MsgInvalidCredentials))
	assert.Equal(t, KindUnauthorized, KindFromResponse(http.StatusUnauthorized, "", MsgUnauthorized))
	assert.Equal(t, KindPrerequisitesNotMet, KindFromResponse(http.StatusBadRequest, "", MsgPrerequisitesNotMet))
	assert.Equal(t, KindNotFound, KindFromResponse(http.StatusNotFound, "", ""))
	assert.Equal(t, KindTransport, KindFromResponse(http.StatusBadGateway, "", "bad gateway"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, StatusFor(KindUnauthorized))
	assert.Equal(t, http.StatusBadRequest, StatusFor(KindAlreadyRegistered))
	assert.Equal(t, http.StatusNotFound, StatusFor(KindNotFound))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(KindTransport))
}
