package service

import (
	"context"
	"sync"
	"testing"

	domain "course-portal/internal/domain/registration"
	"course-portal/internal/infrastructure/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistrationService(t *testing.T) (*RegistrationService, *repository.MemoryRepositories) {
	t.Helper()
	repos := newRepos(t)
	svc := NewRegistrationService(
		repos.Students,
		repos.Courses,
		repos.Terms,
		repos.Registrations,
		NewIdempotencyService(repos.Idempotency),
		NewMetricsService(),
	)
	return svc, repos
}

func TestRegistrationService_Register(t *testing.T) {
	svc, _ := newRegistrationService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "001", 3, &domain.RegisterRequest{TermID: 1}, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEnrolled, reg.Status)
	assert.Equal(t, "Algorithms", reg.Course.Name)
	assert.Equal(t, "Spring 2024", reg.Term.Name)

	regs, err := svc.GetStudentRegistrations(ctx, "001")
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, reg.ID, regs[0].ID)
}

func TestRegistrationService_RegisterFailures(t *testing.T) {
	tests := []struct {
		name      string
		studentID string
		courseID  int
		termID    int
		kind      domain.ErrorKind
		message   string
		missing   []int
	}{
		{"unknown course", "001", 99, 1, domain.KindNotFound, domain.MsgStudentOrCourse, nil},
		{"unknown student", "999", 1, 1, domain.KindNotFound, domain.MsgStudentOrCourse, nil},
		{"unknown term", "001", 1, 9, domain.KindNotFound, domain.MsgTermNotFound, nil},
		{"missing prerequisites", "002", 3, 1, domain.KindPrerequisitesNotMet, domain.MsgPrerequisitesNotMet, []int{2}},
		{"nothing completed", "003", 7, 1, domain.KindPrerequisitesNotMet, domain.MsgPrerequisitesNotMet, []int{2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newRegistrationService(t)
			reg, err := svc.Register(context.Background(), tt.studentID, tt.courseID, &domain.RegisterRequest{TermID: tt.termID}, "")
			assert.Nil(t, reg)

			var de *domain.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.kind, de.Kind)
			assert.Equal(t, tt.message, de.Message)
			assert.Equal(t, tt.missing, de.Missing)
		})
	}
}

func TestRegistrationService_AlreadyRegistered(t *testing.T) {
	svc, _ := newRegistrationService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "002", 2, &domain.RegisterRequest{TermID: 1}, "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "002", 2, &domain.RegisterRequest{TermID: 1}, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
}

func TestRegistrationService_PrerequisitesCheckedBeforeDuplicates(t *testing.T) {
	svc, repos := newRegistrationService(t)
	ctx := context.Background()

	// a registration created out of band must not mask the prerequisite failure
	require.NoError(t, repos.Registrations.Create(ctx, &domain.Registration{StudentID: "003", CourseID: 2, TermID: 1}))

	_, err := svc.Register(ctx, "003", 2, &domain.RegisterRequest{TermID: 1}, "")
	assert.Equal(t, domain.KindPrerequisitesNotMet, domain.KindOf(err))
}

func TestRegistrationService_IdempotentReplay(t *testing.T) {
	svc, _ := newRegistrationService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "001", 4, &domain.RegisterRequest{TermID: 1}, "key-1")
	require.NoError(t, err)

	second, err := svc.Register(ctx, "001", 4, &domain.RegisterRequest{TermID: 1}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	regs, err := svc.GetStudentRegistrations(ctx, "001")
	require.NoError(t, err)
	assert.Len(t, regs, 1)

	_, err = svc.Register(ctx, "001", 8, &domain.RegisterRequest{TermID: 1}, "key-1")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestRegistrationService_ConcurrentDuplicateRequests(t *testing.T) {
	svc, _ := newRegistrationService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, "001", 6, &domain.RegisterRequest{TermID: 1}, "")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
	}
	assert.Equal(t, 1, succeeded)
}

func TestRegistrationService_UnknownStudentHasNoRegistrations(t *testing.T) {
	svc, _ := newRegistrationService(t)
	regs, err := svc.GetStudentRegistrations(context.Background(), "999")
	require.NoError(t, err)
	assert.Empty(t, regs)
}
