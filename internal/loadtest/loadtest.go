// Package loadtest drives concurrent registrations against a running server
// and checks that no student ends up registered twice for the same course.
package loadtest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"course-portal/internal/client"
	domain "course-portal/internal/domain/registration"
	"course-portal/pkg/logger"
)

// Config holds the load profile.
type Config struct {
	Usernames       []string
	Password        string
	CourseIDs       []int
	ConcurrentUsers int
	RequestsPerUser int
}

// DefaultConfig targets the built-in fixture.
func DefaultConfig() Config {
	return Config{
		Usernames:       []string{"student001", "student002", "student003"},
		Password:        "pass123",
		CourseIDs:       []int{1, 2, 3, 4, 5, 6, 7, 8},
		ConcurrentUsers: 10,
		RequestsPerUser: 5,
	}
}

// Result summarizes a run.
type Result struct {
	TotalRequests int
	Succeeded     int
	ByKind        map[domain.ErrorKind]int
	AvgLatency    time.Duration
	MinLatency    time.Duration
	MaxLatency    time.Duration
	Duration      time.Duration
	ThroughputRPS float64
	// Duplicates counts (student, course) pairs registered more than once.
	Duplicates int
}

type session struct {
	studentID string
	token     string
}

// Runner executes one load test.
type Runner struct {
	api    *client.APIClient
	config Config

	mu     sync.Mutex
	result Result
	total  time.Duration
}

func NewRunner(api *client.APIClient, config Config) *Runner {
	if config.ConcurrentUsers <= 0 {
		config.ConcurrentUsers = 1
	}
	if config.RequestsPerUser <= 0 {
		config.RequestsPerUser = 1
	}
	return &Runner{
		api:    api,
		config: config,
	}
}

// Run logs every student in, fires ConcurrentUsers*RequestsPerUser
// registrations bounded by ConcurrentUsers, then audits the registrations.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if len(r.config.Usernames) == 0 || len(r.config.CourseIDs) == 0 {
		return nil, fmt.Errorf("load test needs at least one student and one course")
	}

	sessions := make([]session, 0, len(r.config.Usernames))
	for _, name := range r.config.Usernames {
		resp, err := r.api.Login(ctx, name, r.config.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to log in %s: %w", name, err)
		}
		sessions = append(sessions, session{studentID: resp.Student.ID, token: resp.Token})
	}

	term, err := r.api.GetCurrentTerm(ctx, sessions[0].token)
	if err != nil {
		return nil, fmt.Errorf("failed to get current term: %w", err)
	}

	r.result = Result{ByKind: make(map[domain.ErrorKind]int)}
	r.total = 0

	logger.Info("Starting load test with %d concurrent users", r.config.ConcurrentUsers)
	start := time.Now()
	semaphore := make(chan struct{}, r.config.ConcurrentUsers)
	var wg sync.WaitGroup

	totalRequests := r.config.ConcurrentUsers * r.config.RequestsPerUser
	for i := 0; i < totalRequests; i++ {
		s := sessions[i%len(sessions)]
		courseID := r.config.CourseIDs[(i/len(sessions))%len(r.config.CourseIDs)]

		wg.Add(1)
		go func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			began := time.Now()
			_, err := r.api.RegisterForCourse(ctx, s.studentID, courseID, term.ID, s.token)
			r.record(err, time.Since(began))
		}()
	}
	wg.Wait()

	r.result.Duration = time.Since(start)
	if r.result.Duration > 0 {
		r.result.ThroughputRPS = float64(r.result.TotalRequests) / r.result.Duration.Seconds()
	}
	if r.result.TotalRequests > 0 {
		r.result.AvgLatency = r.total / time.Duration(r.result.TotalRequests)
	}

	duplicates, err := r.audit(ctx, sessions)
	if err != nil {
		return nil, err
	}
	r.result.Duplicates = duplicates

	res := r.result
	return &res, nil
}

func (r *Runner) record(err error, latency time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.result.TotalRequests++
	r.total += latency
	if latency > r.result.MaxLatency {
		r.result.MaxLatency = latency
	}
	if r.result.MinLatency == 0 || latency < r.result.MinLatency {
		r.result.MinLatency = latency
	}

	if err == nil {
		r.result.Succeeded++
		return
	}
	r.result.ByKind[client.KindOf(err)]++
}

func (r *Runner) audit(ctx context.Context, sessions []session) (int, error) {
	duplicates := 0
	for _, s := range sessions {
		regs, err := r.api.GetStudentRegistrations(ctx, s.studentID, s.token)
		if err != nil {
			return 0, fmt.Errorf("failed to audit registrations for %s: %w", s.studentID, err)
		}
		seen := make(map[int]int)
		for _, reg := range regs {
			seen[reg.Course.ID]++
		}
		for courseID, n := range seen {
			if n > 1 {
				logger.WithFields(map[string]interface{}{
					"student_id": s.studentID,
					"course_id":  courseID,
					"count":      n,
				}).Error("Duplicate registration detected")
				duplicates++
			}
		}
	}
	return duplicates, nil
}

// Kinds returns the failure kinds seen, sorted for stable output.
func (r *Result) Kinds() []domain.ErrorKind {
	kinds := make([]domain.ErrorKind, 0, len(r.ByKind))
	for k := range r.ByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
