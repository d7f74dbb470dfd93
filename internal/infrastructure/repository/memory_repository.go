package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	domain "course-portal/internal/domain/registration"
	interfaces "course-portal/internal/interfaces/infrastructure"
)

var (
	_ interfaces.StudentRepository      = (*memoryStudentRepository)(nil)
	_ interfaces.CourseRepository       = (*memoryCourseRepository)(nil)
	_ interfaces.TermRepository         = (*memoryTermRepository)(nil)
	_ interfaces.RegistrationRepository = (*memoryRegistrationRepository)(nil)
	_ interfaces.IdempotencyRepository  = (*memoryIdempotencyRepository)(nil)
)

// MemoryRepositories bundles the in-memory repositories used by the demo
// server and by tests.
type MemoryRepositories struct {
	Students      interfaces.StudentRepository
	Courses       interfaces.CourseRepository
	Terms         interfaces.TermRepository
	Registrations interfaces.RegistrationRepository
	Idempotency   interfaces.IdempotencyRepository
}

// NewMemoryRepositories creates in-memory repositories seeded with the demo
// fixture. Registrations start empty.
func NewMemoryRepositories() (*MemoryRepositories, error) {
	students := &memoryStudentRepository{students: make(map[string]*domain.Student)}
	courses := &memoryCourseRepository{courses: make(map[int]*domain.Course)}
	terms := &memoryTermRepository{terms: make(map[int]*domain.Term)}

	if err := SeedFixture(context.Background(), students, courses, terms); err != nil {
		return nil, err
	}

	return &MemoryRepositories{
		Students:      students,
		Courses:       courses,
		Terms:         terms,
		Registrations: NewMemoryRegistrationRepository(),
		Idempotency:   NewMemoryIdempotencyRepository(),
	}, nil
}

type memoryStudentRepository struct {
	students map[string]*domain.Student
	mutex    sync.RWMutex
}

func (r *memoryStudentRepository) Create(_ context.Context, student *domain.Student) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.students[student.ID]; exists {
		return errors.New("student already exists")
	}
	for _, existing := range r.students {
		if existing.Username == student.Username {
			return errors.New("username already exists")
		}
	}

	r.students[student.ID] = student
	return nil
}

func (r *memoryStudentRepository) GetByID(_ context.Context, id string) (*domain.Student, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.students[id], nil
}

func (r *memoryStudentRepository) GetByUsername(_ context.Context, username string) (*domain.Student, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, s := range r.students {
		if s.Username == username {
			return s, nil
		}
	}
	return nil, nil
}

type memoryCourseRepository struct {
	courses map[int]*domain.Course
	mutex   sync.RWMutex
}

func (r *memoryCourseRepository) Create(_ context.Context, course *domain.Course) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.courses[course.ID]; exists {
		return errors.New("course already exists")
	}
	r.courses[course.ID] = course
	return nil
}

func (r *memoryCourseRepository) GetByID(_ context.Context, id int) (*domain.Course, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.courses[id], nil
}

func (r *memoryCourseRepository) ListByTerm(_ context.Context, termID int) ([]*domain.Course, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	courses := make([]*domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		if c.TermID == termID {
			courses = append(courses, c)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

type memoryTermRepository struct {
	terms map[int]*domain.Term
	mutex sync.RWMutex
}

func (r *memoryTermRepository) Create(_ context.Context, term *domain.Term) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.terms[term.ID]; exists {
		return errors.New("term already exists")
	}
	r.terms[term.ID] = term
	return nil
}

func (r *memoryTermRepository) GetByID(_ context.Context, id int) (*domain.Term, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.terms[id], nil
}

func (r *memoryTermRepository) GetCurrent(_ context.Context) (*domain.Term, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, t := range r.terms {
		if t.IsCurrent {
			return t, nil
		}
	}
	return nil, nil
}

type memoryRegistrationRepository struct {
	registrations []*domain.Registration
	nextID        atomic.Int64
	mutex         sync.RWMutex
}

func NewMemoryRegistrationRepository() interfaces.RegistrationRepository {
	return &memoryRegistrationRepository{}
}

func (r *memoryRegistrationRepository) Create(_ context.Context, registration *domain.Registration) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	registration.ID = r.nextID.Add(1)
	r.registrations = append(r.registrations, registration)
	return nil
}

func (r *memoryRegistrationRepository) ListByStudent(_ context.Context, studentID string) ([]*domain.Registration, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*domain.Registration, 0)
	for _, reg := range r.registrations {
		if reg.StudentID == studentID {
			result = append(result, reg)
		}
	}
	return result, nil
}

func (r *memoryRegistrationRepository) ExistsForCourseAndTerm(_ context.Context, studentID string, courseID, termID int) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, reg := range r.registrations {
		if reg.StudentID == studentID && reg.CourseID == courseID && reg.TermID == termID {
			return true, nil
		}
	}
	return false, nil
}

type memoryIdempotencyRepository struct {
	keys  map[string]*domain.IdempotencyKey
	mutex sync.RWMutex
}

func NewMemoryIdempotencyRepository() interfaces.IdempotencyRepository {
	return &memoryIdempotencyRepository{keys: make(map[string]*domain.IdempotencyKey)}
}

func (r *memoryIdempotencyRepository) Create(_ context.Context, key *domain.IdempotencyKey) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.keys[key.Key] = key
	return nil
}

func (r *memoryIdempotencyRepository) GetByKey(_ context.Context, key string) (*domain.IdempotencyKey, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.keys[key], nil
}

func (r *memoryIdempotencyRepository) Delete(_ context.Context, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.keys, key)
	return nil
}
