// Package fixture holds the demo catalog served by the registration backend:
// three students, one current term and eight courses with prerequisite chains.
package fixture

import (
	"sync"

	domain "course-portal/internal/domain/registration"

	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is shared by every fixture student.
const DemoPassword = "pass123"

type studentSeed struct {
	id        string
	username  string
	completed []int
}

var studentSeeds = []studentSeed{
	{id: "001", username: "student001", completed: []int{1, 2}},
	{id: "002", username: "student002", completed: []int{1}},
	{id: "003", username: "student003", completed: []int{}},
}

var (
	hashOnce sync.Once
	hashed   string
	hashErr  error
)

func passwordHash() (string, error) {
	hashOnce.Do(func() {
		b, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
		hashed, hashErr = string(b), err
	})
	return hashed, hashErr
}

// Students returns fresh copies of the fixture students with hashed passwords.
func Students() ([]*domain.Student, error) {
	hash, err := passwordHash()
	if err != nil {
		return nil, err
	}

	students := make([]*domain.Student, 0, len(studentSeeds))
	for _, s := range studentSeeds {
		completed := append([]int{}, s.completed...)
		students = append(students, &domain.Student{
			ID:               s.id,
			Username:         s.username,
			PasswordHash:     hash,
			CompletedCourses: completed,
		})
	}
	return students, nil
}

// CurrentTerm returns the single term of the demo catalog.
func CurrentTerm() *domain.Term {
	return &domain.Term{
		ID:        1,
		Name:      "Spring 2024",
		StartDate: "2024-01-15",
		EndDate:   "2024-05-15",
		IsCurrent: true,
	}
}

// Courses returns the courses offered in CurrentTerm.
func Courses() []*domain.Course {
	termID := CurrentTerm().ID
	return []*domain.Course{
		{ID: 1, TermID: termID, Name: "Introduction to Programming", Prereqs: []int{}},
		{ID: 2, TermID: termID, Name: "Data Structures", Prereqs: []int{1}},
		{ID: 3, TermID: termID, Name: "Algorithms", Prereqs: []int{1, 2}},
		{ID: 4, TermID: termID, Name: "Web Development", Prereqs: []int{1}},
		{ID: 5, TermID: termID, Name: "Advanced Web Development", Prereqs: []int{4}},
		{ID: 6, TermID: termID, Name: "Database Systems", Prereqs: []int{2}},
		{ID: 7, TermID: termID, Name: "Machine Learning", Prereqs: []int{2, 3}},
		{ID: 8, TermID: termID, Name: "Computer Networks", Prereqs: []int{1}},
	}
}
