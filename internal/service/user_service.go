package service

import (
	"context"
	"fmt"
	"time"

	domain "course-portal/internal/domain/registration"
	"course-portal/internal/domain/user"
	interfaces "course-portal/internal/interfaces/infrastructure"
	"course-portal/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

// userService implements the UserService interface
type userService struct {
	studentRepo interfaces.StudentRepository
	now         func() time.Time
}

// NewUserService creates a new user service
func NewUserService(studentRepo interfaces.StudentRepository) user.UserService {
	return &userService{
		studentRepo: studentRepo,
		now:         time.Now,
	}
}

// Login checks the credentials and issues an opaque token. Tokens are not
// signed; the server only checks the bearer prefix on later requests.
func (s *userService) Login(ctx context.Context, req *user.LoginRequest) (*user.LoginResponse, error) {
	student, err := s.studentRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up student", err)
	}

	if student == nil {
		logger.Info("Login rejected for unknown username %s", req.Username)
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.Password)); err != nil {
		logger.Info("Login rejected for %s: wrong password", req.Username)
		return nil, domain.ErrInvalidCredentials
	}

	logger.Info("Student %s logged in", student.ID)
	return &user.LoginResponse{
		Student: user.FromStudent(student),
		Token:   fmt.Sprintf("mock-token-%s-%d", student.ID, s.now().UnixMilli()),
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, studentID string) (*domain.StudentProfile, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up student", err)
	}
	if student == nil {
		return nil, domain.NewNotFoundError(domain.MsgStudentNotFound)
	}

	profile := student.Profile()
	return &profile, nil
}
