package user

import (
	"context"

	domain "course-portal/internal/domain/registration"
)

// User is the identity returned to clients after login.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginRequest represents the credentials posted to /login
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginResponse carries the identity and an opaque bearer token.
type LoginResponse struct {
	Student User   `json:"student"`
	Token   string `json:"token"`
}

// UserService authenticates students and exposes their profile.
type UserService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	GetProfile(ctx context.Context, studentID string) (*domain.StudentProfile, error)
}

// FromStudent builds the wire identity for a student record.
func FromStudent(s *domain.Student) User {
	return User{ID: s.ID, Username: s.Username}
}
