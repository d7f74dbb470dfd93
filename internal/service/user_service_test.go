package service

import (
	"context"
	"strings"
	"testing"

	domain "course-portal/internal/domain/registration"
	"course-portal/internal/domain/user"
	"course-portal/internal/infrastructure/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepos(t *testing.T) *repository.MemoryRepositories {
	t.Helper()
	repos, err := repository.NewMemoryRepositories()
	require.NoError(t, err)
	return repos
}

func TestUserService_Login(t *testing.T) {
	userService := NewUserService(newRepos(t).Students)

	resp, err := userService.Login(context.Background(), &user.LoginRequest{Username: "student001", Password: "pass123"})
	require.NoError(t, err)
	assert.Equal(t, user.User{ID: "001", Username: "student001"}, resp.Student)
	assert.True(t, strings.HasPrefix(resp.Token, "mock-token-001-"), resp.Token)
}

func TestUserService_LoginInvalidCredentials(t *testing.T) {
	userService := NewUserService(newRepos(t).Students)

	tests := []struct {
		name string
		req  user.LoginRequest
	}{
		{"wrong password", user.LoginRequest{Username: "student001", Password: "nope"}},
		{"unknown user", user.LoginRequest{Username: "ghost", Password: "pass123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := userService.Login(context.Background(), &tt.req)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		})
	}
}

func TestUserService_GetProfile(t *testing.T) {
	userService := NewUserService(newRepos(t).Students)

	profile, err := userService.GetProfile(context.Background(), "002")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, profile.CompletedCourses)

	_, err = userService.GetProfile(context.Background(), "999")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
