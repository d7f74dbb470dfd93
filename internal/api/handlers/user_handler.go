package handlers

import (
	"net/http"

	domain "course-portal/internal/domain/registration"
	"course-portal/internal/domain/user"
	"course-portal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// UserHandler serves login and student profiles.
type UserHandler struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Login handles POST /api/login. Missing or oversized credentials get the
// same 401 as a wrong password.
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		respondError(c, domain.ErrInvalidCredentials)
		return
	}

	resp, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfile handles GET /api/students/:id
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
