package handlers

import (
	"net/http"

	"course-portal/internal/api/middleware"
	domain "course-portal/internal/domain/registration"
	serviceInterfaces "course-portal/internal/interfaces/service"

	"github.com/gin-gonic/gin"
)

// RegistrationHandler handles registration-related HTTP requests
type RegistrationHandler struct {
	registrationService serviceInterfaces.RegistrationService
}

func NewRegistrationHandler(registrationService serviceInterfaces.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
	}
}

// Register handles POST /api/students/:id/courses/:courseId/register
func (h *RegistrationHandler) Register(c *gin.Context) {
	courseID, ok := intParam(c, "courseId", "Invalid course ID")
	if !ok {
		return
	}

	var req domain.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	reg, err := h.registrationService.Register(
		c.Request.Context(),
		c.Param("id"),
		courseID,
		&req,
		middleware.GetIdempotencyKey(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, domain.RegisterResponse{Registration: reg})
}

// GetStudentRegistrations handles GET /api/students/:id/registrations
func (h *RegistrationHandler) GetStudentRegistrations(c *gin.Context) {
	registrations, err := h.registrationService.GetStudentRegistrations(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.RegistrationsResponse{Registrations: registrations})
}
