package handlers

import (
	"net/http"
	"strconv"

	domain "course-portal/internal/domain/registration"
	serviceInterfaces "course-portal/internal/interfaces/service"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService serviceInterfaces.CatalogService
}

func NewCatalogHandler(catalogService serviceInterfaces.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// GetCurrentTerm handles GET /api/current_term
func (h *CatalogHandler) GetCurrentTerm(c *gin.Context) {
	term, err := h.catalogService.GetCurrentTerm(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, term)
}

// GetTermCourses handles GET /api/terms/:id/courses
func (h *CatalogHandler) GetTermCourses(c *gin.Context) {
	termID, ok := intParam(c, "id", "Invalid term ID")
	if !ok {
		return
	}

	courses, err := h.catalogService.GetCoursesForTerm(c.Request.Context(), termID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.CoursesResponse{Courses: courses})
}

func intParam(c *gin.Context, name, message string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		respondError(c, domain.NewValidationError(message))
		return 0, false
	}
	return v, true
}
