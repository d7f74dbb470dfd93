package handlers

import (
	"errors"
	"net/http"

	domain "course-portal/internal/domain/registration"
	"course-portal/pkg/logger"
	"course-portal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed API call. Clients read "error"
// for the message and "code" for the failure kind.
type ErrorResponse struct {
	Error   string                      `json:"error"`
	Code    domain.ErrorKind            `json:"code"`
	Missing []int                       `json:"missing,omitempty"`
	Details []validator.ValidationError `json:"details,omitempty"`
}

func respondError(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.NewInternalError("Internal server error", err)
	}

	status := de.Status
	if status == 0 {
		status = domain.StatusFor(de.Kind)
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		_ = c.Error(err)
	}

	c.JSON(status, ErrorResponse{
		Error:   de.Message,
		Code:    de.Kind,
		Missing: de.Missing,
	})
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
// It writes the 400 response itself and reports false on failure.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if !bindJSON(c, req) {
		return false
	}

	if err := validator.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   validator.Summary(err),
			Code:    domain.KindValidation,
			Details: validator.FormatValidationError(err),
		})
		return false
	}
	return true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request format",
			Code:  domain.KindValidation,
		})
		return false
	}
	return true
}
