package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerBody struct {
	TermID int    `json:"termId" validate:"required,gt=0"`
	Note   string `json:"note,omitempty" validate:"max=5"`
}

func TestValidateStruct_ReportsWireNames(t *testing.T) {
	err := ValidateStruct(&registerBody{Note: "too long"})
	require.Error(t, err)

	details := FormatValidationError(err)
	require.Len(t, details, 2)
	assert.Equal(t, "termId", details[0].Field)
	assert.Equal(t, "required", details[0].Tag)
	assert.Equal(t, "termId is required", details[0].Message)
	assert.Equal(t, "note must be at most 5 characters long", details[1].Message)

	assert.Equal(t, "termId is required; note must be at most 5 characters long", Summary(err))
}

func TestValidateStruct_Valid(t *testing.T) {
	assert.NoError(t, ValidateStruct(&registerBody{TermID: 1}))
}

func TestFormatValidationError_Other(t *testing.T) {
	assert.Nil(t, FormatValidationError(errors.New("boom")))
	assert.Equal(t, "Validation failed", Summary(errors.New("boom")))
}
