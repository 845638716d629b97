package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentityForErrorsIs(t *testing.T) {
	err := Clone(ErrBackendTimeout, "took too long")

	assert.True(t, errors.Is(err, ErrBackendTimeout))
	assert.False(t, errors.Is(err, ErrBackendUnavailable))
	assert.Equal(t, "took too long", err.Message)
	assert.Equal(t, "backend request timed out", ErrBackendTimeout.Message)
}

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.EqualError(t, appErr, "internal server error: boom")
}

func TestFromErrorUnwrapsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("create report: %w", WithDetails(ErrConflict, map[string]int{"report_id": 17}))

	appErr := FromError(wrapped)

	assert.Equal(t, ErrConflict.Code, appErr.Code)
	assert.Equal(t, map[string]int{"report_id": 17}, appErr.Details)
	assert.Nil(t, ErrConflict.Details)
}
