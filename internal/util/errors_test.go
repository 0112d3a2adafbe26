package util_test

import (
	"ai_tutor_backend/internal/util"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMatchesSentinelByKindAndMessage(t *testing.T) {
	wrapped := fmt.Errorf("grade: %w", util.NewNotFoundError("Problem not found"))
	assert.ErrorIs(t, wrapped, util.ErrProblemNotFound)
	assert.NotErrorIs(t, wrapped, util.ErrChapterNotFound)
	assert.NotErrorIs(t, util.NewValidationError("Problem not found"), util.ErrProblemNotFound)
}

func TestInternalErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := util.NewInternalError("Failed to generate notes", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to generate notes: connection reset", err.Error())
	assert.Equal(t, util.KindInternal, util.KindOf(err))
	assert.Equal(t, util.KindInternal, util.KindOf(cause))
}

func TestErrorKindStatus(t *testing.T) {
	cases := map[util.ErrorKind]int{
		util.KindValidation:         http.StatusBadRequest,
		util.KindAuth:               http.StatusUnauthorized,
		util.KindNotFound:           http.StatusNotFound,
		util.KindConflict:           http.StatusConflict,
		util.KindServiceUnavailable: http.StatusServiceUnavailable,
		util.KindInternal:           http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status())
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, util.Percentage(3, 0))
	assert.Equal(t, 33, util.Percentage(1, 3))
	assert.Equal(t, 67, util.Percentage(2, 3))
	assert.Equal(t, 100, util.Percentage(4, 4))
}
