package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	notFound := New(http.StatusNotFound, "booking not found")

	assert.Equal(t, http.StatusNotFound, StatusOf(notFound))
	assert.Equal(t, http.StatusNotFound, StatusOf(fmt.Errorf("lookup: %w", notFound)))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, http.StatusServiceUnavailable, "database unavailable")

	assert.Equal(t, "database unavailable", err.Error())
	assert.ErrorIs(t, err, cause)
}
