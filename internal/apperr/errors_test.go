package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"citizenvoice/backend/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("saving: %w", apperr.Storage("SaveComplaints", cause))

	assert.True(t, errors.Is(err, apperr.ErrStorageFailure))
	assert.False(t, errors.Is(err, apperr.ErrNotFound))
	assert.True(t, errors.Is(err, cause), "cause stays reachable through Unwrap")
	assert.Equal(t, apperr.CodeStorageFailure, apperr.CodeOf(err))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"op and message", apperr.NotFound("AddResponse", "complaint %d", 3), "AddResponse: complaint 3"},
		{"with cause", apperr.Network("ListComplaints", errors.New("timeout")), "ListComplaints: network failure: timeout"},
		{"bare sentinel", apperr.ErrUnauthorized, "unauthorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, apperr.Code(""), apperr.CodeOf(errors.New("plain")))
	assert.Equal(t, apperr.Code(""), apperr.CodeOf(nil))
}
