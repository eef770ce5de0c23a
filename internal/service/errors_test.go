package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yoman-app/yoman-api/internal/store"
)

func TestServiceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		op       string
		err      error
		expected string
	}{
		{
			name:     "with underlying error",
			service:  "journal",
			op:       "create",
			err:      errors.New("database connection failed"),
			expected: "journal service create operation failed: database connection failed",
		},
		{
			name:     "without underlying error",
			service:  "set",
			op:       "delete",
			expected: "set service delete operation failed",
		},
		{
			name:     "with sentinel error",
			service:  "progress",
			op:       "answer",
			err:      ErrQuestionOutOfRange,
			expected: "progress service answer operation failed: question index out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewServiceError(tt.service, tt.op, tt.err).Error())
		})
	}
}

func TestServiceError_Unwrap(t *testing.T) {
	err := NewServiceError("set", "get", store.ErrSetNotFound)

	assert.ErrorIs(t, err, store.ErrSetNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Nil(t, NewServiceError("set", "get", nil).Unwrap())

	var serviceErr *ServiceError
	wrapped := NewServiceError("outer", "wrap", err)
	assert.True(t, errors.As(wrapped, &serviceErr))
	assert.Equal(t, "outer", serviceErr.Service)
	assert.True(t, errors.As(wrapped.Err, &serviceErr))
	assert.Equal(t, "set", serviceErr.Service)
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	errs := []error{ErrInvalidCredentials, ErrQuestionOutOfRange, ErrNotMonthlySet, ErrUploadsDisabled, ErrInvalidUploadKind}
	for i, a := range errs {
		for j, b := range errs {
			if i != j {
				assert.False(t, errors.Is(a, b))
			}
		}
	}
}
