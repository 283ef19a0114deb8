package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationError_IsAndAs(t *testing.T) {
	err := fmt.Errorf("create: %w", Invalid("url", "must not be empty"))

	require.ErrorIs(t, err, ErrValidation)
	require.NotErrorIs(t, err, ErrNotFound)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "url", ve.Field)
	require.Equal(t, "validation failed: url: must not be empty", ve.Error())
}

func TestNotFoundError(t *testing.T) {
	err := NotFound("collection", "c1")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, "collection not found: c1", err.Error())
}

func TestWithPrefix(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nested field", err: Invalid("width", "out of range"), want: "spaces[0].width"},
		{name: "empty field", err: Invalid("", "bad"), want: "spaces[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ve *ValidationError
			require.True(t, errors.As(WithPrefix("spaces[0]", tt.err), &ve))
			require.Equal(t, tt.want, ve.Field)
		})
	}

	plain := errors.New("boom")
	require.Equal(t, plain, WithPrefix("x", plain))
}
