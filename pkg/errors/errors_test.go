package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap("prediction_error", "upstream failed", cause)
	require.Equal(t, "upstream failed: boom", err.Error())
	require.ErrorIs(t, err, cause)
	require.True(t, IsCode(err, "prediction_error"))

	bare := Wrap("invalid_input", "age out of range", nil)
	require.Equal(t, "age out of range", bare.Error())
}

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", Wrap("not_found", "missing", nil))
	require.Equal(t, "not_found", CodeOf(err))
	require.Empty(t, CodeOf(errors.New("plain")))
	require.False(t, IsCode(nil, "not_found"))
}
