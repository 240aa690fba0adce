package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndCode(t *testing.T) {
	base := Wrap("fetch_failed", "fetch page", context.DeadlineExceeded)
	wrapped := fmt.Errorf("extract: %w", base)

	require.True(t, IsCode(wrapped, "fetch_failed"))
	require.False(t, IsCode(wrapped, "empty_content"))
	require.Equal(t, "fetch_failed", CodeOf(wrapped))
	require.ErrorIs(t, wrapped, context.DeadlineExceeded)
	require.Equal(t, "fetch page: context deadline exceeded", base.Error())
}

func TestCodeOfPlainError(t *testing.T) {
	require.Equal(t, "", CodeOf(fmt.Errorf("boom")))
	require.False(t, IsCode(nil, ""))
}
