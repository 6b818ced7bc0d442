package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("too dense"), "lower grid.density")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "lower grid.density", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
}

func TestSentinels(t *testing.T) {
	t.Run("invalid request survives wrapping", func(t *testing.T) {
		err := NewInvalidRequestError("point (%d,%d) out of bounds", 9, 9)
		err = Wrap(err, "search")

		assert.True(t, IsInvalidRequestError(err))
		assert.False(t, IsNotFoundError(err))
		assert.Contains(t, err.Error(), "point (9,9) out of bounds")
	})

	t.Run("not found", func(t *testing.T) {
		err := NewNotFoundError("batch %s", "abc")
		assert.True(t, IsNotFoundError(err))
		assert.False(t, IsInvalidRequestError(nil))
	})

	t.Run("invariant errors are assertion failures", func(t *testing.T) {
		err := NewInvariantError("B+E+H=%d, want %d", 7, 8)
		assert.True(t, Is(err, ErrInvariant))
		assert.True(t, HasAssertionFailure(err))
		assert.Contains(t, err.Error(), "B+E+H=7, want 8")
	})
}

func ExampleWrap() {
	baseErr := New("no path")
	err := Wrap(baseErr, "failed to plan")
	fmt.Println(err)
	// Output: failed to plan: no path
}
