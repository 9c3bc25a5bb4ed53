package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	e1 := New("cause1")
	e2 := New("cause2").Wrap(e1)
	e := New("dummy").Wrap(e2)
	e3 := e.Unwrap()
	assert.True(t, Is(e, e1))
	assert.True(t, Is(e, e2))
	assert.True(t, e3 == e2)
}

func TestWrapKeepsSentinel(t *testing.T) {
	sentinel := New("tool failed")
	cause := fmt.Errorf("exit status 3")

	wrapped := sentinel.Wrap(cause)
	require.NotSame(t, sentinel, wrapped)
	assert.Nil(t, sentinel.Unwrap(), "wrapping must not mutate the sentinel")
	assert.True(t, Is(wrapped, sentinel))
	assert.True(t, Is(wrapped, cause))
	assert.Equal(t, "tool failed: exit status 3", wrapped.Error())

	rewrapped := wrapped.Wrap(fmt.Errorf("other"))
	assert.True(t, Is(rewrapped, sentinel))
	assert.False(t, Is(rewrapped, New("tool failed")))
}
