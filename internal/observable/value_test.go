package observable

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestValue_LateSubscriberGetsCurrentValue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := NewValue(false)
	v.Set(true)

	ch := v.Subscribe(ctx)
	assert.True(t, receive(t, ch))
}

func TestValue_PublishOrderIsPreserved(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var v Value[string]
	ch := v.Subscribe(ctx)

	// Nothing was ever set, so nothing is replayed; publish before reading
	// to make sure queued values are not dropped or reordered.
	for _, s := range []string{"a", "b", "c"} {
		v.Set(s)
	}

	assert.Equal(t, "a", receive(t, ch))
	assert.Equal(t, "b", receive(t, ch))
	assert.Equal(t, "c", receive(t, ch))

	got, ok := v.Get()
	assert.True(t, ok)
	assert.Equal(t, "c", got)
}

func TestValue_FanOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := NewValue(0)
	first := v.Subscribe(ctx)
	second := v.Subscribe(ctx)

	v.Set(7)

	assert.Equal(t, 0, receive(t, first))
	assert.Equal(t, 7, receive(t, first))
	assert.Equal(t, 0, receive(t, second))
	assert.Equal(t, 7, receive(t, second))
	assert.Equal(t, 2, v.Subscribers())
}

func TestValue_CancelClosesChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	v := NewValue("x")
	ch := v.Subscribe(ctx)
	assert.Equal(t, "x", receive(t, ch))

	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return v.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}
