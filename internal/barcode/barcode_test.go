package barcode

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushSource(t *testing.T) {
	src := NewPushSource(1)
	assert.True(t, src.Push("8901234567890"))
	assert.False(t, src.Push("overflow"))

	code, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8901234567890", code)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStubSourceCycles(t *testing.T) {
	src := NewStubSource([]string{"A1", "B2"}, time.Millisecond)
	defer src.Stop()
	ctx := context.Background()

	var got []string
	for i := 0; i < 3; i++ {
		code, err := src.Next(ctx)
		require.NoError(t, err)
		got = append(got, code)
	}
	assert.Equal(t, []string{"A1", "B2", "A1"}, got)
}

func TestScannerDebounce(t *testing.T) {
	var seen []string
	s := NewScanner(NewPushSource(1), func(code string) { seen = append(seen, code) }, nil)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	assert.True(t, s.accept("X"))
	assert.False(t, s.accept("X"))
	assert.True(t, s.accept("Y"))
	assert.True(t, s.accept("X"))

	now = now.Add(time.Second)
	assert.False(t, s.accept("X"))
	now = now.Add(2 * time.Second)
	assert.True(t, s.accept("X"))
	assert.False(t, s.accept(""))

	assert.Equal(t, []string{"X", "Y", "X", "X"}, seen)
}

func TestSessionStartStop(t *testing.T) {
	src := NewPushSource(4)
	var mu sync.Mutex
	got := make(chan string, 4)
	scanner := NewScanner(src, func(code string) {
		mu.Lock()
		defer mu.Unlock()
		got <- code
	}, nil)

	var session Session
	require.True(t, session.Start(context.Background(), scanner))
	assert.False(t, session.Start(context.Background(), scanner))
	assert.True(t, session.Running())

	src.Push("P-100")
	select {
	case code := <-got:
		assert.Equal(t, "P-100", code)
	case <-time.After(time.Second):
		t.Fatal("code not delivered")
	}

	assert.True(t, session.Stop())
	assert.False(t, session.Stop())
	assert.False(t, session.Running())
}
