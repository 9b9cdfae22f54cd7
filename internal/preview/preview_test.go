package preview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()

	var events []string
	var data []any
	p := NewPublisher("", func(ev string, d any) {
		events = append(events, ev)
		data = append(data, d)
	})

	payload := &Payload{ID: "abc", Generation: 3, Success: true}
	require.NoError(t, p.Publish(context.Background(), payload))

	assert.Equal(t, []string{DefaultEvent}, events)
	assert.Same(t, payload, data[0])

	t.Run("closed publisher rejects payloads", func(t *testing.T) {
		require.NoError(t, p.Close())
		require.NoError(t, p.Close())
		assert.Error(t, p.Publish(context.Background(), payload))
		assert.Len(t, events, 1)
	})
}

func TestPublisher_CancelledContext(t *testing.T) {
	t.Parallel()

	called := false
	p := NewPublisher("custom", func(string, any) { called = true })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Publish(ctx, &Payload{})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestDial_RejectsRelativeURL(t *testing.T) {
	t.Parallel()

	_, err := Dial(context.Background(), "localhost:3000", "/", DefaultEvent, false)
	require.Error(t, err)
}
