package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_SendTo(t *testing.T) {
	cm := newTestRegistry(t, testConfig())
	d := NewDispatcher(testLogger(t), cm)
	bob := newFakeConnection(2)
	cm.RegisterConnection(2, bob)

	tests := []struct {
		name       string
		recipient  int64
		wantOK     bool
		wantFrames int
	}{
		{name: "connected recipient", recipient: 2, wantOK: true, wantFrames: 1},
		{name: "offline recipient is dropped", recipient: 99, wantOK: false, wantFrames: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok := d.SendTo(context.Background(), tt.recipient, map[string]string{"hello": "bob"})
			assert.Equal(t, tt.wantOK, ok)
			assert.Len(t, bob.Frames(), tt.wantFrames)
		})
	}
}

func TestDispatcher_SendToWriteFailure(t *testing.T) {
	cm := newTestRegistry(t, testConfig())
	d := NewDispatcher(testLogger(t), cm)
	broken := newFakeConnection(5)
	broken.writeErr = errors.New("connection closing")
	cm.RegisterConnection(5, broken)

	assert.False(t, d.SendTo(context.Background(), 5, "frame"))
}

func TestDispatcher_PreservesPerRecipientOrder(t *testing.T) {
	cm := newTestRegistry(t, testConfig())
	d := NewDispatcher(testLogger(t), cm)
	conn := newFakeConnection(1)
	cm.RegisterConnection(1, conn)

	for i := 0; i < 50; i++ {
		require.True(t, d.SendTo(context.Background(), 1, i))
	}

	frames := conn.Frames()
	require.Len(t, frames, 50)
	for i, f := range frames {
		assert.Equal(t, i, f)
	}
}

func TestDispatcher_BroadcastAll(t *testing.T) {
	cm := newTestRegistry(t, testConfig())
	d := NewDispatcher(testLogger(t), cm)

	a, b, c := newFakeConnection(1), newFakeConnection(2), newFakeConnection(3)
	c.writeErr = errors.New("buffer closed")
	cm.RegisterConnection(1, a)
	cm.RegisterConnection(2, b)
	cm.RegisterConnection(3, c)

	delivered := d.BroadcastAll(context.Background(), "notice")

	assert.Equal(t, 2, delivered)
	assert.Equal(t, []any{"notice"}, a.Frames())
	assert.Equal(t, []any{"notice"}, b.Frames())
	assert.Empty(t, c.Frames())
}

func TestDispatcher_BroadcastAllEmptyRegistry(t *testing.T) {
	d := NewDispatcher(testLogger(t), newTestRegistry(t, testConfig()))
	assert.Equal(t, 0, d.BroadcastAll(context.Background(), "notice"))
}
