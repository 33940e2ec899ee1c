package application

import (
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
)

func newTestRegistry(t *testing.T, cfg *config.Config) *ConnectionManager {
	return NewConnectionManager(testLogger(t), config.NewStaticProvider(cfg))
}

func TestRegistry_RegisterThenLookup(t *testing.T) {
	cm := newTestRegistry(t, testConfig())
	alice := newFakeConnection(1)

	prev := cm.RegisterConnection(1, alice)
	assert.Nil(t, prev)

	got, ok := cm.Lookup(1)
	require.True(t, ok)
	assert.Same(t, alice, got)
	assert.Equal(t, 1, cm.ActiveConnections())

	_, ok = cm.Lookup(2)
	assert.False(t, ok)
}

func TestRegistry_SupersessionKeepsLatest(t *testing.T) {
	cm := newTestRegistry(t, testConfig())
	first := newFakeConnection(7)
	second := newFakeConnection(7)

	cm.RegisterConnection(7, first)
	prev := cm.RegisterConnection(7, second)

	assert.Same(t, first, prev)
	got, ok := cm.Lookup(7)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, cm.ActiveConnections())

	closed, _ := first.IsClosed()
	assert.False(t, closed, "superseded connection stays open by default")
}

func TestRegistry_SupersededConnectionClosedWhenConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.App.CloseSupersededConnections = true
	cm := newTestRegistry(t, cfg)
	first := newFakeConnection(7)

	cm.RegisterConnection(7, first)
	cm.RegisterConnection(7, newFakeConnection(7))

	assert.Eventually(t, func() bool {
		closed, code := first.IsClosed()
		return closed && code == websocket.StatusPolicyViolation
	}, time.Second, 10*time.Millisecond)
}

func TestRegistry_DeregisterIsCompareAndDelete(t *testing.T) {
	cm := newTestRegistry(t, testConfig())
	first := newFakeConnection(3)
	second := newFakeConnection(3)

	cm.RegisterConnection(3, first)
	cm.RegisterConnection(3, second)

	assert.False(t, cm.DeregisterConnection(3, first), "stale handle must not remove the newer one")
	got, ok := cm.Lookup(3)
	require.True(t, ok)
	assert.Same(t, second, got)

	assert.True(t, cm.DeregisterConnection(3, second))
	_, ok = cm.Lookup(3)
	assert.False(t, ok)
	assert.Equal(t, 0, cm.ActiveConnections())
}

func TestRegistry_DeregisterAbsentIsNoop(t *testing.T) {
	cm := newTestRegistry(t, testConfig())
	conn := newFakeConnection(9)

	assert.False(t, cm.DeregisterConnection(9, conn))

	cm.RegisterConnection(9, conn)
	assert.True(t, cm.DeregisterConnection(9, conn))
	assert.False(t, cm.DeregisterConnection(9, conn))
	assert.Equal(t, 0, cm.ActiveConnections())
}

func TestRegistry_ConcurrentRegisterDeregister(t *testing.T) {
	cm := newTestRegistry(t, testConfig())

	const users = 200
	var wg sync.WaitGroup
	for i := int64(1); i <= users; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			conn := newFakeConnection(id)
			cm.RegisterConnection(id, conn)
			if got, ok := cm.Lookup(id); !ok || got != conn {
				t.Errorf("user %d: lookup after register did not return own connection", id)
			}
			cm.DeregisterConnection(id, conn)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, cm.ActiveConnections())
	assert.Empty(t, cm.Snapshot())
}

func TestRegistry_ConcurrentSupersessionLeavesOneMapping(t *testing.T) {
	cm := newTestRegistry(t, testConfig())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cm.RegisterConnection(42, newFakeConnection(42))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, cm.ActiveConnections())
	assert.Len(t, cm.Snapshot(), 1)
}

func TestRegistry_GracefullyCloseAllConnections(t *testing.T) {
	cm := newTestRegistry(t, testConfig())
	a, b := newFakeConnection(1), newFakeConnection(2)
	cm.RegisterConnection(1, a)
	cm.RegisterConnection(2, b)

	cm.GracefullyCloseAllConnections(websocket.StatusGoingAway, "shutdown")

	for _, c := range []*fakeConnection{a, b} {
		closed, code := c.IsClosed()
		assert.True(t, closed)
		assert.Equal(t, websocket.StatusGoingAway, code)
	}
}
