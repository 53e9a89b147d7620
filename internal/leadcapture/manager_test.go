package leadcapture

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadflow/internal/common/logger"
)

func TestManager_CreateGetRemove(t *testing.T) {
	m := NewManager(testConfig(), time.Minute, nil, newFakeClock(), logger.NewNoOpLogger())

	s := m.Create()
	require.NotEmpty(t, s.ID())
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	w, err := m.Widget(s.ID())
	require.NoError(t, err)
	assert.IsType(t, &RemoteWidget{}, w)

	assert.True(t, m.Remove(s.ID()))
	assert.False(t, m.Remove(s.ID()))
	_, err = m.Get(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_SweepExpiresIdleSessions(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(testConfig(), 30*time.Minute, func(string) Widget { return &fakeWidget{} }, clock, nil)

	idle := m.Create()
	clock.Advance(20 * time.Minute)
	active := m.Create()

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, m.Sweep())

	_, err := m.Get(idle.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(active.ID())
	assert.NoError(t, err)

	// a state change keeps a session alive
	require.True(t, active.ClientReady(""))
	clock.Advance(20 * time.Minute)
	assert.Equal(t, 0, m.Sweep())
}

func TestManager_RunClosesOnShutdown(t *testing.T) {
	m := NewManager(testConfig(), time.Minute, nil, nil, nil)
	m.Create()
	m.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
	assert.Equal(t, 0, m.Len())
}

func TestRemoteWidget_DrivesSessionInit(t *testing.T) {
	m := NewManager(testConfig(), time.Minute, nil, newFakeClock(), nil)
	s := m.Create()
	w, err := m.Widget(s.ID())
	require.NoError(t, err)
	remote := w.(*RemoteWidget)

	require.True(t, s.ClientReady("?submitted=true"))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 0, remote.InitCount(), "nothing issued before the page reports readiness")

	remote.MarkReady()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.WaitInit(ctx))

	d, ok := remote.Latest()
	require.True(t, ok)
	assert.Equal(t, 1, d.Seq)
	assert.Equal(t, DefaultSchedulerURL, d.URL)
	assert.Equal(t, DefaultSchedulerContainer, d.Container)
	assert.True(t, s.Snapshot().SchedulerInitialized)
}
