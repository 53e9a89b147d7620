package leadcapture

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalSource_FirstSignalWins(t *testing.T) {
	var got []Signal
	src := NewSignalSource(testConfig(), newFakeClock(), func(s Signal) { got = append(got, s) })

	assert.False(t, src.PushHash("#pricing"))
	assert.True(t, src.PushHash("#calendar"))
	assert.False(t, src.PushMessage("tally_form_submit"))
	assert.False(t, src.PushHash("#submitted"))

	require.Len(t, got, 1)
	assert.Equal(t, SignalHash, got[0].Kind)
	assert.True(t, src.Fired())
	assert.Equal(t, int64(2), src.Dropped())
}

func TestSignalSource_ResizeNeedsArming(t *testing.T) {
	clock := newFakeClock()
	var fired int32
	src := NewSignalSource(testConfig(), clock, func(Signal) { atomic.AddInt32(&fired, 1) })

	assert.False(t, src.PushResize(800))
	clock.Advance(500 * time.Millisecond)
	assert.False(t, src.PushResize(300), "not armed yet")

	clock.Advance(2 * time.Second)
	assert.False(t, src.PushResize(320))
	assert.True(t, src.PushResize(900))
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestSignalSource_ConcurrentProducers(t *testing.T) {
	var fired int32
	src := NewSignalSource(testConfig(), newFakeClock(), func(Signal) { atomic.AddInt32(&fired, 1) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			src.PushMessage(map[string]interface{}{"formId": "abc"})
		}()
		go func() {
			defer wg.Done()
			src.PushHash("#calendar")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
	assert.Equal(t, int64(99), src.Dropped())
}

func TestSignalSource_Run(t *testing.T) {
	done := make(chan Signal, 1)
	src := NewSignalSource(testConfig(), newFakeClock(), func(s Signal) { done <- s })

	messages := make(chan interface{})
	hashes := make(chan string)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	finished := make(chan struct{})
	go func() {
		src.Run(ctx, messages, hashes, nil)
		close(finished)
	}()

	messages <- "hello"
	hashes <- "#submitted"

	select {
	case sig := <-done:
		assert.Equal(t, SignalHash, sig.Kind)
	case <-time.After(time.Second):
		t.Fatal("completion not delivered")
	}

	close(messages)
	close(hashes)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after producers closed")
	}
}
