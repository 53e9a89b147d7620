package leadcapture

import (
	"context"
	"sync"
	"sync/atomic"
)

// SignalSource merges the message, hash and resize producers into a single
// completion event. The first matching signal is delivered once; anything
// after that is counted and dropped.
type SignalSource struct {
	cfg     Config
	clock   Clock
	deliver func(Signal)

	mu     sync.Mutex
	resize *ResizeDetector

	once    sync.Once
	fired   atomic.Bool
	dropped atomic.Int64
}

func NewSignalSource(cfg Config, clock Clock, deliver func(Signal)) *SignalSource {
	if clock == nil {
		clock = RealClock()
	}
	return &SignalSource{
		cfg:     cfg,
		clock:   clock,
		deliver: deliver,
		resize:  NewResizeDetector(cfg.ResizeThreshold, cfg.ResizeArmDelay),
	}
}

// PushMessage feeds a cross-window message payload.
func (s *SignalSource) PushMessage(payload interface{}) bool {
	if !IsCompletionMessage(payload, s.cfg.MessageTokens) {
		return false
	}
	return s.emit(Signal{Kind: SignalMessage, Detail: describe(payload), At: s.clock.Now()})
}

// PushHash feeds the current URL fragment.
func (s *SignalSource) PushHash(hash string) bool {
	if !IsCompletionHash(hash, s.cfg.HashSentinels) {
		return false
	}
	return s.emit(Signal{Kind: SignalHash, Detail: hash, At: s.clock.Now()})
}

// PushResize feeds a height measurement of the form container.
func (s *SignalSource) PushResize(height float64) bool {
	now := s.clock.Now()
	s.mu.Lock()
	hit := s.resize.Observe(height, now)
	s.mu.Unlock()
	if !hit {
		return false
	}
	return s.emit(Signal{Kind: SignalResize, At: now})
}

func (s *SignalSource) emit(sig Signal) bool {
	delivered := false
	s.once.Do(func() {
		s.fired.Store(true)
		delivered = true
		if s.deliver != nil {
			s.deliver(sig)
		}
	})
	if !delivered {
		s.dropped.Add(1)
	}
	return delivered
}

// Fired reports whether the completion event has been delivered.
func (s *SignalSource) Fired() bool { return s.fired.Load() }

// Dropped counts matching signals that arrived after the first.
func (s *SignalSource) Dropped() int64 { return s.dropped.Load() }

// Run pumps the given producer channels until ctx is done or every channel
// is closed. A nil channel is simply never selected.
func (s *SignalSource) Run(ctx context.Context, messages <-chan interface{}, hashes <-chan string, heights <-chan float64) {
	for messages != nil || hashes != nil || heights != nil {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-messages:
			if !ok {
				messages = nil
				continue
			}
			s.PushMessage(m)
		case h, ok := <-hashes:
			if !ok {
				hashes = nil
				continue
			}
			s.PushHash(h)
		case px, ok := <-heights:
			if !ok {
				heights = nil
				continue
			}
			s.PushResize(px)
		}
	}
}

func describe(payload interface{}) string {
	switch p := payload.(type) {
	case string:
		if len(p) > 64 {
			return p[:64]
		}
		return p
	case map[string]interface{}:
		for _, key := range []string{"type", "event"} {
			if v, ok := p[key].(string); ok {
				return v
			}
		}
		if v, ok := p["formId"].(string); ok {
			return "formId:" + v
		}
	}
	return ""
}
