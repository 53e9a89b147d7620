package leadcapture

import (
	"context"
	"errors"
	"sync"
	"time"

	"leadflow/internal/common/logger"
	"leadflow/internal/common/metrics"
)

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID                   string    `json:"id"`
	State                State     `json:"state"`
	Submitted            bool      `json:"submitted"`
	Transitioning        bool      `json:"transitioning"`
	SchedulerInitialized bool      `json:"schedulerInitialized"`
	InitAttempts         int       `json:"initAttempts"`
	Signals              []Signal  `json:"signals"`
	DroppedSignals       int64     `json:"droppedSignals"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Listener is called after every state change, outside the session lock.
type Listener func(Snapshot)

type Option func(*Session)

func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

func WithListener(l Listener) Option {
	return func(s *Session) { s.listener = l }
}

// Session is one visitor's pass through the form and scheduling stages.
// All methods are safe for concurrent use.
type Session struct {
	id       string
	cfg      Config
	widget   Widget
	clock    Clock
	logger   logger.Logger
	listener Listener

	ctx    context.Context
	cancel context.CancelFunc

	mu                   sync.Mutex
	state                State
	clientReady          bool
	submitted            bool
	schedulerInitialized bool
	initAttempts         int
	signals              []Signal
	droppedBefore        int64
	updatedAt            time.Time
	closed               bool

	source          *SignalSource
	transitionTimer Timer
	initCancel      context.CancelFunc
	initGen         int
	initDone        chan struct{}
}

// NewSession returns a session in StateNotReady.
func NewSession(cfg Config, widget Widget, opts ...Option) *Session {
	s := &Session{
		cfg:    cfg.withDefaults(),
		widget: widget,
		clock:  RealClock(),
		logger: logger.NewNoOpLogger(),
		state:  StateNotReady,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.updatedAt = s.clock.Now()
	s.source = s.newSource()
	s.logger = s.logger.WithFields(map[string]interface{}{"session_id": s.id})
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) newSource() *SignalSource {
	return NewSignalSource(s.cfg, s.clock, func(sig Signal) { s.Complete(sig) })
}

// ClientReady moves the session out of StateNotReady. When entryURL carries
// the submitted marker the form stage is skipped entirely.
func (s *Session) ClientReady(entryURL string) bool {
	s.mu.Lock()
	if s.closed || s.clientReady {
		s.mu.Unlock()
		return false
	}
	s.clientReady = true

	if EntrySubmitted(entryURL, s.cfg) {
		s.submitted = true
		s.signals = append(s.signals, Signal{Kind: SignalEntry, Detail: entryURL, At: s.clock.Now()})
		s.enterSchedulingLocked()
	} else {
		s.setStateLocked(StateAwaitingSubmission)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// Complete accepts a completion signal. Only the first one received while
// awaiting submission has any effect.
func (s *Session) Complete(sig Signal) bool {
	s.mu.Lock()
	if s.closed || s.state != StateAwaitingSubmission {
		s.mu.Unlock()
		metrics.LeadSignals.WithLabelValues(string(sig.Kind), "ignored").Inc()
		return false
	}
	if sig.At.IsZero() {
		sig.At = s.clock.Now()
	}
	s.submitted = true
	s.signals = append(s.signals, sig)
	s.setStateLocked(StateTransitioning)

	gen := s.initGen
	s.transitionTimer = s.clock.AfterFunc(s.cfg.TransitionDelay, func() { s.finishTransition(gen) })
	snap := s.snapshotLocked()
	s.mu.Unlock()

	metrics.LeadSignals.WithLabelValues(string(sig.Kind), "accepted").Inc()
	s.logger.Info("Form completion detected", map[string]interface{}{
		"signal": string(sig.Kind),
		"detail": sig.Detail,
	})
	s.notify(snap)
	return true
}

func (s *Session) finishTransition(gen int) {
	s.mu.Lock()
	if s.closed || s.state != StateTransitioning || s.initGen != gen {
		s.mu.Unlock()
		return
	}
	s.transitionTimer = nil
	s.enterSchedulingLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// HandleMessage routes a cross-window message to the signal source.
func (s *Session) HandleMessage(payload interface{}) bool {
	src, ok := s.awaitingSource()
	if !ok {
		return false
	}
	return src.PushMessage(payload)
}

// HandleHash routes a URL fragment change to the signal source.
func (s *Session) HandleHash(hash string) bool {
	src, ok := s.awaitingSource()
	if !ok {
		return false
	}
	return src.PushHash(hash)
}

// HandleResize routes a form container height measurement to the signal
// source.
func (s *Session) HandleResize(height float64) bool {
	src, ok := s.awaitingSource()
	if !ok {
		return false
	}
	return src.PushResize(height)
}

func (s *Session) awaitingSource() (*SignalSource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateAwaitingSubmission {
		return nil, false
	}
	return s.source, true
}

// Skip force-advances to scheduling when completion was never detected.
func (s *Session) Skip() bool {
	s.mu.Lock()
	if s.closed || (s.state != StateAwaitingSubmission && s.state != StateTransitioning) {
		s.mu.Unlock()
		return false
	}
	s.stopTransitionLocked()
	s.signals = append(s.signals, Signal{Kind: SignalManual, Detail: "skip", At: s.clock.Now()})
	s.enterSchedulingLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("Form stage skipped", nil)
	s.notify(snap)
	return true
}

// Back returns from scheduling to the form. The scheduling widget is torn
// down and will be initialized again on the next entry.
func (s *Session) Back() bool {
	s.mu.Lock()
	if s.closed || s.state != StateScheduling {
		s.mu.Unlock()
		return false
	}
	s.cancelInitLocked()
	s.schedulerInitialized = false
	s.droppedBefore += s.source.Dropped()
	s.source = s.newSource()
	s.setStateLocked(StateAwaitingSubmission)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// UpdatedAt is the time of the last state change.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Close stops pending timers and init loops. It is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopTransitionLocked()
	s.cancelInitLocked()
	s.mu.Unlock()
	s.cancel()
}

// WaitInit blocks until the current init loop ends or ctx is done. It
// returns immediately when no loop is running.
func (s *Session) WaitInit(ctx context.Context) error {
	s.mu.Lock()
	done := s.initDone
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) enterSchedulingLocked() {
	s.setStateLocked(StateScheduling)
	s.cancelInitLocked()

	gen := s.initGen
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	s.initCancel = cancel
	s.initDone = done

	go s.runInit(ctx, gen, done)
}

func (s *Session) runInit(ctx context.Context, gen int, done chan struct{}) {
	defer close(done)

	res := InitWithRetry(ctx, entryWidget{s: s, gen: gen}, s.cfg.Scheduler, s.cfg.Retry)

	s.mu.Lock()
	s.initAttempts += res.Attempts
	current := s.initGen == gen && !s.closed
	if current && res.Initialized {
		s.schedulerInitialized = true
		s.updatedAt = s.clock.Now()
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	switch {
	case res.Initialized:
		metrics.SchedulerInitAttempts.WithLabelValues("initialized").Inc()
		s.logger.Debug("Scheduling widget initialized", map[string]interface{}{"attempts": res.Attempts})
	case res.Err == ErrWidgetUnavailable:
		metrics.SchedulerInitAttempts.WithLabelValues("unavailable").Inc()
		s.logger.Warn("Scheduling widget never became ready", map[string]interface{}{"attempts": res.Attempts})
	case ctx.Err() != nil, errors.Is(res.Err, errStaleEntry):
		metrics.SchedulerInitAttempts.WithLabelValues("cancelled").Inc()
	default:
		metrics.SchedulerInitAttempts.WithLabelValues("failed").Inc()
		s.logger.WithError(res.Err).Warn("Scheduling widget init failed", nil)
	}

	if current && res.Initialized {
		s.notify(snap)
	}
}

var errStaleEntry = errors.New("scheduling entry superseded")

// entryWidget binds the widget to one entry into scheduling. Init holds the
// session lock while checking the generation, so a loop superseded by Back
// or Close can never init alongside the next entry's loop.
type entryWidget struct {
	s   *Session
	gen int
}

func (e entryWidget) IsReady() bool { return e.s.widget.IsReady() }

func (e entryWidget) Init(container string, cfg SchedulerConfig) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if e.s.closed || e.s.initGen != e.gen {
		return errStaleEntry
	}
	return e.s.widget.Init(container, cfg)
}

// cancelInitLocked stops the running init loop and bumps the generation so
// neither it nor a pending transition timer can touch the session again.
func (s *Session) cancelInitLocked() {
	s.initGen++
	if s.initCancel != nil {
		s.initCancel()
		s.initCancel = nil
	}
}

func (s *Session) stopTransitionLocked() {
	if s.transitionTimer != nil {
		s.transitionTimer.Stop()
		s.transitionTimer = nil
	}
}

func (s *Session) setStateLocked(next State) {
	if s.state == next {
		return
	}
	metrics.LeadStageTransitions.WithLabelValues(string(s.state), string(next)).Inc()
	s.logger.Debug("Lead-capture stage changed", map[string]interface{}{
		"from": string(s.state),
		"to":   string(next),
	})
	s.state = next
	s.updatedAt = s.clock.Now()
}

func (s *Session) snapshotLocked() Snapshot {
	signals := make([]Signal, len(s.signals))
	copy(signals, s.signals)
	return Snapshot{
		ID:                   s.id,
		State:                s.state,
		Submitted:            s.submitted,
		Transitioning:        s.state == StateTransitioning,
		SchedulerInitialized: s.schedulerInitialized,
		InitAttempts:         s.initAttempts,
		Signals:              signals,
		DroppedSignals:       s.droppedBefore + s.source.Dropped(),
		UpdatedAt:            s.updatedAt,
	}
}

func (s *Session) notify(snap Snapshot) {
	if s.listener != nil {
		s.listener(snap)
	}
}
