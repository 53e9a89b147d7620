package leadcapture

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"leadflow/internal/common/logger"
	"leadflow/internal/common/metrics"
)

var ErrSessionNotFound = errors.New("lead-capture session not found")

// WidgetFactory builds the scheduling widget for a new session.
type WidgetFactory func(sessionID string) Widget

// Manager holds live sessions in memory. Sessions idle for longer than the
// TTL are closed and dropped by Run.
type Manager struct {
	cfg     Config
	ttl     time.Duration
	clock   Clock
	logger  logger.Logger
	widgets WidgetFactory

	mu       sync.RWMutex
	sessions map[string]*managed
}

type managed struct {
	session *Session
	widget  Widget
}

func NewManager(cfg Config, ttl time.Duration, widgets WidgetFactory, clock Clock, log logger.Logger) *Manager {
	if clock == nil {
		clock = RealClock()
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if widgets == nil {
		widgets = func(string) Widget { return NewRemoteWidget() }
	}
	return &Manager{
		cfg:      cfg,
		ttl:      ttl,
		clock:    clock,
		logger:   log,
		widgets:  widgets,
		sessions: make(map[string]*managed),
	}
}

// Create starts a new session with a fresh id.
func (m *Manager) Create(opts ...Option) *Session {
	id := uuid.New().String()
	widget := m.widgets(id)

	base := []Option{WithID(id), WithClock(m.clock), WithLogger(m.logger)}
	s := NewSession(m.cfg, widget, append(base, opts...)...)

	m.mu.Lock()
	m.sessions[id] = &managed{session: s, widget: widget}
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.LeadSessionsActive.Set(float64(n))
	m.logger.Debug("Lead-capture session created", map[string]interface{}{"session_id": id})
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry.session, nil
}

// Widget returns the scheduling widget bound to a session.
func (m *Manager) Widget(id string) (Widget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry.widget, nil
}

func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()

	if ok {
		entry.session.Close()
		metrics.LeadSessionsActive.Set(float64(n))
	}
	return ok
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep closes and drops sessions idle past the TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	cutoff := m.clock.Now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*Session
	for id, entry := range m.sessions {
		if entry.session.UpdatedAt().Before(cutoff) {
			expired = append(expired, entry.session)
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		metrics.LeadSessionsActive.Set(float64(n))
		m.logger.Info("Expired lead-capture sessions", map[string]interface{}{
			"expired":   len(expired),
			"remaining": n,
		})
	}
	return len(expired)
}

// Run sweeps on interval until ctx is done, then closes every session.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*managed)
	m.mu.Unlock()

	for _, entry := range sessions {
		entry.session.Close()
	}
	metrics.LeadSessionsActive.Set(0)
}
