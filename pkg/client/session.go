package client

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/company-portal/pkg/claims"
)

// RefreshLeeway is how long before expiry a stored token is proactively refreshed.
const RefreshLeeway = 30 * time.Minute

// State owns the stored session and the single pending refresh timer.
// Every change to the token bumps a generation counter; a timer callback
// that observes a stale generation does nothing. The epoch changes only on
// login and logout, so work started under one session cannot write into the
// next.
type State struct {
	mu    sync.Mutex
	store TokenStore
	clock Clock
	log   *zap.Logger

	timer Timer
	gen   uint64
	epoch uint64
	onDue func()
}

// NewState wraps store. onDue runs when a scheduled refresh comes due.
func NewState(store TokenStore, clock Clock, logger *zap.Logger, onDue func()) *State {
	if clock == nil {
		clock = RealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{store: store, clock: clock, log: logger, onDue: onDue}
}

// Session returns the stored session.
func (s *State) Session() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Snapshot returns the stored session together with the current epoch.
func (s *State) Snapshot() (Session, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.loadLocked()
	return session, s.epoch, ok
}

// Token returns the stored token or "".
func (s *State) Token() string {
	session, _ := s.Session()
	return session.Token
}

// SetSession stores a full session and schedules its refresh.
func (s *State) SetSession(session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(session); err != nil {
		return err
	}
	s.epoch++
	s.scheduleLocked(session.Token)
	return nil
}

// SetToken replaces the token of the stored session and schedules its refresh.
func (s *State) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setTokenLocked(token)
}

// SetTokenIfCurrent stores token only while epoch is still current and a
// session exists. It reports false when the session was logged out or
// replaced in the meantime.
func (s *State) SetTokenIfCurrent(token string, epoch uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return false, nil
	}
	if _, ok := s.loadLocked(); !ok {
		return false, nil
	}
	return true, s.setTokenLocked(token)
}

func (s *State) setTokenLocked(token string) error {
	session, _ := s.loadLocked()
	session.Token = token
	if session.Role == "" {
		if c, err := claims.Decode(token); err == nil {
			session.Role = c.Role
		}
	}
	if err := s.store.Save(session); err != nil {
		return err
	}
	s.scheduleLocked(token)
	return nil
}

// Clear cancels any pending refresh and removes the stored session.
func (s *State) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

// ClearIfCurrent clears the session only while epoch is still current.
func (s *State) ClearIfCurrent(epoch uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return false, nil
	}
	return true, s.clearLocked()
}

func (s *State) clearLocked() error {
	s.stopLocked()
	s.epoch++
	return s.store.Clear()
}

// ScheduleRefresh arms the refresh timer for the stored token, replacing any
// previously armed timer. Nothing is armed when the token cannot be decoded
// or is already inside the leeway window.
func (s *State) ScheduleRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, _ := s.loadLocked()
	s.scheduleLocked(session.Token)
}

// RefreshScheduled reports whether a refresh timer is armed.
func (s *State) RefreshScheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func (s *State) loadLocked() (Session, bool) {
	session, ok, err := s.store.Load()
	if err != nil {
		s.log.Warn("session store unreadable", zap.Error(err))
		return Session{}, false
	}
	return session, ok
}

func (s *State) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *State) scheduleLocked(token string) {
	s.stopLocked()
	if token == "" {
		return
	}
	c, err := claims.Decode(token)
	if err != nil {
		return
	}
	refreshAt := c.ExpiresAtTime().Add(-RefreshLeeway)
	delay := refreshAt.Sub(s.clock.Now())
	if delay <= 0 {
		return
	}
	gen := s.gen
	s.timer = s.clock.AfterFunc(delay, func() { s.fire(gen) })
	s.log.Debug("token refresh scheduled", zap.Time("refresh_at", refreshAt))
}

func (s *State) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	onDue := s.onDue
	s.mu.Unlock()

	if onDue != nil {
		onDue()
	}
}
