// Package session owns per-user conversation state: one active session
// per user, refreshed on every step and expired by an inactivity timer.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rzclan/warbot/internal/model"
)

// Session is the mutable state of one in-flight conversation. All
// fields beyond Step are flow-specific scratch space.
type Session struct {
	UserID string
	ChatID string
	Step   model.Step

	// Target is the player the flow operates on, when already resolved
	Target *model.Player

	// registration scratch
	NewName string

	// guided points flow scratch
	Stat          model.StatKind
	DayIndex      int
	PendingPoints int

	// selective-update scratch, pre-loaded with the current values
	UpdateLevel    int
	UpdateTower    int
	UpdateTrophies int
	UpdateNaval    int

	// ambiguous-choice scratch
	Candidates []*model.Player
}

// Store keeps at most one session per user and expires idle ones.
// onExpire fires exactly once per timed-out session, after the state is
// already gone.
type Store struct {
	logger   *slog.Logger
	timeout  time.Duration
	onExpire func(userID, chatID string)

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	session *Session
	timer   *time.Timer
}

func NewStore(logger *slog.Logger, timeout time.Duration, onExpire func(userID, chatID string)) *Store {
	return &Store{
		logger:   logger,
		timeout:  timeout,
		onExpire: onExpire,
		sessions: make(map[string]*entry),
	}
}

// Begin creates a session for the user, failing if one is already
// active
func (s *Store) Begin(userID, chatID string, step model.Step) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[userID]; ok {
		return nil, model.ErrSessionActive
	}
	sess := &Session{UserID: userID, ChatID: chatID, Step: step}
	s.sessions[userID] = &entry{
		session: sess,
		timer:   time.AfterFunc(s.timeout, func() { s.expire(userID) }),
	}
	return sess, nil
}

// Get returns the user's active session, if any
func (s *Store) Get(userID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[userID]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Touch resets the inactivity timer after a valid step transition
func (s *Store) Touch(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[userID]; ok {
		e.timer.Reset(s.timeout)
	}
}

// End removes the user's session and cancels its timer. Reports whether
// a session existed.
func (s *Store) End(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[userID]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(s.sessions, userID)
	return true
}

// EndAll drops every session, used on shutdown
func (s *Store) EndAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, e := range s.sessions {
		e.timer.Stop()
		delete(s.sessions, userID)
	}
}

// Active returns the number of live sessions
func (s *Store) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) expire(userID string) {
	s.mu.Lock()
	e, ok := s.sessions[userID]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.sessions, userID)
	s.mu.Unlock()

	s.logger.Debug("session expired", "user", userID, "step", e.session.Step)
	if s.onExpire != nil {
		s.onExpire(userID, e.session.ChatID)
	}
}
