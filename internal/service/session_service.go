package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"montyhall/internal/domain"
	"montyhall/internal/game"
	"montyhall/internal/logger"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownAction   = errors.New("unknown action")
	ErrInvalidDoor     = errors.New("door must be between 0 and 2")
	ErrInvalidToken    = errors.New("invalid session token")
)

// Action is a user intent forwarded by a view.
type Action string

const (
	ActionReset  Action = "reset"
	ActionSelect Action = "select"
	ActionSwitch Action = "switch"
	ActionStay   Action = "stay"
)

// Session owns the engine of one view. All engine calls go through its lock.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	engine      *game.Engine
	lastSeen    time.Time
	subscribers int
	now         func() time.Time
}

// Do applies action to the engine and returns the resulting snapshot.
// Intents the engine ignores in the current phase are not errors.
func (s *Session) Do(action Action, door int) (game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch action {
	case ActionReset:
		s.engine.Reset()
	case ActionSelect:
		if door < 0 || door >= game.DoorCount {
			return s.engine.Snapshot(), ErrInvalidDoor
		}
		s.engine.SelectDoor(door)
	case ActionSwitch:
		s.engine.ChooseSwitch()
	case ActionStay:
		s.engine.ChooseStay()
	default:
		return s.engine.Snapshot(), ErrUnknownAction
	}

	s.lastSeen = s.now()
	return s.engine.Snapshot(), nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	return s.engine.Snapshot()
}

// Subscribe registers fn on the engine. fn runs with the session locked and
// must not block or call back into the session. A session with a subscriber
// never expires; the idle clock restarts when the last one leaves.
func (s *Session) Subscribe(fn func(game.Snapshot)) func() {
	s.mu.Lock()
	unsubscribe := s.engine.Subscribe(fn)
	s.subscribers++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			unsubscribe()
			s.subscribers--
			s.lastSeen = s.now()
			s.mu.Unlock()
		})
	}
}

// idle returns how long the session has gone unused, 0 while a view is attached.
func (s *Session) idle(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscribers > 0 {
		return 0
	}
	return now.Sub(s.lastSeen)
}

// SessionService keeps the sessions of connected views in memory.
type SessionService struct {
	sessions  map[string]*Session
	mu        sync.RWMutex
	idleTTL   time.Duration
	newSource func() game.RandomSource
	now       func() time.Time

	endMu sync.RWMutex
	onEnd []func(id string)
}

type SessionOption func(*SessionService)

// WithSourceFactory sets the random source given to each new engine.
func WithSourceFactory(fn func() game.RandomSource) SessionOption {
	return func(s *SessionService) {
		s.newSource = fn
	}
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) SessionOption {
	return func(s *SessionService) {
		s.now = fn
	}
}

func NewSessionService(idleTTL time.Duration, opts ...SessionOption) *SessionService {
	if idleTTL <= 0 {
		idleTTL = time.Hour
	}
	s := &SessionService{
		sessions:  make(map[string]*Session),
		idleTTL:   idleTTL,
		newSource: func() game.RandomSource { return game.CryptoSource{} },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnEnd registers fn to run after a session is ended or expired.
func (s *SessionService) OnEnd(fn func(id string)) {
	s.endMu.Lock()
	s.onEnd = append(s.onEnd, fn)
	s.endMu.Unlock()
}

func (s *SessionService) ended(ids ...string) {
	s.endMu.RLock()
	hooks := s.onEnd
	s.endMu.RUnlock()

	for _, id := range ids {
		for _, fn := range hooks {
			fn(id)
		}
	}
}

// Create starts a session with a fresh engine.
func (s *SessionService) Create() *Session {
	id := uuid.New().String()

	now := s.now()
	sess := &Session{
		ID:        id,
		CreatedAt: now,
		lastSeen:  now,
		now:       s.now,
	}
	sess.engine = game.New(
		game.WithSource(s.newSource()),
		game.WithRoundHook(func(r domain.RoundRecord) {
			r.SessionID = id
			RoundsTotal.WithLabelValues(string(r.Strategy), string(r.Result)).Inc()
			logger.WithSession(r.SessionID).Info("round finished",
				"strategy", r.Strategy,
				"won", r.Won(),
				"selected", r.SelectedDoor,
				"revealed", r.RevealedDoor,
				"final", r.FinalDoor,
				"winning", r.WinningDoor,
			)
		}),
	)

	s.mu.Lock()
	s.sessions[id] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	ActiveSessions.Set(float64(n))
	logger.WithSession(id).Debug("session created")
	return sess
}

// Get returns a live session.
func (s *SessionService) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Do applies action to session id.
func (s *SessionService) Do(id string, action Action, door int) (game.Snapshot, error) {
	sess, err := s.Get(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	return sess.Do(action, door)
}

// End drops a session and its statistics.
func (s *SessionService) End(id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	ActiveSessions.Set(float64(n))
	logger.WithSession(id).Debug("session ended")
	s.ended(id)
	return nil
}

// Count returns the number of live sessions.
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Expire removes sessions idle for longer than the TTL and returns how many
// were dropped.
func (s *SessionService) Expire() int {
	now := s.now()

	s.mu.Lock()
	var removed []string
	for id, sess := range s.sessions {
		if sess.idle(now) > s.idleTTL {
			delete(s.sessions, id)
			removed = append(removed, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	if len(removed) > 0 {
		ActiveSessions.Set(float64(n))
		logger.Info("expired idle sessions", "count", len(removed))
		s.ended(removed...)
	}
	return len(removed)
}

// StartCleanup expires idle sessions until ctx is done.
func (s *SessionService) StartCleanup(ctx context.Context) {
	interval := 5 * time.Minute
	if s.idleTTL < interval {
		interval = s.idleTTL
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Expire()
			}
		}
	}()
}
