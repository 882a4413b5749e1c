package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"shoplens/internal/errors"
)

// SessionContext is the immutable per-request view of a session: who the
// user is and which inclusive date range filters their dashboard. It is
// reconstructed on every request; date-range changes replace the stored
// state, never mutate a context already handed out.
type SessionContext struct {
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type sessionState struct {
	username   string
	role       Role
	start, end time.Time
	createdAt  time.Time
}

// sessionTTL bounds a session's lifetime from login. Cookies are already
// session-scoped in the browser; this is the backstop for abandoned tokens.
const sessionTTL = 24 * time.Hour

// SessionStore holds live sessions keyed by opaque token. Sessions are
// process-local; restarting the server logs everyone out.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]sessionState

	// Observed order-date bounds; the default filter and the clamp range.
	minDate, maxDate time.Time
}

// NewSessionStore creates a store clamping date filters to [minDate, maxDate].
func NewSessionStore(minDate, maxDate time.Time) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]sessionState),
		minDate:  minDate,
		maxDate:  maxDate,
	}
}

// Bounds returns the observed order-date range.
func (s *SessionStore) Bounds() (time.Time, time.Time) {
	return s.minDate, s.maxDate
}

// Create opens a session for an authenticated user with the full observed
// range as the default filter, returning the session token.
func (s *SessionStore) Create(username string, role Role) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = sessionState{
		username:  username,
		role:      role,
		start:     s.minDate,
		end:       s.maxDate,
		createdAt: time.Now(),
	}
	s.mu.Unlock()
	return token
}

// Context rebuilds the immutable SessionContext for a token. Tokens past
// their lifetime are revoked on sight.
func (s *SessionStore) Context(token string) (SessionContext, error) {
	s.mu.RLock()
	state, ok := s.sessions[token]
	s.mu.RUnlock()
	if ok && time.Since(state.createdAt) > sessionTTL {
		s.Revoke(token)
		return SessionContext{}, errors.Unauthorized("session expired")
	}
	if !ok {
		return SessionContext{}, errors.Unauthorized("not logged in")
	}
	return SessionContext{
		Username:  state.username,
		Role:      state.role,
		StartDate: state.start,
		EndDate:   state.end,
	}, nil
}

// SetDateRange updates the session's filter, clamped to the observed bounds.
// An inverted range is rejected; a range partly outside the bounds is pulled
// back in rather than refused, matching the date-picker behavior.
func (s *SessionStore) SetDateRange(token string, start, end time.Time) (SessionContext, error) {
	if end.Before(start) {
		return SessionContext{}, errors.InvalidInput("end date precedes start date")
	}
	start = clamp(start, s.minDate, s.maxDate)
	end = clamp(end, s.minDate, s.maxDate)

	s.mu.Lock()
	state, ok := s.sessions[token]
	if ok && time.Since(state.createdAt) > sessionTTL {
		delete(s.sessions, token)
		ok = false
	}
	if ok {
		state.start, state.end = start, end
		s.sessions[token] = state
	}
	s.mu.Unlock()
	if !ok {
		return SessionContext{}, errors.Unauthorized("not logged in")
	}
	return s.Context(token)
}

// Revoke ends a session. Revoking an unknown token is a no-op.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

func clamp(t, lo, hi time.Time) time.Time {
	if t.Before(lo) {
		return lo
	}
	if t.After(hi) {
		return hi
	}
	return t
}
