package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Gateway owns the mapping from identity to live session. Each attached client
// occupies the logical channel named by its own user id; handlers emit to a
// channel and never touch sockets directly. Constructed once at process start
// and passed by injection, so there is no hidden global registry.
//
// Attaching carries no authorization: the supplied user id is a trust boundary
// and handlers must re-derive identity from the payload for every privileged
// action rather than trusting the joined channel name.
type Gateway struct {
	mu           sync.RWMutex
	sessions     map[string]Session // sessionID -> session
	userSessions map[string]string  // userID -> sessionID

	log *zap.Logger
}

// NewGateway constructs an initialized Gateway.
func NewGateway(log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		sessions:     make(map[string]Session),
		userSessions: make(map[string]string),
		log:          log,
	}
}

// Attach binds the session to the channel named by its user id. If a previous
// session exists for that user, it is removed and closed after the swap to
// enforce one active socket per user.
func (g *Gateway) Attach(s Session) {
	var previous Session

	g.mu.Lock()
	if existingID, ok := g.userSessions[s.UserID()]; ok {
		if existing := g.sessions[existingID]; existing != nil {
			previous = existing
			delete(g.sessions, existingID)
		}
	}
	g.sessions[s.ID()] = s
	g.userSessions[s.UserID()] = s.ID()
	g.mu.Unlock()

	s.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
	g.log.Debug("session attached", zap.String("user_id", s.UserID()), zap.String("session_id", s.ID()))
}

// Detach removes a session if it is still tracked.
func (g *Gateway) Detach(s Session) {
	g.mu.Lock()
	if _, ok := g.sessions[s.ID()]; ok {
		delete(g.sessions, s.ID())
		if current, ok := g.userSessions[s.UserID()]; ok && current == s.ID() {
			delete(g.userSessions, s.UserID())
		}
	}
	g.mu.Unlock()
}

// Emit delivers payload to the channel of the given user. It reports false when
// the user has no attached session or the write fails; the emission is then
// silently dropped. Live delivery is at-most-once; durability lives in the store.
func (g *Gateway) Emit(userID string, payload []byte) bool {
	g.mu.RLock()
	sessionID, ok := g.userSessions[userID]
	if !ok {
		g.mu.RUnlock()
		return false
	}
	s := g.sessions[sessionID]
	g.mu.RUnlock()
	if s == nil {
		return false
	}
	return s.Send(payload) == nil
}

// Connected reports whether the user currently has an attached session.
func (g *Gateway) Connected(userID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.userSessions[userID]
	return ok
}

// Close terminates all tracked sessions and clears gateway state.
func (g *Gateway) Close() {
	g.mu.Lock()
	sessions := make([]Session, 0, len(g.sessions))
	for _, s := range g.sessions {
		sessions = append(sessions, s)
	}
	g.sessions = make(map[string]Session)
	g.userSessions = make(map[string]string)
	g.mu.Unlock()

	for _, s := range sessions {
		s.Close(1001, "gateway shutdown")
	}
}
