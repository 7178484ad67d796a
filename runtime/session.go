package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"context"
	"sync"
	"time"
)

// Session is the router-side state of one connection.
// It only moves forward: Unauthenticated, Authenticating, Connected, Disconnected.
type Session struct {
	mu          sync.RWMutex
	owner       domain.Identity
	outbound    *gatedOutbound
	connectedAt time.Time
	state       domain.SessionState
	reason      domain.DisconnectReason
}

func newSession(outbound contract.Outbound) *Session {
	return &Session{outbound: &gatedOutbound{Outbound: outbound}, state: domain.Unauthenticated}
}

// gatedOutbound is what the registry hands out for a session. Live sends wait while the
// session's offline queue is being drained, so they cannot overtake older queued messages.
type gatedOutbound struct {
	contract.Outbound
	delivery sync.Mutex
}

func (g *gatedOutbound) Send(ctx context.Context, message domain.Message) error {
	g.delivery.Lock()
	defer g.delivery.Unlock()
	return g.Outbound.Send(ctx, message)
}

func (s *Session) Owner() domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

func (s *Session) Outbound() contract.Outbound {
	return s.outbound
}

func (s *Session) ConnectedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connectedAt
}

func (s *Session) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Reason is ReasonNone until the session is disconnected.
func (s *Session) Reason() domain.DisconnectReason {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reason
}

func (s *Session) authenticating() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.Unauthenticated {
		s.state = domain.Authenticating
	}
}

func (s *Session) connected(owner domain.Identity, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.Authenticating {
		s.owner = owner
		s.connectedAt = at
		s.state = domain.Connected
	}
}

// disconnect reports false when the session was already disconnected.
func (s *Session) disconnect(reason domain.DisconnectReason) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.Disconnected {
		return false
	}
	s.state = domain.Disconnected
	s.reason = reason
	return true
}
