// Package runtime owns the live side of the relay: who is connected, and where each
// inbound message goes. It contains no transport code.
package runtime

import (
	"chat-relay/auth"
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/repositories"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

type Router struct {
	log               *slog.Logger
	verifier          contract.IdentityVerifier
	registry          contract.IRegistry
	messageRepository repositories.IMessageRepository
	queue             repositories.IOfflineQueue
	identitySuffix    string
	authTimeout       time.Duration
	closeReplaced     bool
	closing           atomic.Bool
	now               func() time.Time
}

func NewRouter(log *slog.Logger, verifier contract.IdentityVerifier, registry contract.IRegistry,
	messageRepository repositories.IMessageRepository, queue repositories.IOfflineQueue,
	identitySuffix string, authTimeout time.Duration, closeReplaced bool) *Router {
	return &Router{
		log:               log,
		verifier:          verifier,
		registry:          registry,
		messageRepository: messageRepository,
		queue:             queue,
		identitySuffix:    identitySuffix,
		authTimeout:       authTimeout,
		closeReplaced:     closeReplaced,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// Authenticate resolves a credential into a routing identity.
// The verifier runs in its own goroutine so that a hanging or panicking identity service
// only fails this attempt. Running out of time counts as an invalid credential.
func (r *Router) Authenticate(ctx context.Context, credential string) (domain.Identity, error) {
	if credential == "" {
		return "", errors.ErrNoCredential
	}

	ctx, cancel := context.WithTimeout(ctx, r.authTimeout)
	defer cancel()

	type result struct {
		name string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- result{err: fmt.Errorf("verifier panic: %v", p)}
			}
		}()
		name, err := r.verifier.Verify(ctx, credential)
		done <- result{name: name, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		r.log.Warn("Identity verification timed out", "timeout", r.authTimeout)
		return "", fmt.Errorf("%w: %w", errors.ErrInvalidCredential, errors.ErrVerifierTimeout)
	}

	if res.err != nil {
		r.log.Warn("Identity verification failed", "error", res.err)
		if stderrors.Is(res.err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w", errors.ErrInvalidCredential, errors.ErrVerifierTimeout)
		}
		if stderrors.Is(res.err, errors.ErrInvalidCredential) {
			return "", res.err
		}
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidCredential, res.err)
	}

	identity := domain.IdentityFromDisplayName(res.name, r.identitySuffix)
	if identity == "" {
		return "", fmt.Errorf("%w: empty identity", errors.ErrInvalidCredential)
	}
	return identity, nil
}

// Connect runs a new connection through authentication, registration and offline delivery.
// On failure the outbound channel is closed with the close code of the reason and the
// returned session is Disconnected.
func (r *Router) Connect(ctx context.Context, credential string, outbound contract.Outbound) (*Session, error) {
	session := newSession(outbound)

	if credential == "" {
		r.reject(session, domain.ReasonNoCredential)
		return session, errors.ErrNoCredential
	}

	session.authenticating()
	identity, err := r.Authenticate(ctx, credential)
	if err != nil {
		r.reject(session, domain.ReasonInvalidCredential)
		return session, err
	}

	// The gate is taken before the session becomes reachable and released once the queue is
	// drained: a live send racing with the drain waits behind it.
	gate := session.outbound
	gate.delivery.Lock()
	defer gate.delivery.Unlock()

	session.connected(identity, r.now())
	if previous := r.registry.Register(identity, gate); previous != nil {
		r.log.Info(fmt.Sprintf("User %s reconnected, replacing previous session", identity))
		if r.closeReplaced {
			code, text, _ := domain.ReasonReplaced.CloseCode()
			if err = previous.Close(code, text); err != nil {
				r.log.Debug("Replaced session was already closed", "user", identity, "error", err)
			}
		}
	}
	// Checked after Register: either CloseAll sees this session or this session sees the flag.
	if r.closing.Load() {
		r.registry.UnregisterIf(identity, gate)
		r.reject(session, domain.ReasonShutdown)
		return session, errors.ErrShuttingDown
	}
	r.log.Info(fmt.Sprintf("User %s connected", identity))

	r.deliverQueued(ctx, session)
	return session, nil
}

// deliverQueued forwards the recipient's offline queue to its new session, oldest first.
// An entry is removed before it is sent: if the send fails that message only remains in the
// message store. Draining stops at the first failed send so later entries stay queued.
func (r *Router) deliverQueued(ctx context.Context, session *Session) {
	identity := session.Owner()
	// The caller holds the delivery gate, send through the underlying channel.
	outbound := session.outbound.Outbound
	delivered := 0
	for message, err := range r.queue.Drain(ctx, identity) {
		if err != nil {
			r.log.Error(fmt.Sprintf("Error delivering messages to %s", identity), "error", err)
			return
		}
		if err = outbound.Send(ctx, message); err != nil {
			r.log.Warn("Queued message dropped from delivery, still available in conversation history",
				"user", identity, "message_id", message.ID, "error", err)
			return
		}
		delivered++
	}
	r.log.Info(fmt.Sprintf("Delivered %d queued messages to %s", delivered, identity))
}

// HandleInbound processes one text frame written by a connected client.
// Frames must be handled one at a time per session, which keeps each sender's order.
func (r *Router) HandleInbound(ctx context.Context, session *Session, data []byte) (domain.Message, domain.Delivery, error) {
	if session.State() != domain.Connected {
		return domain.Message{}, 0, errors.ErrSessionNotActive
	}
	frame, err := auth.ParseFrame(data)
	if err != nil {
		r.log.Warn("Dropping malformed frame", "user", session.Owner(), "error", err)
		return domain.Message{}, 0, err
	}
	r.log.Debug(fmt.Sprintf("Received message from %s", session.Owner()), "to", frame.To)

	return r.Send(ctx, domain.SendMessageCommand{
		From:      session.Owner(),
		To:        domain.Identity(frame.To),
		Content:   frame.Message,
		CreatedAt: r.now(),
	})
}

// Send persists the message first, then delivers it live when the recipient has an open
// channel, otherwise queues it. Persistence is a precondition of queueing: a message that could
// not be stored is neither sent nor queued. Work already started is not abandoned when the
// sender's connection goes away.
func (r *Router) Send(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, domain.Delivery, error) {
	ctx = context.WithoutCancel(ctx)

	message, err := r.messageRepository.Persist(cmd)
	if err != nil {
		r.log.Error("Failed to persist message", "from", cmd.From, "to", cmd.To, "error", err)
		return domain.Message{}, 0, err
	}

	if outbound, ok := r.registry.Lookup(cmd.To); ok && outbound.IsOpen() {
		if err = outbound.Send(ctx, message); err != nil {
			r.log.Warn("Live delivery failed, message kept in history only",
				"to", cmd.To, "message_id", message.ID, "error", err)
		}
		return message, domain.DeliveredLive, nil
	}

	if err = r.queue.Enqueue(ctx, cmd.To, message); err != nil {
		r.log.Error("Failed to queue message", "to", cmd.To, "message_id", message.ID, "error", err)
		return message, domain.Queued, err
	}
	r.log.Info(fmt.Sprintf("User %s is offline, message pushed to queue and stored", cmd.To))
	return message, domain.Queued, nil
}

// Disconnect is called once the connection is gone. The registry entry is removed only if it
// still belongs to this session.
func (r *Router) Disconnect(session *Session) {
	if !session.disconnect(domain.ReasonClosed) {
		return
	}
	identity := session.Owner()
	if identity == "" {
		return
	}
	if r.registry.UnregisterIf(identity, session.Outbound()) {
		r.log.Info(fmt.Sprintf("User %s disconnected", identity))
		return
	}
	r.log.Debug(fmt.Sprintf("Stale session of %s closed", identity))
}

// Conversation authenticates the caller and returns its history with the contact, oldest first.
// A failed lookup is returned as an error, an empty slice means there is no history.
func (r *Router) Conversation(ctx context.Context, query domain.ConversationQuery) ([]domain.Message, error) {
	identity, err := r.Authenticate(ctx, query.Credential)
	if err != nil {
		return nil, err
	}
	r.log.Info(fmt.Sprintf("User %s requested conversation with %s", identity, query.Contact))

	messages, err := r.messageRepository.Conversation(identity, query.Contact)
	if err != nil {
		r.log.Error("Error retrieving conversation", "user", identity, "contact", query.Contact, "error", err)
		return nil, err
	}
	return messages, nil
}

// CloseAll closes every live connection with 1001 and refuses connections completing afterwards.
// Each transport handler then sees its socket end and runs Disconnect. It returns how many
// connections were closed.
func (r *Router) CloseAll() int {
	r.closing.Store(true)
	code, text, _ := domain.ReasonShutdown.CloseCode()

	closed := 0
	for identity, outbound := range r.registry.All() {
		if err := outbound.Close(code, text); err != nil {
			r.log.Debug("Session was already closed", "user", identity, "error", err)
			continue
		}
		closed++
	}
	r.log.Info(fmt.Sprintf("Closed %d live sessions", closed))
	return closed
}

// LiveSessions is the number of identities currently reachable.
func (r *Router) LiveSessions() int {
	return r.registry.Count()
}

func (r *Router) reject(session *Session, reason domain.DisconnectReason) {
	session.disconnect(reason)
	code, text, _ := reason.CloseCode()
	if err := session.Outbound().Close(code, text); err != nil {
		r.log.Debug("Failed to close rejected connection", "reason", reason, "error", err)
	}
}
