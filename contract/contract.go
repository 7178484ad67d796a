//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"context"
	"iter"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// IdentityVerifier turns an opaque credential into a display name.
// Implementations may block on a remote call; the router bounds them with a timeout.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (displayName string, err error)
}

// Outbound is the sending half of a live connection.
type Outbound interface {
	Send(ctx context.Context, message domain.Message) error
	IsOpen() bool
	Close(code int, reason string) error
}

// IRegistry is the single source of truth for "is this user reachable right now".
type IRegistry interface {
	Register(identity domain.Identity, outbound Outbound) (previous Outbound)
	Lookup(identity domain.Identity) (Outbound, bool)
	Unregister(identity domain.Identity)
	UnregisterIf(identity domain.Identity, outbound Outbound) bool
	Count() int
	// All yields the sessions registered when iteration starts.
	All() iter.Seq2[domain.Identity, Outbound]
}
