package runtime

import (
	"chat-relay/domain"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type Outbound struct {
	name string
}

func (o *Outbound) Send(context.Context, domain.Message) error { return nil }
func (o *Outbound) IsOpen() bool                                 { return true }
func (o *Outbound) Close(int, string) error                      { return nil }

func TestRegistry_Register_And_Lookup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	outbound := &Outbound{name: "alice"}

	// Given no user is connected
	_, ok := registry.Lookup("alice")
	req.False(ok)
	req.Zero(registry.Count())

	// When alice registers
	previous := registry.Register("alice", outbound)

	// Then she is reachable
	req.Nil(previous)
	found, ok := registry.Lookup("alice")
	req.True(ok)
	req.Same(outbound, found)
	req.Equal(1, registry.Count())
}

func TestRegistry_Register_Replaces_And_Returns_Previous(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	first := &Outbound{name: "first"}
	second := &Outbound{name: "second"}

	registry.Register("alice", first)
	previous := registry.Register("alice", second)

	req.Same(first, previous)
	found, ok := registry.Lookup("alice")
	req.True(ok)
	req.Same(second, found)
	req.Equal(1, registry.Count())

	// Registering the same channel twice is not a replacement
	req.Nil(registry.Register("alice", second))
}

func TestRegistry_UnregisterIf_Ignores_Stale_Channel(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	stale := &Outbound{name: "stale"}
	live := &Outbound{name: "live"}

	registry.Register("alice", stale)
	registry.Register("alice", live)

	// When the stale connection disconnects
	req.False(registry.UnregisterIf("alice", stale))

	// Then the live session is still registered
	found, ok := registry.Lookup("alice")
	req.True(ok)
	req.Same(live, found)

	// When the live connection disconnects
	req.True(registry.UnregisterIf("alice", live))
	_, ok = registry.Lookup("alice")
	req.False(ok)
	req.False(registry.UnregisterIf("alice", live))
}

func TestRegistry_Unregister(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Register("alice", &Outbound{})
	registry.Register("bob", &Outbound{})

	registry.Unregister("alice")

	_, ok := registry.Lookup("alice")
	req.False(ok)
	_, ok = registry.Lookup("bob")
	req.True(ok)
}

func TestRegistry_Concurrent_Access(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			identity := domain.Identity(fmt.Sprintf("user-%d", i%10))
			outbound := &Outbound{}
			registry.Register(identity, outbound)
			registry.Lookup(identity)
			registry.UnregisterIf(identity, outbound)
		}(i)
	}
	wg.Wait()

	req.LessOrEqual(registry.Count(), 10)
}

func TestRegistry_All_Iterates_Over_A_Snapshot(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Register("alice", &Outbound{name: "alice"})
	registry.Register("bob", &Outbound{name: "bob"})

	// When every visited session unregisters itself
	seen := map[domain.Identity]string{}
	for identity, outbound := range registry.All() {
		seen[identity] = outbound.(*Outbound).name
		registry.Unregister(identity)
	}

	// Then both were visited and the registry is empty
	req.Equal(map[domain.Identity]string{"alice": "alice", "bob": "bob"}, seen)
	req.Zero(registry.Count())
}
