// Package bus is the in-process pub/sub fanning session updates out
// to subscribers. Filtering is late-binding: a subscriber receives a
// snapshot if and only if they are a member of the published session
// at delivery time, so a user who changes session mid-stream starts
// and stops receiving without resubscribing.
package bus

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"party-lab/domain"
)

type Bus struct {
	mu   sync.RWMutex
	log  *slog.Logger
	subs map[string]*Subscription
}

func NewBus(log *slog.Logger) *Bus {
	return &Bus{
		log:  log,
		subs: make(map[string]*Subscription),
	}
}

// Subscribe opens a lazy, unbounded event sequence for the given
// user. The same user may hold several subscriptions at once (one
// per connection).
func (b *Bus) Subscribe(userID domain.UserID) *Subscription {
	sub := &Subscription{
		id:     uuid.NewString(),
		userID: userID,
		out:    make(chan domain.SessionSnapshot),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go sub.pump()

	b.mu.Lock()
	b.subs[sub.id] = sub
	b.mu.Unlock()

	b.log.Debug("subscription opened", "subscription_id", sub.id, "user_id", userID)
	return sub
}

// Unsubscribe stops delivery and releases the subscription's
// resources. Missed events are not replayed; pending ones are
// dropped.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	delete(b.subs, sub.id)
	b.mu.Unlock()

	sub.close()
	b.log.Debug("subscription closed", "subscription_id", sub.id, "user_id", sub.userID)
}

// Publish delivers the snapshot to every subscriber whose user is a
// member of the published session. The snapshot carries the member
// list as of the mutation that produced it, which is exactly the
// delivery-time membership state.
func (b *Bus) Publish(snap domain.SessionSnapshot) {
	members := make(map[domain.UserID]struct{}, len(snap.Users))
	for _, id := range snap.MemberIDs() {
		members[id] = struct{}{}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if _, ok := members[sub.userID]; ok {
			sub.enqueue(snap)
		}
	}
}

// Len returns the number of open subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
