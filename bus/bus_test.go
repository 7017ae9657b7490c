package bus

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"party-lab/domain"
)

func snapshotFor(sessionID domain.SessionID, members ...domain.UserID) domain.SessionSnapshot {
	snap := domain.SessionSnapshot{ID: sessionID, State: domain.WaitingForPlayers}
	for _, id := range members {
		snap.Users = append(snap.Users, domain.UserSnapshot{ID: id, SessionID: sessionID})
	}
	return snap
}

func receive(t *testing.T, sub *Subscription) domain.SessionSnapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.Events():
		require.True(t, ok, "subscription closed unexpectedly")
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return domain.SessionSnapshot{}
	}
}

func expectNothing(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case snap, ok := <-sub.Events():
		if ok {
			t.Fatalf("unexpected event for session %s", snap.ID)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_DeliversOnlyToMembers(t *testing.T) {
	req := require.New(t)
	b := NewBus(slog.Default())

	member := b.Subscribe("1")
	outsider := b.Subscribe("2")
	defer b.Unsubscribe(member)
	defer b.Unsubscribe(outsider)

	b.Publish(snapshotFor("10", "1"))

	req.Equal(domain.SessionID("10"), receive(t, member).ID)
	expectNothing(t, outsider)
}

func TestBus_FilterIsLateBinding(t *testing.T) {
	req := require.New(t)
	b := NewBus(slog.Default())

	sub := b.Subscribe("1")
	defer b.Unsubscribe(sub)

	// The user is not yet a member of session 10: no delivery.
	b.Publish(snapshotFor("10", "2", "3"))
	expectNothing(t, sub)

	// Membership changed since subscribe time: delivery resumes
	// without resubscribing.
	b.Publish(snapshotFor("10", "1", "2", "3"))
	req.Equal(domain.SessionID("10"), receive(t, sub).ID)

	// And stops again once the user moved on.
	b.Publish(snapshotFor("10", "2", "3"))
	expectNothing(t, sub)
}

func TestBus_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	req := require.New(t)
	b := NewBus(slog.Default())

	sub := b.Subscribe("1")
	defer b.Unsubscribe(sub)

	// Publish well past any channel buffer without reading.
	const n = 200
	for i := 0; i < n; i++ {
		b.Publish(snapshotFor("10", "1"))
	}

	// Every event is still there, in order, once the reader catches up.
	for i := 0; i < n; i++ {
		req.Equal(domain.SessionID("10"), receive(t, sub).ID)
	}
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	req := require.New(t)
	b := NewBus(slog.Default())

	sub := b.Subscribe("1")
	b.Unsubscribe(sub)
	req.Zero(b.Len())

	b.Publish(snapshotFor("10", "1"))

	// The events channel is closed, not leaking a blocked sender.
	for {
		select {
		case _, ok := <-sub.Events():
			if !ok {
				return
			}
		case <-time.After(time.Second):
			t.Fatal("events channel never closed")
		}
	}
}

func TestBus_MultipleSubscriptionsPerUser(t *testing.T) {
	req := require.New(t)
	b := NewBus(slog.Default())

	first := b.Subscribe("1")
	second := b.Subscribe("1")
	defer b.Unsubscribe(first)
	defer b.Unsubscribe(second)
	req.Equal(2, b.Len())

	b.Publish(snapshotFor("10", "1"))

	req.Equal(domain.SessionID("10"), receive(t, first).ID)
	req.Equal(domain.SessionID("10"), receive(t, second).ID)
}
