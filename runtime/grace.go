package runtime

import (
	"log/slog"
	"sync"
	"time"

	"party-lab/clock"
	"party-lab/domain"
)

// Grace evicts users who stay disconnected past a grace period. A
// reconnection cancels the pending eviction; a second disconnection
// restarts the countdown, so a user never has more than one timer.
type Grace struct {
	mu      sync.Mutex
	log     *slog.Logger
	clock   clock.Clock
	engine  *Engine
	delay   time.Duration
	pending map[domain.UserID]clock.Timer
}

func NewGrace(log *slog.Logger, clk clock.Clock, engine *Engine, delay time.Duration) *Grace {
	return &Grace{
		log:     log,
		clock:   clk,
		engine:  engine,
		delay:   delay,
		pending: make(map[domain.UserID]clock.Timer),
	}
}

// Disconnected starts (or restarts) the eviction countdown. Unknown
// users are ignored so a stale token cannot populate the table.
func (g *Grace) Disconnected(userID domain.UserID) {
	if _, ok := g.engine.User(userID); !ok {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if t := g.pending[userID]; t != nil {
		t.Stop()
	}
	g.pending[userID] = g.clock.AfterFunc(g.delay, func() {
		g.evict(userID)
	})
	g.log.Info("disconnect grace started", "user_id", userID, "delay", g.delay)
}

// Reconnected cancels the user's pending eviction, if any.
func (g *Grace) Reconnected(userID domain.UserID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.pending[userID]
	if t == nil {
		return
	}
	t.Stop()
	delete(g.pending, userID)
	g.log.Info("disconnect grace canceled", "user_id", userID)
}

func (g *Grace) evict(userID domain.UserID) {
	g.mu.Lock()
	delete(g.pending, userID)
	g.mu.Unlock()

	g.log.Info("disconnect grace elapsed, evicting", "user_id", userID)
	g.engine.Leave(userID)
	g.engine.RemoveUser(userID)
}

// PendingCount reports how many evictions are armed.
func (g *Grace) PendingCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}
