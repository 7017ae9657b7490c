// Package runtime hosts the session orchestration engine: the
// identity and session registries, the round lifecycle, and the
// disconnect grace manager. All registry state is owned by an Engine
// value so several independent engines can coexist (one per test).
package runtime

import (
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"

	"party-lab/clock"
	"party-lab/contract"
	"party-lab/domain"
	"party-lab/observability"
)

// Engine serializes every mutation of users, sessions and rounds
// behind one mutex. Sessions are cheap to mutate and engines are
// independent, so a single lock per engine keeps the timer callbacks
// trivially safe without per-session locking.
//
// The injected publisher is called while the lock is held and must
// not call back into the engine; the bus only enqueues, so this
// holds.
type Engine struct {
	mu        sync.Mutex
	log       *slog.Logger
	clock     clock.Clock
	publisher contract.Publisher
	labels    contract.LabelProvider
	monitor   *observability.Manager
	settings  Settings

	users    map[domain.UserID]*domain.User
	sessions map[domain.SessionID]*domain.Session

	// timers holds the single pending callback of each session:
	// either the running round's timeout or the next-round delay.
	timers map[domain.SessionID]clock.Timer

	lastUserID    uint64
	lastSessionID uint64
	lastRoundID   uint64

	// Randomness hooks, overridable in tests.
	pickKind        func() domain.RoundKind
	pickOptionCount func(memberCount int) int
}

func NewEngine(log *slog.Logger, clk clock.Clock, publisher contract.Publisher,
	labels contract.LabelProvider, monitor *observability.Manager, settings Settings) *Engine {
	return &Engine{
		log:             log,
		clock:           clk,
		publisher:       publisher,
		labels:          labels,
		monitor:         monitor,
		settings:        settings,
		users:           make(map[domain.UserID]*domain.User),
		sessions:        make(map[domain.SessionID]*domain.Session),
		timers:          make(map[domain.SessionID]clock.Timer),
		pickKind:        defaultKind,
		pickOptionCount: defaultOptionCount,
	}
}

func defaultKind() domain.RoundKind {
	if rand.IntN(2) == 0 {
		return domain.Agree
	}
	return domain.Disagree
}

// defaultOptionCount draws uniformly from [2, memberCount-1]. The
// MIN_PLAYERS >= 3 guard on round creation keeps the range non-empty.
func defaultOptionCount(memberCount int) int {
	return 2 + rand.IntN(memberCount-2)
}

// SubmitAnswer records the user's pick for their session's running
// round. A resubmission overwrites the earlier pick. Unknown users,
// absent rounds and out-of-range indices are logged and ignored:
// one bad or late client message must never take the game down.
// When the submission completes the member set, the round resolves
// immediately instead of waiting out the timer.
func (e *Engine) SubmitAnswer(userID domain.UserID, optionIndex int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[userID]
	if !ok {
		e.log.Info("submitAnswer: unknown user", "user_id", userID)
		return
	}
	s := e.sessions[u.SessionID]
	if s == nil || s.Round == nil || s.State != domain.InProgress || s.Round.Resolved {
		e.log.Info("submitAnswer: no active round", "user_id", userID)
		return
	}
	r := s.Round
	if !r.ValidIndex(optionIndex) {
		e.log.Info("submitAnswer: option index out of range",
			"user_id", userID, "index", optionIndex, "options", len(r.Options))
		return
	}

	if prior, resubmitted := r.Submitted[userID]; resubmitted {
		e.log.Debug("answer resubmitted, overwriting",
			"user_id", userID, "prior", prior, "index", optionIndex)
	}
	r.Submitted[userID] = optionIndex
	e.monitor.IncrAnswersSubmitted()

	if len(r.Submitted) == len(s.Members) {
		e.resolveRoundLocked(s)
	}
}

// createRoundLocked starts the next round of the session: random
// kind, random option count in [2, memberCount-1], fresh labels,
// ready state cleared, timeout scheduled. Aborts silently below
// MIN_PLAYERS.
func (e *Engine) createRoundLocked(s *domain.Session) {
	if len(s.Members) < e.settings.MinPlayers {
		e.log.Debug("round creation below minimum players",
			"session_id", s.ID, "members", len(s.Members))
		return
	}

	e.stopTimerLocked(s.ID)

	e.lastRoundID++
	count := e.pickOptionCount(len(s.Members))
	options := make([]domain.Option, count)
	for i := range options {
		options[i].Label = e.labels.NextAnswerLabel()
	}

	number := 1
	if s.Round != nil && s.Round.Number != e.settings.RoundsPerGame {
		number = s.Round.Number + 1
	}

	for _, m := range s.Members {
		m.Ready = nil
	}
	s.Ready = make(map[domain.UserID]struct{})

	r := &domain.Round{
		ID:        domain.RoundID(strconv.FormatUint(e.lastRoundID, 10)),
		SessionID: s.ID,
		Number:    number,
		Kind:      e.pickKind(),
		Options:   options,
		Submitted: make(map[domain.UserID]int),
		EndsAt:    e.clock.Now().Add(e.settings.RoundDuration),
	}
	s.Round = r
	s.State = domain.InProgress
	e.monitor.IncrRoundsCreated()
	e.log.Info("round created", "session_id", s.ID, "round_id", r.ID,
		"number", r.Number, "kind", r.Kind, "options", len(r.Options))

	e.publishLocked(s)

	sid, rid := s.ID, r.ID
	e.timers[sid] = e.clock.AfterFunc(e.settings.RoundDuration, func() {
		e.roundTimeout(sid, rid)
	})
}

// roundTimeout is the timer side of the resolution race. It loses
// (and must be a no-op) whenever a full submission already resolved
// the round, or the round was discarded by a membership change.
func (e *Engine) roundTimeout(sessionID domain.SessionID, roundID domain.RoundID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sessions[sessionID]
	if s == nil || s.Round == nil || s.Round.ID != roundID || s.Round.Resolved {
		e.log.Debug("stale round timeout ignored",
			"session_id", sessionID, "round_id", roundID)
		return
	}
	e.resolveRoundLocked(s)
}

// resolveRoundLocked runs the single scoring pass of a round and
// advances the session state machine. The Resolved flag makes the
// timeout/full-submission race idempotent: whichever trigger loses
// finds the flag set and backs off.
func (e *Engine) resolveRoundLocked(s *domain.Session) {
	r := s.Round
	if r == nil || r.Resolved {
		return
	}
	r.Resolved = true
	e.stopTimerLocked(s.ID)

	for _, m := range s.Members {
		if m.Score == nil {
			zero := 0
			m.Score = &zero
		}
	}

	respondents := make([][]domain.UserID, len(r.Options))
	for _, m := range s.Members {
		idx, answered := r.Submitted[m.ID]
		if !answered {
			continue
		}
		respondents[idx] = append(respondents[idx], m.ID)
	}

	memberCount := len(s.Members)
	for i, picked := range respondents {
		if len(picked) == 0 {
			continue
		}
		delta := len(picked) - 1
		if r.Kind == domain.Disagree {
			delta = memberCount - len(picked)
		}
		r.Options[i].ScoreDelta = &delta
		r.Options[i].Users = picked
		for _, id := range picked {
			*e.users[id].Score += delta
		}
	}

	e.monitor.IncrRoundsResolved()
	e.log.Info("round resolved", "session_id", s.ID, "round_id", r.ID,
		"number", r.Number, "answers", len(r.Submitted), "members", memberCount)

	if r.Number == e.settings.RoundsPerGame {
		s.State = domain.FinalResults
	} else {
		s.State = domain.ShowingResults
		sid, rid := s.ID, r.ID
		e.timers[sid] = e.clock.AfterFunc(e.settings.ResultsDuration, func() {
			e.nextRoundDue(sid, rid)
		})
	}
	e.publishLocked(s)
}

// nextRoundDue fires after the results display delay. It is a no-op
// when the session moved on in the meantime (membership reversion,
// manual restart, destruction).
func (e *Engine) nextRoundDue(sessionID domain.SessionID, roundID domain.RoundID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.sessions[sessionID]
	if s == nil || s.State != domain.ShowingResults || s.Round == nil || s.Round.ID != roundID {
		e.log.Debug("stale next-round timer ignored",
			"session_id", sessionID, "round_id", roundID)
		return
	}
	e.createRoundLocked(s)
}

func (e *Engine) stopTimerLocked(sessionID domain.SessionID) {
	if t := e.timers[sessionID]; t != nil {
		t.Stop()
		delete(e.timers, sessionID)
	}
}

func (e *Engine) publishLocked(s *domain.Session) {
	e.monitor.IncrEventsPublished()
	e.publisher.Publish(domain.SnapshotSession(s))
}
