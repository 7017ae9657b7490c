package runtime

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"party-lab/clock"
	"party-lab/domain"
	"party-lab/mocks"
	"party-lab/observability"
)

var testStart = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type capturingPublisher struct {
	mu    sync.Mutex
	snaps []domain.SessionSnapshot
}

func (p *capturingPublisher) Publish(snap domain.SessionSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snaps = append(p.snaps, snap)
}

func (p *capturingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snaps)
}

func (p *capturingPublisher) last() domain.SessionSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snaps[len(p.snaps)-1]
}

type sequenceLabels struct{ next int }

func (l *sequenceLabels) NextAnswerLabel() string {
	l.next++
	return fmt.Sprintf("L%d", l.next)
}

type fixture struct {
	clk     *clock.Manual
	pub     *capturingPublisher
	monitor *observability.Manager
	engine  *Engine
}

func newFixture(settings Settings) *fixture {
	f := &fixture{
		clk:     clock.NewManual(testStart),
		pub:     &capturingPublisher{},
		monitor: observability.NewManager(slog.Default()),
	}
	f.engine = NewEngine(slog.Default(), f.clk, f.pub, &sequenceLabels{}, f.monitor, settings)
	f.engine.pickKind = func() domain.RoundKind { return domain.Agree }
	f.engine.pickOptionCount = func(int) int { return 2 }
	return f
}

// trio registers three users and gathers them in one session created
// by the first.
func (f *fixture) trio(t *testing.T) (a, b, c domain.UserID, sid domain.SessionID) {
	t.Helper()
	req := require.New(t)

	a = f.engine.RegisterUser("Alice").ID
	b = f.engine.RegisterUser("Bob").ID
	c = f.engine.RegisterUser("Carol").ID

	s, ok := f.engine.CreateSession(a)
	req.True(ok)
	_, ok = f.engine.Join(b, s.ID)
	req.True(ok)
	_, ok = f.engine.Join(c, s.ID)
	req.True(ok)
	return a, b, c, s.ID
}

func (f *fixture) allReady(ids ...domain.UserID) {
	for _, id := range ids {
		f.engine.SetReady(id, true)
	}
}

func TestRegisterAndRemoveUser(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())

	snap := f.engine.RegisterUser("Alice")
	req.Equal("Alice", snap.Name)
	req.NotEmpty(snap.ID)

	got, ok := f.engine.User(snap.ID)
	req.True(ok)
	req.Equal(snap.ID, got.ID)

	f.engine.RemoveUser(snap.ID)
	_, ok = f.engine.User(snap.ID)
	req.False(ok)
}

func TestCreateSession_SoleMemberInLobby(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())

	a := f.engine.RegisterUser("Alice").ID
	s, ok := f.engine.CreateSession(a)
	req.True(ok)
	req.Equal(domain.WaitingForPlayers, s.State)
	req.Equal([]domain.UserID{a}, s.MemberIDs())
	req.Nil(s.Round)

	// Nobody else can observe the fresh session yet.
	req.Zero(f.pub.count())

	got, ok := f.engine.Session(s.ID)
	req.True(ok)
	req.Equal(s.ID, got.ID)
}

func TestCreateSession_DetachesFromPreviousSession(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())

	a, b, _, sid := f.trio(t)

	fresh, ok := f.engine.CreateSession(a)
	req.True(ok)
	req.NotEqual(sid, fresh.ID)

	old, ok := f.engine.Session(sid)
	req.True(ok)
	req.NotContains(old.MemberIDs(), a)
	req.Contains(old.MemberIDs(), b)
}

func TestJoin_UnknownSessionLeavesUserDetached(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())

	a := f.engine.RegisterUser("Alice").ID
	s, ok := f.engine.CreateSession(a)
	req.True(ok)

	_, ok = f.engine.Join(a, "no-such-session")
	req.False(ok)

	// The detach happened anyway and destroyed the singleton session.
	got, _ := f.engine.User(a)
	req.Empty(got.SessionID)
	_, ok = f.engine.Session(s.ID)
	req.False(ok)
}

func TestJoin_NeverLeavesUserInTwoSessions(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())

	a, b, c, sid := f.trio(t)

	other, ok := f.engine.CreateSession(c)
	req.True(ok)

	_, ok = f.engine.Join(a, other.ID)
	req.True(ok)
	_, ok = f.engine.Join(b, other.ID)
	req.True(ok)

	// The first session lost all members and is gone.
	_, ok = f.engine.Session(sid)
	req.False(ok)

	joined, ok := f.engine.Session(other.ID)
	req.True(ok)
	req.ElementsMatch([]domain.UserID{a, b, c}, joined.MemberIDs())
}

func TestSetReady_FullReadySetStartsRound(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())

	a, b, c, _ := f.trio(t)

	f.engine.SetReady(a, true)
	f.engine.SetReady(b, true)
	req.Equal(domain.WaitingForPlayers, f.pub.last().State)

	f.engine.SetReady(c, true)

	snap := f.pub.last()
	req.Equal(domain.InProgress, snap.State)
	req.NotNil(snap.Round)
	req.Equal(1, snap.Round.Number)
	req.Len(snap.Round.Options, 2)
	req.Equal("L1", snap.Round.Options[0].Label)
	req.Equal("L2", snap.Round.Options[1].Label)
	req.True(snap.Round.EndsAt.Equal(testStart.Add(DefaultSettings().RoundDuration)))

	// Readiness is consumed by round creation.
	for _, u := range snap.Users {
		req.Nil(u.Ready)
	}
	req.EqualValues(1, f.monitor.Snapshot().Counters.RoundsCreated)
}

func TestSetReady_ToggleOffBlocksRoundStart(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())

	a, b, c, _ := f.trio(t)

	f.engine.SetReady(a, true)
	f.engine.SetReady(b, true)
	f.engine.SetReady(a, false)
	f.engine.SetReady(c, true)

	req.Equal(domain.WaitingForPlayers, f.pub.last().State)

	f.engine.SetReady(a, true)
	req.Equal(domain.InProgress, f.pub.last().State)
}

func TestAgreeRound_FullSubmissionResolvesEarly(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	labels := mocks.NewMockLabelProvider(ctrl)
	gomock.InOrder(
		labels.EXPECT().NextAnswerLabel().Return("😀"),
		labels.EXPECT().NextAnswerLabel().Return("😢"),
	)
	labels.EXPECT().NextAnswerLabel().Return("🤷").AnyTimes()

	f := newFixture(DefaultSettings())
	f.engine.labels = labels

	a, b, c, sid := f.trio(t)
	f.allReady(a, b, c)

	f.engine.SubmitAnswer(a, 0)
	f.engine.SubmitAnswer(b, 0)
	req.Equal(domain.InProgress, f.engine.mustSession(t, sid).State)

	f.engine.SubmitAnswer(c, 1)

	snap := f.engine.mustSession(t, sid)
	req.Equal(domain.ShowingResults, snap.State)
	req.True(snap.Round.Resolved)

	majority := snap.Round.Options[0]
	req.Equal("😀", majority.Label)
	req.NotNil(majority.ScoreDelta)
	req.Equal(1, *majority.ScoreDelta)
	req.ElementsMatch([]domain.UserID{a, b}, majority.Users)

	loner := snap.Round.Options[1]
	req.Equal("😢", loner.Label)
	req.NotNil(loner.ScoreDelta)
	req.Equal(0, *loner.ScoreDelta)
	req.Equal([]domain.UserID{c}, loner.Users)

	req.Equal(map[domain.UserID]int{a: 1, b: 1, c: 0}, scores(snap))

	// The round timeout was disarmed; only the results timer advances
	// the session, straight into round two.
	f.clk.Advance(DefaultSettings().ResultsDuration)
	snap = f.engine.mustSession(t, sid)
	req.Equal(domain.InProgress, snap.State)
	req.Equal(2, snap.Round.Number)
	req.EqualValues(1, f.monitor.Snapshot().Counters.RoundsResolved)
}

func TestDisagreeRound_RewardsSmallGroups(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())
	f.engine.pickKind = func() domain.RoundKind { return domain.Disagree }

	a, b, c, sid := f.trio(t)
	f.allReady(a, b, c)

	f.engine.SubmitAnswer(a, 0)
	f.engine.SubmitAnswer(b, 0)
	f.engine.SubmitAnswer(c, 1)

	snap := f.engine.mustSession(t, sid)
	req.Equal(1, *snap.Round.Options[0].ScoreDelta) // 3 members - 2 picks
	req.Equal(2, *snap.Round.Options[1].ScoreDelta) // 3 members - 1 pick
	req.Equal(map[domain.UserID]int{a: 1, b: 1, c: 2}, scores(snap))
}

func TestRoundTimeout_ResolvesWithPartialAnswers(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())

	a, b, c, sid := f.trio(t)
	f.allReady(a, b, c)

	f.engine.SubmitAnswer(a, 0)
	f.clk.Advance(DefaultSettings().RoundDuration)

	snap := f.engine.mustSession(t, sid)
	req.Equal(domain.ShowingResults, snap.State)
	req.True(snap.Round.Resolved)
	req.Equal(0, *snap.Round.Options[0].ScoreDelta) // alone in agreement
	req.Nil(snap.Round.Options[1].ScoreDelta)       // untouched option
	req.Equal(map[domain.UserID]int{a: 0, b: 0, c: 0}, scores(snap))
}

func TestRoundTimeout_AfterFullSubmissionIsSecondNoOp(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())

	a, b, c, sid := f.trio(t)
	f.allReady(a, b, c)

	// Full submission wins the race and runs the scoring pass.
	f.engine.SubmitAnswer(a, 0)
	f.engine.SubmitAnswer(b, 0)
	f.engine.SubmitAnswer(c, 0)

	resolved := f.engine.mustSession(t, sid)
	req.Equal(domain.ShowingResults, resolved.State)
	req.Equal(map[domain.UserID]int{a: 2, b: 2, c: 2}, scores(resolved))
	req.EqualValues(1, f.monitor.Snapshot().Counters.RoundsResolved)

	// The losing trigger fires anyway with the same round id; the
	// resolved round must not be scored a second time.
	f.engine.roundTimeout(sid, resolved.Round.ID)

	after := f.engine.mustSession(t, sid)
	req.Equal(domain.ShowingResults, after.State)
	req.Equal(map[domain.UserID]int{a: 2, b: 2, c: 2}, scores(after))
	req.EqualValues(1, f.monitor.Snapshot().Counters.RoundsResolved)
}

func TestSubmitAnswer_ResubmissionOverwrites(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())

	a, b, c, sid := f.trio(t)
	f.allReady(a, b, c)

	f.engine.SubmitAnswer(a, 0)
	f.engine.SubmitAnswer(a, 1)
	f.engine.SubmitAnswer(b, 1)
	f.engine.SubmitAnswer(c, 1)

	snap := f.engine.mustSession(t, sid)
	req.True(snap.Round.Resolved)
	req.Nil(snap.Round.Options[0].ScoreDelta)
	req.ElementsMatch([]domain.UserID{a, b, c}, snap.Round.Options[1].Users)
}

func TestSubmitAnswer_RejectsOutOfRangeIndex(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())

	a, b, c, sid := f.trio(t)
	f.allReady(a, b, c)

	f.engine.SubmitAnswer(a, 2)
	f.engine.SubmitAnswer(a, -1)

	snap := f.engine.mustSession(t, sid)
	req.False(snap.Round.Resolved)
	req.EqualValues(0, f.monitor.Snapshot().Counters.AnswersSubmitted)
}

func TestFinalRound_EndsGameAndReadyRestartsIt(t *testing.T) {
	req := require.New(t)
	settings := DefaultSettings()
	settings.RoundsPerGame = 2
	f := newFixture(settings)

	a, b, c, sid := f.trio(t)
	f.allReady(a, b, c)

	f.engine.SubmitAnswer(a, 0)
	f.engine.SubmitAnswer(b, 0)
	f.engine.SubmitAnswer(c, 0)
	f.clk.Advance(settings.ResultsDuration)

	snap := f.engine.mustSession(t, sid)
	req.Equal(2, snap.Round.Number)

	f.engine.SubmitAnswer(a, 0)
	f.engine.SubmitAnswer(b, 0)
	f.engine.SubmitAnswer(c, 0)

	snap = f.engine.mustSession(t, sid)
	req.Equal(domain.FinalResults, snap.State)
	req.Zero(f.clk.Pending())

	// Everyone readying up again starts a new game at round one.
	f.allReady(a, b, c)
	snap = f.engine.mustSession(t, sid)
	req.Equal(domain.InProgress, snap.State)
	req.Equal(1, snap.Round.Number)
}

func TestLeave_BelowMinimumRevertsToLobby(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())

	a, b, c, sid := f.trio(t)
	f.allReady(a, b, c)

	f.engine.Leave(a)

	snap := f.engine.mustSession(t, sid)
	req.Equal(domain.WaitingForPlayers, snap.State)
	req.Nil(snap.Round)
	req.ElementsMatch([]domain.UserID{b, c}, snap.MemberIDs())
	req.Zero(f.clk.Pending())

	// The discarded round's timeout never resurrects it.
	f.clk.Advance(DefaultSettings().RoundDuration)
	req.Equal(domain.WaitingForPlayers, f.engine.mustSession(t, sid).State)
}

func TestLeave_CompletesRoundForRemainingMembers(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())

	a, b, c, sid := f.trio(t)
	d := f.engine.RegisterUser("Dave").ID
	_, ok := f.engine.Join(d, sid)
	req.True(ok)

	f.allReady(a, b, c, d)

	f.engine.SubmitAnswer(a, 0)
	f.engine.SubmitAnswer(b, 0)
	f.engine.SubmitAnswer(c, 1)

	// Dave never answers and walks out; everyone left has answered.
	f.engine.Leave(d)

	snap := f.engine.mustSession(t, sid)
	req.Equal(domain.ShowingResults, snap.State)
	req.True(snap.Round.Resolved)
	req.Equal(map[domain.UserID]int{a: 1, b: 1, c: 0}, scores(snap))
}

func TestLeave_LastMemberDestroysSession(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())

	a := f.engine.RegisterUser("Alice").ID
	s, ok := f.engine.CreateSession(a)
	req.True(ok)

	f.engine.Leave(a)

	_, ok = f.engine.Session(s.ID)
	req.False(ok)
	req.EqualValues(1, f.monitor.Snapshot().Counters.SessionsDeleted)
}

func TestUnknownUserOperationsAreNoOps(t *testing.T) {
	req := require.New(t)
	f := newFixture(DefaultSettings())

	_, ok := f.engine.CreateSession("ghost")
	req.False(ok)
	f.engine.Leave("ghost")
	f.engine.SetReady("ghost", true)
	f.engine.SubmitAnswer("ghost", 0)
	req.Zero(f.pub.count())
}

func (e *Engine) mustSession(t *testing.T, id domain.SessionID) domain.SessionSnapshot {
	t.Helper()
	snap, ok := e.Session(id)
	require.True(t, ok)
	return snap
}

func scores(snap domain.SessionSnapshot) map[domain.UserID]int {
	out := make(map[domain.UserID]int, len(snap.Users))
	for _, u := range snap.Users {
		if u.Score != nil {
			out[u.ID] = *u.Score
		}
	}
	return out
}
