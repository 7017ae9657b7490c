package domain

import (
	"time"

	"github.com/samber/lo"
)

// Snapshots are immutable copies of the live entities, safe to hand
// to subscribers and transport handlers outside the engine lock.

type UserSnapshot struct {
	ID        UserID    `json:"id"`
	Name      string    `json:"name"`
	SessionID SessionID `json:"sessionId,omitempty"`
	Ready     *bool     `json:"ready,omitempty"`
	Score     *int      `json:"score,omitempty"`
}

type OptionSnapshot struct {
	Index      int      `json:"index"`
	Label      string   `json:"label"`
	ScoreDelta *int     `json:"scoreDelta,omitempty"`
	Users      []UserID `json:"users,omitempty"`
}

type RoundSnapshot struct {
	ID        RoundID          `json:"id"`
	SessionID SessionID        `json:"sessionId"`
	Number    int              `json:"number"`
	Kind      RoundKind        `json:"kind"`
	Options   []OptionSnapshot `json:"options"`
	EndsAt    time.Time        `json:"endsAt"`
	Resolved  bool             `json:"resolved"`
}

type SessionSnapshot struct {
	ID    SessionID      `json:"id"`
	Users []UserSnapshot `json:"users"`
	State SessionState   `json:"state"`
	Round *RoundSnapshot `json:"round,omitempty"`
}

// MemberIDs returns the ids of the members captured in the snapshot.
func (s SessionSnapshot) MemberIDs() []UserID {
	return lo.Map(s.Users, func(u UserSnapshot, _ int) UserID { return u.ID })
}

func SnapshotUser(u *User) UserSnapshot {
	snap := UserSnapshot{
		ID:        u.ID,
		Name:      u.Name,
		SessionID: u.SessionID,
	}
	if u.Ready != nil {
		snap.Ready = lo.ToPtr(*u.Ready)
	}
	if u.Score != nil {
		snap.Score = lo.ToPtr(*u.Score)
	}
	return snap
}

func SnapshotRound(r *Round) *RoundSnapshot {
	if r == nil {
		return nil
	}
	return &RoundSnapshot{
		ID:        r.ID,
		SessionID: r.SessionID,
		Number:    r.Number,
		Kind:      r.Kind,
		EndsAt:    r.EndsAt,
		Resolved:  r.Resolved,
		Options: lo.Map(r.Options, func(o Option, i int) OptionSnapshot {
			snap := OptionSnapshot{Index: i, Label: o.Label}
			if o.ScoreDelta != nil {
				snap.ScoreDelta = lo.ToPtr(*o.ScoreDelta)
			}
			if len(o.Users) > 0 {
				snap.Users = append([]UserID(nil), o.Users...)
			}
			return snap
		}),
	}
}

func SnapshotSession(s *Session) SessionSnapshot {
	return SessionSnapshot{
		ID:    s.ID,
		State: s.State,
		Round: SnapshotRound(s.Round),
		Users: lo.Map(s.Members, func(m *User, _ int) UserSnapshot {
			return SnapshotUser(m)
		}),
	}
}
