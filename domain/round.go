package domain

import "time"

type RoundID string

// RoundKind selects the scoring mode of a round: AGREE rewards
// clustering on a popular option, DISAGREE rewards uniqueness.
type RoundKind string

const (
	Agree    RoundKind = "AGREE"
	Disagree RoundKind = "DISAGREE"
)

// Option is one selectable answer of a round. ScoreDelta and Users
// stay unset until the round resolves.
type Option struct {
	Label      string
	ScoreDelta *int
	Users      []UserID
}

// Round is one timed multiple-choice prompt within a session.
// Submitted maps a user id to the option index they picked; a
// resubmission overwrites the earlier pick. Resolved flips exactly
// once, whether the round ends by timeout or by a full submission.
type Round struct {
	ID        RoundID
	SessionID SessionID
	Number    int
	Kind      RoundKind
	Options   []Option
	Submitted map[UserID]int
	EndsAt    time.Time
	Resolved  bool
}

// ValidIndex reports whether i addresses one of the round's options.
func (r *Round) ValidIndex(i int) bool {
	return i >= 0 && i < len(r.Options)
}
