package domain

type SessionID string

type SessionState string

const (
	WaitingForPlayers SessionState = "WAITING_FOR_PLAYERS"
	InProgress        SessionState = "IN_PROGRESS"
	ShowingResults    SessionState = "SHOWING_RESULTS"
	FinalResults      SessionState = "FINAL_RESULTS"
)

// Session is a set of players progressing through rounds together.
// Members is ordered (join order); Ready holds the ids of members
// who have readied up for the next round. Invariant: Ready is
// always a subset of the member ids.
type Session struct {
	ID      SessionID
	Members []*User
	Ready   map[UserID]struct{}
	State   SessionState
	Round   *Round
}

func NewSession(id SessionID, creator *User) *Session {
	return &Session{
		ID:      id,
		Members: []*User{creator},
		Ready:   make(map[UserID]struct{}),
		State:   WaitingForPlayers,
	}
}

// MemberIndex returns the position of the given user in the member
// list, or -1 if they are not a member.
func (s *Session) MemberIndex(id UserID) int {
	for i, m := range s.Members {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// RemoveMember compacts the member list around the given user and
// drops them from the ready set. It reports whether the user was a
// member.
func (s *Session) RemoveMember(id UserID) bool {
	i := s.MemberIndex(id)
	if i < 0 {
		return false
	}
	s.Members = append(s.Members[:i], s.Members[i+1:]...)
	delete(s.Ready, id)
	return true
}

// AllReady reports whether every current member has readied up.
func (s *Session) AllReady() bool {
	return len(s.Ready) == len(s.Members)
}

// Terminal reports whether the session reached its final state.
// A terminal session only changes through membership mutation.
func (s *Session) Terminal() bool {
	return s.State == FinalResults
}
