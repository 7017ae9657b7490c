// Package domain contains the core concepts of the party game:
// players, sessions and rounds, plus the read-only snapshots
// published to subscribers. No runtime, network, or UI logic
// should be added here.
package domain

type UserID string

// User is a registered player. A user belongs to at most one
// session at any instant; SessionID is empty otherwise.
//
// Ready and Score are pointers because both start life unset:
// Ready is cleared to nil at every round start, Score stays nil
// until the first scoring pass touches the user.
type User struct {
	ID        UserID
	Name      string
	SessionID SessionID
	Ready     *bool
	Score     *int
}

// InSession reports whether the user currently belongs to a session.
func (u *User) InSession() bool {
	return u.SessionID != ""
}
