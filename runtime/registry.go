package runtime

import (
	"strconv"

	"party-lab/domain"
)

// RegisterUser mints a fresh identity. Names are validated and
// censored by the caller before they reach the registry.
func (e *Engine) RegisterUser(name string) domain.UserSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastUserID++
	u := &domain.User{
		ID:   domain.UserID(strconv.FormatUint(e.lastUserID, 10)),
		Name: name,
	}
	e.users[u.ID] = u
	e.monitor.IncrUsersRegistered()
	e.log.Info("user registered", "user_id", u.ID, "name", u.Name)
	return domain.SnapshotUser(u)
}

// User returns a copy of the registered user, if any.
func (e *Engine) User(id domain.UserID) (domain.UserSnapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[id]
	if !ok {
		return domain.UserSnapshot{}, false
	}
	return domain.SnapshotUser(u), true
}

// RemoveUser forgets the identity. Callers detach the user from their
// session first (Leave), otherwise the session would keep a member the
// registry no longer knows.
func (e *Engine) RemoveUser(id domain.UserID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.users[id]; !ok {
		return
	}
	delete(e.users, id)
	e.monitor.IncrUsersRemoved()
	e.log.Info("user removed", "user_id", id)
}

// CreateSession allocates a session whose sole member is the caller,
// detaching them from any previous session first. Nothing is published
// for the new session: it has no other observers yet. Returns false
// for an unknown user.
func (e *Engine) CreateSession(userID domain.UserID) (domain.SessionSnapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[userID]
	if !ok {
		e.log.Info("createSession: unknown user", "user_id", userID)
		return domain.SessionSnapshot{}, false
	}
	e.detachLocked(u)

	e.lastSessionID++
	s := domain.NewSession(domain.SessionID(strconv.FormatUint(e.lastSessionID, 10)), u)
	u.SessionID = s.ID
	e.sessions[s.ID] = s
	e.monitor.IncrSessionsCreated()
	e.log.Info("session created", "session_id", s.ID, "user_id", u.ID)
	return domain.SnapshotSession(s), true
}

// Join moves the user into the target session, detaching them from
// their previous one first. The detach happens even when the target
// turns out not to exist, leaving the user without a session. An
// update is published for the joined session only.
func (e *Engine) Join(userID domain.UserID, sessionID domain.SessionID) (domain.SessionSnapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[userID]
	if !ok {
		e.log.Info("join: unknown user", "user_id", userID)
		return domain.SessionSnapshot{}, false
	}
	e.detachLocked(u)

	s, ok := e.sessions[sessionID]
	if !ok {
		e.log.Info("join: unknown session", "user_id", userID, "session_id", sessionID)
		return domain.SessionSnapshot{}, false
	}
	s.Members = append(s.Members, u)
	u.SessionID = s.ID
	e.log.Info("user joined session", "session_id", s.ID, "user_id", u.ID,
		"members", len(s.Members))
	e.publishLocked(s)
	return domain.SnapshotSession(s), true
}

// Leave detaches the user from their session. A no-op for unknown or
// sessionless users. If the session survives the departure, its
// remaining members get an update.
func (e *Engine) Leave(userID domain.UserID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[userID]
	if !ok || !u.InSession() {
		return
	}
	left := e.detachLocked(u)
	if left != nil {
		e.publishLocked(left)
	}
}

// SetReady flips the user's ready flag. Marking ready may complete the
// ready set and start a round; in the FINAL_RESULTS state that is how
// a session restarts the game. Every call publishes, so lobby members
// watch each other toggle.
func (e *Engine) SetReady(userID domain.UserID, ready bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.users[userID]
	if !ok || !u.InSession() {
		e.log.Info("setReady: user not in a session", "user_id", userID)
		return
	}
	s := e.sessions[u.SessionID]
	if s == nil {
		return
	}

	u.Ready = &ready
	if ready {
		s.Ready[u.ID] = struct{}{}
		if s.AllReady() {
			e.createRoundLocked(s)
		}
	} else {
		delete(s.Ready, u.ID)
	}
	e.publishLocked(s)
}

// Session returns a deep copy of the session, if any.
func (e *Engine) Session(id domain.SessionID) (domain.SessionSnapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[id]
	if !ok {
		return domain.SessionSnapshot{}, false
	}
	return domain.SnapshotSession(s), true
}

// detachLocked removes the user from their current session and
// repairs the session afterwards: last member out destroys it,
// dropping below the player minimum mid-game discards the round and
// reverts to the lobby, and a departure that leaves every remaining
// member with a submitted answer resolves the round early. Returns
// the session if it still exists.
func (e *Engine) detachLocked(u *domain.User) *domain.Session {
	if !u.InSession() {
		return nil
	}
	s := e.sessions[u.SessionID]
	u.SessionID = ""
	if s == nil {
		return nil
	}

	s.RemoveMember(u.ID)
	if s.Round != nil && !s.Round.Resolved {
		delete(s.Round.Submitted, u.ID)
	}

	if len(s.Members) == 0 {
		e.destroySessionLocked(s)
		return nil
	}

	if len(s.Members) < e.settings.MinPlayers && !s.Terminal() && s.State != domain.WaitingForPlayers {
		e.stopTimerLocked(s.ID)
		s.Round = nil
		s.State = domain.WaitingForPlayers
		e.log.Info("session below minimum players, round discarded",
			"session_id", s.ID, "members", len(s.Members))
		return s
	}

	if s.State == domain.InProgress && s.Round != nil && !s.Round.Resolved &&
		len(s.Round.Submitted) == len(s.Members) {
		e.resolveRoundLocked(s)
	}
	return s
}

func (e *Engine) destroySessionLocked(s *domain.Session) {
	e.stopTimerLocked(s.ID)
	delete(e.sessions, s.ID)
	e.monitor.IncrSessionsDeleted()
	e.log.Info("session destroyed", "session_id", s.ID)
}
