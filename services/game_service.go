// Package services exposes the application surface: everything the
// transport layer may do on behalf of an authenticated user.
package services

import (
	"log/slog"

	"party-lab/auth"
	"party-lab/bus"
	"party-lab/contract"
	"party-lab/domain"
	"party-lab/moderation"
	"party-lab/runtime"
)

// IGameService is what the HTTP and websocket handlers program
// against.
type IGameService interface {
	Register(name string) (domain.UserSnapshot, string, error)
	CreateSession(userID domain.UserID) (domain.SessionSnapshot, bool)
	Join(userID domain.UserID, sessionID domain.SessionID) (domain.SessionSnapshot, bool)
	Leave(userID domain.UserID)
	SetReady(userID domain.UserID, ready bool)
	SubmitAnswer(userID domain.UserID, optionIndex int)
	Session(id domain.SessionID) (domain.SessionSnapshot, bool)
	Logout(userID domain.UserID)
	Subscribe(userID domain.UserID) *bus.Subscription
	Unsubscribe(sub *bus.Subscription)
	ResolveIdentity(token string) (domain.UserID, bool)
	Connected(userID domain.UserID)
	Disconnected(userID domain.UserID)
}

type GameService struct {
	log       *slog.Logger
	engine    *runtime.Engine
	tokens    *auth.TokenManager
	moderator *moderation.Moderator
	grace     contract.GraceManager
	events    *bus.Bus
}

func NewGameService(log *slog.Logger, engine *runtime.Engine, tokens *auth.TokenManager,
	moderator *moderation.Moderator, grace contract.GraceManager, events *bus.Bus) *GameService {
	return &GameService{
		log:       log,
		engine:    engine,
		tokens:    tokens,
		moderator: moderator,
		grace:     grace,
		events:    events,
	}
}

// Register validates and censors the display name, mints the
// identity and returns it with a signed token. A token signing
// failure rolls the registration back.
func (s *GameService) Register(name string) (domain.UserSnapshot, string, error) {
	if err := auth.ValidateName(name); err != nil {
		return domain.UserSnapshot{}, "", err
	}
	user := s.engine.RegisterUser(s.moderator.CensorName(name))

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		s.engine.RemoveUser(user.ID)
		return domain.UserSnapshot{}, "", err
	}
	return user, token, nil
}

func (s *GameService) CreateSession(userID domain.UserID) (domain.SessionSnapshot, bool) {
	return s.engine.CreateSession(userID)
}

func (s *GameService) Join(userID domain.UserID, sessionID domain.SessionID) (domain.SessionSnapshot, bool) {
	return s.engine.Join(userID, sessionID)
}

func (s *GameService) Leave(userID domain.UserID) {
	s.engine.Leave(userID)
}

func (s *GameService) SetReady(userID domain.UserID, ready bool) {
	s.engine.SetReady(userID, ready)
}

func (s *GameService) SubmitAnswer(userID domain.UserID, optionIndex int) {
	s.engine.SubmitAnswer(userID, optionIndex)
}

func (s *GameService) Session(id domain.SessionID) (domain.SessionSnapshot, bool) {
	return s.engine.Session(id)
}

// Logout detaches the user from their session and forgets the
// identity. The token the client still holds resolves to an unknown
// user afterwards, so every later call degrades to a no-op.
func (s *GameService) Logout(userID domain.UserID) {
	s.engine.Leave(userID)
	s.engine.RemoveUser(userID)
	s.log.Info("user logged out", "user_id", userID)
}

func (s *GameService) Subscribe(userID domain.UserID) *bus.Subscription {
	return s.events.Subscribe(userID)
}

func (s *GameService) Unsubscribe(sub *bus.Subscription) {
	s.events.Unsubscribe(sub)
}

func (s *GameService) ResolveIdentity(token string) (domain.UserID, bool) {
	return s.tokens.ResolveIdentity(token)
}

// Connected cancels a pending disconnect eviction.
func (s *GameService) Connected(userID domain.UserID) {
	s.grace.Reconnected(userID)
}

// Disconnected arms the eviction countdown.
func (s *GameService) Disconnected(userID domain.UserID) {
	s.grace.Disconnected(userID)
}
