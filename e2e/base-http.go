package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"

	"party-lab/api"
	"party-lab/auth"
	"party-lab/bus"
	"party-lab/clock"
	"party-lab/domain"
	"party-lab/emoji"
	"party-lab/moderation"
	"party-lab/observability"
	"party-lab/runtime"
	"party-lab/services"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config  Config
	BaseURL string

	// Only set when the suite boots its own in-process server.
	server *httptest.Server
	events *bus.Bus
}

type registerResponse struct {
	User  domain.UserSnapshot `json:"user"`
	Token string              `json:"token"`
}

// SetupSuite loads the environment configuration and, unless
// E2E_SERVER_ADDR points at a running server, boots an in-process one
// with a short results delay so games advance quickly.
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.ServerAddr != "" {
		s.BaseURL = s.Config.ServerAddr
		return
	}

	log := slog.Default()
	tokens, err := auth.NewTokenManager(log, time.Hour)
	s.Require().NoError(err)
	moderator, err := moderation.NewDefault('*')
	s.Require().NoError(err)

	settings := runtime.DefaultSettings()
	settings.ResultsDuration = 100 * time.Millisecond

	clk := clock.System{}
	s.events = bus.NewBus(log)
	monitor := observability.NewManager(log)
	engine := runtime.NewEngine(log, clk, s.events, emoji.NewProvider(), monitor, settings)
	grace := runtime.NewGrace(log, clk, engine, time.Minute)
	svc := services.NewGameService(log, engine, tokens, moderator, grace, s.events)

	s.server = httptest.NewServer(api.NewRouter(log, svc, monitor))
	s.BaseURL = s.server.URL
}

func (s *BaseHTTPSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
}

// Step prints a colorized header so suite logs read as a scenario.
func (s *BaseHTTPSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Do performs one JSON request and decodes the response into out
// (when non-nil). Bodies are logged when E2E_DEBUG_JSON is enabled.
func (s *BaseHTTPSuite) Do(method, path, token string, body, out any) int {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, s.BaseURL+path, &buf)
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		fmt.Fprintln(&logBuilder, "\nRESPONSE:")
		fmt.Fprintln(&logBuilder, string(raw))
	}
	s.T().Log(logBuilder.String())

	if out != nil && len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, out))
	}
	return resp.StatusCode
}

func (s *BaseHTTPSuite) Register(name string) registerResponse {
	var out registerResponse
	status := s.Do(http.MethodPost, "/register", "", map[string]string{"name": name}, &out)
	s.Require().Equal(http.StatusCreated, status)
	return out
}

func (s *BaseHTTPSuite) CreateSession(token string) domain.SessionSnapshot {
	var out domain.SessionSnapshot
	status := s.Do(http.MethodPost, "/sessions", token, nil, &out)
	s.Require().Equal(http.StatusCreated, status)
	return out
}

func (s *BaseHTTPSuite) Join(token string, id domain.SessionID) domain.SessionSnapshot {
	var out domain.SessionSnapshot
	status := s.Do(http.MethodPost, "/sessions/"+string(id)+"/join", token, nil, &out)
	s.Require().Equal(http.StatusOK, status)
	return out
}

func (s *BaseHTTPSuite) SetReady(token string, ready bool) {
	status := s.Do(http.MethodPost, "/ready", token, map[string]bool{"ready": ready}, nil)
	s.Require().Equal(http.StatusNoContent, status)
}

func (s *BaseHTTPSuite) SubmitAnswer(token string, index int) {
	status := s.Do(http.MethodPost, "/answer", token, map[string]int{"index": index}, nil)
	s.Require().Equal(http.StatusNoContent, status)
}

func (s *BaseHTTPSuite) Logout(token string) {
	status := s.Do(http.MethodPost, "/logout", token, nil, nil)
	s.Require().Equal(http.StatusNoContent, status)
}

// WaitForSubscribers blocks until n websocket subscriptions are live.
// Against an external server the bus is out of reach, so a short
// pause has to do.
func (s *BaseHTTPSuite) WaitForSubscribers(n int) {
	if s.events == nil {
		time.Sleep(200 * time.Millisecond)
		return
	}
	s.Require().Eventually(func() bool { return s.events.Len() == n }, 2*time.Second, 5*time.Millisecond)
}
