package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/gouripri/Digiware-Monopoly/game/config"
	"github.com/gouripri/Digiware-Monopoly/game/engine"
	"github.com/gouripri/Digiware-Monopoly/game/presentation"
	"github.com/gouripri/Digiware-Monopoly/game/service"
	"github.com/gouripri/Digiware-Monopoly/game/session"
	"github.com/gouripri/Digiware-Monopoly/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string, players []engine.PlayerSpec) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	ApplyFunc          func(ctx context.Context, sessionID, action string) (*service.ActionResult, error)
	ApplyForPlayerFunc func(ctx context.Context, sessionID string, playerNumber int, action string) (*service.ActionResult, error)
	ResetFunc          func(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameStateFunc func(ctx context.Context, sessionID string) (*engine.GameState, error)
	SnapshotFunc     func(ctx context.Context, sessionID string) (presentation.Snapshot, error)
	GetHistoryFunc   func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.BoardConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.BoardConfig) error
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, configName string, players []engine.PlayerSpec) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName, players)
	}
	return &service.SessionInfo{
		ID:         "ab12",
		ConfigName: configName,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "classic",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Game Operations
func (m *MockGameService) Apply(ctx context.Context, sessionID, action string) (*service.ActionResult, error) {
	if m.ApplyFunc != nil {
		return m.ApplyFunc(ctx, sessionID, action)
	}
	return &service.ActionResult{Success: true, Action: action, PlayerNumber: 1, GameState: &engine.GameState{}}, nil
}

func (m *MockGameService) ApplyForPlayer(ctx context.Context, sessionID string, playerNumber int, action string) (*service.ActionResult, error) {
	if m.ApplyForPlayerFunc != nil {
		return m.ApplyForPlayerFunc(ctx, sessionID, playerNumber, action)
	}
	return &service.ActionResult{Success: true, Action: action, PlayerNumber: playerNumber, GameState: &engine.GameState{}}, nil
}

func (m *MockGameService) Roll(ctx context.Context, sessionID string) (*service.ActionResult, error) {
	return m.Apply(ctx, sessionID, engine.ActionRoll)
}

func (m *MockGameService) Buy(ctx context.Context, sessionID string) (*service.ActionResult, error) {
	return m.Apply(ctx, sessionID, engine.ActionBuy)
}

func (m *MockGameService) Pass(ctx context.Context, sessionID string) (*service.ActionResult, error) {
	return m.Apply(ctx, sessionID, engine.ActionPass)
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

// Game State
func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) CurrentPlayerNumber(ctx context.Context, sessionID string) (int, error) {
	return 1, nil
}

func (m *MockGameService) Snapshot(ctx context.Context, sessionID string) (presentation.Snapshot, error) {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(ctx, sessionID)
	}
	return presentation.Snapshot{}, nil
}

func (m *MockGameService) GetHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Entries:    []engine.TurnHistoryEntry{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

// Configuration
func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return &engine.BoardConfig{Name: configName, Description: "Test config"}, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

// Test helpers
func setupTestServer(t *testing.T, mockService *MockGameService) *Server {
	t.Helper()
	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func serve(t *testing.T, m *MockGameService, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	server := setupTestServer(t, m)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest(method, path, body))
	return w
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		wantConfig     string
		wantPlayers    int
		serviceErr     error
		expectedStatus int
	}{
		{"default config and players", nil, "", 0, nil, http.StatusCreated},
		{"named config", map[string]string{"config_id": "classic"}, "classic", 0, nil, http.StatusCreated},
		{"player count", map[string]int{"player_count": 3}, "", 3, nil, http.StatusCreated},
		{
			"explicit players",
			map[string]interface{}{"players": []map[string]string{{"name": "Ann"}, {"name": "Bo", "token": "car"}}},
			"", 2, nil, http.StatusCreated,
		},
		{"too many players", map[string]int{"player_count": 9}, "", 0, nil, http.StatusBadRequest},
		{"service error", map[string]string{"config_id": "monaco"}, "monaco", 0, fmt.Errorf("config 'monaco' not found"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockGameService{
				CreateSessionFunc: func(ctx context.Context, configName string, players []engine.PlayerSpec) (*service.SessionInfo, error) {
					if configName != tt.wantConfig {
						t.Errorf("Expected config %q, got %q", tt.wantConfig, configName)
					}
					if len(players) != tt.wantPlayers {
						t.Errorf("Expected %d players, got %d", tt.wantPlayers, len(players))
					}
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &service.SessionInfo{ID: "ab12", ConfigName: "classic"}, nil
				},
			}

			w := serve(t, m, "POST", "/api/sessions", tt.requestBody)
			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if w.Code == http.StatusCreated {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "ab12" {
					t.Errorf("Expected session ab12, got %s", resp.ID)
				}
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	m := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now.Add(-time.Hour)},
				{ID: "new", CreatedAt: now, LastAccessedAt: now},
				{ID: "mid", CreatedAt: now.Add(-time.Minute), LastAccessedAt: now.Add(-time.Minute)},
			}, nil
		},
	}

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"default accessed desc", "", []string{"new", "mid", "old"}},
		{"created asc", "?sort=created&order=asc", []string{"old", "mid", "new"}},
		{"limit", "?limit=1", []string{"new"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, m, "GET", "/api/sessions"+tt.query, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", w.Code)
			}
			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)
			if resp.Count != len(tt.wantIDs) || resp.Total != 3 {
				t.Errorf("Expected count %d total 3, got %d/%d", len(tt.wantIDs), resp.Count, resp.Total)
			}
			for i, id := range tt.wantIDs {
				if resp.Sessions[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, resp.Sessions[i].ID)
				}
			}
		})
	}

	failing := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return nil, fmt.Errorf("boom")
		},
	}
	if w := serve(t, failing, "GET", "/api/sessions", nil); w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", w.Code)
	}
}

func TestGetAndDeleteSession(t *testing.T) {
	m := &MockGameService{
		GetSessionFunc: func(ctx context.Context, id string) (*service.SessionInfo, error) {
			if id != "ab12" {
				return nil, fmt.Errorf("session not found: %w", session.ErrSessionNotFound)
			}
			return &service.SessionInfo{ID: id}, nil
		},
		DeleteSessionFunc: func(ctx context.Context, id string) error {
			if id != "ab12" {
				return session.ErrSessionNotFound
			}
			return nil
		},
	}

	if w := serve(t, m, "GET", "/api/sessions/ab12", nil); w.Code != http.StatusOK {
		t.Errorf("GET existing: expected 200, got %d", w.Code)
	}
	if w := serve(t, m, "GET", "/api/sessions/zzzz", nil); w.Code != http.StatusNotFound {
		t.Errorf("GET missing: expected 404, got %d", w.Code)
	}
	if w := serve(t, m, "DELETE", "/api/sessions/ab12", nil); w.Code != http.StatusOK {
		t.Errorf("DELETE existing: expected 200, got %d", w.Code)
	}
	if w := serve(t, m, "DELETE", "/api/sessions/zzzz", nil); w.Code != http.StatusNotFound {
		t.Errorf("DELETE missing: expected 404, got %d", w.Code)
	}
}

func TestDeleteSessionNotifiesWatchers(t *testing.T) {
	m := &MockGameService{
		GetSessionFunc: func(ctx context.Context, id string) (*service.SessionInfo, error) {
			return &service.SessionInfo{ID: id}, nil
		},
	}
	server := setupTestServer(t, m)
	httpServer := httptest.NewServer(server.Router())
	defer httpServer.Close()

	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws?session=ab12"
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for server.hub.ClientCount("ab12") != 1 {
		if time.Now().After(deadline) {
			t.Fatal("Client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, makeRequest("DELETE", "/api/sessions/ab12", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Never received %s: %v", websocket.EventSessionDeleted, err)
		}
		var message websocket.Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Event == websocket.EventSessionDeleted {
			break
		}
	}
}

// Game Operation Tests

func TestFixedActionRoutes(t *testing.T) {
	for path, want := range map[string]string{"roll": "ROLL", "buy": "BUY", "pass": "PASS"} {
		t.Run(path, func(t *testing.T) {
			var got string
			snapshots := 0
			m := &MockGameService{
				ApplyFunc: func(ctx context.Context, id, action string) (*service.ActionResult, error) {
					got = action
					return &service.ActionResult{Success: true, Action: action, Message: "ok"}, nil
				},
				SnapshotFunc: func(ctx context.Context, id string) (presentation.Snapshot, error) {
					snapshots++
					return presentation.Snapshot{}, nil
				},
			}

			w := serve(t, m, "POST", "/api/sessions/ab12/"+path, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", w.Code)
			}
			if got != want {
				t.Errorf("Expected action %s, got %s", want, got)
			}
			if snapshots != 1 {
				t.Errorf("Expected one broadcast snapshot, got %d", snapshots)
			}
		})
	}
}

func TestActionEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		applyErr       error
		success        bool
		wantPlayer     int
		expectedStatus int
	}{
		{"bare action", map[string]interface{}{"action": "roll"}, nil, true, 0, http.StatusOK},
		{"addressed action", map[string]interface{}{"action": "ROLL", "player": 2}, nil, true, 2, http.StatusOK},
		{"rule rejection is 200", map[string]interface{}{"action": "BUY"}, nil, false, 0, http.StatusOK},
		{"wrong player", map[string]interface{}{"action": "ROLL", "player": 1}, service.ErrNotPlayersTurn, false, 1, http.StatusConflict},
		{"missing session", map[string]interface{}{"action": "ROLL"}, fmt.Errorf("session not found: %w", session.ErrSessionNotFound), false, 0, http.StatusNotFound},
		{"missing action", map[string]interface{}{"player": 1}, nil, false, -1, http.StatusBadRequest},
		{"negative player", map[string]interface{}{"action": "ROLL", "player": -1}, nil, false, -1, http.StatusBadRequest},
		{"bad body", "not json", nil, false, -1, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := -1
			result := func(action string, player int) (*service.ActionResult, error) {
				called = player
				res := &service.ActionResult{Success: tt.success, Action: action, PlayerNumber: player}
				if tt.applyErr != nil && !service.IsNotPlayersTurn(tt.applyErr) {
					return nil, tt.applyErr
				}
				return res, tt.applyErr
			}
			m := &MockGameService{
				ApplyFunc: func(ctx context.Context, id, action string) (*service.ActionResult, error) {
					return result(action, 0)
				},
				ApplyForPlayerFunc: func(ctx context.Context, id string, player int, action string) (*service.ActionResult, error) {
					return result(action, player)
				},
			}

			w := serve(t, m, "POST", "/api/sessions/ab12/actions", tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if called != tt.wantPlayer {
				t.Errorf("Expected service called for player %d, got %d", tt.wantPlayer, called)
			}
			if tt.expectedStatus == http.StatusOK || tt.expectedStatus == http.StatusConflict {
				var resp service.ActionResult
				parseResponse(t, w, &resp)
				if resp.Success != tt.success {
					t.Errorf("Expected success %v, got %v", tt.success, resp.Success)
				}
			}
		})
	}
}

func TestGetGameStateAndBoard(t *testing.T) {
	m := &MockGameService{
		GetGameStateFunc: func(ctx context.Context, id string) (*engine.GameState, error) {
			return &engine.GameState{Phase: engine.AwaitingRoll, LastRoll: 4}, nil
		},
		SnapshotFunc: func(ctx context.Context, id string) (presentation.Snapshot, error) {
			if id != "ab12" {
				return presentation.Snapshot{}, session.ErrSessionNotFound
			}
			return presentation.Snapshot{
				Spaces: []presentation.SpaceView{{Position: 0, Name: "GO", Kind: engine.Special}},
			}, nil
		},
	}

	w := serve(t, m, "GET", "/api/sessions/ab12/state", nil)
	var state engine.GameState
	parseResponse(t, w, &state)
	if state.LastRoll != 4 || state.Phase != engine.AwaitingRoll {
		t.Errorf("Unexpected state %+v", state)
	}

	w = serve(t, m, "GET", "/api/sessions/ab12/board", nil)
	var board struct {
		Spaces []presentation.SpaceView `json:"spaces"`
	}
	parseResponse(t, w, &board)
	if len(board.Spaces) != 1 || board.Spaces[0].Name != "GO" {
		t.Errorf("Unexpected board %+v", board)
	}

	if w := serve(t, m, "GET", "/api/sessions/zzzz/board", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown board, got %d", w.Code)
	}

	w = serve(t, m, "GET", "/api/sessions/ab12/board?size=700", nil)
	var drawn struct {
		Layout presentation.Layout          `json:"layout"`
		Rects  map[string]presentation.Rect `json:"rects"`
	}
	parseResponse(t, w, &drawn)
	if drawn.Layout.Cell != 83 {
		t.Errorf("Expected 83px cells on a 700px board, got %d", drawn.Layout.Cell)
	}
	if go0, ok := drawn.Rects["0"]; !ok || go0.W != 100 || go0.Y != 600 {
		t.Errorf("Unexpected GO rect %+v", drawn.Rects)
	}

	if w := serve(t, m, "GET", "/api/sessions/ab12/board?size=abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad size, got %d", w.Code)
	}
}

func TestReset(t *testing.T) {
	m := &MockGameService{
		ResetFunc: func(ctx context.Context, id string) (*engine.GameState, error) {
			if id != "ab12" {
				return nil, session.ErrSessionNotFound
			}
			return &engine.GameState{Message: "fresh"}, nil
		},
	}

	if w := serve(t, m, "POST", "/api/sessions/ab12/reset", nil); w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if w := serve(t, m, "POST", "/api/sessions/zzzz/reset", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		query string
		want  service.HistoryOptions
	}{
		{"", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
		{"?page=2&limit=5&order=asc", service.HistoryOptions{Page: 2, Limit: 5, Order: "asc"}},
		{"?page=-1&limit=x&order=sideways", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got service.HistoryOptions
			m := &MockGameService{
				GetHistoryFunc: func(ctx context.Context, id string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					got = opts
					return &service.HistoryResponse{Page: opts.Page, PageSize: opts.Limit}, nil
				},
			}
			w := serve(t, m, "GET", "/api/sessions/ab12/history"+tt.query, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", w.Code)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

// Configuration Tests

func TestConfigs(t *testing.T) {
	var saved *engine.BoardConfig
	m := &MockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{{ConfigID: "classic", Spaces: 28}}, nil
		},
		LoadConfigFunc: func(ctx context.Context, name string) (*engine.BoardConfig, error) {
			if name != "classic" {
				return nil, config.ErrConfigNotFound
			}
			return engine.DefaultBoardConfig(), nil
		},
		SaveConfigFunc: func(ctx context.Context, name string, cfg *engine.BoardConfig) error {
			if len(cfg.Spaces) != engine.BoardSize {
				return fmt.Errorf("%w: wrong size", config.ErrInvalidConfig)
			}
			saved = cfg
			return nil
		},
	}

	w := serve(t, m, "GET", "/api/configs", nil)
	var list []*service.ConfigInfo
	parseResponse(t, w, &list)
	if len(list) != 1 || list[0].ConfigID != "classic" {
		t.Errorf("Unexpected config list %+v", list)
	}

	if w := serve(t, m, "GET", "/api/configs/classic.json", nil); w.Code != http.StatusOK {
		t.Errorf("Expected 200 for classic.json, got %d", w.Code)
	}
	if w := serve(t, m, "GET", "/api/configs/monaco", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for monaco, got %d", w.Code)
	}

	board := engine.DefaultBoardConfig()
	board.Name = "custom"
	if w := serve(t, m, "POST", "/api/configs", board); w.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if saved == nil || saved.Name != "custom" {
		t.Error("Expected config to be saved")
	}

	if w := serve(t, m, "POST", "/api/configs", map[string]string{"name": "tiny"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid board, got %d", w.Code)
	}
	if w := serve(t, m, "POST", "/api/configs", map[string]string{}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a name, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	w := serve(t, &MockGameService{}, "GET", "/health", nil)
	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy, got %v", resp)
	}
}

func TestWebSocket(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		expectedStatus int
	}{
		{"missing session parameter", "", http.StatusBadRequest},
		{"invalid session", "?session=zzzz", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockGameService{
				GetSessionFunc: func(ctx context.Context, id string) (*service.SessionInfo, error) {
					return nil, session.ErrSessionNotFound
				},
			}
			w := serve(t, m, "GET", "/ws"+tt.queryParams, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}

	server := NewServer(&MockGameService{}, nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/ws?session=ab12", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without a hub, got %d", w.Code)
	}
}
