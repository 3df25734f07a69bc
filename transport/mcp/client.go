package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gouripri/Digiware-Monopoly/game/engine"
	"github.com/gouripri/Digiware-Monopoly/game/presentation"
	"github.com/gouripri/Digiware-Monopoly/game/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"DigiWare Monopoly",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`DigiWare Monopoly - MCP Interface

Every tool proxies to the REST API of a running game server.

GAME OBJECTIVE:
Players take turns rolling one die around a 28-space board, buying unowned
properties and collecting rent from opponents who land on them.

AVAILABLE TOOLS:
- create_session: Start a new game (optional config_id, player_count)
- get_session / list_sessions: Inspect running games
- game_state: Players, money, positions and whose turn it is
- roll_dice: Roll for the current player
- buy_property: Buy the space the current player stands on
- pass_turn: Decline the purchase and end the turn
- reset_game: Reseat everyone at GO
- turn_history: Past actions, newest first
- list_configs: Board configurations on the server
- describe_space: Details for one board position
- game_instructions: Full rules

roll_dice, buy_property and pass_turn accept an optional "player" number.
When given, the action is rejected unless it is that player's turn.`),
	)

	c.registerTools()
}

func sessionProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func playerProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "1-indexed player number taking the action (optional)",
	}
}

func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Board configuration to use (optional, see list_configs)",
				},
				"player_count": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Number of players, 1 to %d (default 2)", engine.MaxPlayers),
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	for _, tool := range []struct {
		name, action, desc string
	}{
		{"roll_dice", engine.ActionRoll, "Roll the die and move the current player"},
		{"buy_property", engine.ActionBuy, "Buy the property the current player landed on"},
		{"pass_turn", engine.ActionPass, "Decline the purchase and end the turn"},
	} {
		c.mcpServer.AddTool(mcp.Tool{
			Name:        tool.name,
			Description: tool.desc,
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"session_id": sessionProp(),
					"player":     playerProp(),
				},
				Required: []string{"session_id"},
			},
		}, c.actionHandler(tool.action))
	}

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game, reseating the same players at GO",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "turn_history",
		Description: "Get paginated action history",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Entries per page (default 20)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTurnHistory)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete game rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_space",
		Description: "Describe one board space: kind, price, rent, owner and who is standing there",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"position": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Board position, 0 to %d", engine.BoardSize-1),
				},
			},
			Required: []string{"session_id", "position"},
		},
	}, c.handleDescribeSpace)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs one REST request. Non-2xx responses become errors unless
// the status is listed in accept, in which case the body is still decoded.
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}, accept ...int) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && !accepted(resp.StatusCode, accept) {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func accepted(status int, accept []int) bool {
	for _, s := range accept {
		if s == status {
			return true
		}
	}
	return false
}

func sessionPath(id string, parts ...string) string {
	p := "/api/sessions/" + url.PathEscape(id)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]interface{}{
		"player_count": request.GetInt("player_count", 2),
	}
	if cfg := request.GetString("config_id", ""); cfg != "" {
		body["config_id"] = cfg
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, http.MethodGet, "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		players := 0
		if s.GameState != nil {
			players = len(s.GameState.Players)
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Players: %d, Created: %s)\n",
			s.ID, s.ConfigName, players, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, "state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

// actionHandler serves roll_dice, buy_property and pass_turn
func (c *Client) actionHandler(action string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body := map[string]interface{}{"action": action}
		if player := request.GetInt("player", 0); player > 0 {
			body["player"] = player
		}

		var result service.ActionResult
		err = c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "actions"), body, &result, http.StatusConflict)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatActionResult(&result)), nil
	}
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleTurnHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	q := url.Values{}
	q.Set("page", fmt.Sprint(request.GetInt("page", 1)))
	q.Set("limit", fmt.Sprint(request.GetInt("limit", 20)))

	var history service.HistoryResponse
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, "history")+"?"+q.Encode(), nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, http.MethodGet, "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "- %s: %s (%d spaces, %d purchasable, $%d starting)\n",
			cfg.ConfigID, cfg.Description, cfg.Spaces, cfg.Purchasable, cfg.StartingMoney)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeSpace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	position, err := request.RequireInt("position")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !engine.ValidPosition(position) {
		return mcp.NewToolResultError(fmt.Sprintf("position must be between 0 and %d", engine.BoardSize-1)), nil
	}

	var board struct {
		Spaces  []presentation.SpaceView  `json:"spaces"`
		Players []presentation.PlayerView `json:"players"`
	}
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, "board"), nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	for _, space := range board.Spaces {
		if space.Position == position {
			return mcp.NewToolResultText(formatSpace(space, board.Players)), nil
		}
	}
	return mcp.NewToolResultError(fmt.Sprintf("no space at position %d", position)), nil
}

const instructions = `DigiWare Monopoly - Complete Instructions

GAME OBJECTIVE:
Grow your bankroll by buying properties and collecting rent. Every player
starts with $1500 at GO.

THE BOARD:
28 spaces numbered 0 to 27, walked clockwise with wraparound.
- 0  GO: passing or landing pays $200
- 7  JAIL: just visiting unless sent there
- 14 FREE PARKING: nothing happens
- 21 GO TO JAIL: sends you straight to 7
Ordinary, railroad and utility spaces can be bought. Special spaces
(EDUROAM, LOST, DINING RELOAD, EMON) are landmarks and cannot be owned.

A TURN:
1. ROLL: one six-sided die, move that many spaces.
2. Landing on an unowned purchasable space opens a decision:
   BUY to pay the price, or PASS to decline. Either ends the turn.
3. Landing on an opponent's property pays them its base rent at once.
   A player who cannot cover the rent hands over everything and is
   flagged bankrupt.
4. Any other landing ends the turn immediately.

JAIL:
Landing on GO TO JAIL moves you to JAIL. Your next turn is skipped.
On the turn after that you are released and roll normally.

ADDRESSED ACTIONS:
roll_dice, buy_property and pass_turn accept "player". An action naming
someone other than the current player is refused and changes nothing.

TIPS:
- game_state shows phase: awaiting_roll or awaiting_decision.
- describe_space shows price, rent and owner before you commit.
- A failed BUY (not enough money) leaves the decision open, so PASS.`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	current := state.CurrentPlayer()
	fmt.Fprintf(&b, "Turn: %d | Phase: %s | Last roll: %d\n\n", state.TurnNumber+1, state.Phase, state.LastRoll)

	for i, p := range state.Players {
		marker := " "
		if p == current {
			marker = ">"
		}
		space := fmt.Sprintf("%d", p.Position)
		if prop := spaceAt(state, p.Position); prop != nil {
			space = fmt.Sprintf("%d %s", p.Position, prop.Name)
		}
		fmt.Fprintf(&b, "%s P%d %s: $%d at %s", marker, i+1, p.Name, p.Money, space)
		if p.InJail {
			b.WriteString(" [JAIL]")
		}
		if p.Money <= 0 {
			b.WriteString(" [BANKRUPT]")
		}
		if owned := ownedBy(state, p); len(owned) > 0 {
			names := make([]string, len(owned))
			for j, prop := range owned {
				names[j] = prop.Name
			}
			fmt.Fprintf(&b, " owns %s", strings.Join(names, ", "))
		}
		b.WriteString("\n")
	}

	if state.Board != nil {
		if leader := state.Leader(); leader != nil {
			fmt.Fprintf(&b, "\nLeader: %s (net worth $%d)", leader.Name, state.NetWorth(leader))
		}
		if broke := state.Bankrupt(); len(broke) > 0 {
			names := make([]string, len(broke))
			for i, p := range broke {
				names[i] = p.Name
			}
			fmt.Fprintf(&b, "\nBankrupt: %s", strings.Join(names, ", "))
		}
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}
	return b.String()
}

func spaceAt(state *engine.GameState, position int) *engine.Property {
	if state.Board == nil {
		return nil
	}
	return state.Board.At(position)
}

func ownedBy(state *engine.GameState, p *engine.Player) []*engine.Property {
	if state.Board == nil {
		return nil
	}
	return state.PropertiesOf(p)
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✓ %s accepted\n", result.Action)
	} else {
		fmt.Fprintf(&b, "✗ %s rejected\n", result.Action)
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}
	for _, ev := range result.Events {
		fmt.Fprintf(&b, "  [%s] %s\n", ev.Type, ev.Message)
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "History (page %d/%d, %d total):\n\n", history.Page, history.TotalPages, history.TotalEntries)
	for _, e := range history.Entries {
		status := "✓"
		if !e.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%s #%d %s %s", status, e.Number, e.PlayerName, e.Action)
		if e.Roll > 0 {
			fmt.Fprintf(&b, " (%d)", e.Roll)
		}
		fmt.Fprintf(&b, " %d→%d $%d: %s\n", e.FromPosition, e.ToPosition, e.MoneyAfter, e.Message)
	}
	if history.HasNext {
		b.WriteString("\nMore entries on the next page.")
	}
	return b.String()
}

func formatSpace(space presentation.SpaceView, players []presentation.PlayerView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Position %d: %s\nKind: %s\n", space.Position, space.Name, space.Kind)
	if space.Kind.Purchasable() {
		fmt.Fprintf(&b, "Price: $%d | Rent: $%d\n", space.Price, space.BaseRent)
		owner := "unowned"
		for _, p := range players {
			if p.ID == space.OwnerID {
				owner = p.Name
			}
		}
		fmt.Fprintf(&b, "Owner: %s\n", owner)
	}

	var here []string
	for _, p := range players {
		if p.Position == space.Position {
			here = append(here, p.Name)
		}
	}
	if len(here) > 0 {
		fmt.Fprintf(&b, "Players here: %s\n", strings.Join(here, ", "))
	}
	return b.String()
}
