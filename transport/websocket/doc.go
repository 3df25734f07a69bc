// Package websocket pushes game state to render clients.
//
// A central Hub tracks clients per session. Each connection gets a read pump (to
// notice disconnects and answer pings) and a write pump. Clients never send actions
// over the socket; all mutation goes through the REST API, the MCP tools, or the
// hardware control loop, which then broadcast what they committed.
//
// Clients connect with the session in the query string:
//
//	ws://host:8080/ws?session=ab12
//
// and receive JSON messages:
//
//	{"session_id":"ab12","event":"state_update","view":{...},"tokens":[...]}
//	{"session_id":"ab12","event":"token_frames","tokens":[...]}
//
// view is a presentation.Snapshot, a copy of positions, balances and ownership.
// tokens are the StepAnimator's draw positions, so every renderer shows the same walk.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	hub.BroadcastState(sessionID, snapshot, animator.Frames())
package websocket
