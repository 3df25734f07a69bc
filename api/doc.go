// Package api provides the HTTP REST API for the board game.
//
// Endpoints:
//
// Session Management:
//   - POST   /api/sessions          - Create a session {"config_id", "players" | "player_count"}
//   - GET    /api/sessions          - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}     - Get a session
//   - DELETE /api/sessions/{id}     - Delete a session
//
// Game Operations:
//   - GET  /api/sessions/{id}/state   - Full game state
//   - GET  /api/sessions/{id}/board   - Spaces with owners, and players
//   - POST /api/sessions/{id}/roll    - Current player rolls
//   - POST /api/sessions/{id}/buy     - Current player buys the space they stand on
//   - POST /api/sessions/{id}/pass    - Current player declines the purchase
//   - POST /api/sessions/{id}/actions - {"action":"ROLL","player":1}; player is optional
//   - POST /api/sessions/{id}/reset   - Reseat the players on a fresh board
//   - GET  /api/sessions/{id}/history - Turn history (?page=1&limit=20&order=desc)
//
// Configuration:
//   - GET  /api/configs        - List board tables
//   - GET  /api/configs/{name} - Get a board table
//   - POST /api/configs        - Validate and save a board table
//
// Other:
//   - GET /ws?session={id} - WebSocket state stream
//   - GET /health          - Liveness
//
// A rule rejection (buying an owned space, rolling twice) is not an HTTP error: the
// response is 200 with "success": false and a message. An action addressed to a
// player who does not hold the turn returns 409. Unknown sessions return 404.
//
// Successful actions broadcast the committed state to WebSocket clients of the session.
package api
