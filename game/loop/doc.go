// Package loop drives one game session from a physical controller.
//
// Each tick the Loop polls the controller once, applies at most one accepted action
// through the GameService, tells the controller which space the current player is on
// when that changes, advances the token animation and pushes the result to render
// clients. Failures reported by the engine or the decoder are logged and the loop keeps
// polling; only a vanished session or a cancelled context stops it.
package loop
