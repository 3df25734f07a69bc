// Package controller decodes input from the physical game controller.
//
// The controller speaks a newline-terminated text protocol over a serial
// line. Three grammars are tried in order by Decode:
//   - bare actions ROLL, BUY or PASS (case-insensitive), meaning player 1
//   - addressed actions P<N>,<action> for multi-controller setups
//   - the older rotary encoder protocol (cw, ccw, button), which carries no
//     structured action and is only mapped to an Intent for logging
//
// A Controller owns the serial connection (go.bug.st/serial), a read pump
// goroutine that stamps each line on arrival, the 100ms debouncer, and the
// dispatch policy that drops addressed actions for players whose turn it
// is not. Poll never blocks. In test mode the device is bypassed and lines
// queued with Queue are replayed in FIFO order.
//
// Outbound, SendProperty writes "Property: <name>" so the controller can
// show where the current player stands.
package controller
