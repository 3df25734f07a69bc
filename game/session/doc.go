// Package session provides in-memory session management for board games.
//
// Each session owns one engine.GameEngine and its board configuration.
// Sessions are addressed by short case-insensitive IDs (4 hex characters when
// generated) and live only as long as the process; idle sessions can be
// expired with CleanupExpiredSessions or a RunCleanup goroutine.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", engine.DefaultBoardConfig(), engine.DefaultPlayerSpecs(2))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// The manager is safe for concurrent use. It does not serialise game actions;
// that is the job of the service layer.
package session
