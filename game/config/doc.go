// Package config provides board configuration management.
//
// Board tables are JSON files in a config directory, one file per board,
// addressed by file name without the extension (the config ID). Each file
// decodes into an engine.BoardConfig: a name, starting money and the 28
// spaces with their position, price, base rent, color group and kind.
//
// Every file is validated with engine.ValidateBoardConfig on first load and
// cached afterwards. The default board is classic.json when present, else
// the first valid file, else the built-in engine.DefaultBoardConfig.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	board, err := manager.LoadConfig("classic")
//	configs, err := manager.ListConfigs()
package config
