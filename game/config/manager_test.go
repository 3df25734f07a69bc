package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gouripri/Digiware-Monopoly/game/engine"
)

func createValidConfig(name string) *engine.BoardConfig {
	config := engine.DefaultBoardConfig()
	config.Name = name
	return config
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.BoardConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("classic preferred", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "alpha", createValidConfig("Alpha"))
		writeConfigFile(t, dir, "classic", createValidConfig("Classic"))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "Classic" {
			t.Errorf("Expected default 'Classic', got '%s'", got)
		}
	})

	t.Run("first valid file", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "alpha", createValidConfig("Alpha"))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "Alpha" {
			t.Errorf("Expected default 'Alpha', got '%s'", got)
		}
	})

	t.Run("built-in fallback", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed without config files: %v", err)
		}
		def := manager.GetDefault()
		if def == nil || len(def.Spaces) != engine.BoardSize {
			t.Error("Expected built-in board as default")
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig("Classic"))
	cheap := createValidConfig("Cheap")
	cheap.StartingMoney = 500
	writeConfigFile(t, dir, "cheap", cheap)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("cheap")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.StartingMoney != 500 {
			t.Errorf("Expected starting money 500, got %d", config.StartingMoney)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadConfig("cheap.json")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		if config.Name != "Cheap" {
			t.Errorf("Expected 'Cheap', got '%s'", config.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		c1, _ := manager.LoadConfig("cheap")
		c2, _ := manager.LoadConfig("cheap")
		if c1 != c2 {
			t.Error("Expected config to be loaded from cache")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		if _, err := manager.LoadConfig("non-existent"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		if _, err := manager.LoadConfig("../classic"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid board", func(t *testing.T) {
		bad := createValidConfig("Bad")
		bad.Spaces = bad.Spaces[:10]
		writeConfigFile(t, dir, "bad", bad)

		if _, err := manager.LoadConfig("bad"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "malformed.json"), []byte(`{"name": invalid}`), 0644); err != nil {
			t.Fatalf("Failed to write malformed config: %v", err)
		}
		if _, err := manager.LoadConfig("malformed"); err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"classic", "alpha", "beta"} {
		writeConfigFile(t, dir, name, createValidConfig(name))
	}
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	list, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("Expected 3 configs, got %d", len(list))
	}
	for _, info := range list {
		if info.Spaces != engine.BoardSize {
			t.Errorf("%s: expected %d spaces, got %d", info.ConfigID, engine.BoardSize, info.Spaces)
		}
		if info.Purchasable != 20 {
			t.Errorf("%s: expected 20 purchasable spaces, got %d", info.ConfigID, info.Purchasable)
		}
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SaveConfig("mine", createValidConfig("Mine")); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "mine.json")); err != nil {
		t.Errorf("Expected file on disk: %v", err)
	}

	bad := createValidConfig("Bad")
	bad.StartingMoney = 0
	if err := manager.SaveConfig("bad", bad); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}
	loaded, err := manager.LoadConfig("mine")
	if err != nil || loaded.Name != "Mine" {
		t.Errorf("Expected saved config after refresh, got %v, %v", loaded, err)
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig("Classic"))
	writeConfigFile(t, dir, "quick", createValidConfig("Quick"))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("quick"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if got := manager.GetDefault().Name; got != "Quick" {
		t.Errorf("Expected default 'Quick', got '%s'", got)
	}

	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
	if got := manager.GetDefault().Name; got != "Quick" {
		t.Errorf("Failed SetDefault should keep 'Quick', got '%s'", got)
	}
}

func TestManager_ConcurrentLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig("Classic"))
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.LoadConfig("classic"); err != nil {
				t.Errorf("Concurrent load failed: %v", err)
			}
		}()
	}
	wg.Wait()
}
