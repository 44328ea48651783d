// Package prefs is the local preference file. It holds a single key, the
// display mode, and nothing else.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spf13/viper"
)

const modeKey = "mode"

// Store is a viper-backed preference file.
type Store struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// Dir returns the per-user directory for preferences and credentials.
func Dir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		if appData != "" {
			return filepath.Join(appData, "visionlog"), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "visionlog"), nil
}

// Open reads the preference file at path. A missing file is an empty store.
func Open(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	err := v.ReadInConfig()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read preferences: %w", err)
		}
	}
	return &Store{v: v, path: path}, nil
}

// LoadMode returns the stored mode, or "" when none was saved.
func (s *Store) LoadMode() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetString(modeKey), nil
}

// SaveMode writes the mode through to disk.
func (s *Store) SaveMode(mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.MkdirAll(filepath.Dir(s.path), 0700)
	if err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	s.v.Set(modeKey, mode)
	err = s.v.WriteConfigAs(s.path)
	if err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}
