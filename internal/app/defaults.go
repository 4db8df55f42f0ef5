package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - FPATH_CONFIG_PATH: config file location (default: ~/.config/fpath.toml)
//   - FPATH_HOME: base directory for fpath data (default: ~/.local/share/fpath)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
		"keys_dir":    filepath.Join(baseDir, "keys"),
	}, nil
}

// getConfigPath returns the config file path, checking FPATH_CONFIG_PATH env var first,
// then falling back to the default ~/.config/fpath.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("FPATH_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "fpath.toml"), nil
}

// getBaseDir returns the base directory for fpath data, checking FPATH_HOME env var first,
// then falling back to the XDG default ~/.local/share/fpath.
func getBaseDir() (string, error) {
	if path := os.Getenv("FPATH_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "fpath"), nil
}
