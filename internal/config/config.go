package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for fpath.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	LogLevel   string           `toml:"log_level"` // "debug", "info" (default), "warn", "error"
	Filesystem FilesystemConfig `toml:"filesystem"`
	Codecs     CodecsConfig     `toml:"codecs"`
	Encryption EncryptionConfig `toml:"encryption"`
}

// FilesystemConfig holds permissions for created paths and tree ignore patterns.
// Modes are octal strings such as "0755".
type FilesystemConfig struct {
	DirMode  string   `toml:"dir_mode,omitempty"`
	FileMode string   `toml:"file_mode,omitempty"`
	Ignore   []string `toml:"ignore"`
}

// CodecsConfig selects which parsers are registered at startup.
// An empty Enabled list registers every built-in codec.
type CodecsConfig struct {
	Enabled []string `toml:"enabled"`
}

// EncryptionConfig holds paths to the age key pair used by the "age" codec.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// NewConfig creates a new Config rooted at baseDir with default paths and modes.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		LogLevel: "info",
		Filesystem: FilesystemConfig{
			DirMode:  "0755",
			FileMode: "0644",
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "fpath.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "fpath.key"),
		},
	}
}

// DirPerm parses DirMode, defaulting to 0755.
func (c FilesystemConfig) DirPerm() (fs.FileMode, error) {
	return parseMode(c.DirMode, 0755)
}

// FilePerm parses FileMode, defaulting to 0644.
func (c FilesystemConfig) FilePerm() (fs.FileMode, error) {
	return parseMode(c.FileMode, 0644)
}

func parseMode(s string, def fs.FileMode) (fs.FileMode, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid file mode %q: %w", s, err)
	}
	if v > 0777 {
		return 0, fmt.Errorf("invalid file mode %q: only permission bits are allowed", s)
	}
	return fs.FileMode(v), nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the config at path. A missing file is not an error: the
// defaults for baseDir are returned instead, so the CLI works before
// `fpath config init`.
func Load(path, baseDir string) (*Config, error) {
	cfg, err := ReadFromFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewConfig(baseDir), nil
		}
		return nil, err
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = baseDir
	}
	defaults := NewConfig(cfg.BaseDir)
	if cfg.LogDir == "" {
		cfg.LogDir = defaults.LogDir
	}
	if cfg.Encryption.PublicKeyPath == "" {
		cfg.Encryption.PublicKeyPath = defaults.Encryption.PublicKeyPath
	}
	if cfg.Encryption.PrivateKeyPath == "" {
		cfg.Encryption.PrivateKeyPath = defaults.Encryption.PrivateKeyPath
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
