package config

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir:  "/home/user/.local/share/fpath",
		LogDir:   "/home/user/.local/share/fpath/log",
		LogLevel: "debug",
		Filesystem: FilesystemConfig{
			DirMode:  "0700",
			FileMode: "0600",
			Ignore:   []string{"*.log", ".git"},
		},
		Codecs: CodecsConfig{Enabled: []string{"json", "age"}},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  "/home/user/.local/share/fpath/keys/fpath.pub",
			PrivateKeyPath: "/home/user/.local/share/fpath/keys/fpath.key",
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if !reflect.DeepEqual(got, original) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, original)
	}
}

func TestManager_Read_invalid(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("log_dir = ")); err == nil {
		t.Fatal("Read() expected error for invalid TOML")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/fpath")

	if cfg.BaseDir != "/data/fpath" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/fpath")
	}
	if cfg.LogDir != "/data/fpath/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/fpath/log")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Encryption.PublicKeyPath != "/data/fpath/keys/fpath.pub" {
		t.Errorf("Encryption.PublicKeyPath = %q, want %q", cfg.Encryption.PublicKeyPath, "/data/fpath/keys/fpath.pub")
	}
	if cfg.Encryption.PrivateKeyPath != "/data/fpath/keys/fpath.key" {
		t.Errorf("Encryption.PrivateKeyPath = %q, want %q", cfg.Encryption.PrivateKeyPath, "/data/fpath/keys/fpath.key")
	}
	if len(cfg.Codecs.Enabled) != 0 {
		t.Errorf("Codecs.Enabled = %v, want empty (all codecs)", cfg.Codecs.Enabled)
	}
}

func TestFilesystemConfig_Perms(t *testing.T) {
	tests := []struct {
		name     string
		cfg      FilesystemConfig
		wantDir  fs.FileMode
		wantFile fs.FileMode
		wantErr  bool
	}{
		{name: "defaults", cfg: FilesystemConfig{}, wantDir: 0755, wantFile: 0644},
		{name: "explicit", cfg: FilesystemConfig{DirMode: "0700", FileMode: "600"}, wantDir: 0700, wantFile: 0600},
		{name: "not octal", cfg: FilesystemConfig{DirMode: "0799"}, wantErr: true},
		{name: "too large", cfg: FilesystemConfig{FileMode: "4755"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, dirErr := tt.cfg.DirPerm()
			file, fileErr := tt.cfg.FilePerm()
			if tt.wantErr {
				if dirErr == nil && fileErr == nil {
					t.Fatal("expected a mode parse error")
				}
				return
			}
			if dirErr != nil || fileErr != nil {
				t.Fatalf("unexpected errors: %v, %v", dirErr, fileErr)
			}
			if dir != tt.wantDir {
				t.Errorf("DirPerm() = %v, want %v", dir, tt.wantDir)
			}
			if file != tt.wantFile {
				t.Errorf("FilePerm() = %v, want %v", file, tt.wantFile)
			}
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "fpath.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "fpath.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "fpath.toml")
		cfg := NewConfig(dir)
		cfg.Filesystem.Ignore = []string{"node_modules"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if !reflect.DeepEqual(got.Filesystem.Ignore, []string{"node_modules"}) {
			t.Errorf("Filesystem.Ignore = %v, want [node_modules]", got.Filesystem.Ignore)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/fpath.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := Load(filepath.Join(dir, "missing.toml"), dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !reflect.DeepEqual(cfg, NewConfig(dir)) {
			t.Errorf("Load() = %+v, want defaults", cfg)
		}
	})

	t.Run("fills unset directories", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "fpath.toml")
		if err := os.WriteFile(path, []byte("log_level = \"warn\"\n"), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path, dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.BaseDir != dir {
			t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, dir)
		}
		if cfg.LogDir != filepath.Join(dir, "log") {
			t.Errorf("LogDir = %q, want %q", cfg.LogDir, filepath.Join(dir, "log"))
		}
		if cfg.Encryption.PrivateKeyPath != filepath.Join(dir, "keys", "fpath.key") {
			t.Errorf("PrivateKeyPath = %q", cfg.Encryption.PrivateKeyPath)
		}
		if cfg.LogLevel != "warn" {
			t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
		}
	})

	t.Run("invalid file is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "fpath.toml")
		if err := os.WriteFile(path, []byte("[[["), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path, dir); err == nil {
			t.Fatal("Load() expected error for invalid file")
		}
	})
}
