package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

// isolate points HOME at an empty directory so the real user config is never read.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFilePath(t *testing.T) {
	home := isolate(t)
	want := filepath.Join(home, ".ansible-scaffold", "config.yaml")
	if got := FilePath(); got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	s, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", s.LogLevel)
	}
	if s.DirMode != 0755 {
		t.Errorf("DirMode = %o, want 755", s.DirMode)
	}
	if s.FileMode != 0644 {
		t.Errorf("FileMode = %o, want 644", s.FileMode)
	}
}

func TestLoadDefaultConfigFile(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, ".ansible-scaffold", "config.yaml"),
		"log_level: DEBUG\ndir_mode: \"0750\"\nfile_mode: 0600\n")

	s, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", s.LogLevel)
	}
	if s.DirMode != 0750 {
		t.Errorf("DirMode = %o, want 750", s.DirMode)
	}
	if s.FileMode != 0600 {
		t.Errorf("FileMode = %o, want 600", s.FileMode)
	}
}

func TestLoadExplicitConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeConfig(t, path, "log_level: info\n")

	s, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", s.LogLevel)
	}
}

func TestLoadExplicitConfigFileMissing(t *testing.T) {
	isolate(t)
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
	if !strings.Contains(err.Error(), "missing.yaml") {
		t.Errorf("error should name the file, got: %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, ".ansible-scaffold", "config.yaml"), "dir_mode: \"0750\"\n")
	t.Setenv("ANSIBLE_SCAFFOLD_DIR_MODE", "0700")
	t.Setenv("ANSIBLE_SCAFFOLD_LOG_LEVEL", "error")

	s, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.DirMode != 0700 {
		t.Errorf("DirMode = %o, want 700", s.DirMode)
	}
	if s.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", s.LogLevel)
	}
}

func TestLoadInvalidMode(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"not octal", "ANSIBLE_SCAFFOLD_DIR_MODE", "rwx"},
		{"decimal digits", "ANSIBLE_SCAFFOLD_FILE_MODE", "0699"},
		{"too large", "ANSIBLE_SCAFFOLD_FILE_MODE", "01777"},
		{"zero", "ANSIBLE_SCAFFOLD_DIR_MODE", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(viper.New(), ""); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadOctalPrefix(t *testing.T) {
	isolate(t)
	t.Setenv("ANSIBLE_SCAFFOLD_FILE_MODE", "0o640")

	s, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.FileMode != 0640 {
		t.Errorf("FileMode = %o, want 640", s.FileMode)
	}
}
