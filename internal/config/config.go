package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ecruz165/ansible-scaffold/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys. Each is also readable from the environment as
// ANSIBLE_SCAFFOLD_<KEY>.
const (
	KeyLogLevel = "log_level"
	KeyDirMode  = "dir_mode"
	KeyFileMode = "file_mode"
)

const (
	DefaultLogLevel = "warn"
	DefaultDirMode  = "0755"
	DefaultFileMode = "0644"
)

// Settings are the resolved values for a single run.
type Settings struct {
	LogLevel string
	DirMode  os.FileMode
	FileMode os.FileMode
}

// Dir returns the path to the config directory (~/.ansible-scaffold/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.ansible-scaffold/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Load initializes v to read from the config file and environment, then
// resolves the settings. An empty configFile means the default location,
// which may be absent; an explicit configFile must exist.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyDirMode, DefaultDirMode)
	v.SetDefault(KeyFileMode, DefaultFileMode)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	path := configFile
	if path == "" {
		path = FilePath()
		// Ignore a missing default config file.
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = ""
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	dirMode, err := parseMode(v, KeyDirMode)
	if err != nil {
		return nil, err
	}
	fileMode, err := parseMode(v, KeyFileMode)
	if err != nil {
		return nil, err
	}

	return &Settings{
		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		DirMode:  dirMode,
		FileMode: fileMode,
	}, nil
}

// parseMode reads a permission setting. Strings are parsed as octal ("0750");
// YAML integers such as 0750 arrive already decoded.
func parseMode(v *viper.Viper, key string) (os.FileMode, error) {
	var mode uint64
	switch raw := v.Get(key).(type) {
	case string:
		s := strings.TrimPrefix(strings.TrimSpace(raw), "0o")
		parsed, err := strconv.ParseUint(s, 8, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: must be an octal permission such as 0755", key, raw)
		}
		mode = parsed
	case int:
		if raw < 0 {
			return 0, fmt.Errorf("invalid %s %d: must not be negative", key, raw)
		}
		mode = uint64(raw)
	case int64:
		if raw < 0 {
			return 0, fmt.Errorf("invalid %s %d: must not be negative", key, raw)
		}
		mode = uint64(raw)
	default:
		return 0, fmt.Errorf("invalid %s %v: must be an octal permission such as 0755", key, raw)
	}

	if mode == 0 || mode > 0777 {
		return 0, fmt.Errorf("invalid %s %#o: must be between 01 and 0777", key, mode)
	}
	return os.FileMode(mode), nil
}
