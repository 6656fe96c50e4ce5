package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	StoreSQLite = "sqlite"
	StoreDisk   = "disk"
	StoreMemory = "memory"
)

// Viper keys. Each one is also read from MYWORLD_<KEY>.
const (
	KeyAddr        = "addr"
	KeyDataDir     = "data_dir"
	KeyStore       = "store"
	KeyCORSOrigins = "cors_origins"
	KeyLogLevel    = "log_level"
	KeyTheme       = "theme"
)

type Config struct {
	Addr        string
	DataDir     string
	Store       string
	CORSOrigins []string
	LogLevel    string
	// Theme overrides terminal background detection when nothing is stored.
	Theme string
}

// DBPath is the SQLite database file inside the data directory.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "myworld.db")
}

// DiskPath is the directory the disk store keeps one file per key in.
func (c Config) DiskPath() string {
	return filepath.Join(c.DataDir, "kv")
}

// New returns a viper instance with defaults and environment lookup set
// up. Callers may bind command line flags to it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAddr, "127.0.0.1:8080")
	v.SetDefault(KeyDataDir, "~/.myworld")
	v.SetDefault(KeyStore, StoreSQLite)
	v.SetDefault(KeyCORSOrigins, "http://localhost:5173,http://127.0.0.1:5173")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyTheme, "")

	v.SetConfigName(".myworld") // .yaml is implicit
	v.SetEnvPrefix("MYWORLD")
	v.AutomaticEnv()

	if override := os.Getenv("MYWORLD_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	return v
}

// Load reads the optional config file and resolves v into a Config.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	dataDir, err := homedir.Expand(strings.TrimSpace(v.GetString(KeyDataDir)))
	if err != nil {
		return Config{}, fmt.Errorf("expand data dir: %w", err)
	}

	cfg := Config{
		Addr:        strings.TrimSpace(v.GetString(KeyAddr)),
		DataDir:     dataDir,
		Store:       strings.ToLower(strings.TrimSpace(v.GetString(KeyStore))),
		CORSOrigins: splitList(v.Get(KeyCORSOrigins)),
		LogLevel:    strings.TrimSpace(v.GetString(KeyLogLevel)),
		Theme:       strings.ToLower(strings.TrimSpace(v.GetString(KeyTheme))),
	}

	switch cfg.Store {
	case StoreSQLite, StoreDisk, StoreMemory:
	default:
		return Config{}, fmt.Errorf("unknown store %q: want sqlite, disk or memory", cfg.Store)
	}
	switch cfg.Theme {
	case "", "dark", "light":
	default:
		return Config{}, fmt.Errorf("unknown theme %q: want dark or light", cfg.Theme)
	}
	return cfg, nil
}

// splitList accepts a comma separated string (env vars, flags) or a YAML
// list.
func splitList(raw any) []string {
	var parts []string
	if s, ok := raw.(string); ok {
		parts = strings.Split(s, ",")
	} else {
		parts = cast.ToStringSlice(raw)
	}

	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
