package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/sweepduel.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It matches the embedded
// defaults/sweepduel.yaml and is used when that file cannot be parsed.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			DBPath:      "~/.sweepduel/sweepduel.db",
			SaveBackend: SaveBackendFile,
			SavePath:    "~/.sweepduel/saved_match.json",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Server: ServerConfig{
			Address:     ":23234",
			HostKeyPath: ".ssh/sweepduel_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
	}
}
