// Package config provides YAML-based configuration for sweepduel: where
// data is stored, how logs are written and how the SSH server listens.
// Board rules are fixed and deliberately not configurable.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the top-level configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
}

// SaveBackend selects where the saved match lives.
type SaveBackend string

const (
	SaveBackendFile   SaveBackend = "file"
	SaveBackendSQLite SaveBackend = "sqlite"
)

// StorageConfig defines persistence locations.
type StorageConfig struct {
	DBPath      string      `yaml:"db_path"`
	SaveBackend SaveBackend `yaml:"save_backend"`
	SavePath    string      `yaml:"save_path"` // used by the file backend
}

// LogConfig defines logging. An empty File means stderr, except in local
// play where the terminal belongs to the game and logs are discarded.
type LogConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// ServerConfig defines the SSH server.
type ServerConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

var errInvalid = errors.New("config: invalid")

// Validate checks the configuration for values the program cannot run with.
func (c Config) Validate() error {
	var errs []error

	if c.Storage.DBPath == "" {
		errs = append(errs, fmt.Errorf("%w: storage.db_path is empty", errInvalid))
	}
	switch c.Storage.SaveBackend {
	case SaveBackendSQLite:
	case SaveBackendFile:
		if c.Storage.SavePath == "" {
			errs = append(errs, fmt.Errorf("%w: storage.save_path is required for the file backend", errInvalid))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: storage.save_backend %q, want file or sqlite", errInvalid, c.Storage.SaveBackend))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: log.level %q", errInvalid, c.Log.Level))
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, fmt.Errorf("%w: log rotation limits must not be negative", errInvalid))
	}

	if c.Server.Address == "" {
		errs = append(errs, fmt.Errorf("%w: server.address is empty", errInvalid))
	}
	if c.Server.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: server.idle_timeout is negative", errInvalid))
	}

	return errors.Join(errs...)
}
