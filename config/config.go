/*
Package config loads server configuration from a TOML file.

PURPOSE:
  One file configures the validator-facing server: listen address,
  database path, logging, and tariff overrides. Everything has a
  sensible default so the server runs with no file at all.

FILE FORMAT (TOML):

  [server]
  host = "127.0.0.1"
  port = 8080

  [storage]
  path = "fare.db"

  [logging]
  level = "info"
  format = "json"

  [tariffs]
  urban = 1580
  interurban = 3000
*/
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
	Tariffs TariffConfig  `toml:"tariffs"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type StorageConfig struct {
	// Path is the SQLite database file. ":memory:" keeps everything
	// in-process.
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type TariffConfig struct {
	Urban      int64 `toml:"urban"`
	Interurban int64 `toml:"interurban"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Server:  ServerConfig{Host: "127.0.0.1", Port: 8080},
		Storage: StorageConfig{Path: "fare.db"},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Tariffs: TariffConfig{Urban: 1580, Interurban: 3000},
	}
}

// Load reads path and overlays it on the defaults. A missing file is
// not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	case c.Storage.Path == "":
		return fmt.Errorf("storage.path must not be empty")
	case c.Tariffs.Urban <= 0:
		return fmt.Errorf("tariffs.urban must be positive")
	case c.Tariffs.Interurban <= 0:
		return fmt.Errorf("tariffs.interurban must be positive")
	}
	return nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
