package server

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/ledger/errors"
)

// ConfigFile is the node configuration file, relative to the home directory.
const ConfigFile = "config/app.toml"

// Config is the node configuration. Command line flags take precedence over
// the values read from the configuration file.
type Config struct {
	// Bind is the address the ABCI server listens on.
	Bind string `toml:"bind"`
	// MetricsBind is the address of the prometheus endpoint. Metrics are
	// disabled when empty.
	MetricsBind string `toml:"metrics_bind"`
	// LogLevel is passed to the tendermint level filter, eg. "info" or
	// "main:info,state:debug,*:error".
	LogLevel string `toml:"log_level"`
	// Debug returns the call stack of a failed transaction to the client.
	Debug bool `toml:"debug"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Bind:        "tcp://localhost:26658",
		MetricsBind: "",
		LogLevel:    "info",
	}
}

// LoadConfig reads the configuration file from given home directory. Only
// the values present in the file override the defaults. A missing file is
// not an error.
func LoadConfig(home string) (Config, error) {
	conf := DefaultConfig()

	var raw Config
	meta, err := toml.DecodeFile(filepath.Join(home, ConfigFile), &raw)
	switch {
	case os.IsNotExist(err):
		return conf, nil
	case err != nil:
		return conf, errors.Wrapf(errors.ErrInput, "load config: %s", err)
	}

	if meta.IsDefined("bind") {
		conf.Bind = strings.TrimSpace(raw.Bind)
	}
	if meta.IsDefined("metrics_bind") {
		conf.MetricsBind = strings.TrimSpace(raw.MetricsBind)
	}
	if meta.IsDefined("log_level") {
		conf.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("debug") {
		conf.Debug = raw.Debug
	}
	return conf, nil
}

// WriteConfig stores the configuration in given home directory. An existing
// file is overwritten.
func WriteConfig(home string, conf Config) error {
	path := filepath.Join(home, ConfigFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(errors.ErrHuman, "create config directory: %s", err)
	}
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(errors.ErrHuman, "open config: %s", err)
	}
	defer fd.Close()
	if err := toml.NewEncoder(fd).Encode(conf); err != nil {
		return errors.Wrapf(errors.ErrHuman, "write config: %s", err)
	}
	return nil
}
