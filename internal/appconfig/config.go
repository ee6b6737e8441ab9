package appconfig

import (
	"os"
	"path/filepath"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int           `mapstructure:"config_version" yaml:"config_version"`
	LaunchFile    string        `mapstructure:"launch_file" yaml:"launch_file"`
	SSH           SSHConfig     `mapstructure:"ssh" yaml:"ssh"`
	Store         StoreConfig   `mapstructure:"store" yaml:"store"`
	Handoff       HandoffConfig `mapstructure:"handoff" yaml:"handoff"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// SSHConfig configures the SSH server.
type SSHConfig struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	HostKeyPath string `mapstructure:"host_key_path" yaml:"host_key_path"`
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Backend    string `mapstructure:"backend" yaml:"backend"`
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	RedisURL   string `mapstructure:"redis_url" yaml:"redis_url"`
}

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// HandoffConfig configures the external process boundary.
type HandoffConfig struct {
	// GameBinary launches containers (normally the docker CLI).
	GameBinary string `mapstructure:"game_binary" yaml:"game_binary"`
	// RecordBinary is the recording sidecar client.
	RecordBinary string `mapstructure:"record_binary" yaml:"record_binary"`
	// Shell runs templated hook commands.
	Shell string `mapstructure:"shell" yaml:"shell"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	stateDir := filepath.Join(home, ".gamelaunch")
	return Config{
		ConfigVersion: CurrentConfigVersion,
		LaunchFile:    filepath.Join(stateDir, "gamelaunch.yml"),
		SSH: SSHConfig{
			Addr:        ":2022",
			HostKeyPath: filepath.Join(stateDir, "ssh_host_ed25519_key"),
		},
		Store: StoreConfig{
			Backend:    BackendSQLite,
			SQLitePath: filepath.Join(stateDir, "users.db"),
			RedisURL:   "redis://localhost:6379/0",
		},
		Handoff: HandoffConfig{
			GameBinary:   "docker",
			RecordBinary: "termrecord-client",
			Shell:        "/bin/sh",
		},
	}, nil
}

// DefaultConfigPath returns the default location of the config file.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gamelaunch", "config.yaml"), nil
}
