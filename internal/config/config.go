// Package config provides configuration management for netcommand.
//
// Settings are layered: built-in defaults, then the YAML config file, then
// command line flags, then JSON override files. The override files use the
// flat key layout of the device and bus configuration files passed with
// --device-config and --bus-config.
//
// Config file locations (priority order):
//  1. $NETCOMMAND_CONFIG
//  2. ./netcommand.yaml
//  3. ~/.config/netcommand/config.yaml
//  4. /etc/netcommand/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"netcommand/internal/domain"
)

// Version is reported as the plugin version when none is configured
const Version = "0.1.0"

const (
	DefaultHost    = "localhost"
	DefaultPort    = 2337
	DefaultTimeout = 60 * time.Second
	DefaultDBPath  = "./netcommand.db"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Device: DeviceConfig{
			Timeout: Duration(DefaultTimeout),
		},
		Plugin: PluginConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Database: DatabaseConfig{Path: DefaultDBPath},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Device.Timeout <= 0 {
		c.Device.Timeout = Duration(DefaultTimeout)
	}
	if c.Plugin.Host == "" {
		c.Plugin.Host = DefaultHost
	}
	if c.Plugin.Port == 0 {
		c.Plugin.Port = DefaultPort
	}
	if c.Plugin.Version == "" {
		c.Plugin.Version = Version
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDBPath
	}
}

// Finalize derives the plugin identity from the driver and validates the
// result. isDriver reports whether a driver name is registered.
func (c *Config) Finalize(isDriver func(name string) error) error {
	c.applyDefaults()

	if c.Device.Driver == "" {
		return errors.New("no driver provided")
	}
	if isDriver != nil {
		if err := isDriver(c.Device.Driver); err != nil {
			return err
		}
	}

	required := []struct{ name, value string }{
		{"hostname", c.Device.Hostname},
		{"username", c.Device.Username},
		{"password", c.Device.Password},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("no %s provided", r.name)
		}
	}

	if c.Plugin.Port <= 0 || c.Plugin.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Plugin.Port)
	}
	if c.Plugin.SSL && (c.Plugin.CertFile == "" || c.Plugin.KeyFile == "") {
		return errors.New("ssl requires cert_file and key_file")
	}
	if c.Plugin.CAVerify && c.Plugin.CACert == "" {
		return errors.New("ca_verify requires ca_cert")
	}

	if c.Plugin.Name == "" {
		c.Plugin.Name = c.Device.Driver + "-plugin"
	}
	if c.Plugin.Description == "" {
		c.Plugin.Description = fmt.Sprintf("Command and control for %s device", c.Device.Driver)
	}
	return nil
}

// DriverConfig returns the immutable device configuration for sessions
func (c *Config) DriverConfig() domain.DriverConfig {
	return domain.NewDriverConfig(
		c.Device.Driver,
		c.Device.Hostname,
		c.Device.Username,
		c.Device.Password,
		c.Device.Timeout.Duration(),
		c.Device.OptionalArgs,
	)
}

// Summary returns a human-readable config summary. The password is never
// included.
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Plugin: %s %s on %s (ssl=%v)\n", c.Plugin.Name, c.Plugin.Version, c.Plugin.Addr(), c.Plugin.SSL)
	summary += fmt.Sprintf("Device: %s://%s@%s timeout=%s\n", c.Device.Driver, c.Device.Username, c.Device.Hostname, c.Device.Timeout.Duration())
	summary += fmt.Sprintf("Database: %s, history retention: %s", c.Database.Path, c.History.Retention.Duration())
	return summary
}
