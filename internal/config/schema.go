package config

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Device   DeviceConfig   `yaml:"device"`
	Plugin   PluginConfig   `yaml:"plugin"`
	Database DatabaseConfig `yaml:"database"`
	History  HistoryConfig  `yaml:"history"`
}

// DeviceConfig describes the managed device and how to reach it
type DeviceConfig struct {
	Driver       string         `yaml:"driver"`
	Hostname     string         `yaml:"hostname"`
	Username     string         `yaml:"username"`
	Password     string         `yaml:"password"`
	Timeout      Duration       `yaml:"timeout"`
	OptionalArgs map[string]any `yaml:"optional_args,omitempty"`
}

// PluginConfig describes how the command dispatcher is published
type PluginConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	SSL         bool   `yaml:"ssl"`
	CertFile    string `yaml:"cert_file,omitempty"`
	KeyFile     string `yaml:"key_file,omitempty"`
	CACert      string `yaml:"ca_cert,omitempty"`
	CAVerify    bool   `yaml:"ca_verify"`
}

// Addr returns the listen address of the dispatcher
func (p PluginConfig) Addr() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// HistoryConfig controls how long request records are kept
type HistoryConfig struct {
	// Retention of zero keeps records forever
	Retention Duration `yaml:"retention"`
}

// Duration wraps time.Duration for YAML unmarshaling. A bare integer is
// read as seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if secs, err := strconv.Atoi(s); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
