package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Device.Driver = "mock"
	cfg.Device.Hostname = "r1"
	cfg.Device.Username = "admin"
	cfg.Device.Password = "secret"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Plugin.Host != DefaultHost || cfg.Plugin.Port != DefaultPort {
		t.Errorf("Plugin addr = %s, want localhost:2337", cfg.Plugin.Addr())
	}
	if cfg.Device.Timeout.Duration() != 60*time.Second {
		t.Errorf("Timeout = %s, want 60s", cfg.Device.Timeout.Duration())
	}
	if cfg.Database.Path != DefaultDBPath {
		t.Errorf("Database.Path = %s, want %s", cfg.Database.Path, DefaultDBPath)
	}
}

func TestFinalizeDerivesPluginIdentity(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	if cfg.Plugin.Name != "mock-plugin" {
		t.Errorf("Plugin.Name = %s, want mock-plugin", cfg.Plugin.Name)
	}
	if cfg.Plugin.Description != "Command and control for mock device" {
		t.Errorf("Plugin.Description = %q", cfg.Plugin.Description)
	}
	if cfg.Plugin.Version != Version {
		t.Errorf("Plugin.Version = %s, want %s", cfg.Plugin.Version, Version)
	}
}

func TestFinalizeKeepsExplicitName(t *testing.T) {
	cfg := validConfig()
	cfg.Plugin.Name = "edge-router"
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if cfg.Plugin.Name != "edge-router" {
		t.Errorf("Plugin.Name = %s, want edge-router", cfg.Plugin.Name)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"no driver", func(c *Config) { c.Device.Driver = "" }, "no driver provided"},
		{"no hostname", func(c *Config) { c.Device.Hostname = "" }, "no hostname provided"},
		{"no username", func(c *Config) { c.Device.Username = "" }, "no username provided"},
		{"no password", func(c *Config) { c.Device.Password = "" }, "no password provided"},
		{"bad port", func(c *Config) { c.Plugin.Port = 70000 }, "invalid port 70000"},
		{"ssl without cert", func(c *Config) { c.Plugin.SSL = true }, "ssl requires cert_file and key_file"},
		{"verify without ca", func(c *Config) { c.Plugin.CAVerify = true }, "ca_verify requires ca_cert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Finalize(nil)
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Finalize() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestFinalizeChecksDriver(t *testing.T) {
	cfg := validConfig()
	unknown := errors.New("unknown driver")
	err := cfg.Finalize(func(name string) error {
		if name != "mock" {
			t.Errorf("driver check got %s", name)
		}
		return unknown
	})
	if !errors.Is(err, unknown) {
		t.Errorf("Finalize() error = %v, want %v", err, unknown)
	}
}

func TestDriverConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Device.Timeout = Duration(5 * time.Second)
	cfg.Device.OptionalArgs = map[string]any{"port": 2222}

	dc := cfg.DriverConfig()
	if dc.Driver() != "mock" || dc.Hostname() != "r1" || dc.Username() != "admin" || dc.Password() != "secret" {
		t.Errorf("DriverConfig() = %s", dc)
	}
	if dc.Timeout() != 5*time.Second {
		t.Errorf("Timeout() = %s, want 5s", dc.Timeout())
	}
	if dc.OptionalInt("port", 22) != 2222 {
		t.Errorf("OptionalInt(port) = %d, want 2222", dc.OptionalInt("port", 22))
	}
}

func TestSummaryHidesPassword(t *testing.T) {
	cfg := validConfig()
	cfg.Device.Password = "hunter2"
	if strings.Contains(cfg.Summary(), "hunter2") {
		t.Error("Summary() leaks the device password")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := validConfig()
	cfg.Device.OptionalArgs = map[string]any{"path": "/srv/fixtures"}
	cfg.History.Retention = Duration(72 * time.Hour)

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}

	if loaded.Device.Hostname != "r1" || loaded.Device.Driver != "mock" {
		t.Errorf("Device = %+v", loaded.Device)
	}
	if loaded.Device.OptionalArgs["path"] != "/srv/fixtures" {
		t.Errorf("OptionalArgs = %v", loaded.Device.OptionalArgs)
	}
	if loaded.History.Retention.Duration() != 72*time.Hour {
		t.Errorf("Retention = %s, want 72h", loaded.History.Retention.Duration())
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	data := "device:\n  driver: ssh\n  hostname: core1\n  timeout: 30\nplugin:\n  port: 9000\n"
	if err := os.WriteFile(configPath, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Device.Timeout.Duration() != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.Device.Timeout.Duration())
	}
	if cfg.Plugin.Host != DefaultHost || cfg.Plugin.Port != 9000 {
		t.Errorf("Plugin addr = %s, want localhost:9000", cfg.Plugin.Addr())
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("history:\n  retention: forever\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadFromPath(configPath); err == nil {
		t.Error("LoadFromPath() should reject an invalid duration")
	}
}

func TestOverrides(t *testing.T) {
	dir := t.TempDir()
	device := filepath.Join(dir, "device.json")
	bus := filepath.Join(dir, "bus.json")

	os.WriteFile(device, []byte(`{
		// lab router
		"hostname": "10.0.0.1",
		"password": "override",
		"timeout": 15,
		"optional_args": {"port": 830},
	}`), 0600)
	os.WriteFile(bus, []byte(`{"bg_host": "bus.example", "bg_port": 2338, "ssl": true,
		"client_cert": "/etc/netcommand/client.pem", "plugin_name": "lab-router"}`), 0600)

	cfg := validConfig()
	cfg.Device.Username = "from-cli"
	for _, path := range []string{device, bus} {
		if err := cfg.ApplyFile(path); err != nil {
			t.Fatalf("ApplyFile(%s) error: %v", path, err)
		}
	}

	if cfg.Device.Hostname != "10.0.0.1" || cfg.Device.Password != "override" {
		t.Errorf("Device = %+v", cfg.Device)
	}
	if cfg.Device.Username != "from-cli" {
		t.Errorf("Username = %s, absent override must not clear it", cfg.Device.Username)
	}
	if cfg.Device.Timeout.Duration() != 15*time.Second {
		t.Errorf("Timeout = %s, want 15s", cfg.Device.Timeout.Duration())
	}
	if cfg.Device.OptionalArgs["port"] != float64(830) {
		t.Errorf("OptionalArgs = %v", cfg.Device.OptionalArgs)
	}
	if cfg.Plugin.Addr() != "bus.example:2338" || !cfg.Plugin.SSL {
		t.Errorf("Plugin = %+v", cfg.Plugin)
	}
	if cfg.Plugin.CertFile != "/etc/netcommand/client.pem" || cfg.Plugin.Name != "lab-router" {
		t.Errorf("Plugin = %+v", cfg.Plugin)
	}
}

func TestOverridesErrors(t *testing.T) {
	cfg := validConfig()
	if err := cfg.ApplyFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ApplyFile() should fail for a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(bad, []byte(`{"timeout": "soon"}`), 0600)
	if err := cfg.ApplyFile(bad); err == nil {
		t.Error("ApplyFile() should fail for a mistyped value")
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	found := FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	found = FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	if err := cfg.Save(explicit); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	t.Setenv(EnvConfigPath, explicit)
	if found = FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %s, want %s", found, explicit)
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got, want := DefaultConfigPath(), filepath.Join("/xdg", ConfigDirName, "config.yaml"); got != want {
		t.Errorf("DefaultConfigPath() = %s, want %s", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/ops")
	if got, want := DefaultConfigPath(), filepath.Join("/home/ops", ".config", ConfigDirName, "config.yaml"); got != want {
		t.Errorf("DefaultConfigPath() = %s, want %s", got, want)
	}
}
