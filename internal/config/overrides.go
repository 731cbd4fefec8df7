package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/jsonc"
)

// Overrides is the flat JSON layout of device and bus config files. Absent
// keys leave the current value untouched. Both the long bus key names
// (bg_host, bg_port, client_cert) and the short ones are accepted.
type Overrides struct {
	Driver       *string        `json:"driver"`
	Hostname     *string        `json:"hostname"`
	Username     *string        `json:"username"`
	Password     *string        `json:"password"`
	Timeout      *int           `json:"timeout"`
	OptionalArgs map[string]any `json:"optional_args"`

	Host       *string `json:"host"`
	BgHost     *string `json:"bg_host"`
	Port       *int    `json:"port"`
	BgPort     *int    `json:"bg_port"`
	SSL        *bool   `json:"ssl"`
	CACert     *string `json:"ca_cert"`
	ClientCert *string `json:"client_cert"`
	CertFile   *string `json:"cert_file"`
	KeyFile    *string `json:"key_file"`
	PluginName *string `json:"plugin_name"`
	CAVerify   *bool   `json:"ca_verify"`
}

// LoadOverrides reads a JSON override file. Comments and trailing commas
// are allowed.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}

	var o Overrides
	if err := json.Unmarshal(jsonc.ToJSON(data), &o); err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", path, err)
	}
	return &o, nil
}

// Apply writes every present override into c
func (o *Overrides) Apply(c *Config) {
	setString(&c.Device.Driver, o.Driver)
	setString(&c.Device.Hostname, o.Hostname)
	setString(&c.Device.Username, o.Username)
	setString(&c.Device.Password, o.Password)
	if o.Timeout != nil {
		c.Device.Timeout = Duration(time.Duration(*o.Timeout) * time.Second)
	}
	if o.OptionalArgs != nil {
		c.Device.OptionalArgs = o.OptionalArgs
	}

	setString(&c.Plugin.Host, o.BgHost)
	setString(&c.Plugin.Host, o.Host)
	setInt(&c.Plugin.Port, o.BgPort)
	setInt(&c.Plugin.Port, o.Port)
	setBool(&c.Plugin.SSL, o.SSL)
	setString(&c.Plugin.CACert, o.CACert)
	setString(&c.Plugin.CertFile, o.ClientCert)
	setString(&c.Plugin.CertFile, o.CertFile)
	setString(&c.Plugin.KeyFile, o.KeyFile)
	setString(&c.Plugin.Name, o.PluginName)
	setBool(&c.Plugin.CAVerify, o.CAVerify)
}

// ApplyFile loads the override file at path and applies it to c
func (c *Config) ApplyFile(path string) error {
	o, err := LoadOverrides(path)
	if err != nil {
		return err
	}
	o.Apply(c)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
