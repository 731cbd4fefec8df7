package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"netcommand/internal/config"
)

// options holds everything read from the command line
type options struct {
	fs *pflag.FlagSet

	driver       string
	hostname     string
	username     string
	password     string
	timeout      int
	deviceConfig string
	busConfig    string
	configPath   string
	host         string
	port         int
	ssl          bool
	cert         string
	key          string
	caCert       string
	caVerify     bool
	pluginName   string
	dbPath       string
	listDrivers  bool
	saveConfig   string
}

var errUsage = errors.New("usage")

func parseFlags(args []string) (*options, error) {
	o := &options{}
	fs := pflag.NewFlagSet("netcommand", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: netcommand <driver> [flags]\n\n%s", fs.FlagUsages())
	}

	fs.StringVar(&o.hostname, "hostname", "", "device hostname or address")
	fs.StringVarP(&o.username, "username", "u", "", "device username")
	fs.StringVarP(&o.password, "password", "p", "", "device password")
	fs.IntVarP(&o.timeout, "timeout", "t", int(config.DefaultTimeout/time.Second), "device timeout in seconds")
	fs.StringVarP(&o.deviceConfig, "device-config", "d", "", "JSON file with device settings")
	fs.StringVarP(&o.busConfig, "bus-config", "b", "", "JSON file with dispatcher settings")
	fs.StringVarP(&o.configPath, "config", "c", "", "YAML config file")
	fs.StringVar(&o.host, "host", config.DefaultHost, "dispatcher listen host")
	fs.IntVar(&o.port, "port", config.DefaultPort, "dispatcher listen port")
	fs.BoolVar(&o.ssl, "ssl", false, "serve the dispatcher over TLS")
	fs.StringVar(&o.cert, "cert", "", "TLS certificate file")
	fs.StringVar(&o.key, "key", "", "TLS key file")
	fs.StringVar(&o.caCert, "ca-cert", "", "CA certificate for client verification")
	fs.BoolVar(&o.caVerify, "ca-verify", false, "require client certificates signed by --ca-cert")
	fs.StringVar(&o.pluginName, "plugin-name", "", "plugin name, defaults to <driver>-plugin")
	fs.StringVar(&o.dbPath, "db", "", "SQLite database path")
	fs.BoolVar(&o.listDrivers, "list-drivers", false, "list supported drivers and exit")
	fs.StringVar(&o.saveConfig, "save-config", "", "write the effective config as YAML and exit")
	fs.Lookup("save-config").NoOptDefVal = config.DefaultConfigPath()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, errUsage
		}
		return nil, err
	}

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		o.driver = rest[0]
	default:
		return nil, fmt.Errorf("unexpected argument: %s", rest[1])
	}

	o.fs = fs
	return o, nil
}

// loadConfig layers the config file, explicitly set flags and the JSON
// override files
func (o *options) loadConfig() (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if o.configPath != "" {
		cfg, path, err = config.LoadFromPath(o.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, path, err
	}

	o.apply(cfg)

	for _, file := range []string{o.deviceConfig, o.busConfig} {
		if file == "" {
			continue
		}
		if err := cfg.ApplyFile(file); err != nil {
			return nil, path, err
		}
	}
	return cfg, path, nil
}

// apply copies flags given on the command line onto cfg
func (o *options) apply(cfg *config.Config) {
	if o.driver != "" {
		cfg.Device.Driver = o.driver
	}

	changed := o.fs.Changed
	if changed("hostname") {
		cfg.Device.Hostname = o.hostname
	}
	if changed("username") {
		cfg.Device.Username = o.username
	}
	if changed("password") {
		cfg.Device.Password = o.password
	}
	if changed("timeout") {
		cfg.Device.Timeout = config.Duration(time.Duration(o.timeout) * time.Second)
	}
	if changed("host") {
		cfg.Plugin.Host = o.host
	}
	if changed("port") {
		cfg.Plugin.Port = o.port
	}
	if changed("ssl") {
		cfg.Plugin.SSL = o.ssl
	}
	if changed("cert") {
		cfg.Plugin.CertFile = o.cert
	}
	if changed("key") {
		cfg.Plugin.KeyFile = o.key
	}
	if changed("ca-cert") {
		cfg.Plugin.CACert = o.caCert
	}
	if changed("ca-verify") {
		cfg.Plugin.CAVerify = o.caVerify
	}
	if changed("plugin-name") {
		cfg.Plugin.Name = o.pluginName
	}
	if changed("db") {
		cfg.Database.Path = o.dbPath
	}
}
