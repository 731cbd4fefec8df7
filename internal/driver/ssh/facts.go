package ssh

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"golang.org/x/crypto/ssh"
)

// factCommand is a shell command whose output contributes to get_facts
type factCommand struct {
	Name    string
	Command string
	Parser  func(output string) (map[string]any, error)
}

var factCommands = []factCommand{
	{
		Name:    "hostname",
		Command: "hostname -f 2>/dev/null || hostname",
		Parser:  parseHostname,
	},
	{
		Name:    "os_release",
		Command: "cat /etc/os-release 2>/dev/null",
		Parser:  parseOSRelease,
	},
	{
		Name:    "uname",
		Command: "uname -a",
		Parser:  parseUname,
	},
	{
		Name:    "uptime",
		Command: "cat /proc/uptime",
		Parser:  parseUptime,
	},
	{
		Name:    "interfaces",
		Command: "ls /sys/class/net",
		Parser:  parseInterfaceList,
	},
}

// facts gathers what the fact commands can tell about the device. Commands
// that fail or cannot be parsed leave their fields at the default.
func (d *Driver) facts(ctx context.Context, client *ssh.Client) (map[string]any, error) {
	facts := map[string]any{
		"hostname":       d.cfg.Hostname(),
		"fqdn":           d.cfg.Hostname(),
		"vendor":         "",
		"model":          "",
		"os_version":     "",
		"serial_number":  "",
		"uptime":         -1,
		"interface_list": []any{},
	}

	for _, fc := range factCommands {
		output, err := runCommand(ctx, client, fc.Command)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			log.Printf("ssh: fact command %s failed on %s: %v", fc.Name, d.cfg.Hostname(), err)
			continue
		}
		parsed, err := fc.Parser(output)
		if err != nil {
			log.Printf("ssh: failed to parse %s output from %s: %v", fc.Name, d.cfg.Hostname(), err)
			continue
		}
		for k, v := range parsed {
			facts[k] = v
		}
	}
	return facts, nil
}

// parseHostname splits an FQDN into hostname and fqdn
func parseHostname(output string) (map[string]any, error) {
	fqdn := strings.TrimSpace(output)
	if fqdn == "" {
		return nil, fmt.Errorf("empty hostname")
	}

	facts := map[string]any{
		"hostname": fqdn,
		"fqdn":     fqdn,
	}
	if idx := strings.Index(fqdn, "."); idx > 0 {
		facts["hostname"] = fqdn[:idx]
	}
	return facts, nil
}

// parseOSRelease parses /etc/os-release
// Format: KEY=value or KEY="value"
func parseOSRelease(output string) (map[string]any, error) {
	osInfo := make(map[string]string)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		osInfo[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), "\"'")
	}

	if len(osInfo) == 0 {
		return nil, fmt.Errorf("no OS information found")
	}

	facts := map[string]any{}
	if name, ok := osInfo["NAME"]; ok {
		facts["vendor"] = name
	}
	if pretty, ok := osInfo["PRETTY_NAME"]; ok {
		facts["os_version"] = pretty
	} else if version, ok := osInfo["VERSION"]; ok {
		facts["os_version"] = version
	}
	return facts, nil
}

// parseUname takes the machine architecture as the model
// Format: Linux hostname 5.15.0-76-generic #83-Ubuntu SMP ... x86_64 GNU/Linux
func parseUname(output string) (map[string]any, error) {
	parts := strings.Fields(output)
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid uname output format")
	}

	facts := map[string]any{}
	for i := len(parts) - 1; i >= 0; i-- {
		switch parts[i] {
		case "x86_64", "aarch64", "armv7l":
			facts["model"] = parts[i]
			return facts, nil
		}
	}
	return facts, nil
}

// parseUptime reads whole seconds from /proc/uptime
func parseUptime(output string) (map[string]any, error) {
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty uptime output")
	}
	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid uptime %q: %w", fields[0], err)
	}
	return map[string]any{"uptime": int(seconds)}, nil
}

func parseInterfaceList(output string) (map[string]any, error) {
	names := []any{}
	for _, name := range strings.Fields(output) {
		names = append(names, name)
	}
	return map[string]any{"interface_list": names}, nil
}
