// Package ssh drives devices that expose a command shell over SSH
package ssh

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"netcommand/internal/domain"
	"netcommand/internal/driver"
)

// Name is the registry name of the SSH driver
const Name = "ssh"

// DefaultPort is used when optional_args.port is not set
const DefaultPort = 22

// ErrNotConnected is returned for calls made without an open session
var ErrNotConnected = errors.New("ssh: not connected")

func init() {
	driver.Register(Name, New)
}

// Driver is one SSH connection to a device
type Driver struct {
	cfg        domain.DriverConfig
	port       int
	keyFile    string
	passphrase string
	knownHosts string

	mu     sync.Mutex
	client *ssh.Client
}

// New creates an unconnected SSH driver. Recognized optional args: port,
// key_file, passphrase and known_hosts.
func New(cfg domain.DriverConfig) (driver.Driver, error) {
	port := cfg.OptionalInt("port", DefaultPort)
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("ssh: invalid port %d", port)
	}

	return &Driver{
		cfg:        cfg,
		port:       port,
		keyFile:    cfg.OptionalString("key_file", ""),
		passphrase: cfg.OptionalString("passphrase", ""),
		knownHosts: cfg.OptionalString("known_hosts", ""),
	}, nil
}

// Open dials the device and authenticates
func (d *Driver) Open(ctx context.Context) error {
	config, err := d.clientConfig()
	if err != nil {
		return fmt.Errorf("failed to build SSH config: %w", err)
	}

	addr := net.JoinHostPort(d.cfg.Hostname(), strconv.Itoa(d.port))
	dialer := &net.Dialer{
		Timeout: d.cfg.Timeout(),
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial: %w", err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to establish SSH connection: %w", err)
	}

	d.mu.Lock()
	d.client = ssh.NewClient(sshConn, chans, reqs)
	d.mu.Unlock()
	return nil
}

// Close disconnects from the device
func (d *Driver) Close() error {
	d.mu.Lock()
	client := d.client
	d.client = nil
	d.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Close()
}

// IsAlive sends a keepalive request over the connection
func (d *Driver) IsAlive(ctx context.Context) (map[string]any, error) {
	client := d.current()
	if client == nil {
		return map[string]any{"is_alive": false}, nil
	}
	_, _, err := client.SendRequest("keepalive@openssh.com", true, nil)
	return map[string]any{"is_alive": err == nil}, nil
}

// Call runs a device operation. Only cli and get_facts are supported.
func (d *Driver) Call(ctx context.Context, method string, args driver.Args) (any, error) {
	client := d.current()
	if client == nil {
		return nil, ErrNotConnected
	}

	switch method {
	case "cli":
		commands, err := commandList(args["commands"])
		if err != nil {
			return nil, err
		}
		return d.cli(ctx, client, commands)
	case "get_facts":
		return d.facts(ctx, client)
	default:
		return nil, fmt.Errorf("ssh %s: %w", method, domain.ErrNotImplemented)
	}
}

func (d *Driver) current() *ssh.Client {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.client
}

// cli runs every command in its own session and maps it to its output
func (d *Driver) cli(ctx context.Context, client *ssh.Client, commands []string) (map[string]any, error) {
	result := make(map[string]any, len(commands))
	for _, cmd := range commands {
		output, err := runCommand(ctx, client, cmd)
		if err != nil {
			return nil, fmt.Errorf("cli %q: %w", cmd, err)
		}
		result[cmd] = output
	}
	return result, nil
}

func commandList(v any) ([]string, error) {
	switch commands := v.(type) {
	case []string:
		return commands, nil
	case []any:
		out := make([]string, 0, len(commands))
		for _, c := range commands {
			s, ok := c.(string)
			if !ok {
				return nil, fmt.Errorf("cli: command %v is not a string", c)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cli: commands must be a list of strings")
	}
}

// clientConfig offers key authentication when a key file is configured
// and password authentication when a password is set
func (d *Driver) clientConfig() (*ssh.ClientConfig, error) {
	var auth []ssh.AuthMethod

	if d.keyFile != "" {
		signer, err := d.loadKey()
		if err != nil {
			return nil, err
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if d.cfg.Password() != "" {
		auth = append(auth, ssh.Password(d.cfg.Password()))
	}
	if len(auth) == 0 {
		return nil, errors.New("no password or key_file configured")
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if d.knownHosts != "" {
		cb, err := knownhosts.New(d.knownHosts)
		if err != nil {
			return nil, fmt.Errorf("failed to load known_hosts: %w", err)
		}
		hostKeyCallback = cb
	}

	return &ssh.ClientConfig{
		User:            d.cfg.Username(),
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         d.cfg.Timeout(),
	}, nil
}

func (d *Driver) loadKey() (ssh.Signer, error) {
	data, err := os.ReadFile(d.keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	var signer ssh.Signer
	if d.passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(data, []byte(d.passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return signer, nil
}

// runCommand executes cmd in a new session. Output is returned even when the
// command exits non-zero.
func runCommand(ctx context.Context, client *ssh.Client, cmd string) (string, error) {
	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	type outcome struct {
		output []byte
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		output, err := session.CombinedOutput(cmd)
		done <- outcome{output, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			var exitErr *ssh.ExitError
			if errors.As(res.err, &exitErr) {
				return string(res.output), nil
			}
			return "", fmt.Errorf("command failed: %w", res.err)
		}
		return string(res.output), nil
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		return "", fmt.Errorf("command interrupted: %w", ctx.Err())
	}
}
