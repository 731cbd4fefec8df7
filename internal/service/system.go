package service

import (
	"netcommand/internal/command"
)

// System describes this plugin and the commands it accepts
type System struct {
	Name        string        `json:"name" yaml:"name" cbor:"name"`
	Version     string        `json:"version" yaml:"version" cbor:"version"`
	Description string        `json:"description" yaml:"description" cbor:"description"`
	Driver      string        `json:"driver" yaml:"driver" cbor:"driver"`
	Device      string        `json:"device" yaml:"device" cbor:"device"`
	Commands    []CommandInfo `json:"commands" yaml:"commands" cbor:"commands"`
}

// CommandInfo is the public description of one command
type CommandInfo struct {
	Name        string              `json:"name" yaml:"name" cbor:"name"`
	Description string              `json:"description" yaml:"description" cbor:"description"`
	Parameters  []command.Parameter `json:"parameters" yaml:"parameters" cbor:"parameters"`
}

// SystemInfo holds the identity fields of a System
type SystemInfo struct {
	Name        string
	Version     string
	Description string
	Driver      string
	Device      string
}

// Catalog lists operations in declaration order
type Catalog interface {
	Operations() []command.Operation
	Lookup(name string) (command.Operation, bool)
}

// SystemService describes the plugin and its command catalog
type SystemService struct {
	info    SystemInfo
	catalog Catalog
}

// NewSystemService creates a new system service
func NewSystemService(info SystemInfo, catalog Catalog) *SystemService {
	return &SystemService{info: info, catalog: catalog}
}

// Describe returns the plugin description with every command
func (s *SystemService) Describe() System {
	ops := s.catalog.Operations()
	commands := make([]CommandInfo, 0, len(ops))
	for _, op := range ops {
		commands = append(commands, commandInfo(op))
	}

	return System{
		Name:        s.info.Name,
		Version:     s.info.Version,
		Description: s.info.Description,
		Driver:      s.info.Driver,
		Device:      s.info.Device,
		Commands:    commands,
	}
}

// Commands returns every command description
func (s *SystemService) Commands() []CommandInfo {
	return s.Describe().Commands
}

// Command returns one command description
func (s *SystemService) Command(name string) (CommandInfo, bool) {
	op, ok := s.catalog.Lookup(name)
	if !ok {
		return CommandInfo{}, false
	}
	return commandInfo(op), true
}

func commandInfo(op command.Operation) CommandInfo {
	params := op.Parameters
	if params == nil {
		params = []command.Parameter{}
	}
	return CommandInfo{
		Name:        op.Name,
		Description: op.Description,
		Parameters:  params,
	}
}
