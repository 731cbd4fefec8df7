package command

import (
	"context"

	"netcommand/internal/driver"
)

// Defaults used by the diagnostics commands when the requester omits them
const (
	PingSource  = ""
	PingTTL     = 255
	PingTimeout = 2
	PingSize    = 100
	PingCount   = 5
	PingVRF     = ""

	TracerouteSource  = ""
	TracerouteTTL     = 255
	TracerouteTimeout = 2
	TracerouteVRF     = ""
)

var (
	paramTemplateName = Parameter{
		Key:         "template_name",
		Type:        TypeString,
		Description: "Identifies the template name.",
		DisplayName: "Template Name",
	}
	paramTemplateSource = Parameter{
		Key:         "template_source",
		Type:        TypeString,
		Description: "Custom config template rendered and loaded on device.",
		DisplayName: "Template Source",
		Optional:    true,
		Nullable:    true,
	}
	paramTemplatePath = Parameter{
		Key:         "template_path",
		Type:        TypeString,
		Description: "Absolute path to directory for the configuration templates.",
		DisplayName: "Template Path",
		Optional:    true,
		Nullable:    true,
	}
	paramTemplateVars = Parameter{
		Key:         "template_vars",
		Type:        TypeDictionary,
		Description: "Dictionary with arguments to be used when the template is rendered.",
		Optional:    true,
		Nullable:    true,
	}
	paramFilename = Parameter{
		Key:         "filename",
		Type:        TypeString,
		Description: "Path to the file containing the desired configuration. By default is None.",
		Optional:    true,
		Nullable:    true,
	}
	paramConfig = Parameter{
		Key:         "config",
		Type:        TypeString,
		Description: "String containing the desired configuration",
		Optional:    true,
		Nullable:    true,
	}
	paramDestination = Parameter{
		Key:         "destination",
		Type:        TypeString,
		Description: "The destination prefix to be used when filtering the routes.",
		Optional:    true,
		Nullable:    true,
	}
	paramProtocol = Parameter{
		Key:         "protocol",
		Type:        TypeString,
		Description: "Retrieve the routes only for a specific protocol.",
		Optional:    true,
		Nullable:    true,
	}
	paramInterface = Parameter{
		Key:         "interface",
		Type:        TypeString,
		Description: "Specify an interface",
		Optional:    true,
		Default:     "",
	}
	paramGroup = Parameter{
		Key:         "group",
		Type:        TypeString,
		Description: "Returns the configuration of a specific BGP group.",
		Optional:    true,
		Default:     "",
	}
	paramNeighbor = Parameter{
		Key:         "neighbor",
		Type:        TypeString,
		Description: "Returns the configuration of a specific BGP neighbor.",
		Optional:    true,
		Default:     "",
	}
	paramNeighborAddress = Parameter{
		Key:         "neighbor_address",
		Type:        TypeString,
		Description: "Returns the statistics for a specific BGP neighbor.",
		Optional:    true,
		Default:     "",
	}
	paramRetrieve = Parameter{
		Key:         "retrieve",
		Type:        TypeString,
		Description: "Which configuration type you want to populate, default is all of them, the rest will be set to \"\"",
		Optional:    true,
		Default:     "all",
	}
	paramNetworkInstanceName = Parameter{
		Key:         "name",
		Type:        TypeString,
		Description: "Name of the network instance to return, default is all.",
		Optional:    true,
		Default:     "",
	}
	paramValidationFile = Parameter{
		Key:         "validation_file",
		Type:        TypeString,
		Description: "Path to the file containing compliance definition. Default is None",
		Optional:    true,
		Nullable:    true,
	}
	paramValidationSource = Parameter{
		Key:         "validation_source",
		Type:        TypeDictionary,
		Description: "Dictionary containing compliance rules.",
		Optional:    true,
		Nullable:    true,
	}
	paramCommands = Parameter{
		Key:         "commands",
		Type:        TypeString,
		Description: "CLI commands to run on the device.",
		Multi:       true,
	}
)

func pingParameters() []Parameter {
	return []Parameter{
		{Key: "destination", Type: TypeString, Description: "Host or IP Address of the destination."},
		{Key: "source", Type: TypeString, Description: "Source address of echo request", Optional: true, Nullable: true, Default: PingSource},
		{Key: "ttl", Type: TypeInteger, Description: "Maximum number of hops", Optional: true, Nullable: true, Default: PingTTL},
		{Key: "timeout", Type: TypeInteger, Description: "Maximum seconds to wait after sending final packet", Optional: true, Nullable: true, Default: PingTimeout},
		{Key: "size", Type: TypeInteger, Description: "Size of request (bytes)", Optional: true, Nullable: true, Default: PingSize},
		{Key: "count", Type: TypeInteger, Description: "Number of ping request to send", Optional: true, Nullable: true, Default: PingCount},
		{Key: "vrf", Type: TypeString, Description: "Virtual routing and forwarding.", Optional: true, Nullable: true, Default: PingVRF},
	}
}

func tracerouteParameters() []Parameter {
	return []Parameter{
		{Key: "destination", Type: TypeString, Description: "Host or IP Address of the destination."},
		{Key: "source", Type: TypeString, Description: "Use a specific IP Address to execute the traceroute", Optional: true, Nullable: true, Default: TracerouteSource},
		{Key: "ttl", Type: TypeInteger, Description: "Maximum number of hops", Optional: true, Nullable: true, Default: TracerouteTTL},
		{Key: "timeout", Type: TypeInteger, Description: "Number of seconds to wait for response.", Optional: true, Nullable: true, Default: TracerouteTimeout},
		{Key: "vrf", Type: TypeString, Description: "Virtual routing and forwarding.", Optional: true, Nullable: true, Default: TracerouteVRF},
	}
}

func isAlive(ctx context.Context, d driver.Driver, _ driver.Args) (any, error) {
	return d.IsAlive(ctx)
}

// DefaultOperations returns the full command table exposed to requesters
func DefaultOperations() []Operation {
	return []Operation{
		{Name: "open", Kind: KindOpen, Description: "Opens a connection to the device."},
		{Name: "close", Kind: KindClose, Description: "Closes the connection to the device."},
		{Name: "is_alive", Description: "Returns a flag with the connection state.", Invoke: isAlive},

		{
			Name:        "load_template",
			Description: "Will load a templated configuration on the device.",
			Parameters:  []Parameter{paramTemplateName, paramTemplateSource, paramTemplatePath, paramTemplateVars},
			Spread:      "template_vars",
		},
		{
			Name:        "load_replace_candidate",
			Description: "Populates the candidate configuration.",
			Parameters:  []Parameter{paramFilename, paramConfig},
		},
		{
			Name:        "load_merge_candidate",
			Description: "Populates the candidate configuration.",
			Parameters:  []Parameter{paramFilename, paramConfig},
		},
		{Name: "compare_config", Description: "Compare the loaded configuration."},
		{Name: "commit_config", Description: "Commits the changes requested by the candidate."},
		{Name: "discard_config", Description: "Discards the configuration loaded into the candidate."},
		{Name: "rollback", Description: "If changes were made, revert changes to the original state."},

		{Name: "get_facts", Description: "Returns a dictionary of information."},
		{Name: "get_interfaces", Description: "Gets interfaces."},
		{Name: "get_lldp_neighbors", Description: "Gets all LLDP neighbors."},
		{Name: "get_bgp_neighbors", Description: "Gets all BGP neighbors."},
		{Name: "get_environment", Description: "Gets the environment of the device."},
		{Name: "get_interfaces_counters", Description: "Gets interface counters of the device."},
		{
			Name:        "get_lldp_neighbors_detail",
			Description: "Gets LLDP Neighbors of the device with more detail.",
			Parameters:  []Parameter{paramInterface},
		},
		{
			Name:        "get_bgp_config",
			Description: "Gets BGP config for the device.",
			Parameters:  []Parameter{paramGroup, paramNeighbor},
		},
		{
			Name:        "get_bgp_neighbors_detail",
			Description: "Gets BGP neighbors in detail.",
			Parameters:  []Parameter{paramNeighborAddress},
		},
		{Name: "get_arp_table", Description: "Get the ARP table of the device."},
		{Name: "get_ntp_peers", Description: "Returns the NTP peers configuration as dictionary."},
		{Name: "get_ntp_servers", Description: "Returns the NTP servers configuration as dictionary."},
		{Name: "get_ntp_stats", Description: "Returns a list of NTP synchronization statistics."},
		{Name: "get_interfaces_ip", Description: "Returns all configured IP addresses on all interfaces as a dictionary of dictionaries."},
		{Name: "get_mac_address_table", Description: "Get MAC Addresses Table of the device."},
		{
			Name:        "get_route_to",
			Description: "Get available routes to the destination.",
			Parameters:  []Parameter{paramDestination, paramProtocol},
		},
		{Name: "get_snmp_information", Description: "Returns a dict of dicts containing SNMP configuration."},
		{Name: "get_probes_config", Description: "Returns a dictionary with the probes configured on the device."},
		{Name: "get_probes_results", Description: "Returns a dictionary with the results of the probes."},
		{
			Name:        "ping",
			Description: "Executes ping on the device and returns a dictionary with the result.",
			Parameters:  pingParameters(),
		},
		{
			Name:        "traceroute",
			Description: "Executes traceroute on the device and returns a dictionary with the result.",
			Parameters:  tracerouteParameters(),
		},
		{Name: "get_users", Description: "Returns a dictionary with the configured users."},
		{Name: "get_optics", Description: "Fetches the power usage on the various transceivers"},
		{
			Name:        "get_config",
			Description: "Return the configuration of a device.",
			Parameters:  []Parameter{paramRetrieve},
		},
		{
			Name:        "get_network_instances",
			Description: "Return a dictionary of network instances (VRFs) configured, including default/global",
			Parameters:  []Parameter{paramNetworkInstanceName},
		},
		{Name: "get_firewall_policies", Description: "Gets firewall policy for the device."},
		{Name: "get_ipv6_neighbors_table", Description: "Get IPv6 neighbors table information."},
		{
			Name:        "compliance_report",
			Description: "Return a compliance report.",
			Parameters:  []Parameter{paramValidationFile, paramValidationSource},
		},
		{
			Name:        "cli",
			Description: "Executes a list of commands and returns the output of each.",
			Parameters:  []Parameter{paramCommands},
		},
	}
}
