// File: internal/flags/flags.go
package flags

// Centralized definitions for CLI flags used across the application

const (
	// Path of the YAML config file, overriding $HOME/.config/ecsdash/config.yaml
	Config      = "config"
	ConfigShort = "c"

	// Debug flags are used to enable verbose logging
	Debug      = "debug"
	DebugShort = "d"

	// Providers flags select which providers a listing queries (e.g., --providers aws,gcp)
	Providers      = "providers"
	ProvidersShort = "p"

	// Maximum number of buckets enriched per provider
	Cap = "cap"

	// Listen address for the HTTP server
	Address      = "address"
	AddressShort = "a"

	// Output format for commands that can print structured data
	Output      = "output"
	OutputShort = "o"

	// Force flags are used to bypass interactive confirmation prompts
	Force      = "force"
	ForceShort = "f"
)
