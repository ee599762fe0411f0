package launcher

// Defaults bundles the baseline configuration values the launcher uses
// before config files and flags override them.

type Defaults struct {
	Node    NodeDefaults
	Network NetworkDefaults
	Logging LoggingDefaults
}

// NodeDefaults captures top-level node settings.
type NodeDefaults struct {
	DataDir string // Filesystem root where the node stores everything; changing it lets you run multiple nodes or keep test data isolated.
}

// NetworkDefaults holds the network selection baseline.
type NetworkDefaults struct {
	Name           string // Network preset the node joins when no --network flag is given (main, test or fake).
	FakeValidators int    // How many validator slots the deterministic fake network bonds at genesis; every process derives the same slot keys from this count.
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    // Log level numeric (0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace).
	Format    string // Log output format (text vs json).
	Color     bool   // Whether to use ANSI color codes in logs (helpful on terminals, best disabled when piping to files).
}

// DefaultConfig returns a fully populated Defaults instance.
func DefaultConfig() Defaults {
	return Defaults{
		Node: NodeDefaults{
			DataDir: "~/.dxid",
		},
		Network: NetworkDefaults{
			Name:           "main",
			FakeValidators: 3,
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     true,
		},
	}
}
