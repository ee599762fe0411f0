// This file maps CLI context to the launcher's config struct.

package launcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/urfave/cli.v1"

	"github.com/dxid-chain/go-dxid/dxid"
	"github.com/dxid-chain/go-dxid/integration"
)

// Config aggregates every subsystem's configuration the launcher needs.
type Config struct {
	Node      NodeConfig
	Rules     dxid.Rules
	Preset    integration.PresetConfig
	Validator ValidatorConfig
	FakeNet   FakeNetConfig

	// GenesisFile is the genesis definition for main and test networks.
	// The fake network derives its genesis instead.
	GenesisFile string
	// ChainsFile lists peer chain metadata to register with the gateway
	// at startup.
	ChainsFile string
}

type NodeConfig struct {
	DataDir   string
	SentryDSN string
	Logging   LoggingConfig
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
}

type ValidatorConfig struct {
	Enabled bool
	KeyHex  string // hex-encoded secp256k1 private key
}

type FakeNetConfig struct {
	Validators int // bonded validator slots at genesis
	ID         int // slot this node seals for; 0 disables slot-derived sealing
}

func defaultConfig() Config {
	d := DefaultConfig()
	return Config{
		Node: NodeConfig{
			DataDir: resolvePath(d.Node.DataDir),
			Logging: LoggingConfig{
				Verbosity: d.Logging.Verbosity,
				Format:    d.Logging.Format,
				Color:     d.Logging.Color,
			},
		},
		Rules:  dxid.MainNetRules(),
		Preset: integration.DefaultPreset(),
		FakeNet: FakeNetConfig{
			Validators: d.Network.FakeValidators,
		},
	}
}

// MakeAllConfigs merges defaults, an optional config file, then CLI flag
// overrides into a single config struct.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if file := ctx.String("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", file, err)
		}
	}

	if err := applyCLIOverrides(ctx, &cfg); err != nil {
		return Config{}, err
	}

	if err := ensureDir(cfg.Node.DataDir); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, cfg)
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) error {
	if ctx.IsSet("network") {
		switch name := ctx.String("network"); name {
		case "main":
			cfg.Rules = dxid.MainNetRules()
		case "test":
			cfg.Rules = dxid.TestNetRules()
		case "fake":
			cfg.Rules = dxid.FakeNetRules()
			// the fake network has no trusted setup; default to the
			// dev preset unless the operator picked one explicitly
			if !ctx.IsSet("preset") {
				cfg.Preset = integration.FakePreset()
			}
		default:
			return fmt.Errorf("unknown network %q (valid: main, test, fake)", name)
		}
	}

	if ctx.IsSet("preset") {
		preset, err := integration.GetPresetByName(ctx.String("preset"))
		if err != nil {
			return err
		}
		cfg.Preset = preset
	}

	if ctx.IsSet("datadir") {
		cfg.Node.DataDir = resolvePath(ctx.String("datadir"))
	}

	if ctx.IsSet("log.format") {
		cfg.Node.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Node.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Node.Logging.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("sentry.dsn") {
		cfg.Node.SentryDSN = ctx.String("sentry.dsn")
	}

	if ctx.IsSet("genesis") {
		cfg.GenesisFile = resolvePath(ctx.String("genesis"))
	}
	if ctx.IsSet("chains") {
		cfg.ChainsFile = resolvePath(ctx.String("chains"))
	}

	if ctx.IsSet("fakenet.validators") {
		cfg.FakeNet.Validators = ctx.Int("fakenet.validators")
	}
	if ctx.IsSet("fakenet.id") {
		cfg.FakeNet.ID = ctx.Int("fakenet.id")
		cfg.Validator.Enabled = cfg.FakeNet.ID > 0
	}
	if ctx.Bool("validator") {
		cfg.Validator.Enabled = true
	}
	if ctx.IsSet("validator.key") {
		cfg.Validator.KeyHex = ctx.String("validator.key")
		cfg.Validator.Enabled = true
	}

	if ctx.IsSet("gateway.timeout") {
		cfg.Rules.Interop.CallTimeout = ctx.Duration("gateway.timeout")
	}
	if ctx.IsSet("gateway.retries") {
		cfg.Rules.Interop.MaxRetries = ctx.Uint64("gateway.retries")
	}

	return nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create datadir %s: %w", dir, err)
	}
	return nil
}

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
