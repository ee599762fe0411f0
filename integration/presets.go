// Package integration assembles the decision core: crypto provider, execution
// engine, interop gateway and consensus engine over a shared store. Presets
// bundle the runtime choices that vary between deployments (proof backends,
// sealing behaviour) into named profiles so operators pick one flag instead
// of tuning each subsystem.
//
// Usage:
//
//	cfg := integration.DefaultPreset()   // observing full node
//	cfg := integration.ValidatorPreset() // sealing node
//	cfg := integration.FakePreset()      // local single-process network
//
// Each preset returns a PresetConfig the launcher merges into its main config
// during node initialization.
package integration

import (
	"fmt"
	"time"
)

// PresetConfig captures the tunable parameters that vary across profiles.
// Network rules are deliberately excluded; those come from the network
// selection, never from a preset.
type PresetConfig struct {
	Name      string        // human-readable identifier (e.g. "validator", "fake")
	DevProofs bool          // hash-commitment snark backend instead of Groth16 (no trusted setup)
	Seal      bool          // run the sealing loop
	SealIdle  time.Duration // pause between sealing attempts while not selected
}

func DefaultPreset() PresetConfig {
	return PresetConfig{
		Name:      "default",
		DevProofs: false,
		Seal:      false,
		SealIdle:  time.Second,
	}
}

// ValidatorPreset configures a sealing node with production proof backends.
func ValidatorPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "validator"
	cfg.Seal = true
	return cfg
}

// FakePreset configures a local development node: sealing on, dev proof
// backends, and a short idle so single-process networks advance quickly.
func FakePreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "fake"
	cfg.DevProofs = true
	cfg.Seal = true
	cfg.SealIdle = 50 * time.Millisecond
	return cfg
}

// GetPresetByName looks up a preset by its string identifier. It enables CLI
// flags like --preset=validator to select configurations dynamically.
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "default":
		return DefaultPreset(), nil
	case "validator":
		return ValidatorPreset(), nil
	case "fake":
		return FakePreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown preset: %q (valid: default, validator, fake)", name)
	}
}
