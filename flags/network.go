package flags

import (
	"time"

	"gopkg.in/urfave/cli.v1"
)

// NetworkFlags selects the chain the node joins and its genesis material.

func NetworkFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "network",
			Usage: "Network to join (main|test|fake)",
			Value: "main",
		},
		cli.StringFlag{
			Name:  "genesis",
			Usage: "Path to the genesis definition file (main and test networks)",
		},
		cli.IntFlag{
			Name:  "fakenet.validators",
			Usage: "Number of bonded validators in the local fake network",
			Value: 3,
		},
		cli.IntFlag{
			Name:  "fakenet.id",
			Usage: "Validator slot this node seals for on the fake network (0 disables sealing)",
		},
		cli.StringFlag{
			Name:  "chains",
			Usage: "Path to a JSON list of peer chain metadata to register at startup",
		},
	}
}

// ValidatorFlags covers block sealing.
func ValidatorFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:  "validator",
			Usage: "Enable block sealing",
		},
		cli.StringFlag{
			Name:  "validator.key",
			Usage: "Hex-encoded secp256k1 private key used for sealing",
		},
	}
}

// GatewayFlags tunes the interop gateway's proof-backend calls.
func GatewayFlags() []cli.Flag {
	return []cli.Flag{
		cli.DurationFlag{
			Name:  "gateway.timeout",
			Usage: "Timeout of a single proof backend call",
			Value: 5 * time.Second,
		},
		cli.Uint64Flag{
			Name:  "gateway.retries",
			Usage: "Maximum retries of a failed outbound proving call",
			Value: 4,
		},
	}
}
