package launcher

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/dxid-chain/go-dxid/consensus"
	"github.com/dxid-chain/go-dxid/dxid"
	"github.com/dxid-chain/go-dxid/flags"
	"github.com/dxid-chain/go-dxid/integration"
	"github.com/dxid-chain/go-dxid/inter"
	"github.com/dxid-chain/go-dxid/interop"
)

var app = flags.NewApp()

func init() {
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.NetworkFlags()...)
	app.Flags = append(app.Flags, flags.ValidatorFlags()...)
	app.Flags = append(app.Flags, flags.GatewayFlags()...)
	app.Action = dxidMain
}

// Launch parses flags and runs the node until interrupted.
func Launch(args []string) error {
	return app.Run(args)
}

func dxidMain(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	setupLogging(cfg.Node)

	genesis, err := makeGenesis(cfg)
	if err != nil {
		return err
	}

	core, err := integration.MakeCore(genesis, cfg.Preset)
	if err != nil {
		return err
	}

	if cfg.ChainsFile != "" {
		if err := registerChains(core.Gateway, cfg.ChainsFile); err != nil {
			return err
		}
	}

	return runNode(cfg, core)
}

// verbosityLevels maps the numeric --log.verbosity scale onto logrus levels.
var verbosityLevels = []logrus.Level{
	logrus.FatalLevel,
	logrus.ErrorLevel,
	logrus.WarnLevel,
	logrus.InfoLevel,
	logrus.DebugLevel,
	logrus.TraceLevel,
}

func setupLogging(cfg NodeConfig) {
	v := cfg.Logging.Verbosity
	if v < 0 {
		v = 0
	}
	if v >= len(verbosityLevels) {
		v = len(verbosityLevels) - 1
	}
	logrus.SetLevel(verbosityLevels[v])

	if cfg.Logging.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Logging.Color,
			FullTimestamp: true,
		})
	}

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			logrus.Warn("sentry hook disabled: ", err)
		} else {
			logrus.AddHook(hook)
		}
	}
}

// makeGenesis resolves the chain's genesis: derived for the fake network,
// loaded from the operator-supplied definition file otherwise.
func makeGenesis(cfg Config) (dxid.Genesis, error) {
	if cfg.Rules.NetworkID == dxid.FakeNetworkID {
		return integration.MakeFakeGenesis(cfg.FakeNet.Validators, cfg.Rules), nil
	}
	if cfg.GenesisFile == "" {
		return dxid.Genesis{}, fmt.Errorf("network %q requires --genesis", cfg.Rules.Name)
	}
	raw, err := os.ReadFile(cfg.GenesisFile)
	if err != nil {
		return dxid.Genesis{}, fmt.Errorf("read genesis file: %w", err)
	}
	var genesis dxid.Genesis
	if err := json.Unmarshal(raw, &genesis); err != nil {
		return dxid.Genesis{}, fmt.Errorf("parse genesis file: %w", err)
	}
	if genesis.Rules.NetworkID != cfg.Rules.NetworkID {
		return dxid.Genesis{}, fmt.Errorf("genesis file is for network id %#x, node is configured for %#x",
			genesis.Rules.NetworkID, cfg.Rules.NetworkID)
	}
	return genesis, nil
}

func registerChains(gateway *interop.Gateway, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read chains file: %w", err)
	}
	var metas []inter.ChainMetadata
	if err := json.Unmarshal(raw, &metas); err != nil {
		return fmt.Errorf("parse chains file: %w", err)
	}
	for i := range metas {
		gateway.Register(&metas[i])
	}
	return nil
}

// sealingKey resolves the proposer key: the fake slot's derived key when a
// slot is configured, the operator-supplied key otherwise.
func sealingKey(cfg Config) (*ecdsa.PrivateKey, error) {
	if cfg.FakeNet.ID > 0 {
		return integration.FakeKey(idx.ValidatorID(cfg.FakeNet.ID)), nil
	}
	if cfg.Validator.KeyHex == "" {
		return nil, errors.New("sealing requires --validator.key or --fakenet.id")
	}
	return crypto.HexToECDSA(strings.TrimPrefix(cfg.Validator.KeyHex, "0x"))
}

func runNode(cfg Config, core *integration.Core) error {
	log := logrus.WithField("module", "launcher")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	blocks := make(chan *inter.Block, 16)
	blockSub := core.Engine.SubscribeBlocks(blocks)
	defer blockSub.Unsubscribe()

	outbound := make(chan *inter.CrossChainMessage, 64)
	outSub := core.Engine.SubscribeOutbound(outbound)
	defer outSub.Unsubscribe()

	if cfg.Preset.Seal || cfg.Validator.Enabled {
		key, err := sealingKey(cfg)
		if err != nil {
			return err
		}
		go sealLoop(ctx, core.Engine, key, cfg.Preset.SealIdle)
		log.WithField("proposer", crypto.PubkeyToAddress(key.PublicKey)).Info("sealing enabled")
	}

	sweep := time.NewTicker(cfg.Rules.Blocks.MaxParentWait)
	defer sweep.Stop()

	log.WithFields(logrus.Fields{
		"network": cfg.Rules.Name,
		"genesis": core.Engine.State().LastHash,
	}).Info("node started")

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		case b := <-blocks:
			log.WithFields(logrus.Fields{
				"height": b.Header.Height,
				"hash":   b.Header.Hash(),
				"txs":    len(b.Txs),
			}).Info("new head")
		case msg := <-outbound:
			go forwardOutbound(ctx, core.Gateway, msg)
		case <-sweep.C:
			core.Engine.SweepBuffer()
			if core.Engine.Halted() {
				log.Error("engine halted on local chain corruption; manual intervention required")
				return consensus.ErrChainCorrupted
			}
		}
	}
}

// forwardOutbound hands a committed outbound message to the gateway, which
// proves it (with backoff retry) and republishes it on the proven feed.
// Failures are logged with their typed error; the feed is best-effort here.
func forwardOutbound(ctx context.Context, gw *interop.Gateway, msg *inter.CrossChainMessage) {
	log := logrus.WithField("module", "outbound")
	meta, ok := gw.Chain(msg.DestChain)
	if !ok {
		log.WithField("chain", msg.DestChain).Error("outbound message dropped: ", interop.ErrUnregisteredChain)
		return
	}
	if err := gw.ForwardOutbound(ctx, msg, meta.ProvingKey); err != nil {
		log.WithField("chain", msg.DestChain).Error("outbound message dropped: ", err)
	}
}

// sealLoop keeps proposing on top of the canonical tip. Most iterations end
// with ErrIneligibleProposer when another validator holds the slot; those
// just wait out the idle period.
func sealLoop(ctx context.Context, en *consensus.Engine, key *ecdsa.PrivateKey, idle time.Duration) {
	log := logrus.WithField("module", "sealer")
	for {
		block, err := en.SealBlock(ctx, key, nil)
		switch {
		case err == nil:
			if perr := en.Process(block); perr != nil {
				// lost the race to a competing candidate at this height
				log.WithField("height", block.Header.Height).Debug("sealed block rejected: ", perr)
			}
		case errors.Is(err, context.Canceled):
			return
		case errors.Is(err, consensus.ErrHalted):
			return
		case errors.Is(err, consensus.ErrSealAborted):
			// a competing block reached the height first; retry on the new tip
		case errors.Is(err, consensus.ErrIneligibleProposer):
			// not our slot
		default:
			log.Debug("sealing attempt failed: ", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(idle):
		}
	}
}
