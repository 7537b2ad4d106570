package mint

import (
	"context"
	"errors"
	"time"

	"github.com/bharath-123/cat-mint/catmint"
	"github.com/bharath-123/cat-mint/chainio"
	"github.com/bharath-123/cat-mint/cosmwasm"
	"github.com/bharath-123/cat-mint/iac"
	"github.com/bharath-123/cat-mint/keys"
	"github.com/bharath-123/cat-mint/logger"
	"github.com/bharath-123/cat-mint/metrics"
	"github.com/bharath-123/cat-mint/secret"
	"github.com/bharath-123/cat-mint/types"
)

const (
	DefaultContract            = "terra13jxycsgusne8rgzp4r2ua3n3qg0l5cufcrnxrl"
	DefaultFunds               = "100000uluna"
	DefaultConfirmationTimeout = time.Minute
)

// Config is everything one run needs besides the mnemonic.
type Config struct {
	Client              types.ClientConfig
	Key                 keys.Options
	KeyName             string
	Execute             cosmwasm.ExecuteOptions
	Wait                bool
	ConfirmationTimeout time.Duration
	CheckPrice          bool // CheckPrice: warn when Execute.Funds are below the contract's mint price
}

// DefaultConfig mints one cat on columbus-5 through fcd.terra.dev.
func DefaultConfig() Config {
	return Config{
		Client:  types.DefaultClientConfig(),
		Key:     keys.DefaultOptions(),
		KeyName: types.DefaultKeyringServiceName,
		Execute: cosmwasm.DefaultExecuteOptions().
			WithContractAddr(DefaultContract).
			WithExecuteMsg(catmint.MintCatMsg()).
			WithFunds(DefaultFunds),
		ConfirmationTimeout: DefaultConfirmationTimeout,
	}
}

// Deps are the collaborators of a run. Only Secret is required.
type Deps struct {
	Secret       secret.Source
	Logger       logger.Logger
	Indicators   metrics.Indicators
	Publisher    iac.Publisher
	ChainOptions []chainio.Option
}

// Run derives the key from deps.Secret and submits cfg.Execute once. The
// mnemonic and the derived key are gone when Run returns.
func Run(ctx context.Context, cfg Config, deps Deps) (*types.BroadcastResult, error) {
	log := deps.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	indicators := deps.Indicators
	if indicators == nil {
		indicators = metrics.NoopIndicators{}
	}

	chainOpts := append([]chainio.Option{chainio.WithLogger(log)}, deps.ChainOptions...)
	chain, err := chainio.NewChainIO(cfg.Client, chainOpts...)
	if err != nil {
		return nil, err
	}

	var (
		sender  string
		result  *types.BroadcastResult
		entered bool
	)
	err = secret.WithSecret(ctx, deps.Secret, func(mnemonic string) error {
		entered = true
		key, err := chain.DeriveKey(cfg.KeyName, mnemonic, cfg.Key)
		if err != nil {
			return err
		}
		defer func() {
			if err := key.Close(); err != nil {
				log.Warn("failed to delete key from keyring", logger.WithField("key", key.Name()), logger.WithField("error", err))
			}
		}()

		w, err := chain.Wallet(key)
		if err != nil {
			return err
		}
		sender = w.Address()
		log.Info("wallet ready",
			logger.WithField("address", sender),
			logger.WithField("hd_path", key.HDPath()),
			logger.WithField("chain_id", cfg.Client.ChainID))

		if cfg.CheckPrice {
			checkMintFunds(ctx, chain, cfg.Execute, log)
		}

		result, err = Execute(ctx,
			instrumentedAuthor{TxAuthor: w, indicators: indicators},
			instrumentedBroadcaster{Broadcaster: chain, indicators: indicators},
			cfg.Execute)
		return err
	})
	if err != nil && !entered {
		err = types.KeyDerivationError("load mnemonic", err)
	}

	if result != nil && deps.Publisher != nil {
		ev := iac.NewResultEvent(cfg.Client.ChainID, sender, cfg.Execute.ContractAddr, result, time.Now())
		if pubErr := deps.Publisher.Publish(ctx, ev); pubErr != nil {
			log.Warn("failed to publish result", logger.WithField("tx_hash", result.TxHash), logger.WithField("error", pubErr))
		}
	}

	if err != nil || !cfg.Wait {
		indicators.IncrementProcessedTxsTotal(txState(err))
		if err != nil {
			log.Error("contract execution failed", logger.WithField("error", err))
		}
		return result, err
	}

	timeout := cfg.ConfirmationTimeout
	if timeout <= 0 {
		timeout = DefaultConfirmationTimeout
	}
	start := time.Now()
	confirmed, err := chain.WaitForTx(ctx, result.TxHash, timeout)
	indicators.IncrementProcessedTxsTotal(txState(err))
	if err != nil {
		if confirmed != nil {
			return confirmed, err
		}
		return result, err
	}
	indicators.ObserveConfirmationLatencyMs(time.Since(start).Milliseconds())
	log.Info("transaction confirmed", logger.WithField("tx_hash", confirmed.TxHash), logger.WithField("height", confirmed.Height))
	return confirmed, nil
}

// IsNoSecret reports whether err means no mnemonic could be found.
func IsNoSecret(err error) bool {
	return errors.Is(err, secret.ErrNoSecret)
}
