package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bharath-123/cat-mint/chainio"
	"github.com/bharath-123/cat-mint/conf"
	"github.com/bharath-123/cat-mint/logger"
)

// skipEnsureConfig marks commands that must not create the default config file.
const skipEnsureConfig = "skip-ensure-config"

// flagKeys binds command line flags to config keys. A flag only overrides the
// config file and environment when it is set.
var flagKeys = map[string]string{
	"node":                 "chain.lcd",
	"chain-id":             "chain.id",
	"gas-prices":           "chain.gas_prices",
	"log-level":            "log.level",
	"log-format":           "log.format",
	"mnemonic-env":         "account.mnemonic_env",
	"mnemonic-file":        "account.mnemonic_file",
	"prompt":               "account.prompt",
	"key-name":             "account.key_name",
	"contract":             "contract.cat_mint",
	"funds":                "tx.funds",
	"memo":                 "tx.memo",
	"fees":                 "tx.fees",
	"gas":                  "tx.gas",
	"gas-adjustment":       "tx.gas_adjustment",
	"fee-denoms":           "tx.fee_denoms",
	"wait":                 "tx.wait",
	"check-price":          "tx.check_price",
	"confirmation-timeout": "tx.confirmation_timeout",
	"pushgateway":          "metrics.pushgateway",
	"brokers":              "publisher.brokers",
	"topic":                "publisher.topic",
}

type app struct {
	v    *viper.Viper
	conf *conf.Conf
	log  logger.Logger

	closeOnce sync.Once
	closers   []func() error
}

func newApp() *app {
	return &app{v: conf.NewViper(), log: logger.NewNopLogger()}
}

// RootCmd builds the catmint command tree with a fresh configuration.
func RootCmd() *cobra.Command {
	return newApp().rootCmd()
}

// Execute runs the command line against ctx and releases the loggers it opened.
func Execute(ctx context.Context) error {
	a := newApp()
	err := a.rootCmd().ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "catmint",
		Short:         "Mint cats on Terra Classic through the cat-mint contract.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to the config file, defaults to $CATMINT_CONFIG or ~/.config/catmint/config.toml")
	flags.String("node", "", "LCD endpoint, e.g. https://fcd.terra.dev")
	flags.String("chain-id", "", "Chain id of the network, e.g. columbus-5")
	flags.String("gas-prices", "", "Gas prices used to compute the fee, e.g. 0.35uusd")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: console or json")
	flags.String("mnemonic-env", "", "Environment variable holding the mnemonic, e.g. CATMINT_MNEMONIC")
	flags.String("mnemonic-file", "", "File holding the mnemonic, must not be readable by group or others")
	flags.Bool("prompt", false, "Ask for the mnemonic on the terminal")
	flags.String("key-name", "", "Name of the in-memory key")
	flags.String("contract", "", "Address of the cat-mint contract")

	rootCmd.AddCommand(a.mintCmd())
	rootCmd.AddCommand(a.executeCmd())
	rootCmd.AddCommand(a.updateConfigCmd())
	rootCmd.AddCommand(a.queryCmd())
	rootCmd.AddCommand(a.keysCmd())
	rootCmd.AddCommand(a.txCmd())
	rootCmd.AddCommand(a.chainCmd())
	rootCmd.AddCommand(a.configCmd())
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	path, err := a.configPath(cmd)
	if err != nil {
		return err
	}
	c, err := conf.Load(a.v, path)
	if err != nil {
		return err
	}
	a.conf = c

	if c.Log.Logstash != "" {
		elk, err := logger.NewELKLogger("catmint", c.Log.Logstash)
		if err != nil {
			return err
		}
		elk.SetLogLevel(c.Log.Level)
		a.log = elk
		a.closers = append(a.closers, elk.Close)
		return nil
	}
	zl := logger.NewZapLogger(c.Log.Level, c.Log.Format)
	a.log = zl
	a.closers = append(a.closers, func() error {
		_ = zl.Sync()
		return nil
	})
	return nil
}

// configPath returns the --config flag, or the default location after making
// sure a default file exists there.
func (a *app) configPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	path, err := conf.DefaultPath()
	if err != nil {
		return "", err
	}
	if _, ok := cmd.Annotations[skipEnsureConfig]; ok {
		return path, nil
	}
	if _, err := conf.EnsureConfigFile(path); err != nil {
		return "", fmt.Errorf("error creating config file: %w", err)
	}
	return path, nil
}

func (a *app) close() error {
	var err error
	a.closeOnce.Do(func() {
		for _, c := range a.closers {
			err = errors.Join(err, c())
		}
	})
	return err
}

// chain is a client for read-only commands.
func (a *app) chain() (*chainio.ChainIO, error) {
	cfg, err := a.conf.ClientConfig()
	if err != nil {
		return nil, err
	}
	return chainio.NewChainIO(cfg, chainio.WithLogger(a.log))
}
