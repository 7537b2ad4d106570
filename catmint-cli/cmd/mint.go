package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/bharath-123/cat-mint/catmint"
	"github.com/bharath-123/cat-mint/iac"
	"github.com/bharath-123/cat-mint/logger"
	"github.com/bharath-123/cat-mint/metrics"
	"github.com/bharath-123/cat-mint/mint"
	"github.com/bharath-123/cat-mint/types"
)

func (a *app) mintCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "mint",
		Short: "Mint one cat, paying --funds to the cat-mint contract.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.conf.MintConfig()
			if err != nil {
				return err
			}
			return a.submit(cmd, cfg)
		},
	}
	txFlags(command, "Coins sent with mint_cat, e.g. 100000uluna")
	command.Flags().Bool("check-price", true, "Warn when --funds are below the contract's current mint price")
	return command
}

func (a *app) executeCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "execute <json-msg>",
		Short: "Execute an arbitrary message on the cat-mint contract.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !json.Valid([]byte(args[0])) {
				return fmt.Errorf("execute msg is not valid JSON: %s", args[0])
			}
			cfg, err := a.executeConfig(cmd, json.RawMessage(args[0]))
			if err != nil {
				return err
			}
			return a.submit(cmd, cfg)
		},
	}
	txFlags(command, "Coins sent with the message, none unless set")
	return command
}

func (a *app) updateConfigCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "update-config <cat-token-contract>",
		Short: "Point the cat-mint contract at a new cat token contract. Owner only.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.executeConfig(cmd, catmint.UpdateConfigMsg(args[0]))
			if err != nil {
				return err
			}
			return a.submit(cmd, cfg)
		},
	}
	txFlags(command, "Coins sent with the message, none unless set")
	return command
}

func txFlags(command *cobra.Command, fundsUsage string) {
	flags := command.Flags()
	flags.String("funds", "", fundsUsage)
	flags.String("memo", "", "Transaction memo")
	flags.String("fees", "", "Fixed fee, e.g. 70000uusd, skips pricing by gas prices")
	flags.Uint64("gas", 0, "Gas limit, simulated when 0")
	flags.Float64("gas-adjustment", 0, "Multiplier applied to simulated gas")
	flags.StringSlice("fee-denoms", nil, "Only pay the fee in these denoms")
	flags.Bool("wait", false, "Wait until the transaction is included in a block")
	flags.String("confirmation-timeout", "", "How long --wait waits, e.g. 1m")
	flags.String("pushgateway", "", "Prometheus pushgateway url to push run metrics to")
	flags.StringSlice("brokers", nil, "Kafka brokers to publish the result to")
	flags.String("topic", "", "Kafka topic of published results")
}

// executeConfig replaces the mint_cat message with msg. Funds configured for
// minting are only sent when --funds is given.
func (a *app) executeConfig(cmd *cobra.Command, msg any) (mint.Config, error) {
	cfg, err := a.conf.MintConfig()
	if err != nil {
		return mint.Config{}, err
	}
	funds := ""
	if cmd.Flags().Changed("funds") {
		funds = a.conf.Tx.Funds
	}
	cfg.Execute = cfg.Execute.WithExecuteMsg(msg).WithFunds(funds)
	cfg.CheckPrice = false
	if err := cfg.Execute.Err(); err != nil {
		return mint.Config{}, err
	}
	return cfg, nil
}

func (a *app) submit(cmd *cobra.Command, cfg mint.Config) error {
	ctx := cmd.Context()
	deps := mint.Deps{Secret: a.conf.SecretSource(), Logger: a.log}

	registry := prometheus.NewRegistry()
	if a.conf.Metrics.Pushgateway != "" {
		deps.Indicators = metrics.NewPromIndicators(registry, "cli")
	}
	if len(a.conf.Publisher.Brokers) > 0 {
		publisher, err := iac.NewPublisher(a.conf.Publisher.Brokers, a.conf.Publisher.Topic)
		if err != nil {
			return err
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				a.log.Warn("failed to close publisher", logger.WithField("error", err))
			}
		}()
		deps.Publisher = publisher
	}

	result, err := mint.Run(ctx, cfg, deps)
	if result != nil {
		printResult(cmd.OutOrStdout(), result)
	}

	if a.conf.Metrics.Pushgateway != "" {
		if pushErr := metrics.Push(ctx, a.conf.Metrics.Pushgateway, a.conf.Metrics.Job, registry); pushErr != nil {
			a.log.Warn("failed to push metrics", logger.WithField("error", pushErr))
		}
	}

	if mint.IsNoSecret(err) {
		return fmt.Errorf("%w: set $%s, --mnemonic-file or --prompt", err, a.conf.Account.MnemonicEnv)
	}
	return err
}

func printResult(w io.Writer, result *types.BroadcastResult) {
	_, _ = fmt.Fprintf(w, "Transaction hash: %s\n", result.TxHash)
	_, _ = fmt.Fprintf(w, "Code: %d\n", result.Code)
	if result.Height > 0 {
		_, _ = fmt.Fprintf(w, "Height: %d\n", result.Height)
	}
	if result.GasWanted > 0 || result.GasUsed > 0 {
		_, _ = fmt.Fprintf(w, "Gas (used/wanted): %d/%d\n", result.GasUsed, result.GasWanted)
	}
	if !result.Succeeded() {
		_, _ = fmt.Fprintf(w, "Raw log: %s\n", result.RawLog)
	}
}
