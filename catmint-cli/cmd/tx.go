package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/bharath-123/cat-mint/mint"
	"github.com/bharath-123/cat-mint/types"
)

func (a *app) txCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "tx <hash>",
		Short: "Look up a transaction by hash.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := a.chain()
			if err != nil {
				return err
			}

			var result *types.BroadcastResult
			if a.conf.Tx.Wait {
				timeout, err := time.ParseDuration(a.conf.Tx.ConfirmationTimeout)
				if err != nil {
					timeout = mint.DefaultConfirmationTimeout
				}
				result, err = chain.WaitForTx(cmd.Context(), args[0], timeout)
				if result == nil {
					return err
				}
				printResult(cmd.OutOrStdout(), result)
				return err
			}

			result, err = chain.QueryTransaction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return result.Err()
		},
	}
	command.Flags().Bool("wait", false, "Poll until the transaction is included in a block")
	command.Flags().String("confirmation-timeout", "", "How long --wait polls, e.g. 1m")
	return command
}
