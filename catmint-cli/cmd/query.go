package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bharath-123/cat-mint/catmint"
	"github.com/bharath-123/cat-mint/cosmwasm"
)

func (a *app) queryCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "query",
		Short: "Query the cat-mint contract.",
	}

	command.AddCommand(&cobra.Command{
		Use:   "state",
		Short: "Print the contract state.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := a.queryState(cmd)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	})

	command.AddCommand(&cobra.Command{
		Use:   "price",
		Short: "Print the funds mint_cat currently requires.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := a.queryState(cmd)
			if err != nil {
				return err
			}
			genesis, err := state.GenesisTimestamp.Time()
			if err != nil {
				return err
			}
			price, err := catmint.MintPrice(genesis, time.Now())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Genesis: %s\n", genesis.Format(time.RFC3339))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Mint price: %s\n", price)
			return nil
		},
	})
	return command
}

func (a *app) queryState(cmd *cobra.Command) (*catmint.State, error) {
	chain, err := a.chain()
	if err != nil {
		return nil, err
	}
	resp, err := cosmwasm.Query[catmint.StateResponse](cmd.Context(), chain, a.conf.Contract.CatMint, catmint.GetStateQuery())
	if err != nil {
		return nil, err
	}
	if resp.State == nil {
		return nil, errors.New("contract state is not initialised")
	}
	return resp.State, nil
}
