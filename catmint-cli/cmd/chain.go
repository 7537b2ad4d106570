package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) chainCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "chain",
		Short: "Inspect the network behind the LCD endpoint.",
	}

	command.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the node's network and versions, failing if the chain id does not match.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chain, err := a.chain()
			if err != nil {
				return err
			}
			info, err := chain.QueryNodeInfo(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Network: %s\n", info.Network)
			_, _ = fmt.Fprintf(out, "Moniker: %s\n", info.Moniker)
			_, _ = fmt.Fprintf(out, "Node version: %s\n", info.NodeVersion)
			_, _ = fmt.Fprintf(out, "App: %s %s\n", info.AppName, info.AppVersion)
			_, _ = fmt.Fprintf(out, "Cosmos SDK: %s\n", info.CosmosSDKVersion)

			if info.Network != a.conf.Chain.ID {
				return fmt.Errorf("node is on %s, configured chain id is %s", info.Network, a.conf.Chain.ID)
			}
			return nil
		},
	})
	return command
}
