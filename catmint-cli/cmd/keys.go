package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bharath-123/cat-mint/keys"
	"github.com/bharath-123/cat-mint/logger"
	"github.com/bharath-123/cat-mint/secret"
)

func (a *app) keysCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "keys",
		Short: "Inspect the signing key.",
	}

	command.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Derive the key from the mnemonic and print its address. Does not touch the network.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chain, err := a.chain()
			if err != nil {
				return err
			}
			return secret.WithSecret(cmd.Context(), a.conf.SecretSource(), func(mnemonic string) error {
				key, err := chain.DeriveKey(a.conf.Account.KeyName, mnemonic, a.conf.KeyOptions())
				if err != nil {
					return err
				}
				defer func() {
					if err := key.Close(); err != nil {
						a.log.Warn("failed to delete key from keyring", logger.WithField("key", key.Name()), logger.WithField("error", err))
					}
				}()

				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "Address: %s\n", key.Address())
				_, _ = fmt.Fprintf(out, "Public key: %X\n", key.PubKey().Bytes())
				_, _ = fmt.Fprintf(out, "HD path: %s\n", key.HDPath())
				return nil
			})
		},
	})

	command.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Print a new 24 word mnemonic.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mnemonic, err := keys.GenerateMnemonic()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), mnemonic)
			return nil
		},
	})
	return command
}
