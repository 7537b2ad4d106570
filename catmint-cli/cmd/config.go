package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bharath-123/cat-mint/conf"
)

func (a *app) configCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file.",
	}

	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the default config file.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipEnsureConfig: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				var err error
				if path, err = conf.DefaultPath(); err != nil {
					return err
				}
			}

			force, _ := cmd.Flags().GetBool("force")
			if force {
				if err := conf.WriteDefault(path); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config file written to %s\n", path)
				return nil
			}

			created, err := conf.EnsureConfigFile(path)
			if err != nil {
				return err
			}
			if !created {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config file already exists at %s\n", path)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config file written to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")

	command.AddCommand(initCmd)
	return command
}
