package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/editorconfig-checker/ec-launcher/internal/launcher"
)

func newFetchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download the pinned ec release into the cache",
		Long: `Download the pinned ec release into the cache without running it.
Nothing is downloaded when the binary is already cached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(cmd)
			if err != nil {
				return err
			}

			plan, result, err := launcher.Acquire(commandContext(cmd), opts)
			if err != nil {
				return err
			}

			if result.CacheHit {
				fmt.Fprintf(cmd.OutOrStdout(), "ec %s already cached at %s\n", plan.Version, result.Path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fetched ec %s to %s\n", plan.Version, result.Path)
			return nil
		},
	}
}
