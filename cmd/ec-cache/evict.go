package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/editorconfig-checker/ec-launcher/internal/binary"
	"github.com/editorconfig-checker/ec-launcher/internal/launcher"
)

func newEvictCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "evict",
		Short: "Remove the cached ec binary",
		Long: `Remove the cached ec binary and any leftover download.
The next launch downloads the pinned release again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(cmd)
			if err != nil {
				return err
			}

			plan, err := launcher.Prepare(commandContext(cmd), opts)
			if err != nil {
				return err
			}

			if err := binary.NewManager(binary.Config{Logger: opts.Logger}).Evict(plan.Paths); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "evicted %s\n", plan.Paths.BinaryPath)
			return nil
		},
	}
}
