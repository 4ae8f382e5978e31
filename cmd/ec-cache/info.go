package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/editorconfig-checker/ec-launcher/internal/binary"
	"github.com/editorconfig-checker/ec-launcher/internal/launcher"
)

// cacheInfo is the document printed by `ec-cache info`.
type cacheInfo struct {
	Version  string `yaml:"version"`
	OS       string `yaml:"os"`
	Arch     string `yaml:"arch"`
	Artifact string `yaml:"artifact"`
	URL      string `yaml:"url"`
	Base     string `yaml:"base"`
	Archive  string `yaml:"archive"`
	Binary   string `yaml:"binary"`
	Config   string `yaml:"config,omitempty"`
	Cached   bool   `yaml:"cached"`
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the resolved platform, artifact and cache paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(cmd)
			if err != nil {
				return err
			}

			plan, err := launcher.Prepare(commandContext(cmd), opts)
			if err != nil {
				return err
			}

			cached, err := binary.NewManager(binary.Config{Logger: opts.Logger}).IsInstalled(plan.Paths)
			if err != nil {
				return err
			}

			info := cacheInfo{
				Version:  plan.Version,
				OS:       plan.Info.OS.Tag(),
				Arch:     plan.Info.Arch.Tag(),
				Artifact: plan.Name.String(),
				URL:      plan.URL,
				Base:     plan.Paths.Base,
				Archive:  plan.Paths.ArchivePath,
				Binary:   plan.Paths.BinaryPath,
				Cached:   cached,
			}
			if plan.ConfigFound {
				info.Config = plan.ConfigPath()
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(info); err != nil {
				return fmt.Errorf("encode info: %w", err)
			}
			return enc.Close()
		},
	}
}
