package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/editorconfig-checker/ec-launcher/internal/launcher"
	"github.com/editorconfig-checker/ec-launcher/internal/logging"
	"github.com/editorconfig-checker/ec-launcher/internal/platform"
	"github.com/editorconfig-checker/ec-launcher/internal/version"
)

// app holds what the commands need from the process. Tests replace parts
// of it.
type app struct {
	executable func() (string, error)
	detector   platform.Detector

	// set by flags
	dir   string
	debug bool
}

func newApp() *app {
	return &app{executable: os.Executable}
}

// newRootCmd builds the command tree. Output goes to the command's
// configured streams so tests can capture it.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "ec-cache",
		Short:         "Inspect and maintain the ec launcher cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.dir, "dir", "", "cache directory (default: directory of this executable)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(newInfoCmd(a), newFetchCmd(a), newEvictCmd(a))

	return root
}

func (a *app) logger(cmd *cobra.Command) *logging.Console {
	return logging.NewConsole(cmd.ErrOrStderr(), a.debugEnabled())
}

// debugEnabled reports whether --debug or EC_LAUNCHER_DEBUG asks for debug
// output.
func (a *app) debugEnabled() bool {
	envDebug, _ := strconv.ParseBool(os.Getenv("EC_LAUNCHER_DEBUG"))
	return a.debug || envDebug
}

// options returns the launcher options matching the flags.
func (a *app) options(cmd *cobra.Command) (launcher.Options, error) {
	exe, err := a.launcherPath()
	if err != nil {
		return launcher.Options{}, err
	}

	return launcher.Options{
		Version:    version.Pinned,
		Executable: exe,
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
		Detector:   a.detector,
		Logger:     a.logger(cmd),
	}, nil
}

// launcherPath returns a path whose directory is the cache base: the --dir
// value, or this executable, which is installed beside ec.
func (a *app) launcherPath() (string, error) {
	if a.dir != "" {
		dir, err := filepath.Abs(a.dir)
		if err != nil {
			return "", fmt.Errorf("resolve --dir: %w", err)
		}
		return filepath.Join(dir, "ec"), nil
	}

	exe, err := a.executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return exe, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
