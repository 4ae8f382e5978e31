// Command ec runs the editorconfig-checker release pinned at build time,
// downloading it next to this executable on first use. Every argument is
// passed through to it.
package main

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/editorconfig-checker/ec-launcher/internal/config"
	"github.com/editorconfig-checker/ec-launcher/internal/delegate"
	"github.com/editorconfig-checker/ec-launcher/internal/launcher"
	"github.com/editorconfig-checker/ec-launcher/internal/logging"
	"github.com/editorconfig-checker/ec-launcher/internal/version"
)

func main() {
	// On failure exe is empty and the launcher reports an unresolvable base
	exe, _ := os.Executable()

	os.Exit(run(context.Background(), exe, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run launches the delegate and returns the process exit code.
func run(ctx context.Context, exe string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	debug := debugFromEnv()
	logger := logging.NewConsole(stderr, debug)

	code, err := launcher.Run(ctx, launcher.Options{
		Version:    version.Pinned,
		Args:       args,
		Executable: exe,
		Stdin:      stdin,
		Stdout:     stdout,
		Stderr:     stderr,
		Logger:     logger,
	})
	if err != nil {
		logger.Error(config.FormatError(err, debug))
		return delegate.FallbackExitCode
	}
	return code
}

// debugFromEnv reports whether EC_LAUNCHER_DEBUG holds a true value.
func debugFromEnv() bool {
	debug, err := strconv.ParseBool(os.Getenv("EC_LAUNCHER_DEBUG"))
	return err == nil && debug
}
