// Command ec-cache inspects and maintains the cache used by the ec launcher.
//
//	ec-cache info     print where ec is cached and where it comes from
//	ec-cache fetch    download ec into the cache without running it
//	ec-cache evict    remove the cached ec so the next run downloads again
package main

import (
	"io"
	"os"

	"github.com/editorconfig-checker/ec-launcher/internal/config"
	"github.com/editorconfig-checker/ec-launcher/internal/logging"
)

func main() {
	os.Exit(run(newApp(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command tree and returns the process exit code.
func run(a *app, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		debug := a.debugEnabled()
		logging.NewConsole(stderr, debug).Error(config.FormatError(err, debug))
		return 1
	}
	return 0
}
