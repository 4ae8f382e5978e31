// Package logging provides the leveled key/value logger used across the
// launcher. Every line goes to stderr; stdout belongs to the delegate.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Logger provides structured logging.
// This interface allows callers to plug in their own logging implementation.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})

	// Warn logs warning-level messages with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})
}

// noopLogger is a Logger implementation that does nothing.
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Error(msg string, keysAndValues ...interface{}) {}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &noopLogger{}
}

// Console writes colored "level: msg key=value" lines.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	debug bool

	debugColor *color.Color
	infoColor  *color.Color
	warnColor  *color.Color
	errorColor *color.Color
}

// NewConsole creates a console logger writing to out. Debug lines are
// dropped unless debug is true. Lines are colored only when out itself is
// a terminal.
func NewConsole(out io.Writer, debug bool) *Console {
	c := &Console{
		out:        out,
		debug:      debug,
		debugColor: color.New(color.FgCyan),
		infoColor:  color.New(color.FgGreen),
		warnColor:  color.New(color.FgHiMagenta),
		errorColor: color.New(color.FgRed),
	}

	colored := shouldColor(out)
	if colored {
		// Translates escape sequences on Windows consoles.
		c.out = colorable.NewColorable(out.(*os.File))
	}
	for _, col := range []*color.Color{c.debugColor, c.infoColor, c.warnColor, c.errorColor} {
		if colored {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}

	return c
}

// shouldColor reports whether out is a terminal that accepts color.
// color.NoColor cannot be used here: it describes stdout, and the logger
// writes to stderr.
func shouldColor(out io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetDebug toggles debug output. The launcher only learns whether debug is
// wanted after it has read its config file.
func (c *Console) SetDebug(debug bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debug = debug
}

// Debug logs msg when debug output is enabled.
func (c *Console) Debug(msg string, keysAndValues ...interface{}) {
	c.mu.Lock()
	enabled := c.debug
	c.mu.Unlock()
	if !enabled {
		return
	}
	c.write(c.debugColor, "debug", msg, keysAndValues)
}

// Info logs msg with keysAndValues.
func (c *Console) Info(msg string, keysAndValues ...interface{}) {
	c.write(c.infoColor, "info", msg, keysAndValues)
}

// Warn logs msg with keysAndValues.
func (c *Console) Warn(msg string, keysAndValues ...interface{}) {
	c.write(c.warnColor, "warn", msg, keysAndValues)
}

// Error logs msg with keysAndValues.
func (c *Console) Error(msg string, keysAndValues ...interface{}) {
	c.write(c.errorColor, "error", msg, keysAndValues)
}

func (c *Console) write(col *color.Color, level, msg string, keysAndValues []interface{}) {
	line := level + ": " + msg + formatPairs(keysAndValues)

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = col.Fprintln(c.out, line)
}

// formatPairs renders key/value pairs as " k=v k2=v2". A trailing key
// without a value is printed as "k=<missing>".
func formatPairs(keysAndValues []interface{}) string {
	if len(keysAndValues) == 0 {
		return ""
	}

	var b strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		b.WriteByte(' ')
		fmt.Fprint(&b, keysAndValues[i])
		b.WriteByte('=')
		if i+1 < len(keysAndValues) {
			b.WriteString(formatValue(keysAndValues[i+1]))
		} else {
			b.WriteString("<missing>")
		}
	}
	return b.String()
}

func formatValue(v interface{}) string {
	s := fmt.Sprint(v)
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
