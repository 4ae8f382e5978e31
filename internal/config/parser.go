package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/editorconfig-checker/ec-launcher/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Parser evaluates launcher config files with the platform table injected.
type Parser struct {
	info     *platform.Info
	defaults Config
}

// NewParser creates a parser. info may be nil, in which case no platform
// table is available to the config. defaults supplies the value of every
// field the config does not set.
func NewParser(info *platform.Info, defaults *Config) *Parser {
	return &Parser{info: info, defaults: *defaults}
}

// ParseFile reads and evaluates the config at path. A missing file is not an
// error: the defaults are returned and found is false.
func (p *Parser) ParseFile(ctx context.Context, path string) (cfg *Config, found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := p.defaults
			return &cfg, false, nil
		}
		return nil, false, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxConfigSize+1))
	if err != nil {
		return nil, true, fmt.Errorf("read config: %w", err)
	}
	if len(data) > maxConfigSize {
		return nil, true, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s exceeds %d bytes", path, maxConfigSize),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, ParseTimeout)
	defer cancel()

	cfg, err = p.ParseString(ctx, string(data))
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// ParseString evaluates Lua code and extracts the launcher table.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ParseError{Message: "config evaluation aborted", Detail: err.Error(), Err: err}
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.info != nil {
		if err := platform.InjectPlatformTable(L, p.info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		// The VM reports cancellation as a plain Lua error
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ParseError{Message: "config evaluation aborted", Detail: err.Error(), Err: ctxErr}
		}
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return p.extractConfig(L)
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
	Err     error  // Underlying cause, if any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// extractConfig reads the global "launcher" table over a copy of the
// defaults.
func (p *Parser) extractConfig(L *lua.LState) (*Config, error) {
	launcherTable := L.GetGlobal(luaGlobalLauncher)
	if launcherTable.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'launcher' table",
			Detail:  fmt.Sprintf("expected table, got %s", launcherTable.Type()),
		}
	}

	cfg := p.defaults
	table := launcherTable.(*lua.LTable)

	if err := checkFields(table); err != nil {
		return nil, err
	}

	if v := table.RawGetString(luaFieldRelease); v != lua.LNil {
		s, err := stringField(luaFieldRelease, v)
		if err != nil {
			return nil, err
		}
		cfg.ReleaseURL = s
	}

	if v := table.RawGetString(luaFieldUserAgent); v != lua.LNil {
		s, err := stringField(luaFieldUserAgent, v)
		if err != nil {
			return nil, err
		}
		cfg.UserAgent = s
	}

	if v := table.RawGetString(luaFieldDebug); v != lua.LNil {
		b, ok := v.(lua.LBool)
		if !ok {
			return nil, &ParseError{
				Message: "invalid field type",
				Detail:  fmt.Sprintf("%s: expected boolean, got %s", luaFieldDebug, v.Type()),
			}
		}
		cfg.Debug = bool(b)
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return &cfg, nil
}

// checkFields rejects keys the launcher does not know, so a typo does not
// silently fall back to a default.
func checkFields(table *lua.LTable) error {
	var unknown []string
	table.ForEach(func(key, _ lua.LValue) {
		switch key.String() {
		case luaFieldRelease, luaFieldUserAgent, luaFieldDebug:
		default:
			unknown = append(unknown, key.String())
		}
	})
	if len(unknown) == 0 {
		return nil
	}

	sort.Strings(unknown)
	return &ParseError{
		Message: "unknown field in 'launcher' table",
		Detail:  strings.Join(unknown, ", "),
	}
}

func stringField(name string, v lua.LValue) (string, error) {
	s, ok := v.(lua.LString)
	if !ok {
		return "", &ParseError{
			Message: "invalid field type",
			Detail:  fmt.Sprintf("%s: expected string, got %s", name, v.Type()),
		}
	}
	return string(s), nil
}

// FormatError formats err for user display. When err wraps a *ParseError
// and verbose is false, the Lua stack traceback is cut off; the context added
// by callers is kept. In verbose mode the parse error's details are appended.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		return err.Error()
	}

	msg := err.Error()
	if verbose {
		if parseErr.Detail == "" {
			return msg
		}
		if idx := strings.Index(msg, parseErr.Detail); idx >= 0 {
			msg = strings.TrimSpace(msg[:idx])
			msg = strings.TrimSuffix(msg, ":")
		}
		return fmt.Sprintf("%s\n\nDetails:\n%s", msg, parseErr.Detail)
	}

	if idx := strings.Index(msg, "stack traceback"); idx > 0 {
		msg = strings.TrimSpace(msg[:idx])
	}
	return msg
}
