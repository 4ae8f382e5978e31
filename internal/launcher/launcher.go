// Package launcher wires the launch pipeline together: identify the host,
// locate the cache, name the artifact, acquire it when missing and hand
// control to it.
package launcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/editorconfig-checker/ec-launcher/internal/binary"
	"github.com/editorconfig-checker/ec-launcher/internal/config"
	"github.com/editorconfig-checker/ec-launcher/internal/delegate"
	"github.com/editorconfig-checker/ec-launcher/internal/logging"
	"github.com/editorconfig-checker/ec-launcher/internal/platform"
	"github.com/editorconfig-checker/ec-launcher/internal/version"
)

// Options carries the process-wide inputs of a launch. Only cmd/ reads them
// from the real process.
type Options struct {
	// Version is the pinned ec release.
	Version string
	// Args are forwarded to the delegate unmodified.
	Args []string
	// Executable is the path of the running launcher. The cache lives in
	// its directory.
	Executable string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Env is the delegate's environment. nil inherits the launcher's.
	Env []string

	// Detector reports the host platform (default: platform.NewDetector()).
	Detector platform.Detector
	// HTTPClient is used for the download (default: no timeout).
	HTTPClient *http.Client
	// Logger receives diagnostics (default: discard). If it has a
	// SetDebug(bool) method, the config file's debug setting is applied.
	Logger logging.Logger
	// OnStage, if set, is called on every stage transition.
	OnStage func(Stage)
}

// Plan is everything derived before acquisition. All of it is recomputed on
// every run; nothing is persisted.
type Plan struct {
	Version     string
	Info        *platform.Info
	Name        binary.ArtifactName
	Paths       binary.CachePaths
	URL         string
	Config      *config.Config
	ConfigFound bool
}

// ConfigPath returns where the optional config file is looked up.
func (p *Plan) ConfigPath() string {
	return filepath.Join(p.Paths.Base, config.FileName)
}

type debugSetter interface {
	SetDebug(bool)
}

type pipeline struct {
	opts   Options
	logger logging.Logger
	stage  Stage
}

func newPipeline(opts Options) *pipeline {
	if opts.Detector == nil {
		opts.Detector = platform.NewDetector()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &pipeline{opts: opts, logger: logger, stage: StageStart}
}

func (p *pipeline) enter(s Stage) {
	p.logger.Debug("stage", "from", p.stage, "to", s)
	p.stage = s
	if p.opts.OnStage != nil {
		p.opts.OnStage(s)
	}
}

// fail records err against the current stage and terminates the pipeline.
func (p *pipeline) fail(err error) error {
	stageErr := &StageError{Stage: p.stage, Err: err}
	p.enter(StageTerminated)
	return stageErr
}

// Prepare runs the stages up to and including Located and returns the plan
// without touching the network.
func Prepare(ctx context.Context, opts Options) (*Plan, error) {
	p := newPipeline(opts)
	plan, err := p.prepare(ctx)
	if err != nil {
		return nil, p.fail(err)
	}
	return plan, nil
}

// Acquire prepares the plan and makes sure the binary is cached, without
// running it.
func Acquire(ctx context.Context, opts Options) (*Plan, *binary.Result, error) {
	p := newPipeline(opts)
	plan, err := p.prepare(ctx)
	if err != nil {
		return nil, nil, p.fail(err)
	}
	result, err := p.acquire(ctx, plan)
	if err != nil {
		return plan, nil, p.fail(err)
	}
	return plan, result, nil
}

// Run executes the whole pipeline and returns the exit code the launcher
// should terminate with. On error the code is delegate.FallbackExitCode and
// the error is a *StageError.
func Run(ctx context.Context, opts Options) (int, error) {
	p := newPipeline(opts)

	plan, err := p.prepare(ctx)
	if err != nil {
		return delegate.FallbackExitCode, p.fail(err)
	}

	result, err := p.acquire(ctx, plan)
	if err != nil {
		return delegate.FallbackExitCode, p.fail(err)
	}

	p.enter(StageDelegating)
	executor := &delegate.Executor{
		Stdin:  opts.Stdin,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
		Env:    opts.Env,
		Logger: p.logger,
	}
	outcome, err := executor.Run(ctx, result.Path, opts.Args)
	if err != nil {
		return delegate.FallbackExitCode, p.fail(err)
	}

	p.enter(StageTerminated)
	return outcome.ExitCode, nil
}

func (p *pipeline) prepare(ctx context.Context) (*Plan, error) {
	if err := version.Validate(p.opts.Version); err != nil {
		return nil, err
	}

	info, err := p.opts.Detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("identify platform: %w", err)
	}
	p.enter(StageIdentified)
	p.logger.Debug("platform identified", "os", info.OS, "arch", info.Arch, "os_raw", info.OSRaw, "arch_raw", info.ArchRaw)

	base, err := binary.ResolveBase(p.opts.Executable)
	if err != nil {
		return nil, err
	}

	parser := config.NewParser(info, config.Default(binary.ReleaseURL, binary.DefaultUserAgent))
	cfg, found, err := parser.ParseFile(ctx, filepath.Join(base, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", config.FileName, err)
	}
	if cfg.Debug {
		if s, ok := p.logger.(debugSetter); ok {
			s.SetDebug(true)
		}
	}

	name := binary.Name(info.OS, info.Arch)
	plan := &Plan{
		Version:     p.opts.Version,
		Info:        info,
		Name:        name,
		Paths:       binary.DerivePaths(base, name),
		URL:         binary.DownloadURL(cfg.ReleaseURL, p.opts.Version, name),
		Config:      cfg,
		ConfigFound: found,
	}
	p.enter(StageLocated)
	p.logger.Debug("cache located", "base", base, "artifact", name, "config", found)

	return plan, nil
}

func (p *pipeline) acquire(ctx context.Context, plan *Plan) (*binary.Result, error) {
	mgr := binary.NewManager(binary.Config{
		Client:    p.opts.HTTPClient,
		UserAgent: plan.Config.UserAgent,
		Logger:    p.logger,
		Progress: func(s binary.Step) {
			switch s {
			case binary.StepDownloading:
				p.enter(StageDownloading)
			case binary.StepDownloaded:
				p.enter(StageDownloaded)
			case binary.StepUnpacking:
				p.enter(StageUnpacking)
			case binary.StepUnpacked:
				p.enter(StageUnpacked)
			}
		},
	})

	result, err := mgr.EnsureCached(ctx, plan.Paths, plan.URL)
	if err != nil {
		return nil, err
	}
	if result.CacheHit {
		p.enter(StageCacheHit)
	} else {
		p.logger.Info("installed ec", "version", plan.Version, "path", result.Path, "took", result.DownloadTime.Round(time.Millisecond))
	}
	return result, nil
}
