// Package app wires a probing run together: the validated options and
// the logger shared by every stage.
package app

import (
	"fmt"
	"os"
	"time"

	"github.com/apex/log"

	"happy/internal/logx"
	"happy/internal/probe"
	errs "happy/pkg/errors"
)

// Options represents the full run configuration as supplied by the CLI.
type Options struct {
	Ports   []string
	Queries int
	Timeout time.Duration
	Delay   time.Duration
	Sort    bool
	Machine bool
}

// App represents one invocation of the tool.
type App struct {
	Log     log.Interface
	Options Options
}

// New creates a new application instance, validating the options and
// installing a stderr logger at the requested level.
func New(opts Options, logLevel string) (*App, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	if len(opts.Ports) == 0 {
		return nil, errs.ErrNoPorts
	}
	if err := opts.probeOptions().Validate(); err != nil {
		return nil, err
	}

	logger := &log.Logger{
		Level:   level,
		Handler: logx.NewHandler(os.Stderr),
	}

	return &App{
		Log:     logger,
		Options: opts,
	}, nil
}

// ProbeOptions returns the core prober's slice of the configuration.
func (a *App) ProbeOptions() probe.Options {
	return a.Options.probeOptions()
}

func (o Options) probeOptions() probe.Options {
	return probe.Options{
		Queries: o.Queries,
		Timeout: o.Timeout,
		Delay:   o.Delay,
	}
}
