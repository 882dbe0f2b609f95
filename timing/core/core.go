// Package core provides the high-level simulation facade.
// It wraps the program loader and the cycle scheduler behind one interface.
package core

import (
	"fmt"
	"io"

	"github.com/sarchlab/pipesim/loader"
	"github.com/sarchlab/pipesim/timing/latency"
	"github.com/sarchlab/pipesim/timing/pipeline"
)

// Core reads programs and schedules them through the pipeline model.
type Core struct {
	scheduler *pipeline.Scheduler
	schedule  *pipeline.Schedule
}

// Option configures a Core.
type Option func(*coreConfig)

type coreConfig struct {
	timing *latency.Config
}

// WithConfig sets the stage-timing configuration.
func WithConfig(c *latency.Config) Option {
	return func(cfg *coreConfig) {
		cfg.timing = c
	}
}

// New creates a Core. Without options it uses the default stage timing.
func New(opts ...Option) (*Core, error) {
	cfg := &coreConfig{
		timing: latency.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.timing.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timing config: %w", err)
	}

	table := latency.NewTableWithConfig(cfg.timing)
	return &Core{
		scheduler: pipeline.NewScheduler(pipeline.WithTable(table)),
	}, nil
}

// Run reads a program from r and schedules it. The returned schedule holds
// the per-instruction stage cycles, the stall trace, and the total cycle
// count.
func (c *Core) Run(r io.Reader) (*pipeline.Schedule, error) {
	prog, err := loader.Read(r)
	if err != nil {
		return nil, err
	}

	c.schedule = c.scheduler.Schedule(prog.Instructions)
	return c.schedule, nil
}

// RunFile reads a program from the file at path and schedules it.
func (c *Core) RunFile(path string) (*pipeline.Schedule, error) {
	prog, err := loader.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c.schedule = c.scheduler.Schedule(prog.Instructions)
	return c.schedule, nil
}

// Stats returns the statistics of the last run, or the zero value before
// any run.
func (c *Core) Stats() pipeline.Statistics {
	if c.schedule == nil {
		return pipeline.Statistics{}
	}
	return c.schedule.Stats()
}
