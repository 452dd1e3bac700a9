package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/fnmetrics/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the extraction
// filled in by previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the extraction to modify.
	Do(ctx context.Context, extraction *model.Extraction) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddSteps after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddSteps appends steps to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence and stops at the first step
// that fails, since every step consumes what the previous one produced.
// Cancellation is checked before each step; steps handle it themselves
// while running.
//
// The error is also recorded in the extraction.
func (p *Pipeline) Execute(ctx context.Context, extraction *model.Extraction) error {
	defer func() {
		extraction.FinishedAt = time.Now()
	}()

	p.logger.Debug("pipeline started",
		"source", extraction.Source,
		"steps", p.StepNames(),
	)

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			extraction.SetError(ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"source", extraction.Source,
		)

		if err := step.Do(ctx, extraction); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"source", extraction.Source,
				"error", err,
			)

			extraction.SetError(err)
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"source", extraction.Source,
		)

		extraction.PerformedSteps = append(extraction.PerformedSteps, step.Name())
	}

	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
