package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/blindcheck/internal/checker"
	"github.com/nao1215/blindcheck/internal/document"
	"github.com/nao1215/blindcheck/internal/model"
)

// Job carries the state shared by the steps of one file check.
type Job struct {
	// Path is the file being checked.
	Path string

	// Document is set by the open step and closed by Execute.
	Document document.Document

	// Paper is the roster entry of the submission, if any.
	Paper *model.Paper

	// Checker is set by the analyze step.
	Checker *checker.Checker
}

// NewJob creates a job for the file at path.
func NewJob(path string) *Job {
	return &Job{Path: path}
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the job and the
// result accumulated by previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
type Step interface {
	// Do executes the pipeline step.
	// Returns an error if the file cannot be checked any further.
	Do(ctx context.Context, job *Job, result *model.PaperResult) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
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

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. The first error stays recorded in the result.
//
// Design decision: The default is to stop on error because almost every
// step needs the output of the one before it; a file that cannot be
// opened cannot be analyzed.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
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

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
// The job's document is closed once all steps have run.
//
// Design decision: We check context.Done() before each step rather than
// during, because a single step only works on one document and finishes
// quickly. This keeps every step free of cancellation plumbing.
//
// Returns the first error encountered if continueOnError is false,
// or nil if all steps complete. Errors are also recorded in result.
func (p *Pipeline) Execute(ctx context.Context, job *Job, result *model.PaperResult) error {
	defer p.closeDocument(job)

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"file", result.FileName,
				"reason", ctx.Err(),
			)
			p.recordError(result, ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"file", result.FileName,
		)

		if err := step.Do(ctx, job, result); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"file", result.FileName,
				"error", err,
			)

			p.recordError(result, err)
			if !p.continueOnError {
				return err
			}
			continue
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"file", result.FileName,
		)
	}

	return nil
}

// recordError keeps the first error of a check.
func (p *Pipeline) recordError(result *model.PaperResult, err error) {
	if result.Error == "" {
		result.Error = err.Error()
	}
}

func (p *Pipeline) closeDocument(job *Job) {
	if job.Document == nil {
		return
	}
	if err := job.Document.Close(); err != nil {
		p.logger.Warn("failed to close document", "file", job.Path, "error", err)
	}
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
