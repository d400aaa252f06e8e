// Package dispatch applies a theme to an ordered list of requested targets,
// isolating each target's failure from the others.
package dispatch

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"masq/model"
	"masq/target"
	"masq/theme"
)

// ErrTargetsFailed is wrapped by Err when at least one target did not apply.
var ErrTargetsFailed = errors.New("targets failed")

// UnknownTargetError reports a requested name with no registered backend.
type UnknownTargetError struct {
	Name string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("target '%s' not found", e.Name)
}

// Lookuper resolves a target name to a backend.
type Lookuper interface {
	Lookup(name string) (target.Backend, bool)
}

// Driver runs backends strictly one after another, in request order.
type Driver struct {
	registry Lookuper
	logger   *log.Logger
	observe  func(model.Outcome)
	starting func(name string, b target.Backend)
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for per-target debug output.
func WithLogger(l *log.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithObserver registers fn to be called with each outcome as it is recorded.
func WithObserver(fn func(model.Outcome)) Option {
	return func(d *Driver) { d.observe = fn }
}

// WithStartHook registers fn to be called right before a backend is applied.
func WithStartHook(fn func(name string, b target.Backend)) Option {
	return func(d *Driver) { d.starting = fn }
}

// New creates a driver over reg.
func New(reg Lookuper, opts ...Option) *Driver {
	d := &Driver{
		registry: reg,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run applies t to every requested name and returns one outcome per name.
// Duplicates are applied again; no failure stops the loop.
func (d *Driver) Run(t theme.Theme, names []string) model.Report {
	report := model.Report{Outcomes: make([]model.Outcome, 0, len(names))}

	for _, name := range names {
		outcome := d.dispatchOne(t, name)
		report.Outcomes = append(report.Outcomes, outcome)
		if d.observe != nil {
			d.observe(outcome)
		}
	}

	return report
}

func (d *Driver) dispatchOne(t theme.Theme, name string) model.Outcome {
	backend, ok := d.registry.Lookup(target.Normalize(name))
	if !ok {
		d.logger.Debug("unknown target", "target", name)
		return model.Outcome{
			Target: name,
			Status: model.StatusUnknownTarget,
			Err:    &UnknownTargetError{Name: name},
		}
	}

	outcome := model.Outcome{Target: name, Backend: backend.Name()}
	if d.starting != nil {
		d.starting(name, backend)
	}
	d.logger.Debug("applying theme", "target", name, "backend", outcome.Backend)

	if err := safeApply(backend, t); err != nil {
		var aerr *target.ApplyError
		if !errors.As(err, &aerr) {
			err = &target.ApplyError{Backend: outcome.Backend, Err: err}
		}
		d.logger.Debug("apply failed", "target", name, "backend", outcome.Backend, "err", err)
		outcome.Status = model.StatusApplyFailed
		outcome.Err = err
		return outcome
	}

	outcome.Status = model.StatusApplied
	return outcome
}

// safeApply turns a backend panic into an error.
func safeApply(b target.Backend, t theme.Theme) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return b.Apply(t)
}

// Err summarizes a report as an error wrapping ErrTargetsFailed, or nil when
// every target applied.
func Err(r model.Report) error {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d %w", len(failures), len(r.Outcomes), ErrTargetsFailed)
}
