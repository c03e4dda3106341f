package saga

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Step is one action of a saga plus the action that undoes it.
type Step struct {
	Name       string
	Execute    func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// StepError reports the step that aborted a saga.
type StepError struct {
	Saga string
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("saga %q failed at step %q: %v", e.Saga, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Saga runs steps in order and, when one fails, compensates the completed
// ones in reverse order.
type Saga struct {
	name   string
	steps  []Step
	logger *zap.Logger
}

// New creates an empty saga.
func New(name string, logger *zap.Logger) *Saga {
	return &Saga{name: name, logger: logger}
}

// AddStep appends a step.
func (s *Saga) AddStep(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Execute runs the saga. The returned error is a *StepError wrapping the
// failing step's error, so callers can still match domain error kinds.
func (s *Saga) Execute(ctx context.Context) error {
	log := s.logger.With(zap.String("saga", s.name))
	log.Debug("saga started", zap.Int("steps", len(s.steps)))

	for i, step := range s.steps {
		err := ctx.Err()
		if err == nil {
			err = step.Execute(ctx)
		}
		if err != nil {
			log.Warn("saga step failed, compensating", zap.String("step", step.Name), zap.Error(err))
			s.compensate(context.WithoutCancel(ctx), log, s.steps[:i])
			return &StepError{Saga: s.name, Step: step.Name, Err: err}
		}
	}

	log.Debug("saga completed")
	return nil
}

func (s *Saga) compensate(ctx context.Context, log *zap.Logger, done []Step) {
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			log.Error("compensation failed", zap.String("step", step.Name), zap.Error(err))
		}
	}
}
