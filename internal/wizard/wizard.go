package wizard

import (
	"context"
	"fmt"
	"sync"
)

// Step is one unit of interaction and/or side effect within a wizard.
//
// Prompt gathers exactly one operator decision and stores it on the shared
// state; it must return ErrCancelled (never a generic error) when the
// operator declines. Execute applies one side-effecting action against an
// external service and must not assume any rollback will occur on its behalf.
// Either method may be a no-op; embed Base to get both.
type Step[S any] interface {
	// Title returns the human-readable name of this step.
	Title() string

	// Prompt gathers the step's operator decision.
	Prompt(ctx *Context[S]) error

	// Execute applies the step's side effect.
	Execute(ctx *Context[S]) error
}

// Base provides no-op Prompt and Execute so steps only override what they
// need. Prompt-only and execute-only steps both embed it.
type Base[S any] struct{}

// Prompt implements Step with no interaction.
func (Base[S]) Prompt(*Context[S]) error { return nil }

// Execute implements Step with no side effect.
func (Base[S]) Execute(*Context[S]) error { return nil }

// Context is the mutable state shared by pointer across all steps of one run.
// It is created by the caller before the run starts and discarded with it.
// Steps read fields set by earlier steps and write fields consumed by later
// ones through State.
type Context[S any] struct {
	context.Context

	// State carries the wizard-specific fields steps communicate through.
	State *S

	// Out is the shared operator-visible output sink.
	Out *Writer
}

// Status is the terminal disposition of one wizard run.
type Status string

const (
	// StatusCompleted means every step prompted and executed successfully.
	StatusCompleted Status = "completed"
	// StatusFaulted means a step failed with a non-cancellation error.
	StatusFaulted Status = "faulted"
	// StatusCancelled means the operator backed out during either phase.
	StatusCancelled Status = "cancelled"
)

// Result is the single terminal outcome of a run: the status, the step at
// which the run stopped (the last step when completed), and the error for
// faulted or cancelled runs.
type Result[S any] struct {
	Status    Status
	Step      Step[S]
	StepIndex int
	Err       error
}

// Engine holds an ordered list of steps and the shared context, and runs the
// two-phase prompt/execute protocol.
type Engine[S any] struct {
	// BeforeExecute runs before each step's Execute. The default writes the
	// step's live "Step i/N" progress line; override for custom logging.
	BeforeExecute func(step Step[S], index int)

	// OnExecuteError runs after a step's Execute fails, before the run halts.
	OnExecuteError func(step Step[S], index int, err error)

	steps []Step[S]
	wctx  *Context[S]

	mu     sync.Mutex
	result *Result[S]
}

// New assembles an engine over state with the given ordered steps. Steps may
// still be appended with Add until Run is called.
func New[S any](ctx context.Context, state *S, out *Writer, steps ...Step[S]) *Engine[S] {
	e := &Engine[S]{
		steps: steps,
		wctx:  &Context[S]{Context: ctx, State: state, Out: out},
	}
	e.BeforeExecute = func(step Step[S], index int) {
		out.Writeline(e.Progress(index) + ": " + step.Title())
	}
	e.OnExecuteError = func(step Step[S], _ int, err error) {
		out.Errorline(fmt.Sprintf("%s failed: %v", step.Title(), err))
	}
	return e
}

// Add appends steps to the sequence. Progress text is derived from live
// positions, so steps added conditionally before the run still report
// correctly.
func (e *Engine[S]) Add(steps ...Step[S]) {
	e.steps = append(e.steps, steps...)
}

// Steps returns the current step sequence.
func (e *Engine[S]) Steps() []Step[S] { return e.steps }

// Progress renders the live "Step i/N" text for the step at index.
func (e *Engine[S]) Progress(index int) string {
	return fmt.Sprintf("Step %d/%d", index+1, len(e.steps))
}

// Result returns the retained outcome of the run, or nil before Run finishes.
// Both phases retain their result here, so callers inspecting the engine
// after a cancelled prompt see the same result Run returned.
func (e *Engine[S]) Result() *Result[S] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Run executes the prompt phase and then, only if every prompt succeeded,
// the execute phase. It is not re-entrant for the same instance: a second
// call returns the retained result of the first.
//
// A cancellation raised during the prompt phase guarantees no Execute has
// run. A failure during the execute phase halts remaining steps but leaves
// already-applied effects in place; re-running the wizard is the operator's
// recourse.
func (e *Engine[S]) Run() *Result[S] {
	e.mu.Lock()
	if e.result != nil {
		r := e.result
		e.mu.Unlock()
		return r
	}
	e.mu.Unlock()

	// Phase 1: prompt every step in order. Nothing external has been touched
	// yet, so halting here needs no undo.
	for i, step := range e.steps {
		if err := step.Prompt(e.wctx); err != nil {
			return e.finish(e.classify(err, step, i))
		}
	}

	// Phase 2: surface the output sink, then execute in order.
	e.wctx.Out.Show()
	for i, step := range e.steps {
		e.BeforeExecute(step, i)
		if err := step.Execute(e.wctx); err != nil {
			e.OnExecuteError(step, i, err)
			return e.finish(e.classify(err, step, i))
		}
	}

	last := len(e.steps) - 1
	res := &Result[S]{Status: StatusCompleted, StepIndex: last}
	if last >= 0 {
		res.Step = e.steps[last]
	}
	return e.finish(res)
}

func (e *Engine[S]) classify(err error, step Step[S], index int) *Result[S] {
	status := StatusFaulted
	if IsCancelled(err) {
		status = StatusCancelled
		err = ErrCancelled
	}
	return &Result[S]{Status: status, Step: step, StepIndex: index, Err: err}
}

func (e *Engine[S]) finish(res *Result[S]) *Result[S] {
	e.mu.Lock()
	e.result = res
	e.mu.Unlock()
	return res
}

// FindStep returns the first step matching pred. It is the sanctioned way one
// step reads state computed by another when the sequence is assembled
// dynamically; steps wired at construction time should hold typed references
// instead. A miss fails with exactly msg.
func (e *Engine[S]) FindStep(pred func(Step[S]) bool, msg string) (Step[S], error) {
	for _, step := range e.steps {
		if pred(step) {
			return step, nil
		}
	}
	var zero Step[S]
	return zero, &PreconditionError{Message: msg}
}

// Write appends to the shared output sink.
func (e *Engine[S]) Write(s string) { e.wctx.Out.Write(s) }

// Writeline appends a line to the shared output sink.
func (e *Engine[S]) Writeline(s string) { e.wctx.Out.Writeline(s) }
