package wizard

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testState struct {
	Picked string
}

// recordStep tracks which of its methods ran and can fail either phase.
type recordStep struct {
	Base[testState]
	title      string
	promptErr  error
	executeErr error

	prompted bool
	executed bool
}

func (s *recordStep) Title() string { return s.title }

func (s *recordStep) Prompt(*Context[testState]) error {
	s.prompted = true
	return s.promptErr
}

func (s *recordStep) Execute(*Context[testState]) error {
	s.executed = true
	return s.executeErr
}

func newTestEngine(steps ...Step[testState]) *Engine[testState] {
	out := NewWriter(&bytes.Buffer{}, "")
	return New(context.Background(), &testState{}, out, steps...)
}

func TestRun_AllStepsInOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mk := func(name string) Step[testState] {
		return &funcStep{
			title:   name,
			prompt:  func() error { order = append(order, "prompt:"+name); return nil },
			execute: func() error { order = append(order, "execute:"+name); return nil },
		}
	}

	e := newTestEngine(mk("a"), mk("b"), mk("c"))
	res := e.Run()

	require.Equal(t, StatusCompleted, res.Status)
	assert.Equal(t, []string{
		"prompt:a", "prompt:b", "prompt:c",
		"execute:a", "execute:b", "execute:c",
	}, order)
	assert.Equal(t, 2, res.StepIndex)
	assert.Equal(t, "c", res.Step.Title())
	assert.NoError(t, res.Err)
}

func TestRun_PromptCancellationHaltsBeforeAnyExecute(t *testing.T) {
	t.Parallel()

	s1 := &recordStep{title: "one"}
	s2 := &recordStep{title: "two", promptErr: ErrCancelled}
	s3 := &recordStep{title: "three"}

	e := newTestEngine(s1, s2, s3)
	res := e.Run()

	require.Equal(t, StatusCancelled, res.Status)
	assert.Same(t, s2, res.Step.(*recordStep))
	assert.Equal(t, 1, res.StepIndex)
	assert.ErrorIs(t, res.Err, ErrCancelled)

	assert.False(t, s1.executed, "step 1 must not execute")
	assert.False(t, s2.executed, "step 2 must not execute")
	assert.False(t, s3.prompted, "step 3 must not even prompt")
}

func TestRun_PromptFaultHaltsRun(t *testing.T) {
	t.Parallel()

	boom := errors.New("listing subscriptions failed")
	s1 := &recordStep{title: "one", promptErr: boom}
	s2 := &recordStep{title: "two"}

	e := newTestEngine(s1, s2)
	res := e.Run()

	require.Equal(t, StatusFaulted, res.Status)
	assert.ErrorIs(t, res.Err, boom)
	assert.False(t, s1.executed)
	assert.False(t, s2.prompted)
}

func TestRun_ExecuteFaultKeepsEarlierEffects(t *testing.T) {
	t.Parallel()

	boom := errors.New("create site failed")
	s1 := &recordStep{title: "one"}
	s2 := &recordStep{title: "two", executeErr: boom}
	s3 := &recordStep{title: "three"}

	e := newTestEngine(s1, s2, s3)
	res := e.Run()

	require.Equal(t, StatusFaulted, res.Status)
	assert.Same(t, s2, res.Step.(*recordStep))
	assert.Equal(t, 1, res.StepIndex)
	assert.ErrorIs(t, res.Err, boom)

	assert.True(t, s1.executed, "step 1 effects stay applied")
	assert.False(t, s3.executed, "step 3 never runs")
}

func TestRun_ExecuteCancellationReportsCancelled(t *testing.T) {
	t.Parallel()

	s1 := &recordStep{title: "one", executeErr: ErrCancelled}
	e := newTestEngine(s1)
	res := e.Run()

	require.Equal(t, StatusCancelled, res.Status)
	assert.ErrorIs(t, res.Err, ErrCancelled)
}

func TestRun_HuhAbortNormalizedToCancelled(t *testing.T) {
	t.Parallel()

	s1 := &recordStep{title: "one", promptErr: huh.ErrUserAborted}
	e := newTestEngine(s1)
	res := e.Run()

	require.Equal(t, StatusCancelled, res.Status)
	assert.ErrorIs(t, res.Err, ErrCancelled)
}

func TestRun_HooksFireAroundExecute(t *testing.T) {
	t.Parallel()

	boom := errors.New("swap failed")
	s1 := &recordStep{title: "one"}
	s2 := &recordStep{title: "two", executeErr: boom}

	e := newTestEngine(s1, s2)

	var before []int
	var failedIndex = -1
	var failedErr error
	e.BeforeExecute = func(_ Step[testState], index int) { before = append(before, index) }
	e.OnExecuteError = func(_ Step[testState], index int, err error) {
		failedIndex = index
		failedErr = err
	}

	res := e.Run()

	require.Equal(t, StatusFaulted, res.Status)
	assert.Equal(t, []int{0, 1}, before)
	assert.Equal(t, 1, failedIndex)
	assert.ErrorIs(t, failedErr, boom)
}

func TestRun_ResultRetainedForBothPhases(t *testing.T) {
	t.Parallel()

	// Prompt-phase cancellation retains its result on the engine, same as an
	// execute-phase failure would.
	s := &recordStep{title: "one", promptErr: ErrCancelled}
	e := newTestEngine(s)

	require.Nil(t, e.Result())
	res := e.Run()
	require.NotNil(t, e.Result())
	assert.Same(t, res, e.Result())

	// A second Run returns the retained result instead of re-running.
	again := e.Run()
	assert.Same(t, res, again)
}

func TestRun_ExactlyOneResult(t *testing.T) {
	t.Parallel()

	e := newTestEngine(&recordStep{title: "only"})
	first := e.Run()
	second := e.Run()
	assert.Same(t, first, second)
}

func TestProgress_LivePositionAfterInsertion(t *testing.T) {
	t.Parallel()

	s1 := &recordStep{title: "one"}
	e := newTestEngine(s1)
	assert.Equal(t, "Step 1/1", e.Progress(0))

	// Conditionally added steps shift the denominator before the run.
	e.Add(&recordStep{title: "two"}, &recordStep{title: "three"})
	assert.Equal(t, "Step 1/3", e.Progress(0))
	assert.Equal(t, "Step 3/3", e.Progress(2))
}

func TestFindStep_MissFailsWithExactMessage(t *testing.T) {
	t.Parallel()

	e := newTestEngine(&recordStep{title: "one"})
	_, err := e.FindStep(func(Step[testState]) bool { return false }, "no subscription step in wizard")

	require.Error(t, err)
	var pre *PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, "no subscription step in wizard", err.Error())
}

func TestFindStep_ReturnsFirstMatch(t *testing.T) {
	t.Parallel()

	s1 := &recordStep{title: "pick plan"}
	s2 := &recordStep{title: "pick site"}
	e := newTestEngine(s1, s2)

	found, err := e.FindStep(func(s Step[testState]) bool { return s.Title() == "pick site" }, "missing")
	require.NoError(t, err)
	assert.Same(t, s2, found.(*recordStep))
}

func TestWriter_HeldUntilShow(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf, "Create Web App")

	w.Writeline("early")
	assert.Empty(t, buf.String(), "output held until surface is shown")

	w.Show()
	out := buf.String()
	assert.Contains(t, out, "Create Web App")
	assert.Contains(t, out, "early")

	w.Writeline("late")
	assert.Contains(t, buf.String(), "late")
}

func TestIsCancelled(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCancelled(ErrCancelled))
	assert.True(t, IsCancelled(huh.ErrUserAborted))
	assert.True(t, IsCancelled(context.Canceled))
	assert.False(t, IsCancelled(errors.New("other")))
	assert.False(t, IsCancelled(nil))
}

// funcStep adapts closures into a Step for order-tracking tests.
type funcStep struct {
	Base[testState]
	title   string
	prompt  func() error
	execute func() error
}

func (s *funcStep) Title() string { return s.title }

func (s *funcStep) Prompt(*Context[testState]) error {
	if s.prompt != nil {
		return s.prompt()
	}
	return nil
}

func (s *funcStep) Execute(*Context[testState]) error {
	if s.execute != nil {
		return s.execute()
	}
	return nil
}
