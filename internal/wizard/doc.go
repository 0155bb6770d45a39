// Package wizard implements the two-phase step orchestrator that drives
// multi-step operations against a remote service.
//
// A wizard run has two phases. The prompt phase walks every step in declared
// order and gathers operator decisions; no side effect happens here, so a
// cancelled or failed prompt aborts the run with nothing to undo. The execute
// phase runs only once every prompt has succeeded and applies one
// side-effecting action per step, again in declared order. Effects of steps
// that completed before a failure are left in place; there is no rollback.
//
// Steps share state through a typed Context that is passed by pointer to
// every step of one run. Prompt helpers built on charmbracelet/huh normalize
// a withdrawn or empty answer into ErrCancelled so a run never proceeds on an
// unintended default.
package wizard
