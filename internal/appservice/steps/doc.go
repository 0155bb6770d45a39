// Package steps holds the wizard steps for the interactive provisioning and
// slot-swap flows. Each step gathers one operator decision in its prompt and
// applies one API action in its execute, communicating through the shared
// wizard state or, where a step's output is not part of the flow's state,
// through a typed reference to the producing step.
package steps
