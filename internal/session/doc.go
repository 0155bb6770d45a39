// Package session manages the lifecycle of remote tunnel sessions: one per
// target site, brought up through a fixed sequence (platform check, config
// snapshot, port reservation, remote-debug disable, tunnel, terminal) and
// torn down best-effort when the bound terminal closes.
//
// The registry is an explicit service object with an atomic
// reserve-if-absent, so near-simultaneous starts for the same target cannot
// both win. Teardown is a guard disposed in a fixed order (tunnel, registry
// entry, configuration restore); a failure in one action never blocks the
// others, and the configuration snapshot is restored exactly once.
package session
