package session

import (
	"errors"
	"fmt"
)

// ErrSessionExists reports a StartSession call for a target that already has
// a registration. Nothing is mutated when this is returned.
var ErrSessionExists = errors.New("tunnel session already running")

// ErrNotRunning reports a StopSession call for a target with no
// registration.
var ErrNotRunning = errors.New("no tunnel session running")

// ErrTunnelUnsupported reports a target whose platform cannot host a tunnel.
var ErrTunnelUnsupported = errors.New("target does not support tunneling")

// DriftError reports that the registry lists an active session whose backing
// terminal cannot be found. It is surfaced verbatim and never auto-repaired.
type DriftError struct {
	Target       string
	TerminalName string
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("session registry lists %q but terminal %q cannot be found", e.Target, e.TerminalName)
}
