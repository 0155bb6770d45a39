package session

import (
	"sync"

	"sitewright/internal/terminal"
	"sitewright/internal/tunnel"
)

// Session is the set of resources backing one active remote tunnel: the
// reserved local port, the forwarding channel, the bound terminal, and the
// remote-debug configuration snapshot taken before mutation. It is created
// by StartSession and mutated only by the manager.
type Session struct {
	// Target is the fully-qualified name identifying what the session
	// applies to.
	Target string

	// LocalPort is the reserved local end of the tunnel.
	LocalPort int

	// Proxy is the forwarding channel; nil until bring-up reaches it.
	Proxy tunnel.Proxy

	// Terminal is the bound interactive terminal; nil until bring-up
	// reaches it.
	Terminal terminal.Terminal

	// Running marks a fully brought-up session.
	Running bool

	// debugWasEnabled is the pre-session remote-debug snapshot.
	debugWasEnabled bool
	// debugChanged records whether bring-up actually flipped the flag, so
	// teardown only restores what was mutated.
	debugChanged bool

	teardownOnce sync.Once
	done         chan struct{}
}

// Done is closed after teardown completes, whether teardown was triggered by
// the terminal closing or by a bring-up failure.
func (s *Session) Done() <-chan struct{} { return s.done }
