package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"sitewright/internal/appservice"
	"sitewright/internal/metrics"
	"sitewright/internal/netutil"
	"sitewright/internal/terminal"
	"sitewright/internal/tunnel"
)

const (
	// defaultRemotePort is the fixed port the remote tunnel endpoint
	// listens on.
	defaultRemotePort = 2222

	// defaultReadyTimeout bounds the readiness polling of the remote
	// endpoint after the tunnel is opened.
	defaultReadyTimeout = 60 * time.Second

	// defaultSettleDelay is the pause between typing the connect command
	// and the login credential. The ssh daemon's prompt lags the moment
	// the channel accepts connections, and there is no signal to poll for
	// it through the opaque tunnel.
	defaultSettleDelay = 3 * time.Second

	// teardownTimeout bounds the configuration-restore call during
	// teardown, which runs outside any caller context.
	teardownTimeout = 30 * time.Second
)

// TerminalName returns the well-known terminal name for a target, used both
// to create the terminal and to locate it in StopSession.
func TerminalName(target string) string {
	return "Tunnel: " + target
}

// Options configures a Manager. Sites and Terminals are required; everything
// else has defaults.
type Options struct {
	Sites     appservice.Service
	Terminals terminal.Manager
	Log       logr.Logger

	// RemotePort overrides the fixed remote tunnel port.
	RemotePort int

	// ReadyTimeout overrides the bound on remote readiness polling.
	ReadyTimeout time.Duration

	// SettleDelay overrides the pause before the login credential is sent.
	SettleDelay time.Duration

	// ReservePort overrides local port reservation, mainly for tests.
	ReservePort func() (int, error)

	// OpenTunnel overrides forwarding-channel construction, mainly for
	// tests.
	OpenTunnel func(tunnel.Config) (tunnel.Proxy, error)
}

// Manager guards at most one active tunnel session per target identity and
// drives bring-up and teardown.
type Manager struct {
	sites     appservice.Service
	terminals terminal.Manager
	log       logr.Logger
	registry  *Registry

	remotePort   int
	readyTimeout time.Duration
	settleDelay  time.Duration

	reservePort func() (int, error)
	openTunnel  func(tunnel.Config) (tunnel.Proxy, error)
	sleep       func(time.Duration)
}

// NewManager creates a session manager and subscribes it to terminal closure
// notifications.
func NewManager(opts Options) *Manager {
	m := &Manager{
		sites:        opts.Sites,
		terminals:    opts.Terminals,
		log:          opts.Log,
		registry:     NewRegistry(),
		remotePort:   opts.RemotePort,
		readyTimeout: opts.ReadyTimeout,
		settleDelay:  opts.SettleDelay,
		reservePort:  opts.ReservePort,
		openTunnel:   opts.OpenTunnel,
		sleep:        time.Sleep,
	}
	if m.remotePort == 0 {
		m.remotePort = defaultRemotePort
	}
	if m.readyTimeout == 0 {
		m.readyTimeout = defaultReadyTimeout
	}
	if m.settleDelay == 0 {
		m.settleDelay = defaultSettleDelay
	}
	if m.reservePort == nil {
		m.reservePort = netutil.ReserveFreePort
	}
	if m.openTunnel == nil {
		m.openTunnel = func(cfg tunnel.Config) (tunnel.Proxy, error) { return tunnel.Open(cfg) }
	}

	m.terminals.OnDidClose(m.handleTerminalClosed)
	return m
}

// ActiveSessions returns the targets with a registered session.
func (m *Manager) ActiveSessions() []string { return m.registry.Active() }

// Get returns the registered session for target.
func (m *Manager) Get(target string) (*Session, bool) { return m.registry.Get(target) }

// StartSession brings up a tunnel session for target. The registration is
// written before any asynchronous work begins; a second call for the same
// target fails with ErrSessionExists while the first is alive. Any bring-up
// failure after registration unwinds through the same teardown guard the
// terminal-closed signal uses.
func (m *Manager) StartSession(ctx context.Context, target string) (s *Session, err error) {
	s = &Session{Target: target, done: make(chan struct{})}
	if rerr := m.registry.Reserve(target, s); rerr != nil {
		metrics.SessionsStartedTotal.WithLabelValues("duplicate").Inc()
		return nil, rerr
	}
	metrics.SessionsActive.Inc()

	defer func() {
		if err != nil {
			metrics.SessionsStartedTotal.WithLabelValues("error").Inc()
			if s.Terminal != nil {
				_ = s.Terminal.Dispose()
			}
			m.teardown(s)
			s = nil
		}
	}()

	site, err := m.sites.GetSite(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("resolve target %q: %w", target, err)
	}
	if !site.SupportsTunneling() {
		return nil, fmt.Errorf("%q (kind %q, state %q): %w", target, site.Kind, site.State, ErrTunnelUnsupported)
	}

	// Snapshot before any mutation; teardown restores from this.
	cfg, err := m.sites.GetConfig(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("snapshot config of %q: %w", target, err)
	}
	s.debugWasEnabled = cfg.RemoteDebuggingEnabled

	port, err := m.reservePort()
	if err != nil {
		return nil, err
	}
	s.LocalPort = port

	// Remote debugging and the raw tunnel port cannot be active at the
	// same time.
	if cfg.RemoteDebuggingEnabled {
		if _, err = m.sites.SetRemoteDebugFlag(ctx, target, false); err != nil {
			return nil, fmt.Errorf("disable remote debugging of %q: %w", target, err)
		}
		s.debugChanged = true
		m.log.Info("remote debugging disabled for tunnel", "target", target)
	}

	creds, err := m.sites.ListPublishingCredentials(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("fetch publish credentials of %q: %w", target, err)
	}

	proxy, err := m.openTunnel(tunnel.Config{
		LocalPort:   port,
		RemoteHost:  creds.TunnelHost(),
		RemotePort:  m.remotePort,
		Credentials: tunnel.Credentials{User: creds.UserName, Password: creds.Password},
	})
	if err != nil {
		return nil, fmt.Errorf("open tunnel for %q: %w", target, err)
	}
	s.Proxy = proxy
	if err = proxy.Start(ctx); err != nil {
		return nil, fmt.Errorf("start tunnel for %q: %w", target, err)
	}

	// The remote endpoint needs time to become ready; it exposes a
	// pollable signal (an authenticated channel open), so poll with a
	// bound instead of sleeping.
	if err = netutil.WaitForReady(ctx, proxy.Probe, m.readyTimeout); err != nil {
		return nil, fmt.Errorf("tunnel for %q not ready: %w", target, err)
	}

	term, err := m.terminals.Create(TerminalName(target))
	if err != nil {
		return nil, fmt.Errorf("create terminal for %q: %w", target, err)
	}
	s.Terminal = term

	if err = term.SendText(fmt.Sprintf("ssh root@127.0.0.1 -p %d -o StrictHostKeyChecking=no", port)); err != nil {
		return nil, fmt.Errorf("send connect command for %q: %w", target, err)
	}
	m.sleep(m.settleDelay)
	if err = term.SendText(creds.Password); err != nil {
		return nil, fmt.Errorf("send credential for %q: %w", target, err)
	}
	term.Show()

	s.Running = true
	metrics.SessionsStartedTotal.WithLabelValues("ok").Inc()
	m.log.Info("tunnel session started", "target", target, "localPort", port)
	return s, nil
}

// StopSession disposes the bound terminal of target's session, which
// triggers the teardown guard through the closure notification. With no
// registration it fails with ErrNotRunning and performs no terminal lookup.
// A registration whose terminal cannot be located is registry drift and is
// reported, not repaired.
func (m *Manager) StopSession(target string) error {
	if _, ok := m.registry.Get(target); !ok {
		return fmt.Errorf("%q: %w", target, ErrNotRunning)
	}
	name := TerminalName(target)
	term, ok := m.terminals.Find(name)
	if !ok {
		return &DriftError{Target: target, TerminalName: name}
	}
	if err := term.Dispose(); err != nil {
		return fmt.Errorf("dispose terminal of %q: %w", target, err)
	}
	return nil
}

// handleTerminalClosed is the closure notification handler. The pid
// correlates the event with the session whose terminal raised it.
func (m *Manager) handleTerminalClosed(pid int) {
	s, ok := m.registry.ByPID(pid)
	if !ok {
		return
	}
	m.log.Info("terminal closed, tearing down session", "target", s.Target, "pid", pid)
	m.teardown(s)
}

// teardown disposes a session's resources in fixed order: forwarding
// channel, registry entry, configuration restore. Each action is attempted
// regardless of the others' outcome; failures are logged and counted, never
// re-thrown past the notification handler.
func (m *Manager) teardown(s *Session) {
	s.teardownOnce.Do(func() {
		if s.Proxy != nil {
			if err := s.Proxy.Dispose(); err != nil {
				metrics.TeardownFailuresTotal.WithLabelValues("tunnel").Inc()
				m.log.Error(err, "failed to dispose tunnel", "target", s.Target)
			}
		}

		m.registry.Release(s.Target)
		metrics.SessionsActive.Dec()

		if s.debugChanged {
			ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
			defer cancel()
			if _, err := m.sites.SetRemoteDebugFlag(ctx, s.Target, s.debugWasEnabled); err != nil {
				metrics.TeardownFailuresTotal.WithLabelValues("restore").Inc()
				m.log.Error(err, "failed to restore remote debugging", "target", s.Target)
			}
		}

		s.Running = false
		close(s.done)
	})
}
