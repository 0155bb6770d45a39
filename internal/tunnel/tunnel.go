// Package tunnel provides the local-port-to-remote-port forwarding channel
// used by remote tunnel sessions. The remote side is the app's SCM tunnel
// endpoint; each local connection is authenticated with the site's publish
// credentials and upgraded to a raw byte stream before traffic is relayed.
package tunnel

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Credentials authenticate the tunnel against the remote endpoint.
type Credentials struct {
	User     string
	Password string
}

// Config describes one forwarding channel.
type Config struct {
	// LocalPort is the reserved local listen port.
	LocalPort int

	// RemoteHost is the SCM host of the target site.
	RemoteHost string

	// RemotePort is the fixed remote tunnel port.
	RemotePort int

	Credentials Credentials

	// Dial overrides the remote dialer; nil means a plain TCP dial.
	Dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// Proxy is the forwarding-channel contract the session manager consumes.
type Proxy interface {
	// Start binds the local port and begins relaying connections.
	Start(ctx context.Context) error

	// Probe checks that the remote endpoint accepts an authenticated
	// channel. It is the pollable readiness signal for bring-up.
	Probe(ctx context.Context) error

	// Dispose tears the channel down: the listener and every relayed
	// connection. It is idempotent.
	Dispose() error

	// LocalPort returns the bound local port.
	LocalPort() int
}

// Forwarder implements Proxy over plain TCP.
type Forwarder struct {
	cfg Config

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	disposed bool
}

// Open creates a forwarding channel from cfg. The channel is inert until
// Start is called.
func Open(cfg Config) (*Forwarder, error) {
	if cfg.LocalPort <= 0 {
		return nil, fmt.Errorf("tunnel: invalid local port %d", cfg.LocalPort)
	}
	if cfg.RemoteHost == "" {
		return nil, fmt.Errorf("tunnel: remote host is required")
	}
	if cfg.Dial == nil {
		d := &net.Dialer{Timeout: 10 * time.Second}
		cfg.Dial = d.DialContext
	}
	return &Forwarder{cfg: cfg, conns: make(map[net.Conn]struct{})}, nil
}

var _ Proxy = (*Forwarder)(nil)

// LocalPort implements Proxy.
func (f *Forwarder) LocalPort() int { return f.cfg.LocalPort }

// Start implements Proxy. Binding failures surface synchronously; relay
// failures of individual connections only close that connection.
func (f *Forwarder) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disposed {
		return fmt.Errorf("tunnel: already disposed")
	}
	if f.listener != nil {
		return fmt.Errorf("tunnel: already started")
	}

	l, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(f.cfg.LocalPort)))
	if err != nil {
		return fmt.Errorf("tunnel: bind local port %d: %w", f.cfg.LocalPort, err)
	}
	f.listener = l

	go f.acceptLoop(ctx, l)
	return nil
}

// Probe implements Proxy by opening and immediately closing one
// authenticated remote channel.
func (f *Forwarder) Probe(ctx context.Context) error {
	conn, err := f.openRemote(ctx)
	if err != nil {
		return err
	}
	return conn.Close()
}

// Dispose implements Proxy.
func (f *Forwarder) Dispose() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disposed {
		return nil
	}
	f.disposed = true

	var firstErr error
	if f.listener != nil {
		firstErr = f.listener.Close()
	}
	for conn := range f.conns {
		_ = conn.Close()
	}
	f.conns = nil
	return firstErr
}

func (f *Forwarder) acceptLoop(ctx context.Context, l net.Listener) {
	for {
		local, err := l.Accept()
		if err != nil {
			// Listener closed by Dispose, or a fatal accept error.
			return
		}
		if !f.track(local) {
			_ = local.Close()
			return
		}
		go f.relay(ctx, local)
	}
}

func (f *Forwarder) track(conn net.Conn) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disposed {
		return false
	}
	f.conns[conn] = struct{}{}
	return true
}

func (f *Forwarder) untrack(conn net.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conns != nil {
		delete(f.conns, conn)
	}
}

func (f *Forwarder) relay(ctx context.Context, local net.Conn) {
	defer f.untrack(local)
	defer local.Close()

	remote, err := f.openRemote(ctx)
	if err != nil {
		return
	}
	defer remote.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = io.Copy(remote, local)
		closeWrite(remote)
	}()
	go func() {
		defer wg.Done()
		_, _ = io.Copy(local, remote)
		closeWrite(local)
	}()
	wg.Wait()
}

// openRemote dials the remote tunnel port and upgrades the connection to a
// raw byte stream with basic-auth publish credentials.
func (f *Forwarder) openRemote(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(f.cfg.RemoteHost, strconv.Itoa(f.cfg.RemotePort))
	conn, err := f.cfg.Dial(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tunnel: dial %s: %w", addr, err)
	}

	auth := base64.StdEncoding.EncodeToString(
		[]byte(f.cfg.Credentials.User + ":" + f.cfg.Credentials.Password))
	req := fmt.Sprintf("GET /AppServiceTunnel HTTP/1.1\r\n"+
		"Host: %s\r\n"+
		"Authorization: Basic %s\r\n"+
		"Connection: Upgrade\r\n"+
		"Upgrade: tcp\r\n\r\n", f.cfg.RemoteHost, auth)
	if _, err := io.WriteString(conn, req); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tunnel: send upgrade: %w", err)
	}

	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tunnel: read upgrade response: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		_ = conn.Close()
		return nil, fmt.Errorf("tunnel: remote refused upgrade: %s", resp.Status)
	}
	if br.Buffered() > 0 {
		// Bytes the remote sent right behind the 101 must not be lost.
		buffered, _ := br.Peek(br.Buffered())
		return &bufferedConn{Conn: conn, rest: buffered}, nil
	}
	return conn, nil
}

func closeWrite(conn net.Conn) {
	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		_ = cw.CloseWrite()
	}
}

// bufferedConn replays bytes read past the upgrade response before handing
// reads back to the underlying connection.
type bufferedConn struct {
	net.Conn
	rest []byte
}

func (c *bufferedConn) Read(p []byte) (int, error) {
	if len(c.rest) > 0 {
		n := copy(p, c.rest)
		c.rest = c.rest[n:]
		return n, nil
	}
	return c.Conn.Read(p)
}
