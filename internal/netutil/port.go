// Package netutil provides local port reservation and readiness polling for
// tunnel bring-up.
package netutil

import (
	"context"
	"fmt"
	"net"
	"time"
)

const (
	// probeInterval is the pause between readiness probes.
	probeInterval = 500 * time.Millisecond
	// dialTimeout bounds a single TCP probe.
	dialTimeout = 2 * time.Second
)

// ReserveFreePort asks the kernel for a free TCP port and releases it
// immediately. The caller binds it again shortly after; the window in
// between is accepted, as the operating system cycles ephemeral ports.
func ReserveFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("reserve local port: %w", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	if err := l.Close(); err != nil {
		return 0, fmt.Errorf("release reserved port: %w", err)
	}
	return port, nil
}

// WaitForReady polls probe until it succeeds or timeout elapses. It replaces
// an unconditional settle delay wherever the endpoint exposes a checkable
// readiness signal.
func WaitForReady(ctx context.Context, probe func(context.Context) error, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		err := probe(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return fmt.Errorf("not ready after %v: %w", timeout, lastErr)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// WaitForPort waits for a TCP port to accept connections.
func WaitForPort(ctx context.Context, host string, port int, timeout time.Duration) error {
	address := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	return WaitForReady(ctx, func(context.Context) error {
		conn, err := net.DialTimeout("tcp", address, dialTimeout)
		if err != nil {
			return err
		}
		return conn.Close()
	}, timeout)
}
