package handlers

import (
	"context"
	"errors"
	"fmt"

	"sitewright/internal/session"
)

// Tunnel handles the tunnel command. It brings up a session for target and
// blocks until the bound shell exits or the context is cancelled; both paths
// wait for teardown to finish so the remote-debug setting is restored before
// the command returns.
func Tunnel(ctx context.Context, configPath, target string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	mgr := newSessionManager(session.Options{
		Sites:        newService(cfg),
		Terminals:    newTerminalManager(cfg),
		Log:          newLogger(),
		RemotePort:   cfg.Tunnel.RemotePort,
		ReadyTimeout: cfg.Tunnel.ReadyTimeout,
		SettleDelay:  cfg.Tunnel.SettleDelay,
	})

	s, err := mgr.StartSession(ctx, target)
	if err != nil {
		return fmt.Errorf("start tunnel session: %w", err)
	}
	fmt.Printf("Tunnel open on 127.0.0.1:%d; exit the shell to close it.\n", s.LocalPort)

	select {
	case <-s.Done():
	case <-ctx.Done():
		if err := mgr.StopSession(target); err != nil && !errors.Is(err, session.ErrNotRunning) {
			return fmt.Errorf("stop tunnel session: %w", err)
		}
		<-s.Done()
	}
	fmt.Println("Tunnel closed.")
	return nil
}
