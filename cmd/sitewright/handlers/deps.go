// Package handlers implements the command logic behind the CLI surface.
//
// Handlers load the settings, assemble the pieces from the internal packages,
// and map wizard and session outcomes onto exit behavior. Construction goes
// through package-level factory variables so tests can substitute fakes.
package handlers

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"sitewright/internal/appservice"
	"sitewright/internal/config"
	"sitewright/internal/session"
	"sitewright/internal/terminal"
)

// Factory function variables - can be replaced in tests.
var (
	// loadConfig loads the settings file.
	loadConfig = config.Load

	// newService creates the management API client.
	newService = func(cfg *config.Config) appservice.Service {
		return appservice.NewClient(cfg.API.Endpoint, cfg.API.Token)
	}

	// newTerminalManager creates the terminal manager tunnel sessions bind to.
	newTerminalManager = func(cfg *config.Config) terminal.Manager {
		var opts []terminal.PtyOption
		if cfg.Defaults.Shell != "" {
			opts = append(opts, terminal.WithShell(cfg.Defaults.Shell))
		}
		return terminal.NewPtyManager(opts...)
	}

	// newSessionManager creates the tunnel session manager.
	newSessionManager = session.NewManager
)

// newLogger returns a logger writing structured lines to stderr.
func newLogger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{})
}
