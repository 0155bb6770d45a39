// Package terminal provides the interactive terminal surface a tunnel
// session binds to. The concrete implementation runs a local shell on a
// pseudo-terminal; the session manager only sees the Manager and Terminal
// contracts plus the closure notification.
package terminal

// Terminal is one interactive terminal surface.
type Terminal interface {
	// Name returns the well-known name the terminal was created under.
	Name() string

	// PID returns the process identifier used to correlate closure
	// notifications with the terminal that raised them.
	PID() int

	// SendText types text into the terminal, followed by a newline.
	SendText(text string) error

	// Show brings the terminal in front of the operator.
	Show()

	// Dispose closes the terminal, terminating its process. The closure
	// notification fires as a consequence.
	Dispose() error
}

// Manager creates and finds terminals and delivers closure notifications.
type Manager interface {
	// Create opens a new terminal under name. The name must be unused.
	Create(name string) (Terminal, error)

	// Find locates a live terminal by its well-known name.
	Find(name string) (Terminal, bool)

	// OnDidClose registers a handler for terminal closure. The handler
	// receives the pid of the closed terminal's process.
	OnDidClose(fn func(pid int))
}
