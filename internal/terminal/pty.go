package terminal

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// PtyManager implements Manager with local shells on pseudo-terminals.
type PtyManager struct {
	shell  string
	output io.Writer
	input  io.Reader

	mu        sync.Mutex
	terminals map[string]*ptyTerminal
	onClose   []func(pid int)
}

// PtyOption configures a PtyManager.
type PtyOption func(*PtyManager)

// WithShell overrides the shell command; the default is $SHELL or /bin/sh.
func WithShell(shell string) PtyOption {
	return func(m *PtyManager) { m.shell = shell }
}

// WithOutput redirects terminal output away from stdout, mainly for tests.
func WithOutput(w io.Writer) PtyOption {
	return func(m *PtyManager) { m.output = w }
}

// WithInput overrides the reader wired to the terminal on Show.
func WithInput(r io.Reader) PtyOption {
	return func(m *PtyManager) { m.input = r }
}

// NewPtyManager creates a pty-backed terminal manager.
func NewPtyManager(opts ...PtyOption) *PtyManager {
	m := &PtyManager{
		output:    os.Stdout,
		input:     os.Stdin,
		terminals: make(map[string]*ptyTerminal),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.shell == "" {
		m.shell = os.Getenv("SHELL")
	}
	if m.shell == "" {
		m.shell = "/bin/sh"
	}
	return m
}

var _ Manager = (*PtyManager)(nil)

// Create implements Manager.
func (m *PtyManager) Create(name string) (Terminal, error) {
	m.mu.Lock()
	if _, exists := m.terminals[name]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("terminal %q already exists", name)
	}
	m.mu.Unlock()

	cmd := exec.Command(m.shell)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("start terminal %q: %w", name, err)
	}

	t := &ptyTerminal{
		name:    name,
		pid:     cmd.Process.Pid,
		ptmx:    ptmx,
		cmd:     cmd,
		manager: m,
	}

	m.mu.Lock()
	m.terminals[name] = t
	m.mu.Unlock()

	go func() { _, _ = io.Copy(m.output, ptmx) }()
	go t.watch()

	return t, nil
}

// Find implements Manager.
func (m *PtyManager) Find(name string) (Terminal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.terminals[name]
	if !ok {
		return nil, false
	}
	return t, true
}

// OnDidClose implements Manager.
func (m *PtyManager) OnDidClose(fn func(pid int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClose = append(m.onClose, fn)
}

// closed removes the terminal and fires registered closure handlers.
func (m *PtyManager) closed(t *ptyTerminal) {
	m.mu.Lock()
	delete(m.terminals, t.name)
	handlers := make([]func(int), len(m.onClose))
	copy(handlers, m.onClose)
	m.mu.Unlock()

	for _, fn := range handlers {
		fn(t.pid)
	}
}

type ptyTerminal struct {
	name    string
	pid     int
	ptmx    *os.File
	cmd     *exec.Cmd
	manager *PtyManager

	disposeOnce sync.Once
	shownOnce   sync.Once
}

func (t *ptyTerminal) Name() string { return t.name }
func (t *ptyTerminal) PID() int     { return t.pid }

func (t *ptyTerminal) SendText(text string) error {
	if _, err := io.WriteString(t.ptmx, text+"\n"); err != nil {
		return fmt.Errorf("send to terminal %q: %w", t.name, err)
	}
	return nil
}

// Show wires the manager's input to the terminal so the operator can type
// into it. Output streams from creation, so earlier lines are not lost.
func (t *ptyTerminal) Show() {
	t.shownOnce.Do(func() {
		go func() { _, _ = io.Copy(t.ptmx, t.manager.input) }()
	})
}

func (t *ptyTerminal) Dispose() error {
	var err error
	t.disposeOnce.Do(func() {
		if t.cmd.Process != nil {
			err = t.cmd.Process.Kill()
		}
		_ = t.ptmx.Close()
	})
	return err
}

// watch waits for the shell to exit and raises the closure notification.
func (t *ptyTerminal) watch() {
	_ = t.cmd.Wait()
	_ = t.ptmx.Close()
	t.manager.closed(t)
}
