package wizard

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f9fafb"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef4444"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280"))
)

// Writer is the shared operator-visible output sink of a wizard run. Writes
// are appended in call order; there are no buffering guarantees beyond that.
// Output written before Show is held back so prompt-phase noise does not
// interleave with interactive forms.
type Writer struct {
	mu      sync.Mutex
	dst     io.Writer
	title   string
	visible bool
	held    []string
}

// NewWriter creates a writer over dst. title is printed as a header when the
// surface becomes visible.
func NewWriter(dst io.Writer, title string) *Writer {
	return &Writer{dst: dst, title: title}
}

// Show makes the output surface visible, printing the header and flushing
// anything written before this point. It is called by the engine when the
// execute phase starts.
func (w *Writer) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.visible {
		return
	}
	w.visible = true
	if w.title != "" {
		fmt.Fprintln(w.dst, headerStyle.Render(w.title))
	}
	for _, s := range w.held {
		fmt.Fprint(w.dst, s)
	}
	w.held = nil
}

// Write appends s to the sink.
func (w *Writer) Write(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.visible {
		w.held = append(w.held, s)
		return
	}
	fmt.Fprint(w.dst, s)
}

// Writeline appends s followed by a newline.
func (w *Writer) Writeline(s string) { w.Write(s + "\n") }

// Writef appends a formatted line.
func (w *Writer) Writef(format string, args ...any) {
	w.Write(fmt.Sprintf(format, args...) + "\n")
}

// Errorline appends an error-styled line.
func (w *Writer) Errorline(s string) { w.Writeline(errorStyle.Render(s)) }

// Dimline appends a dim-styled line for secondary status.
func (w *Writer) Dimline(s string) { w.Writeline(dimStyle.Render(s)) }
