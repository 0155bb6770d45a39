package wizard

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// isInteractive reports whether stdin is a terminal; replaced in tests.
var isInteractive = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SelectOne presents a single choice among precomputed options. A withdrawn
// answer becomes ErrCancelled; an empty option set is a precondition failure,
// since there is nothing valid to default to.
func SelectOne[T comparable](ctx context.Context, title, description string, options []huh.Option[T]) (T, error) {
	var picked T
	if len(options) == 0 {
		return picked, Preconditionf("no options available for %q", title)
	}
	if !isInteractive() {
		return picked, Preconditionf("%q requires an interactive terminal", title)
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[T]().
			Title(title).
			Description(description).
			Options(options...).
			Value(&picked),
	))
	if err := form.RunWithContext(ctx); err != nil {
		return picked, normalizeAbort(err)
	}
	return picked, nil
}

// InputText prompts for free text. An empty or withdrawn answer is normalized
// into ErrCancelled, never into an empty-string default.
func InputText(ctx context.Context, title, placeholder string, validate func(string) error) (string, error) {
	if !isInteractive() {
		return "", Preconditionf("%q requires an interactive terminal", title)
	}

	var value string
	input := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value)
	if validate != nil {
		input = input.Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				// Let the empty answer through; it is mapped to
				// cancellation below rather than rejected in a loop.
				return nil
			}
			return validate(s)
		})
	}

	form := huh.NewForm(huh.NewGroup(input))
	if err := form.RunWithContext(ctx); err != nil {
		return "", normalizeAbort(err)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrCancelled
	}
	return value, nil
}

// Confirm asks a yes/no question. Declining is an answer, not a cancellation;
// only withdrawing from the prompt cancels.
func Confirm(ctx context.Context, title, affirmative, negative string) (bool, error) {
	if !isInteractive() {
		return false, Preconditionf("%q requires an interactive terminal", title)
	}

	var answer bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative(affirmative).
			Negative(negative).
			Value(&answer),
	))
	if err := form.RunWithContext(ctx); err != nil {
		return false, normalizeAbort(err)
	}
	return answer, nil
}
