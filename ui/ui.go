package ui

import (
	"io"
)

// UI provides all terminal interaction for jobverify commands. Commands
// print through it instead of fmt so tests can assert on output with
// RecordingUI.
type UI interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Critical(format string, args ...any)

	// Section prints a visual separator with a title.
	Section(title string)

	// Ask reads one line of input, re-prompting until validate accepts it.
	Ask(validate func(string) error) string
	Confirm(prompt string, defaultYes bool) bool
	Choose(prompt string, options []string) int

	// KeyValue renders an aligned two column block.
	KeyValue(rows [][2]string)
	// Table renders a bordered table; empty headers mean no header row.
	Table(headers []string, rows [][]string)

	// Spinner starts an animated wait indicator and returns its stop func.
	Spinner(msg string) func()

	// Indent returns a child UI writing one level deeper.
	Indent() UI
	Writer() io.Writer
}
