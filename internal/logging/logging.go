package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// New creates the diagnostic logger for CLI commands. When w is a terminal
// a text handler is used, otherwise JSON so piped output stays machine-readable.
//
// Callers scope the logger per command:
//
//	logger := logging.New(cmd.ErrOrStderr(), level).With("command", "run")
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if isTerminal(w) {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
