// Package log provides context-aware logging for gtrim.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-isatty"
)

type ctxKey struct{}

var warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

// Logger provides diagnostic output, warnings and verbose command logging.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
	styled  bool
}

// New creates a new logger.
// Warnings are styled only when out is a terminal.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, verbose: verbose, quiet: quiet, styled: isTerminal(out)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard}
}

// Printf writes formatted output unless quiet.
func (l *Logger) Printf(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// Println writes a line of output unless quiet.
func (l *Logger) Println(args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintln(l.out, args...)
}

// Warnf writes a warning line. Warnings are suppressed in quiet mode.
func (l *Logger) Warnf(format string, args ...any) {
	if l.quiet {
		return
	}
	prefix := "warning:"
	if l.styled {
		prefix = warnStyle.Render(prefix)
	}
	fmt.Fprintf(l.out, "%s %s\n", prefix, strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// Debugf writes a line only in verbose mode.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.verbose {
		return
	}
	fmt.Fprintf(l.out, format+"\n", args...)
}

// Command logs an external command execution.
// Only prints when verbose mode is enabled.
func (l *Logger) Command(name string, args ...string) {
	if l.verbose {
		fmt.Fprintf(l.out, "$ %s %s\n", name, strings.Join(args, " "))
	}
}
