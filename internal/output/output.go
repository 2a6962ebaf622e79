// Package output provides context-aware output for gtrim.
// Stdout is used for primary data output (values, tables, JSON).
// Stderr (via log package) is used for diagnostics.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
)

type ctxKey struct{}

// Printer writes primary output (values, tables, JSON) to stdout.
type Printer struct {
	w io.Writer
}

// New creates a new Printer writing to the given writer.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewTerminal creates a Printer whose styling is downsampled to what w
// supports. Pipes, NO_COLOR and dumb terminals get plain text.
func NewTerminal(w io.Writer, environ []string) *Printer {
	return &Printer{w: colorprofile.NewWriter(w, environ)}
}

// WithPrinter attaches a Printer writing to w to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return WithPrinterValue(ctx, New(w))
}

// WithPrinterValue attaches p to the context.
func WithPrinterValue(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext retrieves the Printer from context.
// Returns a Printer writing to os.Stdout if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return &Printer{w: os.Stdout}
}

// Print writes output without a newline.
func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.w, a...)
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Println writes a line of output.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// JSON writes v as indented JSON followed by a newline.
func (p *Printer) JSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w, string(data))
	return err
}

// Table writes a borderless table. Nothing is written for zero rows.
func (p *Printer) Table(headers []string, rows [][]string) {
	fmt.Fprint(p.w, RenderTable(headers, rows))
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}
