package app

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/circulation"
)

// printer writes user-facing output. Diagnostics go to the zap logger.
type printer struct {
	out io.Writer
	err io.Writer
}

func newPrinter(cmd *cobra.Command) printer {
	return printer{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}
}

// ok prints a green success line.
func (p printer) ok(format string, a ...interface{}) {
	_, _ = fmt.Fprintln(p.out, color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func (p printer) warn(format string, a ...interface{}) {
	_, _ = fmt.Fprintln(p.err, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// fail prints a red error line. The caller decides whether to stop.
func (p printer) fail(format string, a ...interface{}) {
	_, _ = fmt.Fprintln(p.err, color.RedString("✗"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func (p printer) header(format string, a ...interface{}) {
	_, _ = fmt.Fprintln(p.out, color.CyanString(fmt.Sprintf(format, a...)))
}

func (p printer) field(label, value string) {
	_, _ = fmt.Fprintf(p.out, "  %-18s %s\n", color.CyanString(label+":"), value)
}

func (p printer) println(a ...interface{}) {
	_, _ = fmt.Fprintln(p.out, a...)
}

func (p printer) printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(p.out, format, a...)
}

// parseAssignments turns field=value arguments into an update mapping.
// Field names are lower-cased; "null" or an empty value clears optional
// fields. Unknown field names are returned separately so callers can warn.
func parseAssignments(args []string) (map[string]any, []string, error) {
	known := map[string]bool{catalog.FieldID: true}
	for _, name := range catalog.FieldNames() {
		known[name] = true
	}

	fields := make(map[string]any, len(args))
	var unknown []string
	for _, arg := range args {
		k, v, found := strings.Cut(arg, "=")
		k = strings.ToLower(strings.TrimSpace(k))
		if !found || k == "" {
			return nil, nil, fmt.Errorf("%w: expected field=value, got %q", circulation.ErrInvalidInput, arg)
		}
		v = strings.TrimSpace(v)
		if strings.EqualFold(v, "null") {
			fields[k] = nil
		} else {
			fields[k] = v
		}
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return fields, unknown, nil
}

// confirm asks a yes/no question on out and reads the answer from in.
// Anything but y/yes is a no.
func confirm(in *bufio.Reader, out io.Writer, question string) bool {
	_, _ = fmt.Fprintf(out, "%s (y/n): ", question)
	line, _ := in.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
