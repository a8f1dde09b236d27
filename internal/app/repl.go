package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/libcat/internal/analytics"
	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/circulation"
	"github.com/blackwell-systems/libcat/internal/tui"
)

const replPrompt = "libcat> "

// errQuit ends the REPL loop.
var errQuit = errors.New("quit")

type replCommand struct {
	name  string
	usage string
	help  string
	run   func(r *repl, args []string) error
}

var replCommands []replCommand

func init() {
	replCommands = []replCommand{
		{"help", "help", "Show this list", (*repl).help},
		{"list", "list [available|checked-out]", "List books", (*repl).list},
		{"add", "add", "Add books (prompts for titles and authors)", (*repl).add},
		{"find", "find [query]", "Find books by title", (*repl).find},
		{"info", "info [id]", "Show one book", (*repl).info},
		{"delete", "delete [id]", "Delete a book", (*repl).delete},
		{"update", "update [id] [field=value...]", "Change fields of a book", (*repl).update},
		{"checkout", "checkout [id] [user]", "Check out a book", (*repl).checkout},
		{"checkin", "checkin [id]", "Check in a book", (*repl).checkin},
		{"history", "history [id]", "Show checkout records", (*repl).history},
		{"stats", "stats", "Collection statistics", (*repl).stats},
		{"chart", "chart [kind]", "Bar chart (" + strings.Join(tui.ChartKinds(), ", ") + ")", (*repl).chart},
		{"exit", "exit", "Leave libcat", func(*repl, []string) error { return errQuit }},
	}
}

func lookupREPLCommand(name string) (replCommand, bool) {
	switch name {
	case "quit", "q":
		name = "exit"
	case "?":
		name = "help"
	}
	for _, c := range replCommands {
		if c.name == name {
			return c, true
		}
	}
	return replCommand{}, false
}

// repl is the line-oriented menu. Errors from a command are printed and the
// loop continues.
type repl struct {
	svc    *circulation.Service
	in     *bufio.Reader
	p      printer
	params analytics.Params
}

func newREPL(s *circulation.Service, in io.Reader, p printer, params analytics.Params) *repl {
	return &repl{svc: s, in: bufio.NewReader(in), p: p, params: params}
}

func newREPLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Run the line-oriented menu",
		Long: `Run a line-oriented menu that reads commands from standard input.

Type 'help' for the command list and 'exit' to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd)
		},
	}
}

func runREPL(cmd *cobra.Command) error {
	return newREPL(svc, cmd.InOrStdin(), newPrinter(cmd), analyticsParams()).Run()
}

// Run reads commands until exit or end of input.
func (r *repl) Run() error {
	r.p.header("libcat. Type 'help' for commands.")
	for {
		r.p.printf("%s", replPrompt)
		line, err := r.in.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			if r.exec(line) {
				return nil
			}
		}
		if err == io.EOF {
			r.p.println()
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// exec runs one command line and reports whether the loop should stop.
func (r *repl) exec(line string) bool {
	fields := strings.Fields(line)
	c, ok := lookupREPLCommand(strings.ToLower(fields[0]))
	if !ok {
		r.p.fail("Unknown command %q. Type 'help' for the list.", fields[0])
		return false
	}
	err := c.run(r, fields[1:])
	switch {
	case errors.Is(err, errQuit):
		return true
	case errors.Is(err, tui.ErrCanceled):
		r.p.println("Canceled.")
	case err != nil:
		r.p.fail("%v", err)
	}
	return false
}

// ask prints label and returns the trimmed reply. At end of input it
// returns "".
func (r *repl) ask(label string) string {
	r.p.printf("%s: ", label)
	line, _ := r.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// argOrAsk returns args[0] if present, otherwise prompts for it.
func (r *repl) argOrAsk(args []string, label string) string {
	if len(args) > 0 {
		return args[0]
	}
	return r.ask(label)
}

func (r *repl) help([]string) error {
	r.p.header("Commands")
	for _, c := range replCommands {
		r.p.printf("  %-30s %s\n", c.usage, c.help)
	}
	return nil
}

func (r *repl) list(args []string) error {
	var f catalog.Filter
	if len(args) > 0 {
		st, err := parseStatus(args[0])
		if err != nil {
			return err
		}
		f.Status = st
	}
	return listBooks(r.p, r.svc, f, false)
}

func (r *repl) add([]string) error {
	r.p.println("Enter book details. Separate several books with commas.")
	titles := r.ask("Title")
	if titles == "" {
		r.p.println("No books added.")
		return nil
	}
	authors := r.ask("Author")
	return addBooks(r.p, r.svc, titles, authors, nil)
}

func (r *repl) find(args []string) error {
	query := strings.Join(args, " ")
	if query == "" {
		query = r.ask("Title contains")
	}
	return findBooks(r.p, r.svc, query, false)
}

func (r *repl) info(args []string) error {
	id := r.argOrAsk(args, "Book ID")
	if id == "" {
		return errNeedID
	}
	return showBook(r.p, r.svc, id, false)
}

func (r *repl) delete(args []string) error {
	id := r.argOrAsk(args, "Book ID to delete")
	if id == "" {
		return errNeedID
	}
	b, err := r.svc.Get(id)
	if err != nil {
		return err
	}
	if !confirm(r.in, r.p.out, fmt.Sprintf("Delete %q?", b.Title)) {
		r.p.println("Canceled.")
		return nil
	}
	return deleteBook(r.p, r.svc, id)
}

func (r *repl) update(args []string) error {
	id := r.argOrAsk(args, "Book ID to update")
	if id == "" {
		return errNeedID
	}
	if len(args) > 1 {
		return updateBook(r.p, r.svc, id, args[1:])
	}

	r.p.println("Enter fields to update. Leave the field name empty to finish.")
	var assignments []string
	for {
		k := r.ask("Field name")
		if k == "" {
			break
		}
		v := r.ask("New value for " + k)
		assignments = append(assignments, k+"="+v)
	}
	if len(assignments) == 0 {
		r.p.println("No updates given.")
		return nil
	}
	return updateBook(r.p, r.svc, id, assignments)
}

func (r *repl) checkout(args []string) error {
	id := r.argOrAsk(args, "Book ID to check out")
	if id == "" {
		return errNeedID
	}
	var opts []circulation.CheckoutOption
	if len(args) > 1 {
		opts = append(opts, circulation.WithUser(strings.Join(args[1:], " ")))
	}
	return checkOut(r.p, r.svc, id, opts...)
}

func (r *repl) checkin(args []string) error {
	id := r.argOrAsk(args, "Book ID to check in")
	if id == "" {
		return errNeedID
	}
	return checkIn(r.p, r.svc, id)
}

func (r *repl) history(args []string) error {
	var id string
	if len(args) > 0 {
		id = args[0]
	}
	return showHistory(r.p, r.svc, id, false, false)
}

func (r *repl) stats([]string) error {
	return showStats(r.p, r.svc, r.params, false)
}

func (r *repl) chart(args []string) error {
	kind := r.argOrAsk(args, "Chart ("+strings.Join(tui.ChartKinds(), ", ")+")")
	return showChart(r.p, r.svc, r.params, kind, defaultChartWidth)
}
