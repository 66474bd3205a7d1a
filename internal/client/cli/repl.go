package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	LoadKey(ctx context.Context, path string) error
	RemoveKey(ctx context.Context) error
	List(ctx context.Context) error
	Toggle(ctx context.Context, name string) error
	SelectAll(ctx context.Context, flag bool) error
	Backup(ctx context.Context) error
	Status(ctx context.Context) error
	Wait(ctx context.Context) error
	History(ctx context.Context) error
}

const helpText = `Available commands:
  key [path]       load a service account key and list its collections
  remove           forget the key
  (l)ist           show collections and selection
  toggle <name>    select or deselect a collection
  all | none       select or deselect every collection
  backup           generate a backup of the selected collections
  status           show the session state
  wait             wait for the running operation
  history          show recently saved backups
  exit | quit      leave the program`

// runREPL starts a simple read–eval–print loop for the backup CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The rest of the line is the argument, so
// collection names may contain spaces. Everything the loop prints goes to out.
// The prompt (built by statusFn) is only printed when showPrompt is set and
// leaves the cursor on the same line. The loop exits at end of input or when the
// user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers print their
// own diagnostics.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer, showPrompt bool) {
	for {
		if showPrompt {
			fmt.Fprintf(out, "fsb %s > ", statusFn())
		}
		line, ok := readLine(reader)
		if !ok {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)
		if cmd == "" {
			continue
		}

		switch cmd {
		case "help":
			fmt.Fprintln(out, helpText)

		case "key":
			_ = a.LoadKey(ctx, arg)

		case "remove":
			_ = a.RemoveKey(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "toggle":
			_ = a.Toggle(ctx, arg)

		case "all":
			_ = a.SelectAll(ctx, true)

		case "none":
			_ = a.SelectAll(ctx, false)

		case "backup":
			_ = a.Backup(ctx)

		case "status":
			_ = a.Status(ctx)

		case "wait":
			_ = a.Wait(ctx)

		case "history":
			_ = a.History(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}
