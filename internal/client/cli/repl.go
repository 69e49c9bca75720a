package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Writers(ctx context.Context) error
	AddWriter(ctx context.Context) error
	RemoveWriter(ctx context.Context, id string) error
	Books(ctx context.Context, genre string) error
	Search(ctx context.Context, q string) error
	Author(ctx context.Context, writerID string) error
	Publish(ctx context.Context) error
	Download(ctx context.Context, key string) error
}

const (
	helpGuest  = "Available commands: login, books [GENRE], search <text>, author <id>, download <key>, exit"
	helpSigned = "Available commands: whoami, books [GENRE], search <text>, author <id>, publish, download <key>, writers, addwriter, rmwriter <id>, logout, exit"
)

// runREPL reads one command per line and dispatches it. Command errors are
// printed and the loop continues. It returns on EOF, exit or quit.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "library (%s)> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		rest := strings.Join(args, " ")

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpSigned)
			} else {
				fmt.Fprintln(w, helpGuest)
			}

		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "writers":
			cmdErr = a.Writers(ctx)
		case "addwriter":
			cmdErr = a.AddWriter(ctx)
		case "rmwriter":
			if rest == "" {
				fmt.Fprintln(w, "Usage: rmwriter <id>")
				continue
			}
			cmdErr = a.RemoveWriter(ctx, rest)

		case "books", "l", "list":
			cmdErr = a.Books(ctx, rest)
		case "search":
			if rest == "" {
				fmt.Fprintln(w, "Usage: search <text>")
				continue
			}
			cmdErr = a.Search(ctx, rest)
		case "author":
			if rest == "" {
				fmt.Fprintln(w, "Usage: author <id>")
				continue
			}
			cmdErr = a.Author(ctx, rest)
		case "publish":
			cmdErr = a.Publish(ctx)
		case "download":
			if rest == "" {
				fmt.Fprintln(w, "Usage: download <key>")
				continue
			}
			cmdErr = a.Download(ctx, rest)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "error:", cmdErr)
		}
	}
}
