package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printfFn are test seams for user-facing output. In tests,
// replace them with stubs.
var printlnFn = fmt.Println
var printfFn = fmt.Printf

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Posts(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Read(ctx context.Context, slug string) error
	Like(ctx context.Context, slug string) error
	Bookmark(ctx context.Context, slug string) error
	Comment(ctx context.Context, slug string) error
	Categories(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Compose(ctx context.Context) error
	Notifications(ctx context.Context) error
	NotificationsOn(ctx context.Context) error
	NotificationsOff(ctx context.Context) error
	NotificationsClear(ctx context.Context) error
	Open(ctx context.Context, id string) error
}

// runREPL reads a line from the provided scanner, parses the first token as
// the command, and dispatches to methods on 'a'. Unknown commands are
// reported back to the user. The loop exits on scanner EOF or when the user
// types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers print their
// own diagnostics. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printfFn("quill %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: posts, search <text>, read <slug>, like <slug>, bookmark <slug>,")
				printlnFn("  comment <slug>, categories, dashboard, compose, noti [on|off|clear], open <id>,")
				printlnFn("  whoami, logout, exit")
			} else {
				printlnFn("Available commands: posts, search <text>, read <slug>, categories, register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "p", "posts":
			_ = a.Posts(ctx)

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <text>")
				continue
			}
			_ = a.Search(ctx, strings.Join(args, " "))

		case "read":
			if len(args) == 0 {
				printlnFn("Usage: read <slug>")
				continue
			}
			_ = a.Read(ctx, args[0])

		case "like":
			if len(args) == 0 {
				printlnFn("Usage: like <slug>")
				continue
			}
			_ = a.Like(ctx, args[0])

		case "bookmark":
			if len(args) == 0 {
				printlnFn("Usage: bookmark <slug>")
				continue
			}
			_ = a.Bookmark(ctx, args[0])

		case "comment":
			if len(args) == 0 {
				printlnFn("Usage: comment <slug>")
				continue
			}
			_ = a.Comment(ctx, args[0])

		case "categories":
			_ = a.Categories(ctx)

		case "dashboard":
			_ = a.Dashboard(ctx)

		case "compose":
			_ = a.Compose(ctx)

		case "noti":
			switch {
			case len(args) == 0:
				_ = a.Notifications(ctx)
			case args[0] == "on":
				_ = a.NotificationsOn(ctx)
			case args[0] == "off":
				_ = a.NotificationsOff(ctx)
			case args[0] == "clear":
				_ = a.NotificationsClear(ctx)
			default:
				printlnFn("Usage: noti [on|off|clear]")
			}

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <notification-id>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
