package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Age(ctx context.Context, arg string) error
	Gender(ctx context.Context, arg string) error
	Generate(ctx context.Context) error
	Reset(ctx context.Context) error
	Status(ctx context.Context) error
	Gallery(ctx context.Context) error
	Download(ctx context.Context, arg string) error
	Delete(ctx context.Context, arg string) error
}

// runREPL starts a simple read–eval–print loop for the prodshot CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help            — show available commands
//	  - register        — create an account
//	  - login           — authenticate
//	  - exit | quit     — leave the program
//
//	Logged in:
//	  - help            — show available commands
//	  - upload <path>   — upload a product photo
//	  - age <n>         — set the model's age
//	  - gender <f|m|n>  — set the model's gender
//	  - generate        — generate studio photos
//	  - reset           — start over
//	  - status          — show the current flow state
//	  - gallery         — list your stored images
//	  - download <id>   — download a stored image
//	  - delete <id>     — delete a stored image
//	  - logout          — log out
//	  - exit | quit     — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("prodshot> %s > ", statusFn()))
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

		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: upload <path>, age <n>, gender <f|m|n>, generate, reset, status, gallery, download <id>, delete <id>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "upload":
			if arg == "" {
				printlnFn("Usage: upload <path>")
				continue
			}
			_ = a.Upload(ctx, arg)

		case "age":
			if arg == "" {
				printlnFn("Usage: age <n>")
				continue
			}
			_ = a.Age(ctx, arg)

		case "gender":
			if arg == "" {
				printlnFn("Usage: gender <f|m|n>")
				continue
			}
			_ = a.Gender(ctx, arg)

		case "generate":
			_ = a.Generate(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "status":
			_ = a.Status(ctx)

		case "g", "gallery":
			_ = a.Gallery(ctx)

		case "download":
			if arg == "" {
				printlnFn("Usage: download <id>")
				continue
			}
			_ = a.Download(ctx, arg)

		case "delete":
			if arg == "" {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, arg)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
