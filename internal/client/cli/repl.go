package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	AddTask(ctx context.Context, args []string) error
	Tasks(ctx context.Context) error
	Rename(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Start(ctx context.Context, args []string) error
	Stop(ctx context.Context) error
	Entries(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	Export(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  register                 create an account
  login                    sign in (switching users clears local data)
  logout                   forget the session, keep local data
  add <title>              add a task
  tasks                    list tasks
  rename <task> <title>    rename a task
  delete <task>            delete a task
  start <task> [comment]   start the timer on a task
  stop                     stop the running timer
  entries [task]           list time entries
  sync                     synchronize with the server
  export [json|csv] [file] upload a snapshot, print its link, optionally save it
  exit | quit              leave the program
<task> is a task id or a unique prefix of it.`

var errLoginRequired = errors.New("please login first")

// runREPL reads commands line by line from reader and dispatches them to a.
// It returns on EOF, on "exit"/"quit" or when ctx is done. A failing command
// prints its error and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("tc %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "add":
			cmdErr = a.AddTask(ctx, args)

		case "tasks", "ls":
			cmdErr = a.Tasks(ctx)

		case "rename":
			cmdErr = a.Rename(ctx, args)

		case "delete", "rm":
			cmdErr = a.Delete(ctx, args)

		case "start":
			cmdErr = a.Start(ctx, args)

		case "stop":
			cmdErr = a.Stop(ctx)

		case "entries":
			cmdErr = a.Entries(ctx, args)

		case "sync":
			if !a.isLoggedIn() {
				cmdErr = errLoginRequired
				break
			}
			cmdErr = a.Sync(ctx)

		case "export":
			if !a.isLoggedIn() {
				cmdErr = errLoginRequired
				break
			}
			cmdErr = a.Export(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
