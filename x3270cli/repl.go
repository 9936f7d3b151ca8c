// =============================================================================
// repl.go - REPL Loop
// =============================================================================
//
// Reads lines from the LineEditor, handles local dot-commands, and passes
// everything else through translate() to the emulator session.
//
// Dot-commands never reach the emulator unless they explicitly ask to
// (.raw, .connected).
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/tn3270/x3270-go/x3270protocol"
)

var (
	statusColor = color.New(color.FgCyan)
	okColor     = color.New(color.FgGreen)
)

// prompt returns the REPL prompt for the given session status. It shows the
// host while connected so the user can tell a dropped session at a glance.
func prompt(status x3270protocol.Status) string {
	if status.Connected() {
		return fmt.Sprintf("[%s] > ", status.Host())
	}
	return "[disconnected] > "
}

// runREPL runs the main REPL loop until .quit or end of input.
func runREPL(em *x3270protocol.Emulator, editor *LineEditor) {
	for {
		line, err := editor.GetLine(prompt(em.Status()))
		if err != nil {
			// EOF (Ctrl-D) or a read error
			fmt.Println()
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if quit := handleLine(em, line); quit {
			return
		}
	}
}

// handleLine executes one trimmed, non-empty line and reports whether the
// REPL should exit.
func handleLine(em *x3270protocol.Emulator, line string) bool {
	if strings.HasPrefix(line, ".") {
		return handleDotCommand(em, line)
	}

	op, err := translate(line)
	if err != nil {
		printError(err.Error())
		return false
	}
	runOperation(em, op)
	return false
}

// handleDotCommand executes a local command. Dot-command names are
// case-insensitive.
func handleDotCommand(em *x3270protocol.Emulator, line string) bool {
	words := splitWords(line, 2)
	name := strings.ToLower(words[0])
	arg := ""
	if len(words) > 1 {
		arg = words[1]
	}

	switch name {
	case ".quit":
		return true

	case ".help":
		printHelp(arg)

	case ".status":
		statusColor.Fprintln(os.Stdout, em.Status().String())

	case ".connected":
		connected, err := em.IsConnected()
		if err != nil {
			printOperationError(err)
			return false
		}
		if connected {
			okColor.Fprintf(os.Stdout, "Connected to %s\n", em.Status().Host())
		} else {
			fmt.Println("Not connected")
		}

	case ".raw":
		if arg == "" {
			printError("usage: .raw <action>")
			return false
		}
		runOperation(em, rawOperation(arg))

	default:
		printError(fmt.Sprintf("Unknown command '%s'. Type .help to see available commands.", words[0]))
	}

	return false
}

// runOperation runs op and prints its output or error.
func runOperation(em *x3270protocol.Emulator, op operation) {
	out, err := op(em)
	if err != nil {
		printOperationError(err)
		return
	}
	if out != "" {
		fmt.Println(out)
	}
}

// printOperationError prints err with a hint for the failures a user can
// act on.
func printOperationError(err error) {
	printError(err.Error())

	var termErr *x3270protocol.TerminatedError
	var kbErr *x3270protocol.KeyboardStateError
	switch {
	case errors.As(err, &termErr):
		fmt.Fprintln(os.Stderr, "The emulator has exited. Type .quit to leave.")
	case errors.As(err, &kbErr):
		fmt.Fprintln(os.Stderr, "The host has not unlocked the keyboard yet. Try 'wait' again.")
	case errors.Is(err, x3270protocol.ErrNoHost):
		fmt.Fprintln(os.Stderr, "Use 'connect <host>' first.")
	}
}
