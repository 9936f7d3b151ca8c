// =============================================================================
// help.go - REPL Help System
// =============================================================================
//
// .help prints an overview of every command; .help <topic> prints the
// detailed entry for one dot-command or REPL word. Topic lookup is
// case-insensitive and ignores a leading dot, so ".help .status",
// ".help status" and ".help STATUS" are the same.
//
// =============================================================================

package main

import (
	"fmt"
	"os"
	"strings"
)

// printHelp prints the overview when topic is empty, otherwise the entry
// for topic.
func printHelp(topic string) {
	if topic == "" {
		printHelpOverview()
		return
	}

	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(topic)), ".")

	if text, ok := globalHelp[key]; ok {
		fmt.Println(text)
		return
	}
	if text, ok := commandHelp[key]; ok {
		fmt.Println(text)
		return
	}

	fmt.Fprintf(os.Stderr, "Error: No help for '%s'. Type .help to see available commands.\n", topic)
}

// printHelpOverview prints a summary of all commands.
func printHelpOverview() {
	fmt.Print(`Global Commands:
  .help [cmd]       Show help (or help for a specific command)
  .status           Show the last emulator status line
  .connected        Ask the emulator whether it is connected
  .raw <action>     Send a scripting action verbatim
  .quit             Terminate the emulator and exit

Session:
  connect <host>    Connect to host (e.g. connect mainframe:23)
  reconnect         Disconnect and connect to the last host again
  disconnect        Disconnect from the host
  wait              Wait until the host is ready for input

Screen:
  move <r> <c>      Move the cursor (1-based row and column)
  type [r c] <text> Type text, optionally at a position
  get <r> <c> <n>   Read n characters from the screen
  find <r> <c> <t>  Check whether text t is at a position
  fill <r> <c> <n> <text>
                    Clear a field of length n and type text into it
  save <path>       Save the screen as HTML

Keys:
  enter             Enter (AID)
  pf <n>            Program function key n (1-24)
  pa <n>            Program attention key n (1-3)
  clear             Clear key
  tab               Move to the next input field
  delete            Delete the current field
  erase             Erase to end of field

Anything else is sent to the emulator unchanged, e.g. Home or
Ascii(0,0,80).
`)
}

// =============================================================================
// Help Dictionaries
// =============================================================================

var globalHelp = map[string]string{
	"help": `  .help [topic]
    Without a topic, list all commands. With a topic, show detailed
    help for that dot-command or REPL word.`,

	"status": `  .status
    Print the status line from the most recent emulator response:
      STATUS: <keyboard> <format> <protection> <connection> <mode>
              <model> <rows> <cols> <cursor row> <cursor col>
              <window id> <exec time>
    No command is sent; use .connected to refresh it.`,

	"connected": `  .connected
    Send Query(ConnectionState) and report whether the emulator is
    connected to a host.`,

	"raw": `  .raw <action>
    Send <action> to the emulator exactly as typed and print any data
    lines it returns. Useful for actions whose name is also a REPL
    word, e.g. .raw Delete deletes one character rather than the field.`,

	"quit": `  .quit
    Send Quit to the emulator, wait for it to exit, and leave the REPL.
    Ctrl-D does the same.`,
}

var commandHelp = map[string]string{
	"connect": `  connect <host>
    Connect to <host>. The host may include a port (mainframe:23) and
    any prefixes the emulator accepts (L: for TLS).`,

	"reconnect": `  reconnect
    Disconnect, then connect to the host of the last successful
    connect. Fails if nothing was connected yet.`,

	"disconnect": `  disconnect
    Disconnect from the host. The emulator keeps running.`,

	"wait": `  wait
    Wait until the host unlocks the keyboard in an input field, up to
    the configured timeout (--timeout). Reports an error showing the
    keyboard state if it is still locked afterwards.`,

	"move": `  move <row> <col>
    Move the cursor. Rows and columns start at 1.`,

	"type": `  type <text>
  type <row> <col> <text>
    Type text at the cursor, or move first when a position is given.
    Quotes and backslashes are escaped unless --legacy-quotes is set.`,

	"get": `  get <row> <col> <length>
    Print <length> characters of screen text starting at the position.`,

	"find": `  find <row> <col> <text>
    Print "found" if the screen shows exactly <text> at the position,
    otherwise "not found".`,

	"fill": `  fill <row> <col> <length> <text>
    Move to the field, delete its contents, and type <text>. Refuses
    text longer than <length> without sending anything.`,

	"enter": `  enter
    Send the Enter AID key.`,

	"pf": `  pf <n>
    Send program function key <n> (1-24).`,

	"pa": `  pa <n>
    Send program attention key <n> (1-3).`,

	"clear": `  clear
    Send the Clear AID key.`,

	"tab": `  tab
    Move the cursor to the next unprotected field.`,

	"delete": `  delete
    Delete the contents of the field under the cursor.`,

	"erase": `  erase
    Erase from the cursor to the end of the field.`,

	"save": `  save <path>
    Save the current screen to <path> as HTML.`,
}
