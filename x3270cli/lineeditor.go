// =============================================================================
// lineeditor.go - REPL Input with Command Completion
// =============================================================================
//
// On a terminal, lines come from ergochat/readline: Emacs keys, history in
// ~/.x3270_history, and Tab completion of the REPL vocabulary (dot-commands,
// .help topics and the command words from translate.go).
//
// Everywhere else, a bufio.Scanner reads stdin and the prompt is printed by
// hand. That covers scripts ("x3270-go < logon.txt") and Emacs comint
// buffers, which run on a PTY but do their own editing.
//
// =============================================================================

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

// historySize is the maximum number of history entries kept on disk.
const historySize = 500

// LineEditor reads REPL lines. Exactly one of rl and scanner is set.
type LineEditor struct {
	rl      *readline.Instance
	scanner *bufio.Scanner
}

// NewLineEditor reads from os.Stdin, with readline and history at
// historyPath when stdin is a terminal that readline may drive.
func NewLineEditor(historyPath string) *LineEditor {
	if !readlineUsable() {
		return newScannerEditor(os.Stdin)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyPath,
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
		AutoComplete:           newCompleter(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline unavailable (%v), reading plain lines\n", err)
		return newScannerEditor(os.Stdin)
	}
	return &LineEditor{rl: rl}
}

// readlineUsable reports whether stdin is a terminal outside Emacs. Emacs
// sets INSIDE_EMACS for comint buffers.
func readlineUsable() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && os.Getenv("INSIDE_EMACS") == ""
}

// newScannerEditor reads plain lines from r.
func newScannerEditor(r io.Reader) *LineEditor {
	return &LineEditor{scanner: bufio.NewScanner(r)}
}

// GetLine shows prompt and returns the next line. End of input and Ctrl-C
// both return io.EOF, which ends the REPL.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.rl == nil {
		fmt.Print(prompt)
		if le.scanner.Scan() {
			return le.scanner.Text(), nil
		}
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	le.rl.SetPrompt(prompt)
	line, err := le.rl.Readline()
	switch {
	case errors.Is(err, readline.ErrInterrupt):
		return "", io.EOF
	case err != nil:
		return "", err
	}

	if keepInHistory(line) {
		le.rl.SaveToHistory(strings.TrimSpace(line))
	}
	return line, nil
}

// keepInHistory reports whether line is worth recalling. Blank lines and
// .quit are dropped, so Up-Enter never ends a session by accident.
func keepInHistory(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && !strings.EqualFold(line, ".quit")
}

// Close restores the terminal. Safe to call more than once.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// newCompleter completes dot-commands, the topics after .help, and the
// command words.
func newCompleter() *readline.PrefixCompleter {
	var topics []*readline.PrefixCompleter
	for _, topic := range sortedKeys(globalHelp, commandHelp) {
		topics = append(topics, readline.PcItem(topic))
	}

	var items []*readline.PrefixCompleter
	for _, name := range sortedKeys(globalHelp) {
		if name == "help" {
			items = append(items, readline.PcItem(".help", topics...))
			continue
		}
		items = append(items, readline.PcItem("."+name))
	}
	for _, word := range sortedKeys(usages) {
		items = append(items, readline.PcItem(word))
	}
	return readline.NewPrefixCompleter(items...)
}

func sortedKeys(dicts ...map[string]string) []string {
	var keys []string
	for _, d := range dicts {
		for k := range d {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}
