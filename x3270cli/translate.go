// =============================================================================
// translate.go - REPL Word Translation
// =============================================================================
//
// Turns REPL input into emulator operations. A line starts with a keyword
// (case-insensitive) followed by its arguments:
//
//	move 3 10            MoveTo(3, 10)
//	type 5 20 hello      SendStringAt("hello", 5, 20)
//	get 1 1 10           StringGet(1, 1, 10)
//	pf 3                 SendPF(3)
//
// Rows and columns are 1-based like the library API. A line whose first word
// is not a known keyword is sent to the emulator unchanged as a raw
// scripting action, so everything the emulator understands ("Home",
// "Transfer(...)", "Ascii") is still reachable.
//
// =============================================================================

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tn3270/x3270-go/x3270protocol"
)

// operation runs one translated REPL command and returns the text to show.
type operation func(em *x3270protocol.Emulator) (string, error)

// usageError reports a known keyword used with the wrong arguments.
type usageError struct {
	Keyword string
	Usage   string
	Reason  string
}

func (e *usageError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (usage: %s)", e.Keyword, e.Reason, e.Usage)
	}
	return fmt.Sprintf("usage: %s", e.Usage)
}

// usages maps each keyword to its argument synopsis.
var usages = map[string]string{
	"connect":    "connect <host>",
	"reconnect":  "reconnect",
	"disconnect": "disconnect",
	"wait":       "wait",
	"move":       "move <row> <col>",
	"type":       "type [<row> <col>] <text>",
	"get":        "get <row> <col> <length>",
	"find":       "find <row> <col> <text>",
	"fill":       "fill <row> <col> <length> <text>",
	"enter":      "enter",
	"pf":         "pf <n>",
	"pa":         "pa <n>",
	"clear":      "clear",
	"tab":        "tab",
	"delete":     "delete",
	"erase":      "erase",
	"save":       "save <path>",
}

// translate parses one non-empty, non-dot REPL line.
func translate(line string) (operation, error) {
	words := splitWords(strings.TrimSpace(line), 2)
	if len(words) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	keyword := strings.ToLower(words[0])
	rest := ""
	if len(words) > 1 {
		rest = words[1]
	}

	usage, known := usages[keyword]
	if !known {
		return rawOperation(line), nil
	}
	bad := func(reason string) error {
		return &usageError{Keyword: keyword, Usage: usage, Reason: reason}
	}

	switch keyword {
	case "connect":
		if rest == "" || strings.ContainsAny(rest, " \t") {
			return nil, bad("")
		}
		host := rest
		return func(em *x3270protocol.Emulator) (string, error) {
			if err := em.Connect(host); err != nil {
				return "", err
			}
			return "Connected to " + host, nil
		}, nil

	case "reconnect":
		if rest != "" {
			return nil, bad("")
		}
		return func(em *x3270protocol.Emulator) (string, error) {
			if err := em.Reconnect(); err != nil {
				return "", err
			}
			return "Reconnected to " + em.LastHost(), nil
		}, nil

	case "move":
		nums, err := parseInts(splitWords(rest, 3), "row", "col")
		if err != nil {
			return nil, bad(err.Error())
		}
		return func(em *x3270protocol.Emulator) (string, error) {
			return "", em.MoveTo(nums[0], nums[1])
		}, nil

	case "type":
		if rest == "" {
			return nil, bad("")
		}
		// "type <row> <col> <text>" only when the first two words are
		// numbers and text follows; otherwise the whole rest is text.
		if args := splitWords(rest, 3); len(args) == 3 {
			if nums, err := parseInts(args[:2], "row", "col"); err == nil {
				text := args[2]
				return func(em *x3270protocol.Emulator) (string, error) {
					return "", em.SendStringAt(text, nums[0], nums[1])
				}, nil
			}
		}
		return func(em *x3270protocol.Emulator) (string, error) {
			return "", em.SendString(rest)
		}, nil

	case "get":
		nums, err := parseInts(splitWords(rest, 4), "row", "col", "length")
		if err != nil {
			return nil, bad(err.Error())
		}
		return func(em *x3270protocol.Emulator) (string, error) {
			return em.StringGet(nums[0], nums[1], nums[2])
		}, nil

	case "find":
		args := splitWords(rest, 3)
		if len(args) != 3 {
			return nil, bad("")
		}
		nums, err := parseInts(args[:2], "row", "col")
		if err != nil {
			return nil, bad(err.Error())
		}
		text := args[2]
		return func(em *x3270protocol.Emulator) (string, error) {
			found, err := em.StringFound(nums[0], nums[1], text)
			if err != nil {
				return "", err
			}
			if found {
				return "found", nil
			}
			return "not found", nil
		}, nil

	case "fill":
		args := splitWords(rest, 4)
		if len(args) != 4 {
			return nil, bad("")
		}
		nums, err := parseInts(args[:3], "row", "col", "length")
		if err != nil {
			return nil, bad(err.Error())
		}
		text := args[3]
		return func(em *x3270protocol.Emulator) (string, error) {
			return "", em.FillFieldAt(nums[0], nums[1], text, nums[2])
		}, nil

	case "pf", "pa":
		nums, err := parseInts(splitWords(rest, 2), "n")
		if err != nil {
			return nil, bad(err.Error())
		}
		send := (*x3270protocol.Emulator).SendPF
		if keyword == "pa" {
			send = (*x3270protocol.Emulator).SendPA
		}
		return func(em *x3270protocol.Emulator) (string, error) {
			return "", send(em, nums[0])
		}, nil

	case "save":
		if rest == "" {
			return nil, bad("")
		}
		path := rest
		return func(em *x3270protocol.Emulator) (string, error) {
			if err := em.SaveScreen(path); err != nil {
				return "", err
			}
			return "Screen saved to " + path, nil
		}, nil
	}

	// The remaining keywords take no arguments.
	if rest != "" {
		return nil, bad("")
	}
	simple := map[string]func(*x3270protocol.Emulator) error{
		"disconnect": (*x3270protocol.Emulator).Disconnect,
		"wait":       (*x3270protocol.Emulator).WaitForField,
		"enter":      (*x3270protocol.Emulator).SendEnter,
		"clear":      (*x3270protocol.Emulator).Clear,
		"tab":        (*x3270protocol.Emulator).Tab,
		"delete":     (*x3270protocol.Emulator).DeleteField,
		"erase":      (*x3270protocol.Emulator).EraseEOF,
	}
	fn := simple[keyword]
	return func(em *x3270protocol.Emulator) (string, error) {
		return "", fn(em)
	}, nil
}

// rawOperation sends line verbatim and shows any data lines it returns.
func rawOperation(line string) operation {
	return func(em *x3270protocol.Emulator) (string, error) {
		cmd, err := em.Exec(line)
		if err != nil {
			return "", err
		}
		return strings.Join(cmd.Data, "\n"), nil
	}
}

// splitWords splits off up to n-1 leading whitespace-separated words and
// returns them followed by the untouched remainder, so free text keeps its
// inner spacing.
func splitWords(s string, n int) []string {
	var out []string
	s = strings.TrimLeft(s, " \t")
	for len(out) < n-1 && s != "" {
		i := strings.IndexAny(s, " \t")
		if i < 0 {
			break
		}
		out = append(out, s[:i])
		s = strings.TrimLeft(s[i:], " \t")
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

// parseInts converts exactly len(names) positive integers.
func parseInts(args []string, names ...string) ([]int, error) {
	if len(args) != len(names) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(names), len(args))
	}
	nums := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid %s %q", names[i], arg)
		}
		nums[i] = n
	}
	return nums, nil
}
