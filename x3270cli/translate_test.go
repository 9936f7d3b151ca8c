// =============================================================================
// translate_test.go - Tests for REPL Word Translation (translate.go)
// =============================================================================
//
// Translation is tested end to end: each line is translated, run against a
// fake emulator, and the scripting commands the fake received are compared
// with the expected wire text.
//
// =============================================================================

package main

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/tn3270/x3270-go/x3270protocol"
)

func TestTranslateCommands(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		commands []string
		output   string
	}{
		{"Connect", "connect mainframe:23", []string{"Connect(mainframe:23)"}, "Connected to mainframe:23"},
		{"Disconnect", "disconnect", []string{"Disconnect"}, ""},
		{"Wait", "wait", []string{"Wait(30, InputField)"}, ""},
		{"Move", "move 3 10", []string{"MoveCursor(2, 9)"}, ""},
		{"Type", "type hello", []string{`String("hello")`}, ""},
		{"Type keeps spacing", "type  two  words", []string{`String("two  words")`}, ""},
		{"Type escapes quotes", `type say "hi"`, []string{`String("say \"hi\"")`}, ""},
		{"Type at position", "type 5 20 hello there", []string{"MoveCursor(4, 19)", `String("hello there")`}, ""},
		{"Type numbers only", "type 12 34", []string{`String("12 34")`}, ""},
		{"Type non-numeric prefix", "type row 2 text", []string{`String("row 2 text")`}, ""},
		{"Get", "get 1 1 5", []string{"Ascii(0,0,5)"}, "HELLO"},
		{"Find found", "find 1 1 HELLO", []string{"Ascii(0,0,5)"}, "found"},
		{"Find not found", "find 1 1 HELP", []string{"Ascii(0,0,4)"}, "not found"},
		{"Fill", "fill 4 20 8 USER01", []string{"MoveCursor(3, 19)", "DeleteField", `String("USER01")`}, ""},
		{"Enter", "enter", []string{"Enter"}, ""},
		{"PF", "pf 3", []string{"PF(3)"}, ""},
		{"PA", "pa 2", []string{"PA(2)"}, ""},
		{"Clear", "clear", []string{"Clear"}, ""},
		{"Tab", "tab", []string{"Tab"}, ""},
		{"Delete", "delete", []string{"DeleteField"}, ""},
		{"Erase", "erase", []string{"EraseEOF"}, ""},
		{"Save", "save /tmp/screen.html", []string{"PrintText(html,file,/tmp/screen.html)"}, "Screen saved to /tmp/screen.html"},
		{"Keyword case-insensitive", "ENTER", []string{"Enter"}, ""},
		{"Raw action", "Home", []string{"Home"}, ""},
		{"Raw action with args", "Ascii(0,0,80)", []string{"Ascii(0,0,80)"}, "HELLO"},
		{"Raw keeps case", "Transfer(Direction=send)", []string{"Transfer(Direction=send)"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em, fake := startFakeEmulator(t, defaultFakeHandler)

			op, err := translate(tt.input)
			if err != nil {
				t.Fatalf("translate(%q) error: %v", tt.input, err)
			}
			out, err := op(em)
			if err != nil {
				t.Fatalf("operation error: %v", err)
			}
			if out != tt.output {
				t.Errorf("output = %q, want %q", out, tt.output)
			}
			if got := fake.received(); !reflect.DeepEqual(got, tt.commands) {
				t.Errorf("commands = %q, want %q", got, tt.commands)
			}
		})
	}
}

func TestTranslateReconnect(t *testing.T) {
	em, fake := startFakeEmulator(t, defaultFakeHandler)

	op, err := translate("reconnect")
	if err != nil {
		t.Fatalf("translate error: %v", err)
	}

	t.Run("Without host", func(t *testing.T) {
		if _, err := op(em); !errors.Is(err, x3270protocol.ErrNoHost) {
			t.Fatalf("err = %v, want ErrNoHost", err)
		}
		if n := len(fake.received()); n != 0 {
			t.Errorf("sent %d commands, want 0", n)
		}
	})

	t.Run("After connect", func(t *testing.T) {
		if err := em.Connect("mainframe"); err != nil {
			t.Fatalf("Connect: %v", err)
		}
		out, err := op(em)
		if err != nil {
			t.Fatalf("operation error: %v", err)
		}
		if out != "Reconnected to mainframe" {
			t.Errorf("output = %q", out)
		}
		want := []string{"Connect(mainframe)", "Disconnect", "Connect(mainframe)"}
		if got := fake.received(); !reflect.DeepEqual(got, want) {
			t.Errorf("commands = %q, want %q", got, want)
		}
	})
}

func TestTranslateFillTooLongSendsNothing(t *testing.T) {
	em, fake := startFakeEmulator(t, defaultFakeHandler)

	op, err := translate("fill 1 1 3 TOOLONG")
	if err != nil {
		t.Fatalf("translate error: %v", err)
	}
	_, err = op(em)
	var truncErr *x3270protocol.FieldTruncateError
	if !errors.As(err, &truncErr) {
		t.Fatalf("err = %v, want *FieldTruncateError", err)
	}
	if n := len(fake.received()); n != 0 {
		t.Errorf("sent %d commands, want 0", n)
	}
}

func TestTranslateCommandError(t *testing.T) {
	em, _ := startFakeEmulator(t, defaultFakeHandler)

	op, err := translate("Bogus")
	if err != nil {
		t.Fatalf("translate error: %v", err)
	}
	_, err = op(em)
	var cmdErr *x3270protocol.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("err = %v, want *CommandError", err)
	}
	if cmdErr.Message != "Unknown action: Bogus" {
		t.Errorf("Message = %q", cmdErr.Message)
	}
}

func TestTranslateUsageErrors(t *testing.T) {
	tests := []struct {
		input   string
		keyword string
		reason  string
	}{
		{"connect", "connect", ""},
		{"connect a b", "connect", ""},
		{"reconnect now", "reconnect", ""},
		{"move", "move", "expected 2 arguments, got 0"},
		{"move 1", "move", "expected 2 arguments, got 1"},
		{"move 1 2 3", "move", "expected 2 arguments, got 3"},
		{"move x 2", "move", `invalid row "x"`},
		{"move 1 0", "move", `invalid col "0"`},
		{"type", "type", ""},
		{"get 1 1", "get", "expected 3 arguments, got 2"},
		{"get 1 1 -5", "get", `invalid length "-5"`},
		{"find 1 1", "find", ""},
		{"find a 1 text", "find", `invalid row "a"`},
		{"fill 1 1 5", "fill", ""},
		{"fill 1 1 n text", "fill", `invalid length "n"`},
		{"pf", "pf", "expected 1 arguments, got 0"},
		{"pf x", "pf", `invalid n "x"`},
		{"pa 1 2", "pa", "expected 1 arguments, got 2"},
		{"save", "save", ""},
		{"enter now", "enter", ""},
		{"clear screen", "clear", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := translate(tt.input)
			var usageErr *usageError
			if !errors.As(err, &usageErr) {
				t.Fatalf("err = %v, want *usageError", err)
			}
			if usageErr.Keyword != tt.keyword {
				t.Errorf("Keyword = %q, want %q", usageErr.Keyword, tt.keyword)
			}
			if usageErr.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", usageErr.Reason, tt.reason)
			}
			if !strings.Contains(err.Error(), usages[tt.keyword]) {
				t.Errorf("Error() = %q, should contain usage %q", err.Error(), usages[tt.keyword])
			}
		})
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  []string
	}{
		{"", 2, nil},
		{"enter", 2, []string{"enter"}},
		{"type hello world", 2, []string{"type", "hello world"}},
		{"  type \t hello  world ", 2, []string{"type", "hello  world "}},
		{"5 20 hello there", 3, []string{"5", "20", "hello there"}},
		{"5 20", 3, []string{"5", "20"}},
		{"a b c d", 1, []string{"a b c d"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := splitWords(tt.input, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitWords(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
			}
		})
	}
}
