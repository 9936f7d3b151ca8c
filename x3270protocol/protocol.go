// Package x3270protocol implements the line-oriented scripting protocol
// spoken by the x3270 family of terminal emulators.
//
// Protocol Format:
//
//	Request (client -> emulator):  <Action>(<args>)\n
//	Data line:                     data: <payload>\n     (zero or more)
//	Status line:                   12 space-separated fields\n
//	Result line:                   ok | error\n
//
// Example Session:
//
//	CLI: MoveCursor(4, 6)
//	EMU: U F U C(tn3270.example.com) I 4 24 80 4 6 0x0 0.001
//	EMU: ok
//	CLI: Ascii(4,6,5)
//	EMU: data: LOGON
//	EMU: U F U C(tn3270.example.com) I 4 24 80 4 6 0x0 0.000
//	EMU: ok
package x3270protocol

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Protocol constants.
const (
	// DataPrefix marks a payload line in a response.
	DataPrefix = "data:"

	// dataPrefixLen is the number of bytes stripped from a data line: the
	// prefix plus the single space the emulator writes after it.
	dataPrefixLen = len(DataPrefix) + 1

	// ResultOK is the result line of a successful command.
	ResultOK = "ok"

	// ResultError is the result line of a failed command.
	ResultError = "error"

	// QuitCommand is the only command allowed to answer with an empty
	// result line.
	QuitCommand = "Quit"

	// NoErrorMessage is used when an error result carries no data lines.
	NoErrorMessage = "[no error message]"

	// StatusFieldCount is the number of fields in a status line.
	StatusFieldCount = 12

	// ConnectedPrefix starts the connection-state field of a connected
	// session, e.g. C(192.168.1.1).
	ConnectedPrefix = "C("

	// KeyboardUnlocked is the keyboard state of a session ready for input.
	KeyboardUnlocked = "U"

	// DefaultTimeout is the default budget passed to Wait() commands.
	DefaultTimeout = 30 * time.Second

	// DefaultScriptPort is the TCP port wc3270 listens on for scripts.
	DefaultScriptPort = 17938

	// ScriptPortDialAttempts bounds the dial loop against a starting wc3270.
	ScriptPortDialAttempts = 15

	// ScriptPortDialInterval is the pause between two dial attempts.
	ScriptPortDialInterval = 1 * time.Second
)

// Emulator executables.
const (
	ExecutableX3270  = "x3270"
	ExecutableS3270  = "s3270"
	ExecutableWS3270 = "ws3270"
	ExecutableWC3270 = "wc3270"
)

// unlockDelayArgs disables the 350ms delay x3270 inserts after AID
// commands, which only old hosts that unlocked the keyboard early needed.
func unlockDelayArgs(executable string) []string {
	return []string{"-xrm", fmt.Sprintf("%s.unlockDelay: False", executable)}
}

// DefaultArgs returns the command-line arguments used to start the given
// emulator executable in scripting mode.
func DefaultArgs(executable string) []string {
	args := unlockDelayArgs(executable)
	if executable == ExecutableX3270 {
		args = append(args, "-script")
	}
	return args
}

// FindExecutable searches for an emulator binary in standard locations and
// returns its full path.
//
// The search order is:
//  1. An absolute or relative path given directly
//  2. The same directory as the running binary
//  3. PATH
//  4. /usr/local/bin, /opt/homebrew/bin and ~/.local/bin
func FindExecutable(name string) (string, error) {
	if filepath.IsAbs(name) || filepath.Base(name) != name {
		if isExecutable(name) {
			return name, nil
		}
		return "", fmt.Errorf("%w: %s", ErrExecutableNotFound, name)
	}

	if selfPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(selfPath), name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	commonPaths := []string{
		"/usr/local/bin",
		"/opt/homebrew/bin",
	}
	if home, err := os.UserHomeDir(); err == nil {
		commonPaths = append(commonPaths, filepath.Join(home, ".local", "bin"))
	}
	for _, dir := range commonPaths {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s not found in PATH or common locations", ErrExecutableNotFound, name)
}

// isExecutable checks if a file exists and is executable.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Mode().Perm()&0111 != 0
}
