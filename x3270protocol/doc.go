// Package x3270protocol provides a Go client for the scripting interface of
// the x3270 family of 3270 terminal emulators (x3270, s3270, ws3270 and
// wc3270).
//
// The package does not speak the 3270 data stream itself. It starts an
// emulator, or connects to its script port, and drives it with textual
// actions such as MoveCursor(4, 6) or Ascii(0,0,80).
//
// # Protocol Overview
//
// Every request is one line. Every response is zero or more data lines,
// one status line and one result line:
//
//	Request:      String("LOGON")\n
//	Data line:    data: <payload>\n
//	Status line:  U F U C(host) I 4 24 80 0 0 0x0 0.001\n
//	Result line:  ok\n | error\n
//
// The status line is decoded into a Status after every command.
//
// # Basic Usage
//
// Start a headless emulator and connect to a host:
//
//	transport, err := x3270protocol.NewTransport(x3270protocol.TransportConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	em := x3270protocol.NewEmulator(transport, x3270protocol.Config{
//	    Timeout: 10 * time.Second,
//	})
//	defer em.Terminate()
//
//	if err := em.Connect("tn3270.example.com"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := em.WaitForField(); err != nil {
//	    log.Fatal(err)
//	}
//	if err := em.FillFieldAt(20, 16, "USERID", 8); err != nil {
//	    log.Fatal(err)
//	}
//	em.SendEnter()
//
// Coordinates passed to Emulator methods are 1-based, as displayed in the
// terminal's status area. Actions hold the 0-based coordinates sent on the
// wire.
//
// # Errors
//
// Failures are typed: *CommandError when the emulator answered "error",
// *ProtocolError when a response breaks the framing contract,
// *TerminatedError after Terminate, *KeyboardStateError when WaitForField
// finds the keyboard locked and *FieldTruncateError when text does not fit
// a field. Use errors.As to inspect them.
//
// # Transports
//
// NewTransport picks the emulator from TransportConfig: x3270 or s3270 on
// Unix, wc3270 or ws3270 on Windows. wc3270 is driven over its TCP script
// port and connects to the host itself, which Emulator.Connect detects
// through the Connector interface. NewStreamTransport wraps any reader and
// writer pair.
//
// # Thread Safety
//
// An Emulator serializes its operations with a mutex. There is never more
// than one command in flight per Emulator.
package x3270protocol
