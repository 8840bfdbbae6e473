// Package respcode holds the fixed mapping from symbolic response keys to
// the three-digit codes and default messages the server reports outcomes
// with. Immutable for the lifetime of the process.
package respcode

// Key names one entry of the response code table.
type Key string

const (
	Ready             Key = "READY"
	Goodbye           Key = "GOODBYE"
	FileStatusOK      Key = "FILE_STATUS_OK"
	CmdOK             Key = "CMD_OK"
	EnteringTransfer  Key = "ENTERING_TRANSFER"
	SyntaxError       Key = "SYNTAX_ERROR"
	SyntaxErrorParam  Key = "SYNTAX_ERROR_PARAM"
	NotImplemented    Key = "NOT_IMPLEMENTED"
	BadSequence       Key = "BAD_SEQUENCE"
	FileUnavailable   Key = "FILE_UNAVAILABLE"
	LocalError        Key = "LOCAL_ERROR"
)

// Entry is one row of the response code table: a three-digit code paired
// with its default human-readable message.
type Entry struct {
	Code    int
	Message string
}

// table is the fixed key -> code/message mapping. Never mutated after init.
var table = map[Key]Entry{
	Ready:            {220, "Service ready"},
	Goodbye:          {221, "Service closing control connection"},
	FileStatusOK:     {226, "Closing data connection, file transfer successful"},
	CmdOK:            {200, "Command OK"},
	EnteringTransfer: {150, "File status okay; about to open data connection"},
	SyntaxError:      {500, "Syntax error, command unrecognized"},
	SyntaxErrorParam: {501, "Syntax error in parameters or arguments"},
	NotImplemented:   {502, "Command not implemented"},
	BadSequence:      {503, "Bad sequence of commands"},
	FileUnavailable:  {550, "File unavailable (e.g., file not found, no access)"},
	LocalError:       {451, "Requested action aborted, local error"},
}

// Lookup returns the entry for key. An unknown key falls back to CmdOK
// rather than panicking on a typo'd symbolic key.
func Lookup(key Key) Entry {
	if e, ok := table[key]; ok {
		return e
	}
	return table[CmdOK]
}

// Code returns just the numeric code for key.
func Code(key Key) int {
	return Lookup(key).Code
}
