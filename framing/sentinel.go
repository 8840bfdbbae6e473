// Package framing implements the wire-level primitives shared by the server
// and client: the CRLF sentinels that bracket file bodies inside the single
// byte stream, and the chunk splitter that locates them across arbitrary
// read boundaries.
//
// Wire format (bit-exact, spec-fixed): all three sentinels are literal ASCII
// byte sequences terminated by CRLF. They never get length-prefixed or
// otherwise re-encoded — a reimplementation MAY add length-prefixed framing
// as a non-breaking superset, but this repo makes no such revision and keeps
// the sentinel scan as specified.
package framing

// Sentinel is an inline CRLF-terminated marker that demarcates a binary
// region inside the mixed text/binary stream.
type Sentinel []byte

var (
	// FileStart precedes a file body. Sent server->client before a download
	// body and client->server before an upload body.
	FileStart Sentinel = []byte("FILE_START\r\n")

	// FileEnd follows a file body, on both directions.
	FileEnd Sentinel = []byte("FILE_END\r\n")

	// ReadyForFile is sent server->client to grant permission to begin an
	// upload body, in response to PUT.
	ReadyForFile Sentinel = []byte("READY_FOR_FILE\r\n")
)

// CRLF terminates every text response line.
const CRLF = "\r\n"

// MaxCarry is the longest sentinel minus one byte: the most a Scanner ever
// needs to hold back across a Feed call to detect a straddling sentinel.
func MaxCarry() int {
	max := len(FileStart)
	if len(FileEnd) > max {
		max = len(FileEnd)
	}
	if len(ReadyForFile) > max {
		max = len(ReadyForFile)
	}
	return max - 1
}
