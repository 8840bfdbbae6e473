// Package wire formats and parses the text-response half of the protocol
// and provides the .part staging helper shared by the server and client.
package wire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Ruturajs29/FileByte/internal/respcode"
)

const crlf = "\r\n"

// FormatResponse renders a response line as CODE SP MESSAGE CRLF, followed
// by one CRLF-terminated line per entry in detail. This is the one and only
// formatting path: message is never special-cased against the code it is
// paired with, even when message happens to contain the code as a prefix.
func FormatResponse(key respcode.Key, message string, detail ...string) string {
	e := respcode.Lookup(key)
	if message == "" {
		message = e.Message
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s%s", e.Code, message, crlf)
	for _, line := range detail {
		b.WriteString(line)
		b.WriteString(crlf)
	}
	return b.String()
}

// ParsedResponse is a decoded response line: the numeric code, the message
// text on the status line, and any additional detail lines.
type ParsedResponse struct {
	Code    int
	Message string
	Detail  []string
}

// ParseResponse decodes a full response payload (as produced by
// FormatResponse) back into its code, message, and detail lines. It returns
// ok=false if the payload does not begin with a three-digit code.
func ParseResponse(payload string) (ParsedResponse, bool) {
	payload = strings.TrimRight(payload, crlf)
	lines := strings.Split(payload, crlf)
	if len(lines) == 0 {
		return ParsedResponse{}, false
	}
	status := lines[0]
	if len(status) < 3 {
		return ParsedResponse{}, false
	}
	for i := 0; i < 3; i++ {
		if status[i] < '0' || status[i] > '9' {
			return ParsedResponse{}, false
		}
	}
	code, err := strconv.Atoi(status[:3])
	if err != nil {
		return ParsedResponse{}, false
	}
	message := ""
	if len(status) > 4 {
		message = status[4:]
	}
	return ParsedResponse{Code: code, Message: message, Detail: lines[1:]}, true
}
