package client

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Stats is the client-side counter record, printed on disconnect (mirrors
// the server's session.Stats in shape, scaled down to what a single
// connection needs).
type Stats struct {
	mu sync.Mutex

	startTime        time.Time
	commandsIssued   int64
	filesTransferred int64
	bytesSent        int64
	bytesReceived    int64
	errors           int64
}

func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

func (s *Stats) IncCommandsIssued()   { s.mu.Lock(); s.commandsIssued++; s.mu.Unlock() }
func (s *Stats) IncFilesTransferred() { s.mu.Lock(); s.filesTransferred++; s.mu.Unlock() }
func (s *Stats) IncErrors()           { s.mu.Lock(); s.errors++; s.mu.Unlock() }

func (s *Stats) AddBytesSent(n int64) {
	s.mu.Lock()
	s.bytesSent += n
	s.mu.Unlock()
}

func (s *Stats) AddBytesReceived(n int64) {
	s.mu.Lock()
	s.bytesReceived += n
	s.mu.Unlock()
}

type Snapshot struct {
	Uptime           time.Duration
	CommandsIssued   int64
	FilesTransferred int64
	BytesSent        int64
	BytesReceived    int64
	Errors           int64
}

func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Uptime:           time.Since(s.startTime),
		CommandsIssued:   s.commandsIssued,
		FilesTransferred: s.filesTransferred,
		BytesSent:        s.bytesSent,
		BytesReceived:    s.bytesReceived,
		Errors:           s.errors,
	}
}

func (snap Snapshot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session statistics:\n")
	fmt.Fprintf(&b, "  Duration: %s\n", snap.Uptime.Truncate(time.Second))
	fmt.Fprintf(&b, "  Commands issued: %d\n", snap.CommandsIssued)
	fmt.Fprintf(&b, "  Files transferred: %d\n", snap.FilesTransferred)
	fmt.Fprintf(&b, "  Bytes sent: %d\n", snap.BytesSent)
	fmt.Fprintf(&b, "  Bytes received: %d\n", snap.BytesReceived)
	fmt.Fprintf(&b, "  Errors: %d\n", snap.Errors)
	return b.String()
}
