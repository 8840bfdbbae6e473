package session

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Stats is the server's process-wide counter record: connections accepted,
// commands dispatched, files transferred, bytes moved, and errors. Counters
// only increase; updated under lock but never while holding it across
// blocking I/O.
type Stats struct {
	mu sync.Mutex

	startTime         time.Time
	connections       int64
	commandsProcessed int64
	filesTransferred  int64
	bytesSent         int64
	bytesReceived     int64
	errors            int64
}

// NewStats returns an initialised Stats with its clock started.
func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

func (s *Stats) IncConnections()      { s.mu.Lock(); s.connections++; s.mu.Unlock() }
func (s *Stats) IncCommandsProcessed(){ s.mu.Lock(); s.commandsProcessed++; s.mu.Unlock() }
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

// Snapshot is an immutable copy of the counters at one instant.
type Snapshot struct {
	Uptime            time.Duration
	Connections       int64
	CommandsProcessed int64
	FilesTransferred  int64
	BytesSent         int64
	BytesReceived     int64
	Errors            int64
}

// Snapshot copies the counters out under lock.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Uptime:            time.Since(s.startTime),
		Connections:       s.connections,
		CommandsProcessed: s.commandsProcessed,
		FilesTransferred:  s.filesTransferred,
		BytesSent:         s.bytesSent,
		BytesReceived:     s.bytesReceived,
		Errors:            s.errors,
	}
}

// String renders the snapshot as the STAT command's aggregate block.
func (snap Snapshot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Server Statistics:\r\n")
	fmt.Fprintf(&b, "  Uptime: %s\r\n", snap.Uptime.Truncate(time.Second))
	fmt.Fprintf(&b, "  Connections: %d\r\n", snap.Connections)
	fmt.Fprintf(&b, "  Commands processed: %d\r\n", snap.CommandsProcessed)
	fmt.Fprintf(&b, "  Files transferred: %d\r\n", snap.FilesTransferred)
	fmt.Fprintf(&b, "  Bytes sent: %d\r\n", snap.BytesSent)
	fmt.Fprintf(&b, "  Bytes received: %d\r\n", snap.BytesReceived)
	fmt.Fprintf(&b, "  Errors: %d\r\n", snap.Errors)
	return b.String()
}
