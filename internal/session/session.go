// Package session holds the server-side per-client state record, the
// registration table it lives in, and the process-wide stats aggregator.
package session

import (
	"sync"
	"time"
)

// Command records one issued command and when the handler saw it.
type Command struct {
	At   time.Time
	Text string
}

// Session is the server-side per-connection state record. Exactly one
// handler goroutine mutates it; the monitor only reads it, through
// IsTransferring and IdleTime, each of which takes the lock guarding the
// field it reads.
type Session struct {
	Host string
	Port string

	ConnectedAt time.Time

	mu              sync.Mutex
	lastActivity    time.Time
	commands        []Command
	bytesSent       int64
	bytesReceived   int64
	transferMu      sync.Mutex
	transferActive  bool
}

// New creates a Session registered at connect time t.
func New(host, port string, t time.Time) *Session {
	return &Session{
		Host:         host,
		Port:         port,
		ConnectedAt:  t,
		lastActivity: t,
	}
}

// Touch advances last-activity to now. Monotonically non-decreasing: a
// concurrent call can never move the timestamp backwards because only the
// owning handler goroutine calls it.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// LogCommand appends text to the command history and touches last-activity.
func (s *Session) LogCommand(text string) {
	now := time.Now()
	s.mu.Lock()
	s.lastActivity = now
	s.commands = append(s.commands, Command{At: now, Text: text})
	s.mu.Unlock()
}

// AddBytesSent accumulates bytes written to this session's connection.
func (s *Session) AddBytesSent(n int64) {
	s.mu.Lock()
	s.bytesSent += n
	s.mu.Unlock()
}

// AddBytesReceived accumulates bytes read from this session's connection.
func (s *Session) AddBytesReceived(n int64) {
	s.mu.Lock()
	s.bytesReceived += n
	s.mu.Unlock()
}

// IdleTime returns how long it has been since the last command.
func (s *Session) IdleTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActivity)
}

// CommandCount returns the number of commands logged so far.
func (s *Session) CommandCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.commands)
}

// Totals returns the bytes sent/received snapshot.
func (s *Session) Totals() (sent, received int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytesSent, s.bytesReceived
}

// SetTransferring marks whether a GET/PUT is currently streaming a body on
// this session. Guarded by its own lock so the monitor can check it without
// taking the activity lock a busy handler holds.
func (s *Session) SetTransferring(active bool) {
	s.transferMu.Lock()
	s.transferActive = active
	s.transferMu.Unlock()
}

// IsTransferring reports the current transfer flag. Safe for the monitor to
// call concurrently with the owning handler.
func (s *Session) IsTransferring() bool {
	s.transferMu.Lock()
	defer s.transferMu.Unlock()
	return s.transferActive
}

// Address formats the peer as host:port for logging.
func (s *Session) Address() string {
	return s.Host + ":" + s.Port
}
