package session

import (
	"net"
	"sync"
)

// Table is the server's registration table: every live connection maps to
// its Session. Guards membership only — the monitor snapshots the table
// under Lock, then inspects each Session under that Session's own lock,
// never both locks held at once.
type Table struct {
	mu    sync.RWMutex
	byKey map[net.Conn]*Session
}

// NewTable returns an empty registration table.
func NewTable() *Table {
	return &Table{byKey: make(map[net.Conn]*Session)}
}

// Register adds conn's session to the table. A session is registered
// before its handler runs.
func (t *Table) Register(conn net.Conn, s *Session) {
	t.mu.Lock()
	t.byKey[conn] = s
	t.mu.Unlock()
}

// Deregister removes conn's session, typically just before the handler
// closes its socket.
func (t *Table) Deregister(conn net.Conn) {
	t.mu.Lock()
	delete(t.byKey, conn)
	t.mu.Unlock()
}

// Len returns the number of registered sessions.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byKey)
}

// Snapshot copies out the current (conn, *Session) pairs under the table
// lock, then releases it. Callers inspect or close each conn afterwards,
// outside the table lock, so a handler racing to deregister never deadlocks
// against the caller holding this lock.
func (t *Table) Snapshot() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, 0, len(t.byKey))
	for conn, s := range t.byKey {
		out = append(out, Entry{Conn: conn, Session: s})
	}
	return out
}

// Entry pairs a connection with its Session, as returned by Snapshot.
type Entry struct {
	Conn    net.Conn
	Session *Session
}
