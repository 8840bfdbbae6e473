package session_test

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ruturajs29/FileByte/internal/session"
)

func TestSession_TouchIsMonotonic(t *testing.T) {
	s := session.New("127.0.0.1", "5000", time.Now())
	time.Sleep(5 * time.Millisecond)
	first := s.IdleTime()
	s.Touch()
	second := s.IdleTime()
	assert.LessOrEqual(t, second, first)
}

func TestSession_LogCommandTracksHistoryAndActivity(t *testing.T) {
	s := session.New("127.0.0.1", "5000", time.Now())
	s.LogCommand("LIST")
	s.LogCommand("STAT")
	assert.Equal(t, 2, s.CommandCount())
}

func TestSession_ByteCounters(t *testing.T) {
	s := session.New("127.0.0.1", "5000", time.Now())
	s.AddBytesSent(10)
	s.AddBytesReceived(3)
	s.AddBytesSent(5)
	sent, recv := s.Totals()
	assert.EqualValues(t, 15, sent)
	assert.EqualValues(t, 3, recv)
}

func TestSession_TransferFlag(t *testing.T) {
	s := session.New("127.0.0.1", "5000", time.Now())
	assert.False(t, s.IsTransferring())
	s.SetTransferring(true)
	assert.True(t, s.IsTransferring())
	s.SetTransferring(false)
	assert.False(t, s.IsTransferring())
}

func TestTable_RegisterSnapshotDeregister(t *testing.T) {
	tbl := session.NewTable()
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	s := session.New("127.0.0.1", "6000", time.Now())
	tbl.Register(c1, s)
	require.Equal(t, 1, tbl.Len())

	snap := tbl.Snapshot()
	require.Len(t, snap, 1)
	assert.Same(t, s, snap[0].Session)

	tbl.Deregister(c1)
	assert.Equal(t, 0, tbl.Len())
}

func TestStats_SnapshotReflectsIncrements(t *testing.T) {
	st := session.NewStats()
	st.IncConnections()
	st.IncConnections()
	st.IncCommandsProcessed()
	st.IncFilesTransferred()
	st.IncErrors()
	st.AddBytesSent(100)
	st.AddBytesReceived(40)

	snap := st.Snapshot()
	assert.EqualValues(t, 2, snap.Connections)
	assert.EqualValues(t, 1, snap.CommandsProcessed)
	assert.EqualValues(t, 1, snap.FilesTransferred)
	assert.EqualValues(t, 1, snap.Errors)
	assert.EqualValues(t, 100, snap.BytesSent)
	assert.EqualValues(t, 40, snap.BytesReceived)
}
