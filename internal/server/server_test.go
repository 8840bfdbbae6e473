package server_test

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ruturajs29/FileByte/internal/server"
)

func startServer(t *testing.T, opts ...server.Option) (*server.Server, net.Addr) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	defaults := []server.Option{
		server.WithWorkingDir(t.TempDir()),
		server.WithMonitorInterval(20 * time.Millisecond),
	}
	srv := server.New(append(defaults, opts...)...)
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { srv.Stop(); ln.Close() })
	return srv, ln.Addr()
}

func TestServer_WelcomeAndQuit(t *testing.T) {
	_, addr := startServer(t)

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	r := bufio.NewReader(conn)
	banner, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, banner, "220 ")

	_, err = conn.Write([]byte("QUIT"))
	require.NoError(t, err)

	goodbye, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, goodbye, "221 ")
}

func TestServer_SessionCountTracksLifecycle(t *testing.T) {
	srv, addr := startServer(t)

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)

	r := bufio.NewReader(conn)
	_, err = r.ReadString('\n')
	require.NoError(t, err)

	require.Eventually(t, func() bool { return srv.SessionCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return srv.SessionCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestServer_IdleEvictionClosesConnection(t *testing.T) {
	_, addr := startServer(t,
		server.WithIdleTimeout(30*time.Millisecond),
		server.WithMonitorInterval(10*time.Millisecond),
		server.WithReceiveTimeout(5*time.Millisecond))

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	r := bufio.NewReader(conn)
	_, err = r.ReadString('\n') // banner
	require.NoError(t, err)

	_, err = r.ReadString('\n') // eviction notice
	require.NoError(t, err)

	_, err = r.ReadByte()
	assert.Error(t, err) // connection closed by the monitor
}

func TestServer_ListAndStatRoundTrip(t *testing.T) {
	_, addr := startServer(t)

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	r := bufio.NewReader(conn)
	_, err = r.ReadString('\n') // banner
	require.NoError(t, err)

	_, err = conn.Write([]byte("LIST"))
	require.NoError(t, err)
	status, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, status, "200 ")

	_, err = conn.Write([]byte("STAT"))
	require.NoError(t, err)
	status, err = r.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, status, "200 ")
}
