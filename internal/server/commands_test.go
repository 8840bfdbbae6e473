package server

import (
	"bufio"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ruturajs29/FileByte/framing"
	"github.com/Ruturajs29/FileByte/internal/session"
)

// newTestServer returns a Server plus a connected net.Pipe pair: serverSide
// is what the server's command methods write/read through, clientSide is
// what the test reads the formatted response from.
func newTestServer(t *testing.T) (srv *Server, serverSide, clientSide net.Conn) {
	t.Helper()
	dir := t.TempDir()
	srv = New(WithWorkingDir(dir), WithReceiveTimeout(200*time.Millisecond))
	srv.running.Store(true)
	serverSide, clientSide = net.Pipe()
	t.Cleanup(func() { serverSide.Close(); clientSide.Close() })
	return srv, serverSide, clientSide
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return line
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func TestServer_ListEmptyDir(t *testing.T) {
	srv, serverEnd, clientEnd := newTestServer(t)
	sess := session.New("127.0.0.1", "1", time.Now())
	go srv.cmdList(serverEnd, sess)
	status := readLine(t, bufio.NewReader(clientEnd))
	assert.Contains(t, status, "200 ")
}

func TestServer_GetServesExistingFile(t *testing.T) {
	srv, serverEnd, clientEnd := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(srv.cfg.WorkingDir, "hello.txt"), []byte("hi\n"), 0o644))
	sess := session.New("127.0.0.1", "1", time.Now())

	done := make(chan struct{})
	go func() {
		srv.cmdGet(serverEnd, sess, "hello.txt")
		close(done)
	}()

	r := bufio.NewReader(clientEnd)
	status := readLine(t, r)
	assert.Contains(t, status, "150 ")
	fileLine := readLine(t, r)
	assert.Contains(t, fileLine, "File: hello.txt")
	sizeLine := readLine(t, r)
	assert.Contains(t, sizeLine, "Size: 3 bytes")

	startLine := readLine(t, r)
	assert.Equal(t, string(framing.FileStart), startLine)

	body := make([]byte, 3)
	_, err := readFull(r, body)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(body))

	endLine := readLine(t, r)
	assert.Equal(t, string(framing.FileEnd), endLine)

	<-done
	assert.EqualValues(t, 1, srv.stats.Snapshot().FilesTransferred)
}

func TestServer_GetMissingFileIsUnavailable(t *testing.T) {
	srv, serverEnd, clientEnd := newTestServer(t)
	sess := session.New("127.0.0.1", "1", time.Now())
	go srv.cmdGet(serverEnd, sess, "nope.txt")
	status := readLine(t, bufio.NewReader(clientEnd))
	assert.Contains(t, status, "550 ")
}

func TestServer_PutRejectsExistingFile(t *testing.T) {
	srv, serverEnd, clientEnd := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(srv.cfg.WorkingDir, "a.bin"), []byte("x"), 0o644))
	sess := session.New("127.0.0.1", "1", time.Now())

	go srv.cmdPut(serverEnd, sess, "a.bin")

	status := readLine(t, bufio.NewReader(clientEnd))
	assert.Contains(t, status, "550 ")
	assert.Contains(t, status, "already exists")

	_, err := os.Stat(filepath.Join(srv.cfg.WorkingDir, "a.bin.part"))
	assert.True(t, os.IsNotExist(err))
}

func TestServer_PutUploadsFile(t *testing.T) {
	srv, serverEnd, clientEnd := newTestServer(t)
	sess := session.New("127.0.0.1", "1", time.Now())

	done := make(chan struct{})
	go func() {
		srv.cmdPut(serverEnd, sess, "up.bin")
		close(done)
	}()

	r := bufio.NewReader(clientEnd)
	status := readLine(t, r)
	assert.Contains(t, status, "150 ")
	readyLine := readLine(t, r)
	assert.Equal(t, string(framing.ReadyForFile), readyLine)

	payload := append(append(append([]byte{}, framing.FileStart...), []byte("payload-bytes")...), framing.FileEnd...)
	go func() {
		_, _ = clientEnd.Write(payload)
	}()

	final := readLine(t, r)
	assert.Contains(t, final, "226 ")
	<-done

	data, err := os.ReadFile(filepath.Join(srv.cfg.WorkingDir, "up.bin"))
	require.NoError(t, err)
	assert.Equal(t, "payload-bytes", string(data))
}

func TestServer_DelMissingIsUnavailable(t *testing.T) {
	srv, serverEnd, clientEnd := newTestServer(t)
	sess := session.New("127.0.0.1", "1", time.Now())
	go srv.cmdDel(serverEnd, sess, "nope.txt")
	status := readLine(t, bufio.NewReader(clientEnd))
	assert.Contains(t, status, "550 ")
}

func TestServer_DelRemovesFile(t *testing.T) {
	srv, serverEnd, clientEnd := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(srv.cfg.WorkingDir, "gone.txt"), []byte("x"), 0o644))
	sess := session.New("127.0.0.1", "1", time.Now())

	go srv.cmdDel(serverEnd, sess, "gone.txt")
	status := readLine(t, bufio.NewReader(clientEnd))
	assert.Contains(t, status, "200 ")
	_, err := os.Stat(filepath.Join(srv.cfg.WorkingDir, "gone.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestServer_DispatchUnknownVerb(t *testing.T) {
	srv, serverEnd, clientEnd := newTestServer(t)
	sess := session.New("127.0.0.1", "1", time.Now())
	go srv.dispatch(serverEnd, sess, "FOO", "bar")
	status := readLine(t, bufio.NewReader(clientEnd))
	assert.Contains(t, status, "500 ")
}

func TestServer_DispatchMissingArgument(t *testing.T) {
	srv, serverEnd, clientEnd := newTestServer(t)
	sess := session.New("127.0.0.1", "1", time.Now())
	go srv.dispatch(serverEnd, sess, "GET", "")
	status := readLine(t, bufio.NewReader(clientEnd))
	assert.Contains(t, status, "501 ")
}

func TestSafeJoin_RejectsTraversal(t *testing.T) {
	srv := New(WithWorkingDir(t.TempDir()))
	_, err := srv.safeJoin("../escape.txt")
	assert.Error(t, err)
	_, err = srv.safeJoin("sub/name.txt")
	assert.Error(t, err)
	_, err = srv.safeJoin("name.txt")
	assert.NoError(t, err)
}
