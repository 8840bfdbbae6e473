package server

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Ruturajs29/FileByte/framing"
	"github.com/Ruturajs29/FileByte/internal/respcode"
	"github.com/Ruturajs29/FileByte/internal/session"
	"github.com/Ruturajs29/FileByte/internal/wire"
)

// dispatch runs one already-logged command against conn/sess. It returns
// true only for QUIT; a transport failure during a command is left for the
// handler's next read to detect.
func (s *Server) dispatch(conn net.Conn, sess *session.Session, verb, arg string) bool {
	switch verb {
	case "LIST":
		s.cmdList(conn, sess)
	case "GET":
		if arg == "" {
			s.missingArg(conn, sess)
			return false
		}
		s.cmdGet(conn, sess, arg)
	case "PUT":
		if arg == "" {
			s.missingArg(conn, sess)
			return false
		}
		s.cmdPut(conn, sess, arg)
	case "DEL":
		if arg == "" {
			s.missingArg(conn, sess)
			return false
		}
		s.cmdDel(conn, sess, arg)
	case "STAT":
		s.cmdStat(conn, sess)
	case "SYST":
		_ = s.writeResponse(conn, sess, respcode.CmdOK, "", runtime.GOOS+"/"+runtime.GOARCH)
	case "QUIT":
		_ = s.writeResponse(conn, sess, respcode.Goodbye, "")
		return true
	default:
		_ = s.writeResponse(conn, sess, respcode.SyntaxError, "")
	}
	return false
}

func (s *Server) missingArg(conn net.Conn, sess *session.Session) {
	_ = s.writeResponse(conn, sess, respcode.SyntaxErrorParam, "")
}

// safeJoin resolves name under the server's working directory, rejecting
// path separators and ".." components so a client can never escape it.
func (s *Server) safeJoin(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return "", errors.New("invalid filename")
	}
	return filepath.Join(s.cfg.WorkingDir, name), nil
}

func (s *Server) cmdList(conn net.Conn, sess *session.Session) {
	entries, err := os.ReadDir(s.cfg.WorkingDir)
	if err != nil {
		s.stats.IncErrors()
		_ = s.writeResponse(conn, sess, respcode.LocalError, "could not list working directory")
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		info, ierr := e.Info()
		if ierr != nil {
			continue
		}
		kind := "F"
		if e.IsDir() {
			kind = "D"
		}
		lines = append(lines, fmt.Sprintf("%-1s %10d %s %s",
			kind, info.Size(), info.ModTime().UTC().Format("2006-01-02 15:04:05"), e.Name()))
	}
	_ = s.writeResponse(conn, sess, respcode.CmdOK, "", lines...)
}

func (s *Server) cmdGet(conn net.Conn, sess *session.Session, name string) {
	path, err := s.safeJoin(name)
	if err != nil {
		_ = s.writeResponse(conn, sess, respcode.FileUnavailable, "invalid filename")
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		_ = s.writeResponse(conn, sess, respcode.FileUnavailable, "file unavailable")
		return
	}
	f, err := os.Open(path)
	if err != nil {
		_ = s.writeResponse(conn, sess, respcode.FileUnavailable, "file unavailable")
		return
	}
	defer f.Close()

	if err := s.writeResponse(conn, sess, respcode.EnteringTransfer, "",
		"File: "+name, fmt.Sprintf("Size: %d bytes", info.Size())); err != nil {
		return
	}

	sess.SetTransferring(true)
	defer sess.SetTransferring(false)

	n, err := framing.WriteFramedBody(conn, f, framing.WithChunkSize(s.cfg.ChunkSize))
	sess.AddBytesSent(n)
	s.stats.AddBytesSent(n)
	if err != nil {
		s.stats.IncErrors()
		log.Warnf("[SESSION %s] GET %s failed: %v", sess.Address(), name, err)
		return
	}
	s.stats.IncFilesTransferred()
	log.Infof("[SESSION %s] GET %s complete (%d bytes)", sess.Address(), name, n)
}

func (s *Server) cmdPut(conn net.Conn, sess *session.Session, name string) {
	path, err := s.safeJoin(name)
	if err != nil {
		_ = s.writeResponse(conn, sess, respcode.FileUnavailable, "invalid filename")
		return
	}

	f, err := wire.CreatePart(path)
	if err != nil {
		_ = s.writeResponse(conn, sess, respcode.FileUnavailable, "file already exists")
		return
	}

	if err := s.writeResponse(conn, sess, respcode.EnteringTransfer, ""); err != nil {
		f.Close()
		_ = wire.AbortPart(path)
		return
	}
	if _, err := conn.Write(framing.ReadyForFile); err != nil {
		f.Close()
		_ = wire.AbortPart(path)
		return
	}

	sess.SetTransferring(true)
	defer sess.SetTransferring(false)

	reader := &keepWaitingReader{conn: conn, timeout: s.cfg.ReceiveTimeout, running: s.isRunning}
	n, err := framing.ReadFramedBody(f, reader, true, framing.WithChunkSize(s.cfg.ChunkSize))
	closeErr := f.Close()

	sess.AddBytesReceived(n)
	s.stats.AddBytesReceived(n)

	if err != nil || closeErr != nil {
		_ = wire.AbortPart(path)
		s.stats.IncErrors()
		log.Warnf("[SESSION %s] PUT %s interrupted: %v", sess.Address(), name, err)
		_ = s.writeResponse(conn, sess, respcode.LocalError, "transfer incomplete")
		return
	}

	if err := wire.FinishPart(path); err != nil {
		s.stats.IncErrors()
		_ = s.writeResponse(conn, sess, respcode.LocalError, "could not finalize upload")
		return
	}

	s.stats.IncFilesTransferred()
	_ = s.writeResponse(conn, sess, respcode.FileStatusOK, "")
	log.Infof("[SESSION %s] PUT %s complete (%d bytes)", sess.Address(), name, n)
}

func (s *Server) cmdDel(conn net.Conn, sess *session.Session, name string) {
	path, err := s.safeJoin(name)
	if err != nil {
		_ = s.writeResponse(conn, sess, respcode.FileUnavailable, "invalid filename")
		return
	}
	info, err := os.Stat(path)
	switch {
	case err != nil:
		_ = s.writeResponse(conn, sess, respcode.FileUnavailable, "file not found")
		return
	case info.IsDir():
		_ = s.writeResponse(conn, sess, respcode.FileUnavailable, "is a directory")
		return
	}
	if err := os.Remove(path); err != nil {
		_ = s.writeResponse(conn, sess, respcode.FileUnavailable, "permission denied")
		return
	}
	_ = s.writeResponse(conn, sess, respcode.CmdOK, "")
}

func (s *Server) cmdStat(conn net.Conn, sess *session.Session) {
	snap := s.stats.Snapshot()
	sent, recv := sess.Totals()
	lines := strings.Split(strings.TrimRight(snap.String(), "\r\n"), "\r\n")
	lines = append(lines,
		fmt.Sprintf("Session %s:", sess.Address()),
		fmt.Sprintf("  Connected: %s", sess.ConnectedAt.UTC().Format(time.RFC3339)),
		fmt.Sprintf("  Commands issued: %d", sess.CommandCount()),
		fmt.Sprintf("  Bytes sent: %d", sent),
		fmt.Sprintf("  Bytes received: %d", recv),
	)
	_ = s.writeResponse(conn, sess, respcode.CmdOK, "", lines...)
}

// keepWaitingReader wraps a server connection for the duration of a PUT
// body read: a receive timeout is not an error here, only a cue to poll
// Server.running again and keep waiting for more bytes.
type keepWaitingReader struct {
	conn    net.Conn
	timeout time.Duration
	running func() bool
}

func (r *keepWaitingReader) Read(p []byte) (int, error) {
	for {
		_ = r.conn.SetReadDeadline(time.Now().Add(r.timeout))
		n, err := r.conn.Read(p)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				if !r.running() {
					return 0, io.ErrClosedPipe
				}
				continue
			}
			return n, err
		}
		return n, err
	}
}
