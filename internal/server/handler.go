package server

import (
	"io"
	"net"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Ruturajs29/FileByte/internal/respcode"
	"github.com/Ruturajs29/FileByte/internal/session"
	"github.com/Ruturajs29/FileByte/internal/wire"
)

// handle owns conn end to end: it is the only goroutine that reads from this
// socket and the only one that writes to it while a command is in flight, so
// response ordering never races a command's own reply. The idle-eviction
// monitor writes to an otherwise-idle session's socket only after confirming
// no transfer or command is in progress.
func (s *Server) handle(conn net.Conn, sess *session.Session) {
	addr := sess.Address()
	defer func() {
		s.table.Deregister(conn)
		_ = conn.Close()
		log.Infof("[SESSION %s] connection closed", addr)
	}()

	if err := s.writeResponse(conn, sess, respcode.Ready, ""); err != nil {
		log.Warnf("[SESSION %s] welcome banner failed: %v", addr, err)
		return
	}

	buf := make([]byte, s.cfg.CommandBufSize)
	for {
		if !s.running.Load() {
			_ = s.writeResponse(conn, sess, respcode.Goodbye, "")
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReceiveTimeout))
		n, err := conn.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if err != io.EOF {
				log.Warnf("[SESSION %s] read error: %v", addr, err)
			}
			return
		}
		if n == 0 {
			continue
		}

		sess.AddBytesReceived(int64(n))
		s.stats.AddBytesReceived(int64(n))

		line := strings.TrimSpace(string(buf[:n]))
		if line == "" {
			continue
		}
		sess.LogCommand(line)
		s.stats.IncCommandsProcessed()
		log.Infof("[SESSION %s] %s", addr, line)

		verb, arg := splitCommand(line)
		if s.dispatch(conn, sess, verb, arg) {
			return
		}
	}
}

// splitCommand splits "VERB arg..." on the first run of whitespace. VERB is
// upper-cased; arg is left untouched (it may be a filename).
func splitCommand(line string) (verb, arg string) {
	fields := strings.SplitN(line, " ", 2)
	verb = strings.ToUpper(strings.TrimSpace(fields[0]))
	if len(fields) == 2 {
		arg = strings.TrimSpace(fields[1])
	}
	return verb, arg
}

func (s *Server) writeResponse(conn net.Conn, sess *session.Session, key respcode.Key, message string, detail ...string) error {
	payload := wire.FormatResponse(key, message, detail...)
	n, err := io.WriteString(conn, payload)
	if n > 0 {
		sess.AddBytesSent(int64(n))
		s.stats.AddBytesSent(int64(n))
	}
	return err
}
