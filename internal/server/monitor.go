package server

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Ruturajs29/FileByte/internal/respcode"
)

// monitorLoop evicts sessions idle past cfg.IdleTimeout, skipping any
// session with a transfer in progress regardless of how idle its command
// channel looks — a long GET/PUT must never be evicted out from under the
// client. Runs on cfg.MonitorInterval cadence.
func (s *Server) monitorLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.MonitorInterval)
	defer ticker.Stop()

	for s.running.Load() {
		<-ticker.C
		if !s.running.Load() {
			return
		}
		s.evictIdle()
	}
}

func (s *Server) evictIdle() {
	for _, entry := range s.table.Snapshot() {
		sess := entry.Session
		if sess.IsTransferring() {
			continue
		}
		if sess.IdleTime() < s.cfg.IdleTimeout {
			continue
		}
		log.Infof("[SESSION %s] idle %s, evicting", sess.Address(), sess.IdleTime().Truncate(time.Second))
		_ = s.writeResponse(entry.Conn, sess, respcode.Goodbye, "connection idle, closing")
		_ = entry.Conn.Close()
		s.table.Deregister(entry.Conn)
	}
}
