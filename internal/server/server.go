// Package server implements the accept loop, idle-eviction monitor, and
// per-client command handler of the file-transfer service.
package server

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Ruturajs29/FileByte/framing"
	"github.com/Ruturajs29/FileByte/internal/session"
)

// Config configures a Server via the same functional-options pattern used
// throughout this module.
type Config struct {
	WorkingDir      string
	IdleTimeout     time.Duration
	MonitorInterval time.Duration
	AcceptTimeout   time.Duration
	ReceiveTimeout  time.Duration
	CommandBufSize  int
	ChunkSize       int
}

var defaultConfig = Config{
	WorkingDir:      ".",
	IdleTimeout:     300 * time.Second,
	MonitorInterval: 10 * time.Second,
	AcceptTimeout:   time.Second,
	ReceiveTimeout:  2 * time.Second,
	CommandBufSize:  1024,
	ChunkSize:       framing.DefaultChunkSize,
}

// Option configures a Server at construction time.
type Option func(*Config)

func WithWorkingDir(dir string) Option {
	return func(c *Config) { c.WorkingDir = dir }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(c *Config) { c.IdleTimeout = d }
}

func WithMonitorInterval(d time.Duration) Option {
	return func(c *Config) { c.MonitorInterval = d }
}

func WithAcceptTimeout(d time.Duration) Option {
	return func(c *Config) { c.AcceptTimeout = d }
}

func WithReceiveTimeout(d time.Duration) Option {
	return func(c *Config) { c.ReceiveTimeout = d }
}

// Server owns the working directory, the registration table of connected
// sessions, and an aggregated stats record.
type Server struct {
	cfg   Config
	table *session.Table
	stats *session.Stats

	running atomic.Bool
	wg      sync.WaitGroup
}

// New constructs a Server. Call Serve with a net.Listener to start it.
func New(opts ...Option) *Server {
	cfg := defaultConfig
	for _, fn := range opts {
		fn(&cfg)
	}
	return &Server{
		cfg:   cfg,
		table: session.NewTable(),
		stats: session.NewStats(),
	}
}

// Stats exposes the aggregated counters (used by the STAT command and by
// tests).
func (s *Server) Stats() *session.Stats { return s.stats }

// SessionCount returns the number of currently registered sessions (used by
// tests asserting the accept/deregister invariant).
func (s *Server) SessionCount() int { return s.table.Len() }

// Serve runs the accept loop on ln until Stop is called. It blocks until
// every spawned handler and the monitor goroutine have returned.
func (s *Server) Serve(ln net.Listener) error {
	s.running.Store(true)
	log.Infof("[SERVER] listening on %s, working dir %q", ln.Addr(), s.cfg.WorkingDir)

	s.wg.Add(1)
	go s.monitorLoop()

	for s.running.Load() {
		if tl, ok := ln.(interface{ SetDeadline(time.Time) error }); ok {
			_ = tl.SetDeadline(time.Now().Add(s.cfg.AcceptTimeout))
		}
		conn, err := ln.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if !s.running.Load() {
				break
			}
			log.Warnf("[SERVER] accept error: %v", err)
			continue
		}

		host, port, splitErr := net.SplitHostPort(conn.RemoteAddr().String())
		if splitErr != nil {
			host, port = conn.RemoteAddr().String(), ""
		}
		sess := session.New(host, port, time.Now())
		s.table.Register(conn, sess)
		s.stats.IncConnections()
		log.Infof("[SESSION %s] connected", sess.Address())

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn, sess)
		}()
	}

	s.wg.Wait()
	return nil
}

// Stop requests an orderly shutdown: the accept loop exits on its next
// poll, the monitor exits on its next cadence, and each handler notices on
// its next receive timeout and closes its own socket (see handler.go —
// kept single-writer-per-socket rather than a centralized push, so the
// "no interleaved writes on one connection" invariant holds through
// shutdown too).
func (s *Server) Stop() {
	s.running.Store(false)
}

func (s *Server) isRunning() bool { return s.running.Load() }
