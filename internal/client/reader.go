// Package client implements the interactive client: a reader task that
// demultiplexes the mixed text/binary stream, and a driver task that reads
// user input and issues commands.
package client

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Ruturajs29/FileByte/framing"
	"github.com/Ruturajs29/FileByte/internal/wire"
)

// State names one node of the reader's demultiplexing state machine.
type State int

const (
	ExpectText State = iota
	AwaitFileStart
	ReceivingFile
)

// Reader demultiplexes conn's inbound byte stream into text response lines
// and download file bodies. Exactly one goroutine calls Run; ExpectFileStart
// may be called concurrently by the driver, but only ever just before the
// driver writes the triggering GET to conn, so the reader is guaranteed to
// already be in AwaitFileStart by the time any response can arrive.
type Reader struct {
	conn        net.Conn
	downloadDir string
	stats       *Stats

	mu    sync.Mutex
	state State

	startScanner *framing.Scanner
	endScanner   *framing.Scanner
	readyScanner *framing.Scanner

	lineBuf     []byte
	pendingFile string
	pendingSize int64

	current       *os.File
	currentName   string
	currentBytes  int64
	downloadStart time.Time
	lastActivity  time.Time

	readyCh chan struct{}

	genericTimeout time.Duration
	stallTimeout   time.Duration
}

// GenericTimeout is the default idle-read bound when no transfer is in
// flight.
const GenericTimeout = 60 * time.Second

// StallTimeout is the default idle-read bound while a download is in
// progress; a download idle past this long is treated as stalled and
// aborted.
const StallTimeout = 10 * time.Second

// ReaderOption configures a Reader's timing knobs.
type ReaderOption func(*Reader)

// WithGenericTimeout overrides GenericTimeout (tests only need this to keep
// runs fast; production code leaves it at the default).
func WithGenericTimeout(d time.Duration) ReaderOption {
	return func(r *Reader) { r.genericTimeout = d }
}

// WithStallTimeout overrides StallTimeout.
func WithStallTimeout(d time.Duration) ReaderOption {
	return func(r *Reader) { r.stallTimeout = d }
}

// NewReader constructs a Reader. downloadDir is where downloaded files are
// staged and finalized; stats accumulates bytes/files counters.
func NewReader(conn net.Conn, downloadDir string, stats *Stats, opts ...ReaderOption) *Reader {
	r := &Reader{
		conn:           conn,
		downloadDir:    downloadDir,
		stats:          stats,
		startScanner:   framing.NewScanner(framing.FileStart),
		endScanner:     framing.NewScanner(framing.FileEnd),
		readyScanner:   framing.NewScanner(framing.ReadyForFile),
		readyCh:        make(chan struct{}, 1),
		genericTimeout: GenericTimeout,
		stallTimeout:   StallTimeout,
	}
	for _, fn := range opts {
		fn(r)
	}
	return r
}

// ExpectFileStart flips the reader into AwaitFileStart. Call immediately
// before writing the triggering GET command to the connection.
func (r *Reader) ExpectFileStart() {
	r.mu.Lock()
	r.state = AwaitFileStart
	r.startScanner.Reset(framing.FileStart)
	r.mu.Unlock()
}

// WaitReady blocks until the server signals READY_FOR_FILE or the deadline
// passes, reporting whether the signal arrived in time.
func (r *Reader) WaitReady(timeout time.Duration) bool {
	select {
	case <-r.readyCh:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Run reads from conn until it returns an error (peer close, I/O failure,
// or the caller closing conn to force an unwind). onText is called with
// each complete text line as it demultiplexes out of the stream.
func (r *Reader) Run(onText func(string)) error {
	buf := make([]byte, 8192)
	for {
		timeout := r.genericTimeout
		r.mu.Lock()
		if r.state == ReceivingFile {
			timeout = r.stallTimeout
		}
		r.mu.Unlock()
		_ = r.conn.SetReadDeadline(time.Now().Add(timeout))

		n, err := r.conn.Read(buf)
		if n > 0 {
			r.stats.AddBytesReceived(int64(n))
			r.lastActivity = time.Now()
			r.process(buf[:n], onText)
		}
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				r.mu.Lock()
				stalled := r.state == ReceivingFile
				r.mu.Unlock()
				if stalled {
					log.Warnf("[CLIENT] download of %s timed out, aborting", r.currentName)
					r.stats.IncErrors()
					r.abortPartial()
					r.mu.Lock()
					r.state = ExpectText
					r.mu.Unlock()
				}
				continue
			}
			r.abortPartial()
			return err
		}
	}
}

func (r *Reader) process(chunk []byte, onText func(string)) {
	r.mu.Lock()
	state := r.state
	r.mu.Unlock()

	switch state {
	case ReceivingFile:
		r.feedReceivingFile(chunk, onText)
	case AwaitFileStart:
		r.feedAwaitFileStart(chunk, onText)
	default:
		r.feedExpectText(chunk, onText)
	}
}

func (r *Reader) feedExpectText(chunk []byte, onText func(string)) {
	pre, rest, found := r.readyScanner.Feed(chunk)
	r.emitText(pre, onText)
	if found {
		select {
		case r.readyCh <- struct{}{}:
		default:
		}
		if len(rest) > 0 {
			r.feedExpectText(rest, onText)
		}
	}
}

func (r *Reader) feedAwaitFileStart(chunk []byte, onText func(string)) {
	pre, rest, found := r.startScanner.Feed(chunk)
	r.emitText(pre, onText)
	if !found {
		return
	}

	name := r.pendingFile
	if name == "" {
		name = "downloaded_file_" + time.Now().UTC().Format("20060102150405")
	}
	f, err := os.Create(wire.PartPath(filepath.Join(r.downloadDir, name)))
	if err != nil {
		log.Warnf("[CLIENT] could not stage download for %s: %v", name, err)
		r.mu.Lock()
		r.state = ExpectText
		r.mu.Unlock()
		return
	}

	r.current = f
	r.currentName = name
	r.currentBytes = 0
	r.downloadStart = time.Now()
	r.endScanner.Reset(framing.FileEnd)

	r.mu.Lock()
	r.state = ReceivingFile
	r.mu.Unlock()

	log.Infof("[CLIENT] receiving %s (%d bytes expected)", name, r.pendingSize)
	if len(rest) > 0 {
		r.feedReceivingFile(rest, onText)
	}
}

func (r *Reader) feedReceivingFile(chunk []byte, onText func(string)) {
	pre, rest, found := r.endScanner.Feed(chunk)
	if len(pre) > 0 && r.current != nil {
		if _, err := r.current.Write(pre); err != nil {
			log.Warnf("[CLIENT] write error receiving %s: %v", r.currentName, err)
		}
		r.currentBytes += int64(len(pre))
	}
	if !found {
		return
	}

	name := r.currentName
	path := filepath.Join(r.downloadDir, name)
	if r.current != nil {
		_ = r.current.Close()
		if err := wire.FinishPart(path); err != nil {
			log.Warnf("[CLIENT] could not finalize %s: %v", name, err)
		} else {
			r.stats.IncFilesTransferred()
			log.Infof("[CLIENT] download complete: %s (%d bytes)", name, r.currentBytes)
		}
	}
	r.current = nil
	r.pendingFile = ""
	r.pendingSize = 0

	r.mu.Lock()
	r.state = ExpectText
	r.mu.Unlock()

	if len(rest) > 0 {
		r.feedExpectText(rest, onText)
	}
}

// emitText appends data to the line buffer and flushes complete CRLF lines
// to onText, tracking File:/Size: hints for the next AwaitFileStart entry.
func (r *Reader) emitText(data []byte, onText func(string)) {
	if len(data) == 0 {
		return
	}
	r.lineBuf = append(r.lineBuf, data...)
	for {
		idx := indexCRLF(r.lineBuf)
		if idx < 0 {
			break
		}
		line := string(r.lineBuf[:idx])
		r.lineBuf = r.lineBuf[idx+2:]
		r.observeLine(line)
		onText(line)
	}
}

func (r *Reader) observeLine(line string) {
	switch {
	case strings.HasPrefix(line, "File: "):
		r.pendingFile = strings.TrimSpace(strings.TrimPrefix(line, "File: "))
	case strings.HasPrefix(line, "Size: "):
		r.pendingSize = parseSizePrefix(strings.TrimPrefix(line, "Size: "))
	}
}

func (r *Reader) abortPartial() {
	if r.current == nil {
		return
	}
	_ = r.current.Close()
	_ = wire.AbortPart(filepath.Join(r.downloadDir, r.currentName))
	r.current = nil
}

func indexCRLF(b []byte) int {
	for i := 0; i+1 < len(b); i++ {
		if b[i] == '\r' && b[i+1] == '\n' {
			return i
		}
	}
	return -1
}

func parseSizePrefix(s string) int64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), " bytes")
	var n int64
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int64(c-'0')
	}
	return n
}
