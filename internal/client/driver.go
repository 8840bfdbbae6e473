package client

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Ruturajs29/FileByte/framing"
)

// DriverConfig configures a Driver's timing knobs.
type DriverConfig struct {
	UploadReadyTimeout time.Duration
	QuitGrace          time.Duration
	ChunkSize          int
}

var defaultDriverConfig = DriverConfig{
	UploadReadyTimeout: 10 * time.Second,
	QuitGrace:          200 * time.Millisecond,
	ChunkSize:          framing.DefaultChunkSize,
}

// DriverOption configures a Driver at construction time.
type DriverOption func(*DriverConfig)

func WithUploadReadyTimeout(d time.Duration) DriverOption {
	return func(c *DriverConfig) { c.UploadReadyTimeout = d }
}

func WithQuitGrace(d time.Duration) DriverOption {
	return func(c *DriverConfig) { c.QuitGrace = d }
}

// Driver is the interactive foreground task: it prompts for a line, parses
// it, and either handles it locally or forwards it to the server. It owns
// the connection's send side; the Reader it is paired with owns the
// receive side, so the two never write to conn concurrently.
type Driver struct {
	cfg   DriverConfig
	conn  net.Conn
	rd    *Reader
	stats *Stats

	in  *bufio.Scanner
	out io.Writer

	localDir string
}

// NewDriver builds a Driver. rd must already be running its Run loop in a
// separate goroutine reading from the same conn.
func NewDriver(conn net.Conn, rd *Reader, stats *Stats, in io.Reader, out io.Writer, localDir string, opts ...DriverOption) *Driver {
	cfg := defaultDriverConfig
	for _, fn := range opts {
		fn(&cfg)
	}
	return &Driver{
		cfg:      cfg,
		conn:     conn,
		rd:       rd,
		stats:    stats,
		in:       bufio.NewScanner(in),
		out:      out,
		localDir: localDir,
	}
}

// Run prompts and dispatches commands until EXIT/QUIT, EOF on in, or a send
// failure.
func (d *Driver) Run() {
	for {
		fmt.Fprint(d.out, "ftp> ")
		if !d.in.Scan() {
			d.quit()
			return
		}
		if d.Dispatch(d.in.Text()) {
			return
		}
	}
}

// Dispatch handles one input line. It returns true if the driver should
// stop (QUIT/EXIT or an unrecoverable send failure).
func (d *Driver) Dispatch(line string) bool {
	verb, arg := splitCommand(line)
	if verb == "" {
		return false
	}

	switch verb {
	case "LOCAL_LS":
		d.runLocalLS()
	case "LOCAL_CD":
		d.runLocalCD(arg)
	case "LOCAL_PWD":
		d.runLocalPWD()
	case "HELP":
		d.runHelp()
	case "EXIT", "QUIT":
		d.quit()
		return true
	case "GET":
		d.get(arg)
	case "PUT":
		d.put(arg)
	default:
		if err := d.send(line); err != nil {
			fmt.Fprintf(d.out, "send failed: %v\n", err)
			return true
		}
	}
	d.stats.IncCommandsIssued()
	return false
}

func splitCommand(line string) (verb, arg string) {
	fields := strings.SplitN(strings.TrimSpace(line), " ", 2)
	verb = strings.ToUpper(strings.TrimSpace(fields[0]))
	if len(fields) == 2 {
		arg = strings.TrimSpace(fields[1])
	}
	return verb, arg
}

func (d *Driver) send(payload string) error {
	n, err := io.WriteString(d.conn, payload)
	if n > 0 {
		d.stats.AddBytesSent(int64(n))
	}
	return err
}

func (d *Driver) get(name string) {
	if name == "" {
		fmt.Fprintln(d.out, "GET requires a filename")
		return
	}
	// Flip the reader into AwaitFileStart before the request can possibly
	// be answered, eliminating the race against the server's response.
	d.rd.ExpectFileStart()
	if err := d.send("GET " + name); err != nil {
		fmt.Fprintf(d.out, "send failed: %v\n", err)
	}
}

func (d *Driver) put(name string) {
	if name == "" {
		fmt.Fprintln(d.out, "PUT requires a filename")
		return
	}
	local := name
	if !filepath.IsAbs(local) {
		local = filepath.Join(d.localDir, name)
	}
	info, err := os.Stat(local)
	if err != nil {
		fmt.Fprintf(d.out, "local file not found: %s\n", name)
		return
	}
	if info.IsDir() {
		fmt.Fprintf(d.out, "cannot PUT a directory: %s\n", name)
		return
	}
	f, err := os.Open(local)
	if err != nil {
		fmt.Fprintf(d.out, "could not open %s: %v\n", name, err)
		return
	}
	defer f.Close()

	if err := d.send("PUT " + name); err != nil {
		fmt.Fprintf(d.out, "send failed: %v\n", err)
		return
	}

	if !d.rd.WaitReady(d.cfg.UploadReadyTimeout) {
		fmt.Fprintf(d.out, "timed out waiting for server to accept %s\n", name)
		d.stats.IncErrors()
		return
	}

	n, err := framing.WriteFramedBody(d.conn, f, framing.WithChunkSize(d.cfg.ChunkSize))
	d.stats.AddBytesSent(n)
	if err != nil {
		fmt.Fprintf(d.out, "upload of %s failed: %v\n", name, err)
		d.stats.IncErrors()
		return
	}
	d.stats.IncFilesTransferred()
	log.Infof("[CLIENT] uploaded %s (%d bytes)", name, n)
}

func (d *Driver) quit() {
	d.Quit()
}

// Quit sends a best-effort QUIT, gives the server QuitGrace to answer, prints
// the session summary, and closes the connection. Exported so a signal
// handler can call it directly from outside the prompt loop.
func (d *Driver) Quit() {
	_ = d.send("QUIT")
	time.Sleep(d.cfg.QuitGrace)
	fmt.Fprintln(d.out, d.stats.Snapshot().String())
	_ = d.conn.Close()
}
