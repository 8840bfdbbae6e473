// Command server runs the file-transfer service: one handler per client,
// a working directory, and a background idle-eviction monitor.
package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/coreos/go-systemd/activation"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Ruturajs29/FileByte/internal/config"
	"github.com/Ruturajs29/FileByte/internal/server"
)

var (
	flagConfigPath string
	flagWorkingDir string
)

func main() {
	root := &cobra.Command{
		Use:   "server [host [port]]",
		Short: "Serve files over the framed transfer protocol",
		Args:  cobra.MaximumNArgs(2),
		RunE:  run,
	}
	root.Flags().StringVar(&flagConfigPath, "config", "", "path to an optional server.ini config file")
	root.Flags().StringVar(&flagWorkingDir, "working-dir", "", "override the served working directory")

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, args []string) error {
	cfg := config.DefaultServer
	if flagConfigPath != "" {
		loaded, err := config.LoadServer(flagConfigPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	addr := cfg.Listen
	if len(args) >= 1 {
		host := args[0]
		port := "8888"
		if len(args) >= 2 {
			port = args[1]
			if _, err := strconv.Atoi(port); err != nil {
				log.Errorf("[SERVER] invalid port %q: must be numeric", port)
				os.Exit(1)
			}
		}
		addr = net.JoinHostPort(host, port)
	}
	if flagWorkingDir != "" {
		cfg.WorkingDir = flagWorkingDir
	}

	ln, err := listener(addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	srv := server.New(
		server.WithWorkingDir(cfg.WorkingDir),
		server.WithIdleTimeout(cfg.IdleTimeout),
		server.WithMonitorInterval(cfg.MonitorInterval),
	)
	return srv.Serve(ln)
}

// listener prefers a systemd-activated socket (LISTEN_FDS set by the
// service manager) and falls back to a plain net.Listen, the same
// fallback shape as the pack's socket-activation example.
func listener(addr string) (net.Listener, error) {
	listeners, err := activation.Listeners()
	if err == nil && len(listeners) > 0 && listeners[0] != nil {
		log.Infof("[SERVER] adopted systemd socket %s", listeners[0].Addr())
		return listeners[0], nil
	}
	return net.Listen("tcp", addr)
}
