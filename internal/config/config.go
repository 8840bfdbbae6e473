// Package config loads the optional server configuration file. Missing
// files are not an error — the server falls back to its built-in defaults
// and runs fine with zero setup.
package config

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// Server holds the server's tunable knobs as read from an INI file's
// [server] section.
type Server struct {
	WorkingDir      string
	Listen          string
	IdleTimeout     time.Duration
	MonitorInterval time.Duration
}

// DefaultServer mirrors the server package's own built-in defaults, used
// when no config file is present or a key is absent from it.
var DefaultServer = Server{
	WorkingDir:      ".",
	Listen:          "0.0.0.0:8888",
	IdleTimeout:     300 * time.Second,
	MonitorInterval: 10 * time.Second,
}

// LoadServer reads path (an INI file) into a Server, starting from
// DefaultServer for any key the file omits. If path does not exist,
// DefaultServer is returned unmodified and no error is reported.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return cfg, err
	}

	sec := f.Section("server")
	cfg.WorkingDir = sec.Key("working_dir").MustString(cfg.WorkingDir)
	cfg.Listen = sec.Key("listen").MustString(cfg.Listen)
	cfg.IdleTimeout = time.Duration(sec.Key("idle_timeout_seconds").MustInt(int(cfg.IdleTimeout/time.Second))) * time.Second
	cfg.MonitorInterval = time.Duration(sec.Key("monitor_interval_seconds").MustInt(int(cfg.MonitorInterval/time.Second))) * time.Second

	log.Infof("[CONFIG] loaded %s", path)
	return cfg, nil
}
