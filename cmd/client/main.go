// Command client is the interactive file-transfer client: a reader task
// demultiplexes the connection's byte stream while this process's main
// goroutine prompts for and dispatches commands.
package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Ruturajs29/FileByte/internal/client"
)

func main() {
	root := &cobra.Command{
		Use:   "client [host [port]]",
		Short: "Connect to a file-transfer server and drive it interactively",
		Args:  cobra.MaximumNArgs(2),
		RunE:  run,
	}

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, args []string) error {
	host := "localhost"
	port := "8888"
	if len(args) >= 1 {
		host = args[0]
	}
	if len(args) >= 2 {
		port = args[1]
		if _, err := strconv.Atoi(port); err != nil {
			log.Errorf("[CLIENT] invalid port %q: must be numeric", port)
			os.Exit(1)
		}
	}

	addr := net.JoinHostPort(host, port)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer conn.Close()
	log.Infof("[CLIENT] connected to %s", addr)

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	stats := client.NewStats()
	rd := client.NewReader(conn, cwd, stats)
	go func() {
		if err := rd.Run(func(line string) { fmt.Println(line) }); err != nil {
			log.Infof("[CLIENT] connection closed: %v", err)
		}
	}()

	drv := client.NewDriver(conn, rd, stats, os.Stdin, os.Stdout, cwd)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Infof("[CLIENT] interrupted, sending QUIT")
		drv.Quit()
		os.Exit(0)
	}()

	drv.Run()
	return nil
}
