package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// runLocalLS lists the driver's current local directory as bare entry
// names, one per line, sorted; unlike the server's LIST it prints no type,
// size or date columns.
func (d *Driver) runLocalLS() {
	entries, err := os.ReadDir(d.localDir)
	if err != nil {
		fmt.Fprintf(d.out, "local ls failed: %v\n", err)
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(d.out, n)
	}
}

func (d *Driver) runLocalCD(arg string) {
	if arg == "" {
		fmt.Fprintln(d.out, "LOCAL_CD requires a directory")
		return
	}
	target := arg
	if !filepath.IsAbs(target) {
		target = filepath.Join(d.localDir, target)
	}
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(d.out, "no such local directory: %s\n", arg)
		return
	}
	d.localDir = target
}

func (d *Driver) runLocalPWD() {
	fmt.Fprintln(d.out, d.localDir)
}

func (d *Driver) runHelp() {
	fmt.Fprint(d.out, strings.Join([]string{
		"LIST                 list files on the server",
		"GET <name>           download a file from the server",
		"PUT <name>           upload a local file to the server",
		"DEL <name>           delete a file on the server",
		"STAT                 show server and session statistics",
		"SYST                 show the server's platform identifier",
		"LOCAL_LS             list files in the local working directory",
		"LOCAL_CD <dir>       change the local working directory",
		"LOCAL_PWD            print the local working directory",
		"HELP                 show this message",
		"QUIT / EXIT          disconnect and exit",
		"",
	}, "\n"))
}
