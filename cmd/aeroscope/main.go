// Command aeroscope serves flight emission datasets over Arrow Flight and
// exports their range band summaries.
//
// Usage:
//
//	aeroscope serve -config aeroscope.yaml [-address host:port] [-log-level debug]
//	aeroscope export -config aeroscope.yaml -source NAME [-o file]
//	    [-filter dim=v1,v2 ...] [-distance min:max] [-region dep:G7 ...]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: aeroscope <command> [flags]

commands:
  serve   serve the configured sources over Arrow Flight
  export  write the summary CSV of one source
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "aeroscope:", err)
		}
		os.Exit(2)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return flag.ErrHelp
	}
	switch args[0] {
	case "serve":
		return serve(ctx, args[1:], stderr)
	case "export":
		return export(ctx, args[1:], stdout, stderr)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stderr, usage)
		return flag.ErrHelp
	}
	return fmt.Errorf("unknown command %q", args[0])
}
