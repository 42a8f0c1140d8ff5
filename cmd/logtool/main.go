package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/poragchowdhury/logtool/internal/app"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	legacyAsks := flag.Bool("legacy-asks", false, "price per-broker shortage only, surplus estimates as zero")
	usePrevBook := flag.Bool("use-prev-book", false, "price per-broker imbalance against the previous timeslot's order book")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	input, output := flag.Arg(0), flag.Arg(1)

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath, output, app.Overrides{
		LegacyAsks:  *legacyAsks,
		UsePrevBook: *usePrevBook,
	}); err != nil {
		slog.Error("bootstrap failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Run(ctx, input); err != nil {
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: logtool [flags] <input> <output>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "  <input>   state log file, or ws:// / wss:// URL for a live stream")
	fmt.Fprintln(os.Stderr, "  <output>  summary file; a .db or .sqlite extension selects the SQLite sink")
	fmt.Fprintln(os.Stderr, "")
	flag.PrintDefaults()
}
