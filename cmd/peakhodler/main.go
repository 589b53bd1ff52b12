package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dwightmulcahy/PeakHODLer/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	prefsPath := flag.String("prefs", "", "override preferences file path (optional)")
	logDir := flag.String("logdir", "", "override log directory (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		PrefsPath: *prefsPath,
		LogDir:    *logDir,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "peakhodler: %v\n", err)
		return 1
	}
	return 0
}
