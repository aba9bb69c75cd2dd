package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/marbeck/pidlock/internal/config"
)

// Version information - injected at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := NewDefaultApp(config.VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	// A signal during acquisition or while the wrapped command runs cancels
	// the context, so a held lock is always released on the way out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	os.Exit(app.Run(ctx, os.Args[1:]))
}
