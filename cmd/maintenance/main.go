// Package main provides storefront backend maintenance commands.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	entrypoint "github.com/louisbranch/storefront/internal/platform/cmd"
	"github.com/louisbranch/storefront/internal/platform/config"
	"github.com/louisbranch/storefront/internal/tools/maintenance"
)

func main() {
	cfg, err := maintenance.ParseConfig()
	config.ExitOnError(entrypoint.ServiceMaintenance, err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := maintenance.NewCommand(cfg, maintenance.OpenPostgres, os.Stdout, os.Stderr)
	err = cmd.ExecuteContext(ctx)
	stop()
	config.ExitOnError(entrypoint.ServiceMaintenance, err)
}
