package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"receipts/internal/config"
	"receipts/internal/connectors"
	"receipts/internal/listener"
	"receipts/internal/logger"
)

func main() {
	once := flag.Bool("once", false, "run a single fetch-and-extract cycle and exit")
	flag.Parse()

	cfg, err := config.Load()
	must(err)

	conn, err := connectors.NewFromConfig(cfg)
	must(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, logger.New(cfg.LogLevel))

	svc := listener.NewService(cfg, conn)
	if *once {
		must(svc.RunOnce(ctx))
		return
	}
	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
