package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cli := &app{}
	err := cli.rootCommand().ExecuteContext(ctx)
	cancel()
	if err == nil {
		if cli.log != nil {
			_ = cli.log.Sync()
		}
		return
	}

	if cli.log != nil {
		cli.log.Error("restaurante failed", zap.Error(err))
		_ = cli.log.Sync()
	} else {
		// config or logger setup failed before a logger existed
		fmt.Fprintln(os.Stderr, "restaurante:", err)
	}
	os.Exit(1)
}
