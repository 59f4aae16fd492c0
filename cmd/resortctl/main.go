package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
