// Package main provides tablectl, the command-line client for the data table.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/datatable/internal/cli"
)

func main() {
	// A missing .env file is not an error for the CLI.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.Describe(err))
		stop()
		os.Exit(1)
	}
}
