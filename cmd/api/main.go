package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const configFlag = "config"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	c := &cobra.Command{
		Use:           "matchmate-api",
		Short:         "Runs the swipe, match and chat relay API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveFunc,
	}
	c.PersistentFlags().String(configFlag, "", "Optional config file (yaml, json or toml)")
	c.AddCommand(serveCommand(), tokenCommand())
	return c
}
