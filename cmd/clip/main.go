package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/genogenov/clip-for-fun/internal/config"
	"github.com/genogenov/clip-for-fun/internal/logging"
)

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	verbose    bool
	json       bool
}

func (g *globalFlags) load() (config.Config, error) {
	return config.Load(g.configPath, os.Getenv)
}

func (g *globalFlags) logger() *slog.Logger {
	return logging.New(os.Stderr, logging.Options{Verbose: g.verbose, JSON: g.json})
}

// exitError carries a process exit code out of RunE.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "clip",
		Short: "Probe a Wayland display for advertised globals",
		Long: `clip connects to a Wayland display socket, enumerates the registry,
and reports whether a given global interface is advertised.

The display can be reached directly over its local socket or through a
clip relay over QUIC.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "TOML config file")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log at debug level")
	root.PersistentFlags().BoolVar(&g.json, "json-logs", false, "force JSON log output")

	root.AddCommand(
		resolveCmd(g),
		relayCmd(g),
		socketCmd(g),
		interfacesCmd(),
		versionCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		code := 1
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
		}
		fmt.Fprintf(os.Stderr, "clip: %v\n", err)
		os.Exit(code)
	}
}
