package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/genogenov/clip-for-fun/internal/auth"
	"github.com/genogenov/clip-for-fun/internal/config"
	"github.com/genogenov/clip-for-fun/internal/metrics"
	"github.com/genogenov/clip-for-fun/internal/transport"
)

type relayFlags struct {
	listen      int
	socket      string
	passkey     string
	metricsAddr string
	certFile    string
	keyFile     string
}

func relayCmd(g *globalFlags) *cobra.Command {
	f := &relayFlags{}
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Expose the local display socket to remote clients over QUIC",
		Long: `Relay accepts QUIC connections, checks each client's passkey token, and
splices the client's stream onto a fresh connection to the local display
socket. Without --passkey a random passkey is generated and printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			return runRelay(cmd.Context(), cmd.OutOrStdout(), g.logger(), f.merge(cfg))
		},
	}
	cmd.Flags().IntVarP(&f.listen, "listen", "p", 0, "UDP port to listen on (0 = config or random)")
	cmd.Flags().StringVar(&f.socket, "socket", "", "display socket path (overrides config and environment)")
	cmd.Flags().StringVarP(&f.passkey, "passkey", "k", "", "hex passkey clients must present")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().StringVar(&f.certFile, "cert", "", "TLS certificate file (default: ephemeral)")
	cmd.Flags().StringVar(&f.keyFile, "key", "", "TLS key file")
	return cmd
}

// merge applies non-empty flags over cfg.
func (f *relayFlags) merge(cfg config.Config) config.Config {
	if f.listen != 0 {
		cfg.Relay.ListenPort = f.listen
	}
	if f.socket != "" {
		cfg.SocketPath = f.socket
	}
	if f.passkey != "" {
		cfg.Relay.Passkey = f.passkey
	}
	if f.metricsAddr != "" {
		cfg.Relay.MetricsAddr = f.metricsAddr
	}
	if f.certFile != "" {
		cfg.Relay.CertFile = f.certFile
	}
	if f.keyFile != "" {
		cfg.Relay.KeyFile = f.keyFile
	}
	return cfg
}

func runRelay(ctx context.Context, out io.Writer, log *slog.Logger, cfg config.Config) error {
	socketPath, err := cfg.DisplaySocket()
	if err != nil {
		return err
	}

	var passkey []byte
	if cfg.Relay.Passkey == "" {
		passkey, err = auth.GeneratePasskey()
		if err != nil {
			return fmt.Errorf("generate passkey: %w", err)
		}
		fmt.Fprintf(out, "passkey %s\n", hex.EncodeToString(passkey))
	} else if passkey, err = auth.ParsePasskey(cfg.Relay.Passkey); err != nil {
		return err
	}

	cert, err := transport.RelayCertificate(cfg.Relay.CertFile, cfg.Relay.KeyFile)
	if err != nil {
		return err
	}
	ln, err := transport.ListenRelay(cfg.Relay.ListenPort, passkey, cert)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "port %d\n", ln.Port())

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if cfg.Relay.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.Relay.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("metrics server stopped", "addr", cfg.Relay.MetricsAddr, "err", err)
			}
		}()
		defer srv.Close()
	}

	r := transport.NewRelay(ln, socketPath, log, m)
	defer r.Close()
	log.Info("relay listening", "port", ln.Port(), "socket", socketPath)

	err = r.Serve(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
