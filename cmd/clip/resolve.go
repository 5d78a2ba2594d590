package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/genogenov/clip-for-fun/internal/auth"
	"github.com/genogenov/clip-for-fun/internal/config"
	"github.com/genogenov/clip-for-fun/internal/metrics"
	"github.com/genogenov/clip-for-fun/internal/objects"
	"github.com/genogenov/clip-for-fun/internal/session"
	"github.com/genogenov/clip-for-fun/internal/transport"
)

// Exit codes for resolve.
const (
	exitNotPresent    = 3
	exitProtocolError = 4
)

type resolveFlags struct {
	socket      string
	mode        string
	relayHost   string
	relayPort   int
	passkey     string
	timeout     time.Duration
	metricsFile string
}

func resolveCmd(g *globalFlags) *cobra.Command {
	f := &resolveFlags{}
	cmd := &cobra.Command{
		Use:   "resolve [interface]",
		Short: "Look up a global interface in the display's registry",
		Long: `Resolve sends get_registry and sync to the display and waits until the
interface is advertised or the sync callback reports that enumeration is
complete. The default interface is wl_data_device_manager.

Exit status is 0 when found, 3 when not advertised, 4 when the display
reports a protocol error, and 1 on any other failure.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := objects.DataDeviceManager.String()
			if len(args) == 1 {
				name = args[0]
			}
			cfg, err := g.load()
			if err != nil {
				return err
			}
			return runResolve(cmd.Context(), cmd.OutOrStdout(), g, cfg, f, name)
		},
	}
	cmd.Flags().StringVar(&f.socket, "socket", "", "display socket path (overrides config and environment)")
	cmd.Flags().StringVar(&f.mode, "mode", "unix", "transport: unix or quic")
	cmd.Flags().StringVar(&f.relayHost, "relay-host", "", "relay host for --mode quic")
	cmd.Flags().IntVar(&f.relayPort, "relay-port", 0, "relay UDP port for --mode quic")
	cmd.Flags().StringVar(&f.passkey, "passkey", "", "hex relay passkey for --mode quic")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "overall deadline (0 uses dial_timeout from config)")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus text metrics to this file")
	return cmd
}

// dialOptions merges flags over config.
func (f *resolveFlags) dialOptions(cfg config.Config) (transport.Options, error) {
	mode, err := transport.ParseDialMode(f.mode)
	if err != nil {
		return transport.Options{}, err
	}
	opts := transport.Options{Mode: mode}

	switch mode {
	case transport.ModeUnix:
		if f.socket != "" {
			cfg.SocketPath = f.socket
		}
		path, err := cfg.DisplaySocket()
		if err != nil {
			return transport.Options{}, err
		}
		opts.SocketPath = path
	case transport.ModeQUIC:
		opts.Host = cfg.Relay.Host
		if f.relayHost != "" {
			opts.Host = f.relayHost
		}
		opts.Port = cfg.Relay.Port
		if f.relayPort != 0 {
			opts.Port = f.relayPort
		}
		if opts.Port == 0 {
			return transport.Options{}, fmt.Errorf("--relay-port is required for --mode quic")
		}
		hexKey := cfg.Relay.Passkey
		if f.passkey != "" {
			hexKey = f.passkey
		}
		key, err := auth.ParsePasskey(hexKey)
		if err != nil {
			return transport.Options{}, err
		}
		opts.Passkey = key
	}
	return opts, nil
}

func runResolve(ctx context.Context, out io.Writer, g *globalFlags, cfg config.Config, f *resolveFlags, name string) error {
	target, err := objects.ParseInterface(name)
	if err != nil {
		return err
	}
	opts, err := f.dialOptions(cfg)
	if err != nil {
		return err
	}

	timeout := f.timeout
	if timeout == 0 {
		timeout = cfg.DialTimeout
	}
	var deadline time.Time
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
		deadline, _ = ctx.Deadline()
	}

	log := g.logger()
	conn, err := transport.Dial(ctx, opts)
	if err != nil {
		return err
	}
	// The session has no cancellation of its own; bound reads here.
	if !deadline.IsZero() {
		conn.SetReadDeadline(deadline)
	}

	var reg *prometheus.Registry
	var m *metrics.Metrics
	if f.metricsFile != "" {
		reg = prometheus.NewRegistry()
		m = metrics.New(reg)
	}

	s := session.New(conn, session.Config{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		Logger:          log,
		Metrics:         m,
	})
	defer s.Close()

	log.Debug("resolving", "interface", target.String(), "mode", opts.Mode.String())
	res, err := s.Resolve(target)

	if reg != nil {
		if werr := prometheus.WriteToTextfile(f.metricsFile, reg); werr != nil {
			log.Warn("write metrics file", "path", f.metricsFile, "err", werr)
		}
	}
	if err != nil {
		return err
	}
	return report(out, target, res)
}

// report prints the result and maps non-found outcomes to exit codes.
func report(out io.Writer, target objects.Interface, res session.Result) error {
	switch res.Outcome {
	case session.OutcomeFound:
		fmt.Fprintf(out, "%s name=%d version=%d\n", res.Entry.Interface, res.Entry.Name, res.Entry.Version)
		return nil
	case session.OutcomeEnumerationComplete:
		return &exitError{
			code: exitNotPresent,
			msg:  fmt.Sprintf("%s not advertised (%d globals enumerated)", target, res.Globals),
		}
	case session.OutcomeProtocolError:
		return &exitError{code: exitProtocolError, msg: res.ProtocolError.Error()}
	default:
		return fmt.Errorf("unexpected outcome %v", res.Outcome)
	}
}
