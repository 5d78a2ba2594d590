// Package config resolves where the display socket lives and loads the
// optional TOML file that tunes buffers and the relay.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/genogenov/clip-for-fun/internal/protocol"
)

const (
	DefaultDisplay         = "wayland-0"
	DefaultReadBufferSize  = 4096
	DefaultWriteBufferSize = 1024
	DefaultDialTimeout     = 5 * time.Second

	// A frame's size field is 16 bits, so a larger read buffer buys nothing.
	maxReadBufferSize = protocol.MaxFrameSize
	minReadBufferSize = 64
	minWriteBuffer    = protocol.RequestSize
)

var (
	ErrNoRuntimeDir = errors.New("XDG_RUNTIME_DIR is not set")
	ErrInvalid      = errors.New("invalid config")
)

// Config is the resolved client and relay configuration.
type Config struct {
	SocketPath      string
	RuntimeDir      string
	Display         string
	ReadBufferSize  int
	WriteBufferSize int
	DialTimeout     time.Duration
	Relay           RelayConfig
}

// RelayConfig configures both ends of the QUIC relay.
type RelayConfig struct {
	ListenPort  int    // relay side; 0 picks a free port
	Host        string // client side
	Port        int    // client side
	Passkey     string // hex, shared by both sides
	CertFile    string
	KeyFile     string
	MetricsAddr string // relay side; empty disables /metrics
}

type fileConfig struct {
	Socket      string       `toml:"socket"`
	RuntimeDir  string       `toml:"runtime_dir"`
	Display     string       `toml:"display"`
	ReadBuffer  int          `toml:"read_buffer"`
	WriteBuffer int          `toml:"write_buffer"`
	DialTimeout string       `toml:"dial_timeout"`
	Relay       relaySection `toml:"relay"`
}

type relaySection struct {
	Listen      int    `toml:"listen"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Passkey     string `toml:"passkey"`
	CertFile    string `toml:"cert_file"`
	KeyFile     string `toml:"key_file"`
	MetricsAddr string `toml:"metrics_addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Display:         DefaultDisplay,
		ReadBufferSize:  DefaultReadBufferSize,
		WriteBufferSize: DefaultWriteBufferSize,
		DialTimeout:     DefaultDialTimeout,
		Relay:           RelayConfig{Host: "127.0.0.1"},
	}
}

// FromEnv returns Default with XDG_RUNTIME_DIR and WAYLAND_DISPLAY applied.
func FromEnv(getenv func(string) string) Config {
	cfg := Default()
	cfg.applyEnv(getenv)
	return cfg
}

func (c *Config) applyEnv(getenv func(string) string) {
	if dir := strings.TrimSpace(getenv("XDG_RUNTIME_DIR")); dir != "" {
		c.RuntimeDir = dir
	}
	if display := strings.TrimSpace(getenv("WAYLAND_DISPLAY")); display != "" {
		c.Display = display
	}
}

// Load reads the TOML file at path over the environment-derived defaults.
// Only keys present in the file override. An empty path skips the file.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := FromEnv(getenv)
	if path == "" {
		return cfg, cfg.Validate()
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q in %s", ErrInvalid, undecoded[0].String(), path)
	}

	if meta.IsDefined("socket") {
		cfg.SocketPath = strings.TrimSpace(raw.Socket)
	}
	if meta.IsDefined("runtime_dir") {
		cfg.RuntimeDir = strings.TrimSpace(raw.RuntimeDir)
	}
	if meta.IsDefined("display") {
		cfg.Display = strings.TrimSpace(raw.Display)
	}
	if meta.IsDefined("read_buffer") {
		cfg.ReadBufferSize = raw.ReadBuffer
	}
	if meta.IsDefined("write_buffer") {
		cfg.WriteBufferSize = raw.WriteBuffer
	}
	if meta.IsDefined("dial_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.DialTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse dial_timeout: %w", err)
		}
		cfg.DialTimeout = d
	}

	r := &cfg.Relay
	if meta.IsDefined("relay", "listen") {
		r.ListenPort = raw.Relay.Listen
	}
	if meta.IsDefined("relay", "host") {
		r.Host = strings.TrimSpace(raw.Relay.Host)
	}
	if meta.IsDefined("relay", "port") {
		r.Port = raw.Relay.Port
	}
	if meta.IsDefined("relay", "passkey") {
		r.Passkey = strings.TrimSpace(raw.Relay.Passkey)
	}
	if meta.IsDefined("relay", "cert_file") {
		r.CertFile = raw.Relay.CertFile
	}
	if meta.IsDefined("relay", "key_file") {
		r.KeyFile = raw.Relay.KeyFile
	}
	if meta.IsDefined("relay", "metrics_addr") {
		r.MetricsAddr = strings.TrimSpace(raw.Relay.MetricsAddr)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks buffer sizes and ports.
func (c Config) Validate() error {
	if c.ReadBufferSize < minReadBufferSize || c.ReadBufferSize > maxReadBufferSize {
		return fmt.Errorf("%w: read_buffer %d outside [%d, %d]", ErrInvalid, c.ReadBufferSize, minReadBufferSize, maxReadBufferSize)
	}
	if c.WriteBufferSize < minWriteBuffer {
		return fmt.Errorf("%w: write_buffer %d below %d", ErrInvalid, c.WriteBufferSize, minWriteBuffer)
	}
	if c.DialTimeout < 0 {
		return fmt.Errorf("%w: negative dial_timeout", ErrInvalid)
	}
	for name, port := range map[string]int{"relay.listen": c.Relay.ListenPort, "relay.port": c.Relay.Port} {
		if port < 0 || port > 65535 {
			return fmt.Errorf("%w: %s %d out of range", ErrInvalid, name, port)
		}
	}
	return nil
}

// DisplaySocket returns the display socket path: SocketPath if set, an
// absolute Display verbatim, otherwise RuntimeDir joined with Display.
func (c Config) DisplaySocket() (string, error) {
	if c.SocketPath != "" {
		return c.SocketPath, nil
	}
	display := c.Display
	if display == "" {
		display = DefaultDisplay
	}
	if filepath.IsAbs(display) {
		return display, nil
	}
	if c.RuntimeDir == "" {
		return "", ErrNoRuntimeDir
	}
	return filepath.Join(c.RuntimeDir, display), nil
}
