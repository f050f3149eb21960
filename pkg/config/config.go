package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/ritzau/dijkstra-trace/pkg/dijkstra"
)

// DefaultFile is the optional configuration file read from the working directory.
const DefaultFile = "dijkstra-trace.toml"

// EnvPrefix prefixes environment overrides, e.g. DIJKSTRA_TRACE_PORT=9090.
const EnvPrefix = "DIJKSTRA_TRACE_"

// Config holds all configuration for the application
type Config struct {
	Source      string `koanf:"source"`       // Adjacency document loaded at startup
	Coords      string `koanf:"coords"`       // Coordinate hints; derived from Source when empty
	Host        string `koanf:"host"`
	Port        int    `koanf:"port"`
	DatabaseURL string `koanf:"database-url"` // PostgreSQL; in-memory store when empty
	Watch       bool   `koanf:"watch"`
	Strict      bool   `koanf:"strict"` // Reject malformed pathfinding requests with 422
	MaxNodes    int    `koanf:"max-nodes"`
	From        string `koanf:"from"`
	To          string `koanf:"to"`
	Trace       bool   `koanf:"trace"`
	Verbosity   string `koanf:"verbosity"`
	VerboseCnt  int    `koanf:"verbose"`
	LogJSON     bool   `koanf:"log-json"`
}

func defaults() map[string]any {
	return map[string]any{
		"source":       "data/list graf.json",
		"coords":       "",
		"host":         "localhost",
		"port":         5000,
		"database-url": "",
		"watch":        false,
		"strict":       false,
		"max-nodes":    dijkstra.DefaultMaxNodes,
		"from":         "",
		"to":           "",
		"trace":        false,
		"verbosity":    "",
		"verbose":      0,
		"log-json":     false,
	}
}

// Load loads configuration from defaults, DefaultFile, environment variables and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	return LoadFile(f, DefaultFile)
}

// LoadFile is Load with an explicit configuration file. A missing file is not an error.
func LoadFile(f *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(makeMapProvider(defaults()), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	// DIJKSTRA_TRACE_DATABASE_URL -> database-url
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be expressed by their types alone.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.MaxNodes < 0 {
		errs = append(errs, fmt.Errorf("max-nodes must not be negative"))
	}
	if (c.From == "") != (c.To == "") {
		errs = append(errs, fmt.Errorf("--from and --to must be given together"))
	}
	if c.Watch && c.Source == "" {
		errs = append(errs, fmt.Errorf("--watch needs a source file"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// OneShot reports whether a single route was requested on the command line.
func (c *Config) OneShot() bool {
	return c.From != "" && c.To != ""
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]any
}

func makeMapProvider(m map[string]any) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]any, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}

// Flags defines the command-line flags. Flag names match the configuration keys.
func Flags(name string) *pflag.FlagSet {
	f := pflag.NewFlagSet(name, pflag.ContinueOnError)
	f.String("source", "data/list graf.json", "Adjacency JSON file loaded as the default graph")
	f.String("coords", "", "Coordinate JSON file (default: koordinat_peta.json next to the source)")
	f.String("host", "localhost", "Host to listen on")
	f.Int("port", 5000, "Port to listen on")
	f.String("database-url", "", "PostgreSQL connection string (in-memory store when empty)")
	f.Bool("watch", false, "Reload the source graph when its files change")
	f.Bool("strict", false, "Reject malformed pathfinding requests instead of normalising them")
	f.Int("max-nodes", dijkstra.DefaultMaxNodes, "Largest accepted request in nodes (0 = unlimited)")
	f.String("from", "", "Print the route from this node and exit (requires --to)")
	f.String("to", "", "Print the route to this node and exit (requires --from)")
	f.Bool("trace", false, "Include every iteration in the printed route")
	f.String("verbosity", "", "Log level: error, warn, info, debug or trace")
	f.CountP("verbose", "v", "Increase log verbosity (repeatable)")
	f.Bool("log-json", false, "Write logs as JSON")
	return f
}
