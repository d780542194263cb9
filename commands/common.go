// Package commands implements the vk-validator subcommands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/Zandriy/VK-validator/commands/formatter"
	"github.com/Zandriy/VK-validator/internal/config"
	"github.com/Zandriy/VK-validator/internal/logger"
	"github.com/Zandriy/VK-validator/internal/report"
	"github.com/Zandriy/VK-validator/internal/vkapi"
)

// Exit codes shared by every command.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// commonFlags are accepted by every command that builds a report.
type commonFlags struct {
	configPath string
	format     string
	color      string
	fixture    string
	logLevel   string
	logFormat  string
}

func (c *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&c.configPath, "config", "c", "", "Path to a YAML config file")
	fs.StringVarP(&c.format, "format", "f", config.FormatText, "Output format: text, json, yaml")
	fs.StringVar(&c.color, "color", "auto", "Color mode: auto, always, never")
	fs.StringVar(&c.fixture, "fixture", "", "Answer from a fixture file instead of the Vulkan driver")
	fs.StringVar(&c.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	fs.StringVar(&c.logFormat, "log-format", "text", "Log format: text, json")
}

func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false
	return fs
}

// parseFlags parses args, reporting whether the command should stop and with
// which exit code. --help stops with ExitOK.
func parseFlags(fs *pflag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK, true
		}
		return ExitUsage, true
	}
	if fs.NArg() > 0 {
		_, _ = fmt.Fprintf(fs.Output(), "unexpected arguments: %v\n", fs.Args())
		return ExitUsage, true
	}
	return ExitOK, false
}

// resolveConfig loads the config file, if any, and applies the flags the user
// set explicitly on top of it.
func (c *commonFlags) resolveConfig(fs *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if fs.Changed("format") {
		cfg.Output.Format = c.format
	}
	if fs.Changed("color") {
		cfg.Output.Color = c.color
	}
	if fs.Changed("fixture") {
		cfg.Driver.Backend = config.BackendFixture
		cfg.Driver.Fixture = c.fixture
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = c.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Logging.Format = c.logFormat
	}

	if f, err := formatter.ParseFormat(cfg.Output.Format); err == nil {
		cfg.Output.Format = string(f)
	}
	if color, err := report.ParseColor(cfg.Output.Color); err == nil {
		cfg.Output.Color = color
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup resolves the config and installs the logger. A non-nil error is a
// usage error and has already been printed.
func (c *commonFlags) setup(fs *pflag.FlagSet, stderr io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := c.resolveConfig(fs)
	if err != nil {
		if config.IsValidationError(err) {
			_, _ = fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		} else {
			_, _ = fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		}
		return nil, nil, err
	}
	log := logger.Init(cfg.Logging.Level, cfg.Logging.Format, stderr)
	return cfg, log, nil
}

// openDriver returns the backend selected by cfg.
func openDriver(cfg *config.Config) (vkapi.Driver, error) {
	if cfg.Driver.Backend != config.BackendFixture {
		return vkapi.NewNative(), nil
	}
	f, err := vkapi.LoadFixture(cfg.Driver.Fixture)
	if err != nil {
		return nil, err
	}
	drv, err := vkapi.NewFixtureDriver(f)
	if err != nil {
		return nil, fmt.Errorf("invalid fixture %s: %w", cfg.Driver.Fixture, err)
	}
	return drv, nil
}

func exit(code int) {
	if code != ExitOK {
		os.Exit(code)
	}
}
