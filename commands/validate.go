package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Zandriy/VK-validator/internal/config"
)

// Validate validates a configuration file.
func Validate(args []string) {
	exit(runValidate(args, os.Stdout, os.Stderr))
}

func runValidate(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("validate", stderr)
	configPath := fs.StringP("file", "f", "", "Path to config file (required)")
	printEffective := fs.Bool("print", false, "Print the effective configuration with defaults applied")
	if code, stop := parseFlags(fs, args); stop {
		return code
	}

	if *configPath == "" {
		_, _ = fmt.Fprintln(stderr, "Config file path is required")
		_, _ = fmt.Fprintln(stderr, "Usage: vk-validator validate --file <config-file>")
		return ExitUsage
	}

	cfg, problems := validateConfigFile(*configPath)
	printValidationResult(stdout, *configPath, problems)
	if len(problems) > 0 {
		return ExitFailure
	}

	if *printEffective {
		data, err := cfg.ToYAML()
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return ExitFailure
		}
		_, _ = fmt.Fprintln(stdout)
		_, _ = stdout.Write(data)
	}
	return ExitOK
}

// validateConfigFile collects every problem with the file: parse errors, field
// errors and, for the fixture backend, an unreadable or invalid fixture.
func validateConfigFile(path string) (*config.Config, []string) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, []string{err.Error()}
	}

	var problems []string
	if err := cfg.Validate(); err != nil {
		var ves config.ValidationErrors
		if errors.As(err, &ves) {
			for _, ve := range ves {
				problems = append(problems, ve.Error())
			}
		} else {
			problems = append(problems, err.Error())
		}
	}

	if cfg.Driver.Backend == config.BackendFixture && cfg.Driver.Fixture != "" {
		if _, err := openDriver(cfg); err != nil {
			problems = append(problems, fmt.Sprintf("driver.fixture: %v", err))
		}
	}
	return cfg, problems
}

func printValidationResult(w io.Writer, path string, problems []string) {
	if len(problems) == 0 {
		_, _ = fmt.Fprintf(w, "Configuration is valid: %s\n", path)
		return
	}
	_, _ = fmt.Fprintf(w, "Configuration validation failed: %s\n", path)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Errors found:")
	for i, p := range problems {
		_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, p)
	}
}
