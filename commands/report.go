package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/Zandriy/VK-validator/commands/formatter"
	"github.com/Zandriy/VK-validator/internal/capability"
	"github.com/Zandriy/VK-validator/internal/config"
	"github.com/Zandriy/VK-validator/internal/report"
)

// Report prints the full capability report.
func Report(args []string) {
	exit(runReport(args, os.Stdout, os.Stderr))
}

func runReport(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("report", stderr)
	var flags commonFlags
	flags.register(fs)
	if code, stop := parseFlags(fs, args); stop {
		return code
	}

	cfg, log, err := flags.setup(fs, stderr)
	if err != nil {
		return ExitUsage
	}
	if cfg.Output.Format == config.FormatCSV {
		_, _ = fmt.Fprintln(stderr, "Configuration error: output.format: csv is only supported by the summary command")
		return ExitUsage
	}

	drv, err := openDriver(cfg)
	if err != nil {
		log.Error("Failed to open driver", "backend", cfg.Driver.Backend, "error", err)
		return ExitUsage
	}

	b := capability.NewBuilder(drv, capability.WithLogger(log))
	defer b.Close()

	r, _ := b.Build()
	log.Info("Report built",
		"devices", len(r.Devices),
		"layers", len(r.Layers),
		"stage", r.Stage.String())

	if cfg.Output.Format == config.FormatText {
		if err := report.NewRenderer(report.NewOutput(stdout, cfg.Output.Color)).Render(r); err != nil {
			log.Error("Failed to write report", "error", err)
			return ExitFailure
		}
	} else {
		out := formatter.New(stdout, formatter.Format(cfg.Output.Format))
		if err := out.PrintStructured(report.NewView(r)); err != nil {
			log.Error("Failed to write report", "error", err)
			return ExitFailure
		}
	}

	if !r.Complete() {
		return ExitFailure
	}
	return ExitOK
}
