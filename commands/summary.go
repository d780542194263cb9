package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Zandriy/VK-validator/commands/formatter"
	"github.com/Zandriy/VK-validator/internal/capability"
)

// DeviceSummary is one row of the device summary.
type DeviceSummary struct {
	Index         int    `json:"index" yaml:"index"`
	Name          string `json:"name" yaml:"name"`
	Type          string `json:"type" yaml:"type"`
	PCIID         string `json:"pci_id" yaml:"pci_id"`
	APIVersion    string `json:"api_version" yaml:"api_version"`
	DriverVersion string `json:"driver_version" yaml:"driver_version"`
	Available     bool   `json:"available" yaml:"available"`
	Selected      bool   `json:"selected" yaml:"selected"`
}

var summaryHeaders = []string{"#", "Device", "Type", "PCI ID", "API", "Driver", "Available", "Selected"}

// Summary prints one line per device and marks the one an application would pick.
func Summary(args []string) {
	exit(runSummary(args, os.Stdout, os.Stderr))
}

func runSummary(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("summary", stderr)
	var flags commonFlags
	flags.register(fs)
	prefer := fs.String("prefer", "", "Preferred device name (substring match, or 'auto')")
	if code, stop := parseFlags(fs, args); stop {
		return code
	}

	cfg, log, err := flags.setup(fs, stderr)
	if err != nil {
		return ExitUsage
	}
	if fs.Changed("prefer") {
		cfg.Summary.PreferredDevice = *prefer
	}

	drv, err := openDriver(cfg)
	if err != nil {
		log.Error("Failed to open driver", "backend", cfg.Driver.Backend, "error", err)
		return ExitUsage
	}

	b := capability.NewBuilder(drv, capability.WithLogger(log))
	defer b.Close()
	r, _ := b.Build()

	rows := summarize(r, capability.SelectDevice(log, r.Devices, cfg.Summary.PreferredDevice))

	out := formatter.New(stdout, formatter.Format(cfg.Output.Format))
	if err := out.Print(summaryHeaders, summaryTable(rows), rows); err != nil {
		log.Error("Failed to write summary", "error", err)
		return ExitFailure
	}

	if r.Failure != nil {
		_, _ = fmt.Fprintln(stderr, r.Failure.Error())
		return ExitFailure
	}
	return ExitOK
}

func summarize(r *capability.Report, selected int) []DeviceSummary {
	rows := make([]DeviceSummary, 0, len(r.Devices))
	for i := range r.Devices {
		d := &r.Devices[i]
		rows = append(rows, DeviceSummary{
			Index:         i,
			Name:          d.Name(),
			Type:          d.Properties.DeviceType.Name(),
			PCIID:         d.PCIID(),
			APIVersion:    d.Properties.APIVersion.String(),
			DriverVersion: d.DriverVersion(),
			Available:     d.Available(),
			Selected:      i == selected,
		})
	}
	return rows
}

func summaryTable(rows []DeviceSummary) [][]string {
	table := make([][]string, 0, len(rows))
	for _, s := range rows {
		mark := ""
		if s.Selected {
			mark = "*"
		}
		table = append(table, []string{
			strconv.Itoa(s.Index),
			s.Name,
			s.Type,
			s.PCIID,
			s.APIVersion,
			s.DriverVersion,
			strconv.FormatBool(s.Available),
			mark,
		})
	}
	return table
}
