// Package main implements the vk-validator CLI application.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Zandriy/VK-validator/commands"
)

func main() {
	cmd, subArgs := route(os.Args[1:])

	switch cmd {
	case "report":
		commands.Report(subArgs)
	case "summary":
		commands.Summary(subArgs)
	case "validate":
		commands.Validate(subArgs)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(commands.ExitUsage)
	}
}

// route picks the subcommand. With no arguments, or when the first argument
// is a flag, the full report is printed.
func route(args []string) (string, []string) {
	if len(args) == 0 {
		return "report", nil
	}
	switch args[0] {
	case "help", "--help", "-h":
		return "help", nil
	}
	if strings.HasPrefix(args[0], "-") {
		return "report", args
	}
	return args[0], args[1:]
}

func printUsage() {
	fmt.Fprint(os.Stderr, `
VK Validator

Prints what the Vulkan driver exposes: instance, physical devices and every
layer with its instance and device extensions.

Usage:
  vk-validator [command] [options]

Commands:
  report                 Print the full capability report (default)
  summary                One line per device, marking the one an application would pick
  validate               Validate a configuration file
  help                   Show this help

Common Options:
  -c, --config <path>    YAML config file
  -f, --format <format>  Output format: text, json, yaml (summary also takes csv)
  --color <mode>         Color mode: auto, always, never
  --fixture <path>       Answer from a fixture file instead of the Vulkan driver
  --log-level <level>    Log level: debug, info, warn, error
  --log-format <format>  Log format: text, json

Summary Options:
  --prefer <name>        Preferred device name (substring match, or 'auto')

Validate Options:
  -f, --file <path>      Path to config file (required)
  --print                Print the effective configuration with defaults applied

Exit Status:
  0  the report is complete
  1  a stage failed; whatever was gathered is still printed
  2  usage or configuration error

Examples:
  vk-validator
  vk-validator --format json
  vk-validator summary --prefer nvidia
  vk-validator report --fixture testdata/machine.yaml --color never
  vk-validator validate --file config.yaml
`)
}
