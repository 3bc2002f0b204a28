// Package cmd provides CLI commands for the courier binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags for read-only commands.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// JournalFlag locates the journal file read-only commands consume.
	JournalFlag = &cli.StringFlag{
		Name:     "journal",
		Usage:    "Path to the delivery journal",
		Required: true,
	}
)

// ReadOnlyFlags returns the shared flags for all read-only commands.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
	}
}
