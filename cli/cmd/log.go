package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/courier/cli/render"
	"github.com/pithecene-io/courier/journal"
	"github.com/pithecene-io/courier/types"
)

// logRow is the flat listing shape for one journal record.
type logRow struct {
	Path      string                `json:"path"`
	Size      int64                 `json:"size"`
	Outcome   types.TransferOutcome `json:"outcome"`
	Attempts  int                   `json:"attempts"`
	BytesSent int64                 `json:"bytes_sent"`
	Checksum  string                `json:"checksum"`
	Error     string                `json:"error"`
	Ts        string                `json:"ts"`
}

// LogCommand returns the log command, listing journal records.
func LogCommand() *cli.Command {
	return &cli.Command{
		Name:  "log",
		Usage: "List delivery records from a journal",
		Flags: append(ReadOnlyFlags(),
			JournalFlag,
			&cli.StringFlag{
				Name:  "outcome",
				Usage: "Filter by outcome: success, open_failed, connection_failed, write_failed",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Show only the most recent N records (0 = no limit)",
			},
		),
		Action: logAction,
	}
}

func logAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	records, err := journal.ReadAll(c.String("journal"))
	if err != nil {
		if len(records) == 0 {
			return err
		}
		// A truncated tail from an interrupted batch still yields the
		// intact records before it.
		fmt.Fprintf(os.Stderr, "Warning: journal truncated, showing %d intact record(s): %v\n",
			len(records), err)
	}

	if outcome := c.String("outcome"); outcome != "" {
		filtered := records[:0]
		for _, res := range records {
			if string(res.Outcome) == outcome {
				filtered = append(filtered, res)
			}
		}
		records = filtered
	}

	if limit := c.Int("limit"); limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	rows := make([]logRow, 0, len(records))
	for _, res := range records {
		rows = append(rows, logRow{
			Path:      res.Descriptor.Path,
			Size:      res.Descriptor.Size,
			Outcome:   res.Outcome,
			Attempts:  res.Attempts,
			BytesSent: res.BytesSent,
			Checksum:  res.Checksum,
			Error:     res.Error,
			Ts:        res.Ts,
		})
	}

	return r.Render(rows)
}
