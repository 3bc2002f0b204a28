package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/courier/cli/render"
	"github.com/pithecene-io/courier/journal"
	"github.com/pithecene-io/courier/types"
)

// StatsResponse is the aggregated view of one journal.
type StatsResponse struct {
	Files            int64 `json:"files"`
	Succeeded        int64 `json:"succeeded"`
	Failed           int64 `json:"failed"`
	BytesSent        int64 `json:"bytes_sent"`
	Attempts         int64 `json:"attempts"`
	OpenFailed       int64 `json:"open_failed"`
	ConnectionFailed int64 `json:"connection_failed"`
	WriteFailed      int64 `json:"write_failed"`
}

// StatsCommand returns the stats command, aggregating journal records into
// derived facts.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Show aggregated delivery statistics from a journal",
		Flags:  append(ReadOnlyFlags(), JournalFlag),
		Action: statsAction,
	}
}

func statsAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	records, err := journal.ReadAll(c.String("journal"))
	if err != nil {
		if len(records) == 0 {
			return err
		}
		fmt.Fprintf(os.Stderr, "Warning: journal truncated, aggregating %d intact record(s): %v\n",
			len(records), err)
	}

	totals := journal.Aggregate(records)
	resp := StatsResponse{
		Files:            totals.Files,
		Succeeded:        totals.Succeeded,
		Failed:           totals.Failed,
		BytesSent:        totals.BytesSent,
		Attempts:         totals.Attempts,
		OpenFailed:       totals.ByOutcome[string(types.OutcomeOpenFailed)],
		ConnectionFailed: totals.ByOutcome[string(types.OutcomeConnectionFailed)],
		WriteFailed:      totals.ByOutcome[string(types.OutcomeWriteFailed)],
	}

	return r.Render(resp)
}
