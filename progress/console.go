package progress

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/pithecene-io/courier/types"
)

// Console styles. Palette matches the CLI renderer.
var (
	consoleSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	consoleErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	consoleMutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// Console is a Reporter that renders a carriage-return percentage line per
// file and one styled result line when the file finishes.
type Console struct {
	out     io.Writer
	noColor bool
	// inline is true while a progress line is pending a terminating newline.
	inline bool
}

// NewConsole creates a console reporter writing to out.
func NewConsole(out io.Writer, noColor bool) *Console {
	return &Console{out: out, noColor: noColor}
}

// FileStarted implements Reporter.
func (c *Console) FileStarted(desc types.FileDescriptor) {
	fmt.Fprintf(c.out, "%s (%d bytes)\n", desc.Path, desc.Size)
}

// Progress implements Reporter.
func (c *Console) Progress(percent int) {
	fmt.Fprintf(c.out, "\rProgress: %d%%", percent)
	c.inline = true
}

// FileFinished implements Reporter.
func (c *Console) FileFinished(res types.FileResult) {
	if c.inline {
		fmt.Fprintln(c.out)
		c.inline = false
	}
	switch res.Outcome {
	case types.OutcomeSuccess:
		line := fmt.Sprintf("sent %s (%d bytes), md5: %s",
			res.Descriptor.Path, res.Descriptor.Size, res.Checksum)
		fmt.Fprintln(c.out, c.style(consoleSuccessStyle, line))
	default:
		line := fmt.Sprintf("failed %s after %d attempt(s): %s",
			res.Descriptor.Path, res.Attempts, res.Error)
		fmt.Fprintln(c.out, c.style(consoleErrorStyle, line))
	}
}

// BatchDone implements Reporter.
func (c *Console) BatchDone(sum types.BatchSummary) {
	line := fmt.Sprintf("all files processed: %d delivered, %d failed, %d bytes",
		sum.Succeeded, sum.Failed, sum.BytesSent)
	fmt.Fprintln(c.out, c.style(consoleMutedStyle, line))
}

func (c *Console) style(s lipgloss.Style, line string) string {
	if c.noColor {
		return line
	}
	return s.Render(line)
}

// Verify Console implements Reporter.
var _ Reporter = (*Console)(nil)
