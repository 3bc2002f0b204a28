package tui

import (
	"fmt"
	"strings"

	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pithecene-io/courier/progress"
	"github.com/pithecene-io/courier/types"
)

// recentResults bounds the finished-file lines kept on screen.
const recentResults = 8

// Messages published by the reporter into the Bubble Tea program.
type (
	fileStartedMsg  struct{ desc types.FileDescriptor }
	progressMsg     struct{ percent int }
	fileFinishedMsg struct{ res types.FileResult }
	batchDoneMsg    struct{ sum types.BatchSummary }
)

// model is the live transfer view state.
type model struct {
	bar     progressbar.Model
	current *types.FileDescriptor
	percent int
	recent  []types.FileResult
	summary *types.BatchSummary
	width   int
}

func newModel() model {
	return model{
		bar:   progressbar.New(progressbar.WithDefaultGradient()),
		width: 80,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 8
		if m.bar.Width > 60 {
			m.bar.Width = 60
		}

	case fileStartedMsg:
		desc := msg.desc
		m.current = &desc
		m.percent = 0

	case progressMsg:
		m.percent = msg.percent

	case fileFinishedMsg:
		m.current = nil
		m.recent = append(m.recent, msg.res)
		if len(m.recent) > recentResults {
			m.recent = m.recent[len(m.recent)-recentResults:]
		}

	case batchDoneMsg:
		sum := msg.sum
		m.summary = &sum
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("courier send"))
	b.WriteString("\n")

	for _, res := range m.recent {
		b.WriteString(resultLine(res))
		b.WriteString("\n")
	}

	if m.current != nil {
		b.WriteString(fileStyle.Render(fmt.Sprintf("%s (%d bytes)", m.current.Path, m.current.Size)))
		b.WriteString("\n")
		b.WriteString(m.bar.ViewAs(float64(m.percent) / 100.0))
		b.WriteString("\n")
	}

	if m.summary != nil {
		b.WriteString(summaryStyle.Render(fmt.Sprintf(
			"%d delivered · %d failed · %d bytes",
			m.summary.Succeeded, m.summary.Failed, m.summary.BytesSent)))
		b.WriteString("\n")
	} else {
		b.WriteString(helpStyle.Render("q/ctrl+c to abort"))
		b.WriteString("\n")
	}

	return b.String()
}

func resultLine(res types.FileResult) string {
	if res.Outcome == types.OutcomeSuccess {
		return successStyle.Render(fmt.Sprintf("✓ %s (md5 %s)", res.Descriptor.Path, res.Checksum))
	}
	return errorStyle.Render(fmt.Sprintf("✗ %s: %s", res.Descriptor.Path, res.Error))
}

// TransferView couples a Bubble Tea program with a progress.Reporter.
// The reporter side may be called from the batch goroutine; Program.Send
// is safe for that.
type TransferView struct {
	program *tea.Program
}

// NewTransferView creates the live view. Call Wait from the goroutine that
// owns the terminal; pass Reporter (via the view itself) to the batch driver.
func NewTransferView(opts ...tea.ProgramOption) *TransferView {
	return &TransferView{program: tea.NewProgram(newModel(), opts...)}
}

// Wait runs the program until the batch finishes or the user quits.
func (v *TransferView) Wait() error {
	_, err := v.program.Run()
	return err
}

// Quit asks the program to exit, used when the batch aborts before
// BatchDone is ever reported.
func (v *TransferView) Quit() {
	v.program.Quit()
}

// FileStarted implements progress.Reporter.
func (v *TransferView) FileStarted(desc types.FileDescriptor) {
	v.program.Send(fileStartedMsg{desc: desc})
}

// Progress implements progress.Reporter.
func (v *TransferView) Progress(percent int) {
	v.program.Send(progressMsg{percent: percent})
}

// FileFinished implements progress.Reporter.
func (v *TransferView) FileFinished(res types.FileResult) {
	v.program.Send(fileFinishedMsg{res: res})
}

// BatchDone implements progress.Reporter.
func (v *TransferView) BatchDone(sum types.BatchSummary) {
	v.program.Send(batchDoneMsg{sum: sum})
}

// Verify TransferView implements progress.Reporter.
var _ progress.Reporter = (*TransferView)(nil)
