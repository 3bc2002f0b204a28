package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pithecene-io/courier/types"
)

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T, want model", next)
	}
	return nm
}

func TestModel_FileLifecycle(t *testing.T) {
	m := newModel()
	desc := types.FileDescriptor{Path: "set-b/img.jpg", Size: 10000}

	m = update(t, m, fileStartedMsg{desc: desc})
	if m.current == nil || m.current.Path != desc.Path {
		t.Fatal("current file not set after fileStartedMsg")
	}

	m = update(t, m, progressMsg{percent: 40})
	if m.percent != 40 {
		t.Errorf("percent = %d, want 40", m.percent)
	}

	res := types.NewFileResult(desc, types.OutcomeSuccess)
	res.Checksum = "5d41402abc4b2a76b9719d911017c592"
	m = update(t, m, fileFinishedMsg{res: res})
	if m.current != nil {
		t.Error("current should be cleared after fileFinishedMsg")
	}
	if len(m.recent) != 1 {
		t.Fatalf("recent = %d entries, want 1", len(m.recent))
	}

	view := m.View()
	if !strings.Contains(view, "img.jpg") {
		t.Errorf("view missing file name:\n%s", view)
	}
}

func TestModel_BatchDoneQuits(t *testing.T) {
	m := newModel()
	next, cmd := m.Update(batchDoneMsg{sum: types.BatchSummary{Files: 3, Succeeded: 2, Failed: 1}})
	if cmd == nil {
		t.Fatal("batchDoneMsg should produce a quit command")
	}

	view := next.(model).View()
	if !strings.Contains(view, "2 delivered") {
		t.Errorf("view missing summary:\n%s", view)
	}
}

func TestModel_RecentResultsBounded(t *testing.T) {
	m := newModel()
	for i := 0; i < recentResults+5; i++ {
		res := types.NewFileResult(types.FileDescriptor{Path: "f", Size: 1}, types.OutcomeWriteFailed)
		m = update(t, m, fileFinishedMsg{res: res})
	}
	if len(m.recent) != recentResults {
		t.Errorf("recent = %d entries, want %d", len(m.recent), recentResults)
	}
}
