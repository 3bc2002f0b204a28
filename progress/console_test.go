package progress

import (
	"strings"
	"testing"

	"github.com/pithecene-io/courier/types"
)

func TestConsole_ProgressLineRewrites(t *testing.T) {
	var buf strings.Builder
	c := NewConsole(&buf, true)

	c.FileStarted(types.FileDescriptor{Path: "/srv/outbox/a.bin", Size: 10})
	c.Progress(40)
	c.Progress(81)
	c.Progress(100)

	got := buf.String()
	if !strings.Contains(got, "/srv/outbox/a.bin (10 bytes)") {
		t.Errorf("missing file header: %q", got)
	}
	// Each update rewrites the same line via carriage return.
	if strings.Count(got, "\rProgress:") != 3 {
		t.Errorf("want 3 inline progress updates, got: %q", got)
	}
	if !strings.Contains(got, "\rProgress: 100%") {
		t.Errorf("missing final percentage: %q", got)
	}
}

func TestConsole_FileFinishedTerminatesInlineLine(t *testing.T) {
	var buf strings.Builder
	c := NewConsole(&buf, true)

	c.Progress(100)
	res := types.NewFileResult(types.FileDescriptor{Path: "/srv/outbox/a.bin", Size: 10}, types.OutcomeSuccess)
	res.Checksum = "5d41402abc4b2a76b9719d911017c592"
	c.FileFinished(res)

	got := buf.String()
	if !strings.Contains(got, "100%\n") {
		t.Errorf("inline line should end with a newline before the result: %q", got)
	}
	if !strings.Contains(got, "sent /srv/outbox/a.bin (10 bytes), md5: 5d41402abc4b2a76b9719d911017c592") {
		t.Errorf("missing success line: %q", got)
	}
}

func TestConsole_FailureLine(t *testing.T) {
	var buf strings.Builder
	c := NewConsole(&buf, true)

	res := types.NewFileResult(types.FileDescriptor{Path: "/srv/outbox/b.bin", Size: 10}, types.OutcomeConnectionFailed)
	res.Attempts = 3
	res.Error = "connection refused"
	c.FileFinished(res)

	got := buf.String()
	if !strings.Contains(got, "failed /srv/outbox/b.bin after 3 attempt(s): connection refused") {
		t.Errorf("missing failure line: %q", got)
	}
}

func TestConsole_BatchDone(t *testing.T) {
	var buf strings.Builder
	c := NewConsole(&buf, true)

	c.BatchDone(types.BatchSummary{Files: 3, Succeeded: 2, Failed: 1, BytesSent: 20})

	got := buf.String()
	if !strings.Contains(got, "all files processed: 2 delivered, 1 failed, 20 bytes") {
		t.Errorf("missing summary line: %q", got)
	}
}
