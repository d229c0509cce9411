package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerSummary(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("process")
	time.Sleep(time.Millisecond)
	timer.End(idx, "3 files")

	out := timer.Summary()
	if !strings.Contains(out, "process") || !strings.Contains(out, "3 files") {
		t.Fatalf("summary missing phase info: %q", out)
	}
	if !strings.Contains(out, "total") {
		t.Fatalf("summary missing total: %q", out)
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	timer := NewTimer()
	timer.End(3, "ignored") // must not panic
	if got := timer.Summary(); !strings.Contains(got, "total") {
		t.Fatalf("unexpected summary: %q", got)
	}
}
