package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulatesCalls(t *testing.T) {
	ResetFrame()
	for range 3 {
		stop := Track("test.stage")
		time.Sleep(time.Millisecond)
		stop()
	}
	ss := Snapshot()
	if len(ss) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(ss))
	}
	if ss[0].Calls != 3 {
		t.Errorf("expected 3 calls, got %d", ss[0].Calls)
	}
	if ss[0].Total < 3*time.Millisecond {
		t.Errorf("expected at least 3ms total, got %v", ss[0].Total)
	}
}

func TestTopNOrdersSlowestFirst(t *testing.T) {
	ResetFrame()
	stop := Track("fast")
	stop()
	stop = Track("slow")
	time.Sleep(2 * time.Millisecond)
	stop()

	out := TopN(5)
	if !strings.HasPrefix(out, "slow:") {
		t.Errorf("expected slow stage first, got %q", out)
	}
	if TopN(1) != out[:strings.Index(out, ",")] {
		t.Errorf("TopN(1) should be the first entry of %q, got %q", out, TopN(1))
	}
}

func TestResetFrame(t *testing.T) {
	Track("x")()
	ResetFrame()
	if n := len(Snapshot()); n != 0 {
		t.Errorf("expected empty snapshot after reset, got %d stages", n)
	}
}
