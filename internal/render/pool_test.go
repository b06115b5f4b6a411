package render

import (
	"sync/atomic"
	"testing"
)

func TestRunCompletesBatch(t *testing.T) {
	pool := NewWorkerPool(3, 2)
	defer pool.Shutdown()

	var done atomic.Int32
	jobs := make([]Job, 50)
	for i := range jobs {
		jobs[i] = func() { done.Add(1) }
	}
	pool.Run(jobs)
	if got := done.Load(); got != 50 {
		t.Errorf("ran %d jobs, want 50", got)
	}
}

func TestRunAfterShutdownRunsInline(t *testing.T) {
	pool := NewWorkerPool(2, 4)
	pool.Shutdown()
	pool.Shutdown() // second call is a no-op

	if pool.SubmitJob(func() {}) {
		t.Error("SubmitJob should fail after shutdown")
	}
	ran := 0
	pool.Run([]Job{func() { ran++ }, func() { ran++ }})
	if ran != 2 {
		t.Errorf("ran %d jobs inline, want 2", ran)
	}
}

func TestBands(t *testing.T) {
	got := bands(10, 4)
	want := [][2]int{{0, 4}, {4, 8}, {8, 10}}
	if len(got) != len(want) {
		t.Fatalf("bands = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bands[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if len(bands(0, 4)) != 0 {
		t.Error("empty range should give no bands")
	}
}
