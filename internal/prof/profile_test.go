package prof

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestTrackAndReset(t *testing.T) {
	var tr Tracker
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Track(time.Now(), "sign")
		}()
	}
	wg.Wait()
	if got := len(tr.SnapshotAndReset()); got != 10 {
		t.Errorf("recorded %d entries, want 10", got)
	}
	if got := tr.SnapshotAndReset(); len(got) != 0 {
		t.Errorf("snapshot after reset holds %d entries", len(got))
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize([]Entry{
		{"verify", 2 * time.Millisecond},
		{"sign", 3 * time.Millisecond},
		{"sign", 1 * time.Millisecond},
	})
	want := []Summary{
		{Label: "sign", Count: 2, Total: 4 * time.Millisecond, Min: time.Millisecond, Max: 3 * time.Millisecond},
		{Label: "verify", Count: 1, Total: 2 * time.Millisecond, Min: 2 * time.Millisecond, Max: 2 * time.Millisecond},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize (-want +got):\n%s", diff)
	}
	if m := got[0].Mean(); m != 2*time.Millisecond {
		t.Errorf("mean %v, want 2ms", m)
	}
	if m := (Summary{}).Mean(); m != 0 {
		t.Errorf("empty mean %v", m)
	}
}
