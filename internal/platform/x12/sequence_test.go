package x12

import (
	"sync"
	"testing"
)

func TestSequencerPadding(t *testing.T) {
	seq := NewSequencer()
	if got := seq.NextISA(); got != "000000001" {
		t.Errorf("NextISA = %q, want 000000001", got)
	}
	if got := seq.NextGS(); got != "000001" {
		t.Errorf("NextGS = %q, want 000001", got)
	}
	if got := seq.NextST(); got != "0001" {
		t.Errorf("NextST = %q, want 0001", got)
	}
}

func TestSequencerMonotonic(t *testing.T) {
	seq := NewSequencer()
	seq.NextISA()
	seq.NextISA()
	if got := seq.NextISA(); got != "000000003" {
		t.Errorf("third NextISA = %q, want 000000003", got)
	}
	st := seq.State()
	if st.ISA != 3 || st.GS != 0 || st.ST != 0 {
		t.Errorf("State = %+v, counters must advance independently", st)
	}
}

func TestSequencerWraparound(t *testing.T) {
	seq := NewSequencer()
	seq.Initialize(maxInterchangeControl, maxInterchangeControl, maxTransactionControl)
	if got := seq.NextISA(); got != "000000001" {
		t.Errorf("ISA wrap = %q, want 000000001", got)
	}
	if got := seq.NextGS(); got != "000001" {
		t.Errorf("GS wrap = %q, want 000001", got)
	}
	if got := seq.NextST(); got != "0001" {
		t.Errorf("ST wrap = %q, want 0001", got)
	}
}

func TestSequencerInitializeAndReset(t *testing.T) {
	seq := NewSequencer()
	seq.Initialize(100, 200, 300)
	if got := seq.NextISA(); got != "000000101" {
		t.Errorf("after Initialize NextISA = %q, want 000000101", got)
	}
	seq.Reset()
	st := seq.State()
	if st.ISA != 0 || st.GS != 0 || st.ST != 0 {
		t.Errorf("after Reset State = %+v, want zeros", st)
	}
}

func TestSequencerGSWidth(t *testing.T) {
	seq := NewSequencer()
	seq.SetGSControlWidth(9)
	if got := seq.NextGS(); got != "000000001" {
		t.Errorf("NextGS with width 9 = %q", got)
	}
	// Out-of-range widths are ignored.
	seq.SetGSControlWidth(0)
	if got := seq.NextGS(); got != "000000002" {
		t.Errorf("NextGS after invalid width = %q", got)
	}
}

func TestSequencerConcurrentUniqueness(t *testing.T) {
	seq := NewSequencer()
	const workers = 8
	const perWorker = 250

	results := make(chan string, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				results <- seq.NextISA()
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, workers*perWorker)
	for n := range results {
		if seen[n] {
			t.Fatalf("duplicate control number issued: %s", n)
		}
		seen[n] = true
	}
	if len(seen) != workers*perWorker {
		t.Errorf("issued %d unique numbers, want %d", len(seen), workers*perWorker)
	}
}
