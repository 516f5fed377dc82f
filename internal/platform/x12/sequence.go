package x12

import (
	"fmt"
	"sync"
)

// Counter bounds. Interchange and group control numbers wrap after nine
// digits, transaction set numbers after four.
const (
	maxInterchangeControl = 999999999
	maxTransactionControl = 9999
)

// SequencerState is a snapshot of the three raw counters, exposed so a
// caller can persist them across process restarts. The sequencer itself
// never touches storage.
type SequencerState struct {
	ISA int64 `json:"isa"`
	GS  int64 `json:"gs"`
	ST  int64 `json:"st"`
}

// Sequencer produces monotonically increasing control numbers in three
// independent namespaces. Duplicate interchange control numbers can make
// a clearinghouse silently discard a claim as a resubmission, so all
// increments happen under one mutex. Safe for concurrent use.
type Sequencer struct {
	mu      sync.Mutex
	isa     int64
	gs      int64
	st      int64
	gsWidth int
}

// NewSequencer returns a sequencer with all counters at zero and the
// GS06 zero-pad width at DefaultGSControlWidth. The first call to each
// Next method yields 1.
func NewSequencer() *Sequencer {
	return &Sequencer{gsWidth: DefaultGSControlWidth}
}

// SetGSControlWidth overrides the GS06 zero-pad width. The standard
// allows up to nine digits; downstream control-number reconciliation
// here expects six, so the width is configuration rather than a literal.
func (s *Sequencer) SetGSControlWidth(w int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w > 0 && w <= 9 {
		s.gsWidth = w
	}
}

// NextISA returns the next interchange control number, zero-padded to
// nine digits, wrapping back to 1 after 999999999.
func (s *Sequencer) NextISA() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isa++
	if s.isa > maxInterchangeControl {
		s.isa = 1
	}
	return fmt.Sprintf("%09d", s.isa)
}

// NextGS returns the next functional group control number, zero-padded
// to the configured width, wrapping back to 1 after 999999999.
func (s *Sequencer) NextGS() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gs++
	if s.gs > maxInterchangeControl {
		s.gs = 1
	}
	return fmt.Sprintf("%0*d", s.gsWidth, s.gs)
}

// NextST returns the next transaction set control number, zero-padded to
// four digits, wrapping back to 1 after 9999.
func (s *Sequencer) NextST() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st++
	if s.st > maxTransactionControl {
		s.st = 1
	}
	return fmt.Sprintf("%04d", s.st)
}

// State returns the raw counter values for external persistence.
func (s *Sequencer) State() SequencerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SequencerState{ISA: s.isa, GS: s.gs, ST: s.st}
}

// Initialize seeds all three counters, typically once at process start
// from persisted state so control numbers stay unique across restarts.
func (s *Sequencer) Initialize(isa, gs, st int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isa = isa
	s.gs = gs
	s.st = st
}

// Reset zeroes all three counters. Test isolation only; never called in
// a request-serving path.
func (s *Sequencer) Reset() {
	s.Initialize(0, 0, 0)
}
