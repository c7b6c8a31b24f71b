package web

import (
	"sync"

	"github.com/tigerabrodi/rudo/app"
)

// State holds the preview server's latest compile output and fans
// change notifications out to live-reload subscribers. On a failed
// recompile the last good document is kept so the preview never goes
// blank mid-edit.
type State struct {
	mu     sync.RWMutex
	svg    []byte
	result *app.Result
	err    error
	seq    uint64

	subMu  sync.Mutex
	subs   map[chan uint64]struct{}
	closed bool
}

// Snapshot is a point-in-time view of the state.
type Snapshot struct {
	SVG    []byte
	Result *app.Result
	Err    error
	Seq    uint64
}

// NewState creates an empty state.
func NewState() *State {
	return &State{subs: make(map[chan uint64]struct{})}
}

// Update stores a successful compile and notifies subscribers.
func (s *State) Update(res *app.Result) {
	s.mu.Lock()
	s.svg = res.SVG
	s.result = res
	s.err = nil
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.notify(seq)
}

// Fail stores a failed compile and notifies subscribers. The last good
// document stays served.
func (s *State) Fail(err error) {
	s.mu.Lock()
	s.err = err
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.notify(seq)
}

// Snapshot returns the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{SVG: s.svg, Result: s.result, Err: s.err, Seq: s.seq}
}

// Subscribe registers a channel that receives the sequence number of
// every subsequent change. A slow receiver drops intermediate
// notifications, never blocks publishers.
func (s *State) Subscribe() chan uint64 {
	ch := make(chan uint64, 1)

	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (s *State) Unsubscribe(ch chan uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
}

// Close closes every subscriber channel so their readers unblock.
// Subsequent Subscribe calls return an already-closed channel.
func (s *State) Close() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}

func (s *State) notify(seq uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- seq:
		default:
		}
	}
}
