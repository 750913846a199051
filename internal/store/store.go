package store

import (
	"sync"
	"sync/atomic"

	"github.com/yourusername/shopadmin/pkg/catalog"
)

// DiscardFunc is told about fetch results dropped because a newer fetch was
// issued after them.
type DiscardFunc func(a Action, latest uint64)

// Option configures a Store.
type Option func(*Store)

// WithDiscardHook registers fn to observe stale fetch results.
func WithDiscardHook(fn DiscardFunc) Option {
	return func(s *Store) {
		s.onDiscard = fn
	}
}

// WithInitialState replaces the initial state.
func WithInitialState(state State) Option {
	return func(s *Store) {
		s.state = state.Snapshot()
	}
}

// Store owns a State and serialises every transition through Dispatch.
// It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	state     State
	version   uint64
	onDiscard DiscardFunc

	notifyMu  sync.Mutex
	delivered uint64

	subMu  sync.Mutex
	subs   map[uint64]func(State)
	nextID uint64

	seq atomic.Uint64
}

// New creates a store holding InitialState.
func New(opts ...Option) *Store {
	s := &Store{
		state: InitialState(),
		subs:  make(map[uint64]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seq.Store(s.state.LatestSeq)
	return s
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Snapshot()
}

// NextSeq allocates the sequence number for a new fetch. Callers that dispatch
// FetchStarted themselves should prefer BeginFetch.
func (s *Store) NextSeq() uint64 {
	return s.seq.Add(1)
}

// BeginFetch allocates a sequence number and applies the matching
// FetchStarted in one step, so no other fetch can start in between.
func (s *Store) BeginFetch(page int, filter catalog.Filter) uint64 {
	s.mu.Lock()
	seq := s.seq.Add(1)
	s.state = Reduce(s.state, FetchStarted{Seq: seq, Page: page, Filter: filter})
	s.commit()
	return seq
}

// Dispatch applies a to the state and notifies subscribers. It reports
// whether the state changed; stale fetch actions leave it untouched.
func (s *Store) Dispatch(a Action) bool {
	s.mu.Lock()
	if latest := s.state.LatestSeq; stale(a, latest) {
		s.mu.Unlock()
		if _, ok := seqOf(a); ok && s.onDiscard != nil {
			s.onDiscard(a, latest)
		}
		return false
	}
	s.state = Reduce(s.state, a)
	s.commit()
	return true
}

// commit releases s.mu and hands the new state to subscribers. A snapshot
// that lost the race to a newer one is dropped, so subscribers never see the
// state go backwards.
func (s *Store) commit() {
	s.version++
	version := s.version
	snapshot := s.state.Snapshot()
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if version <= s.delivered {
		return
	}
	s.delivered = version
	s.notify(snapshot)
}

// Subscribe registers fn to run after state changes. Snapshots arrive in
// transition order; when changes race, only the newest may be delivered.
// fn may read State but must not call Dispatch or BeginFetch synchronously.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(state State) {
	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}
