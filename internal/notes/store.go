package notes

import "sync/atomic"

// Store holds the current Index generation. Rebuilds produce a complete new
// Index and publish it with Swap, so readers never see a partial collection.
type Store struct {
	current    atomic.Pointer[Index]
	generation atomic.Uint64
}

// NewStore returns a Store publishing ix as generation 1.
func NewStore(ix *Index) *Store {
	s := &Store{}
	s.Swap(ix)
	return s
}

// Current returns the latest published Index.
func (s *Store) Current() *Index { return s.current.Load() }

// Generation returns the number of published generations.
func (s *Store) Generation() uint64 { return s.generation.Load() }

// Swap publishes ix and returns its generation number.
func (s *Store) Swap(ix *Index) uint64 {
	s.current.Store(ix)
	return s.generation.Add(1)
}
