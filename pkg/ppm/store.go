package ppm

import (
	"errors"
	"fmt"
	"iter"
	"math"
)

// ErrTotalMismatch is returned by Store.Verify when a context's total no
// longer equals the sum of its continuation counts.
var ErrTotalMismatch = errors.New("ppm: context total does not match continuation counts")

// Continuation is one observed (next character, count) pair of a context.
type Continuation struct {
	Char  byte
	Count uint32
}

// contextEntry groups every continuation of a single context string, so
// sampling walks only the characters seen after that context.
type contextEntry struct {
	total uint32
	next  []Continuation // insertion order, stable for the lifetime of the entry
}

// Store is a sparse table of character occurrence counts keyed by context
// string, for orders 0 through maxOrder. Only contexts that have actually been
// observed are materialized, so memory follows corpus diversity rather than
// alphabet_size^order.
//
// A Store is not safe for concurrent use.
type Store struct {
	orders []map[string]*contextEntry
}

// NewStore creates an empty store for contexts of length 0..maxOrder.
func NewStore(maxOrder int) *Store {
	s := &Store{orders: make([]map[string]*contextEntry, maxOrder+1)}
	for i := range s.orders {
		s.orders[i] = make(map[string]*contextEntry)
	}
	return s
}

// MaxOrder returns the longest context length the store accepts.
func (s *Store) MaxOrder() int {
	return len(s.orders) - 1
}

// Record counts one occurrence of next following ctx. Both the continuation
// count and the context total are incremented in the same step. ctx must be
// exactly order characters long. A context whose total has reached
// math.MaxUint32 stops counting.
func (s *Store) Record(order int, ctx string, next byte) {
	if order < 0 || order >= len(s.orders) || len(ctx) != order {
		panic(fmt.Sprintf("ppm: record of %q at order %d (max %d)", ctx, order, s.MaxOrder()))
	}
	entry, ok := s.orders[order][ctx]
	if !ok {
		entry = &contextEntry{}
		s.orders[order][ctx] = entry
	}
	if entry.total == math.MaxUint32 {
		return
	}
	entry.total++
	for i := range entry.next {
		if entry.next[i].Char == next {
			entry.next[i].Count++
			return
		}
	}
	entry.next = append(entry.next, Continuation{Char: next, Count: 1})
}

func (s *Store) lookup(ctx string) *contextEntry {
	if len(ctx) >= len(s.orders) {
		return nil
	}
	return s.orders[len(ctx)][ctx]
}

// TotalFor returns the number of observations made after ctx. The boolean is
// false if ctx has never been seen.
func (s *Store) TotalFor(ctx string) (uint32, bool) {
	entry := s.lookup(ctx)
	if entry == nil {
		return 0, false
	}
	return entry.total, true
}

// CountsFor yields every character observed after ctx together with its count.
// Enumeration follows first-observation order and is stable between calls as
// long as the store is not modified.
func (s *Store) CountsFor(ctx string) iter.Seq2[byte, uint32] {
	return func(yield func(byte, uint32) bool) {
		entry := s.lookup(ctx)
		if entry == nil {
			return
		}
		for _, c := range entry.next {
			if !yield(c.Char, c.Count) {
				return
			}
		}
	}
}

// Continuations returns a copy of the continuations of ctx, or nil if unseen.
func (s *Store) Continuations(ctx string) []Continuation {
	entry := s.lookup(ctx)
	if entry == nil {
		return nil
	}
	out := make([]Continuation, len(entry.next))
	copy(out, entry.next)
	return out
}

// Contexts returns the number of distinct contexts observed at order.
func (s *Store) Contexts(order int) int {
	if order < 0 || order >= len(s.orders) {
		return 0
	}
	return len(s.orders[order])
}

// Verify checks that every context total equals the sum of its counts.
func (s *Store) Verify() error {
	for _, contexts := range s.orders {
		for ctx, entry := range contexts {
			var sum uint32
			for _, c := range entry.next {
				sum += c.Count
			}
			if sum != entry.total {
				return fmt.Errorf("%w: context %q has total %d, counts sum to %d", ErrTotalMismatch, ctx, entry.total, sum)
			}
		}
	}
	return nil
}

// Clear releases every entry. The store stays usable afterwards.
func (s *Store) Clear() {
	for i := range s.orders {
		clear(s.orders[i])
	}
}
