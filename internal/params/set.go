// Package params implements named collections of parameter tensors and the
// element-wise arithmetic the weight-perturbation estimator is built from.
//
// A Set maps string keys to tensors and remembers insertion order, so every
// iteration, Flatten and printed form is deterministic. Sets are immutable:
// With, Add, Scale and friends always return a new Set and never write into
// the tensors they were given. This makes a Set safe to share between
// goroutines once built.
package params

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/born-ml/wpgrad/internal/tensor"
)

// Set is an ordered, immutable mapping from parameter name to tensor.
// The zero value and nil are both valid empty sets.
type Set[T tensor.DType, B tensor.Backend] struct {
	keys    []string
	entries map[string]*tensor.Tensor[T, B]
}

// New creates a Set from entries,
// preserving their order. A repeated key keeps its first position and last value.
//
// Example:
//
//	p := params.New(
//	    params.Entry("weight", w),
//	    params.Entry("bias", b),
//	)
func New[T tensor.DType, B tensor.Backend](entries ...KV[T, B]) *Set[T, B] {
	s := &Set[T, B]{
		keys:    make([]string, 0, len(entries)),
		entries: make(map[string]*tensor.Tensor[T, B], len(entries)),
	}
	for _, e := range entries {
		s.put(e.Key, e.Value)
	}
	return s
}

// KV is one key/tensor pair passed to New.
type KV[T tensor.DType, B tensor.Backend] struct {
	Key   string
	Value *tensor.Tensor[T, B]
}

// Entry builds a KV.
func Entry[T tensor.DType, B tensor.Backend](key string, value *tensor.Tensor[T, B]) KV[T, B] {
	return KV[T, B]{Key: key, Value: value}
}

// FromMap creates a Set from a Go map. Keys are sorted so the result does
// not depend on map iteration order.
func FromMap[T tensor.DType, B tensor.Backend](m map[string]*tensor.Tensor[T, B]) *Set[T, B] {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	s := &Set[T, B]{
		keys:    make([]string, 0, len(m)),
		entries: make(map[string]*tensor.Tensor[T, B], len(m)),
	}
	for _, k := range keys {
		s.put(k, m[k])
	}
	return s
}

// put inserts or replaces key. Only used while a Set is being built.
func (s *Set[T, B]) put(key string, value *tensor.Tensor[T, B]) {
	if value == nil {
		panic(fmt.Sprintf("params: nil tensor for key %q", key))
	}
	if _, ok := s.entries[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.entries[key] = value
}

// With returns a copy of s where key maps to value. A new key is appended
// at the end; an existing key keeps its position.
func (s *Set[T, B]) With(key string, value *tensor.Tensor[T, B]) *Set[T, B] {
	out := &Set[T, B]{
		keys:    slices.Clone(s.Keys()),
		entries: make(map[string]*tensor.Tensor[T, B], s.Len()+1),
	}
	for _, k := range out.keys {
		out.entries[k] = s.entries[k]
	}
	out.put(key, value)
	return out
}

// Len returns the number of entries.
func (s *Set[T, B]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the keys in iteration order.
// The returned slice must not be modified.
func (s *Set[T, B]) Keys() []string {
	if s == nil {
		return nil
	}
	return s.keys
}

// Get returns the tensor stored under key.
func (s *Set[T, B]) Get(key string) (*tensor.Tensor[T, B], bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.entries[key]
	return t, ok
}

// Has reports whether key is present.
func (s *Set[T, B]) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// All iterates over entries in order.
func (s *Set[T, B]) All() iter.Seq2[string, *tensor.Tensor[T, B]] {
	return func(yield func(string, *tensor.Tensor[T, B]) bool) {
		for _, k := range s.Keys() {
			if !yield(k, s.entries[k]) {
				return
			}
		}
	}
}

// Shapes returns the shape of every entry, keyed by name.
func (s *Set[T, B]) Shapes() map[string]tensor.Shape {
	shapes := make(map[string]tensor.Shape, s.Len())
	for k, t := range s.All() {
		shapes[k] = t.Shape().Clone()
	}
	return shapes
}

// NumElements returns the total number of scalar parameters.
func (s *Set[T, B]) NumElements() int {
	n := 0
	for _, t := range s.All() {
		n += t.NumElements()
	}
	return n
}

// Clone returns a deep copy of s.
func (s *Set[T, B]) Clone() *Set[T, B] {
	return s.Map(func(_ string, t *tensor.Tensor[T, B]) *tensor.Tensor[T, B] {
		return t.Clone()
	})
}

// Map returns a new Set with f applied to every entry, in order.
func (s *Set[T, B]) Map(f func(key string, t *tensor.Tensor[T, B]) *tensor.Tensor[T, B]) *Set[T, B] {
	out := &Set[T, B]{
		keys:    make([]string, 0, s.Len()),
		entries: make(map[string]*tensor.Tensor[T, B], s.Len()),
	}
	for k, t := range s.All() {
		out.put(k, f(k, t))
	}
	return out
}

// String returns a short description such as {weight:[2 3] bias:[3]}.
func (s *Set[T, B]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range s.Keys() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s:%v", k, []int(s.entries[k].Shape()))
	}
	sb.WriteByte('}')
	return sb.String()
}
