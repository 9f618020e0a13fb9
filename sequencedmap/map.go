// Package sequencedmap provides a map that remembers the order in which keys were added.
//
// The document model uses it for every YAML mapping so that the source order is kept
// while callers that need a reproducible order iterate with AllSorted.
package sequencedmap

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"gopkg.in/yaml.v3"
)

// Element is a key-value pair stored in a Map.
type Element[K comparable, V any] struct {
	Key   K
	Value V
}

// NewElem creates a new element with the specified key and value.
func NewElem[K comparable, V any](key K, value V) *Element[K, V] {
	return &Element[K, V]{Key: key, Value: value}
}

// Map is a map implementation that maintains the order of keys as they are added.
type Map[K comparable, V any] struct {
	m map[K]*Element[K, V]
	l []*Element[K, V]
}

// New creates a new map holding elements in the order given.
// A later element with a duplicate key replaces the value of the earlier one in place.
func New[K comparable, V any](elements ...*Element[K, V]) *Map[K, V] {
	m := &Map[K, V]{
		m: make(map[K]*Element[K, V], len(elements)),
		l: make([]*Element[K, V], 0, len(elements)),
	}
	for _, e := range elements {
		m.Set(e.Key, e.Value)
	}
	return m
}

func (m *Map[K, V]) init() {
	if m.m == nil {
		m.m = make(map[K]*Element[K, V])
	}
}

// Len returns the number of elements in the map. nil safe.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.l)
}

// Set sets the value for key. A new key is appended, an existing key keeps its position.
func (m *Map[K, V]) Set(key K, value V) {
	m.init()

	if e, ok := m.m[key]; ok {
		e.Value = value
		return
	}

	e := NewElem(key, value)
	m.m[key] = e
	m.l = append(m.l, e)
}

// Get returns the value for key and whether it was present. nil safe.
func (m *Map[K, V]) Get(key K) (V, bool) {
	var zero V
	if m == nil {
		return zero, false
	}

	e, ok := m.m[key]
	if !ok {
		return zero, false
	}
	return e.Value, true
}

// GetOrZero returns the value for key or the zero value if it is absent. nil safe.
func (m *Map[K, V]) GetOrZero(key K) V {
	v, _ := m.Get(key)
	return v
}

// Has reports whether key is present. nil safe.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// All iterates the elements in insertion order. nil safe.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for _, e := range m.l {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Keys iterates the keys in insertion order. nil safe.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// UnmarshalYAML decodes a YAML mapping, keeping the order of its keys.
// A repeated key is rejected.
func (m *Map[K, V]) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.AliasNode && value.Alias != nil {
		value = value.Alias
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping, got %s", value.Line, kindName(value.Kind))
	}

	m.m = make(map[K]*Element[K, V], len(value.Content)/2)
	m.l = make([]*Element[K, V], 0, len(value.Content)/2)

	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valueNode := value.Content[i], value.Content[i+1]

		var key K
		if err := keyNode.Decode(&key); err != nil {
			return fmt.Errorf("line %d: decoding key: %w", keyNode.Line, err)
		}
		if _, exists := m.m[key]; exists {
			return fmt.Errorf("line %d: mapping key %q already defined", keyNode.Line, keyNode.Value)
		}

		var v V
		if err := valueNode.Decode(&v); err != nil {
			return fmt.Errorf("line %d: decoding value of %q: %w", valueNode.Line, keyNode.Value, err)
		}
		m.Set(key, v)
	}

	return nil
}

// AllSorted iterates the elements of m in ascending key order. nil safe.
func AllSorted[K cmp.Ordered, V any](m *Map[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for _, k := range slices.Sorted(m.Keys()) {
			if !yield(k, m.m[k].Value) {
				return
			}
		}
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "nothing"
	}
}
