package models

import (
	"encoding/json"
	"fmt"
)

// Totals is an insertion-ordered mapping from key to accumulated value.
// Key order is first-seen order and is used only as the tie-break when
// results are sorted for display.
type Totals[K comparable] struct {
	keys   []K
	values map[K]float64
	labels map[K]string
}

// NewTotals returns an empty Totals.
func NewTotals[K comparable]() *Totals[K] {
	return &Totals[K]{values: make(map[K]float64), labels: make(map[K]string)}
}

// Add accumulates v under k.
func (t *Totals[K]) Add(k K, v float64) {
	if _, ok := t.values[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.values[k] += v
}

// AddLabeled accumulates v under k and records label the first time k is seen.
func (t *Totals[K]) AddLabeled(k K, label string, v float64) {
	if _, ok := t.labels[k]; !ok {
		t.labels[k] = label
	}
	t.Add(k, v)
}

// Get returns the accumulated value for k, or 0.
func (t *Totals[K]) Get(k K) float64 { return t.values[k] }

// Has reports whether k has been seen.
func (t *Totals[K]) Has(k K) bool {
	_, ok := t.values[k]
	return ok
}

// Label returns the recorded label for k, or its default string form.
func (t *Totals[K]) Label(k K) string {
	if l, ok := t.labels[k]; ok {
		return l
	}
	if s, ok := any(k).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(k)
}

// Keys returns keys in first-seen order.
func (t *Totals[K]) Keys() []K {
	out := make([]K, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len returns the number of keys.
func (t *Totals[K]) Len() int { return len(t.keys) }

// Sum returns the sum of all values.
func (t *Totals[K]) Sum() float64 {
	var s float64
	for _, k := range t.keys {
		s += t.values[k]
	}
	return s
}

// TotalEntry is the serialized form of one Totals key.
type TotalEntry[K comparable] struct {
	Key   K       `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Entries returns the totals in first-seen order.
func (t *Totals[K]) Entries() []TotalEntry[K] {
	out := make([]TotalEntry[K], 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, TotalEntry[K]{Key: k, Label: t.Label(k), Value: t.values[k]})
	}
	return out
}

// MarshalJSON writes the totals as an ordered array so key order survives.
func (t *Totals[K]) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Entries())
}
