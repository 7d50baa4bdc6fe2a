package aggregate

// orderedMap is a string-keyed map that remembers first-insertion order.
// Category roll-ups are emitted in the order their keys were first seen, so a
// re-run over the same records produces an identical document.
type orderedMap[V any] struct {
	keys  []string
	items map[string]V
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{items: make(map[string]V)}
}

func (m *orderedMap[V]) get(key string) (V, bool) {
	v, ok := m.items[key]
	return v, ok
}

// put sets the value for key. A key keeps its original position when
// overwritten.
func (m *orderedMap[V]) put(key string, v V) {
	if _, ok := m.items[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.items[key] = v
}

// getOrCreate returns the existing value or inserts the one produced by
// create.
func (m *orderedMap[V]) getOrCreate(key string, create func() V) V {
	if v, ok := m.items[key]; ok {
		return v
	}
	v := create()
	m.put(key, v)
	return v
}

// values returns the values in first-insertion order.
func (m *orderedMap[V]) values() []V {
	out := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.items[k])
	}
	return out
}

func (m *orderedMap[V]) len() int {
	return len(m.keys)
}
