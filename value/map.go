package value

// Map is a string-keyed mapping that remembers insertion order. Setting an
// existing key replaces its value in place.
type Map struct {
	keys   []string
	values []Value
	index  map[string]int
}

// NewMap returns an empty Map. The zero Map is also ready to use.
func NewMap() *Map {
	return &Map{index: make(map[string]int)}
}

// Object builds a Map value from alternating key/value pairs.
func Object(pairs ...any) Value {
	m := NewMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(Value))
	}
	return FromMap(m)
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func (m *Map) Set(key string, v Value) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.values[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, v)
}

func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	return m.values[i], true
}

func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Range calls fn for every entry in insertion order until fn returns false.
func (m *Map) Range(fn func(key string, v Value) bool) {
	if m == nil {
		return
	}
	for i, key := range m.keys {
		if !fn(key, m.values[i]) {
			return
		}
	}
}

func equalMap(a, b *Map) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a.Len() == 0 {
		return true
	}
	for i, key := range a.keys {
		if b.keys[i] != key {
			return false
		}
		if !Equal(a.values[i], b.values[i]) {
			return false
		}
	}
	return true
}
