// Package extension provides a per-document store of typed values keyed
// by typed keys.
//
// Independent processing stages attach data to a document without sharing
// a schema. Each stage declares its own key once, at package level:
//
//	var Metadata = extension.NewKey[map[string]any]("toml.metadata")
//
// The key's type parameter fixes the type of the value stored under it, so
// [Get] returns that exact type and never needs a type assertion at the
// call site. Keys compare by identity: two keys created with the same name
// are still distinct slots.
//
// Set overwrites silently. A Map is not safe for concurrent mutation; the
// owner of the document sequences the stages that write to it.
package extension

// Key identifies one slot in a [Map] and binds it to the value type V.
type Key[V any] struct {
	name string
}

// NewKey returns a new key. The name is used only for diagnostics.
func NewKey[V any](name string) *Key[V] {
	return &Key[V]{name: name}
}

// String returns the key's diagnostic name.
func (k *Key[V]) String() string {
	return k.name
}

// Map holds at most one value per key. The zero value is ready to use, and
// a nil *Map reads as empty.
type Map struct {
	values map[any]any
}

// Len returns the number of stored values.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.values)
}

// Set stores v under k, replacing any previous value.
func Set[V any](m *Map, k *Key[V], v V) {
	if m.values == nil {
		m.values = make(map[any]any)
	}
	m.values[k] = v
}

// Get returns the value stored under k and whether one was present.
func Get[V any](m *Map, k *Key[V]) (V, bool) {
	var zero V
	if m == nil {
		return zero, false
	}
	raw, ok := m.values[k]
	if !ok {
		return zero, false
	}
	// Set is the only writer and is typed by the same key. The comma-ok
	// form keeps a stored nil interface value from panicking.
	v, _ := raw.(V)
	return v, true
}

// Has reports whether a value is stored under k, including a nil value.
func Has[V any](m *Map, k *Key[V]) bool {
	if m == nil {
		return false
	}
	_, ok := m.values[k]
	return ok
}

// Delete removes the value stored under k, if any.
func Delete[V any](m *Map, k *Key[V]) {
	if m == nil {
		return
	}
	delete(m.values, k)
}
