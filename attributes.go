package pagetags

import (
	"strings"

	"golang.org/x/text/cases"
)

// Attributes is the attribute set of a single tag occurrence. Names are compared
// case-insensitively; the casing and order of first insertion are kept for output.
//
// A nil *Attributes is valid and means the tag carries no attributes.
type Attributes struct {
	order  []string // folded names, insertion order
	values map[string]attribute
}

type attribute struct {
	name  string
	value string
	bare  bool // written without a value, e.g. <input disabled>
}

// NewAttributes returns an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{values: map[string]attribute{}}
}

// AttributesOf builds an attribute set from name/value pairs.
// A trailing name without a value is stored as a bare attribute.
func AttributesOf(pairs ...string) *Attributes {
	a := NewAttributes()
	for i := 0; i < len(pairs); i += 2 {
		if i+1 == len(pairs) {
			a.SetBare(pairs[i])
			break
		}
		a.Set(pairs[i], pairs[i+1])
	}
	return a
}

// foldName normalizes a name for case-insensitive comparison.
// Casers are stateful, so a fresh one is used per call.
func foldName(name string) string {
	return cases.Fold().String(name)
}

func (a *Attributes) put(name string, at attribute) {
	if a.values == nil {
		a.values = map[string]attribute{}
	}
	key := foldName(name)
	if prev, ok := a.values[key]; ok {
		at.name = prev.name
	} else {
		a.order = append(a.order, key)
	}
	a.values[key] = at
}

// Set stores value under name, replacing any attribute whose name differs only in case.
// The first spelling of the name is the one kept for output.
func (a *Attributes) Set(name, value string) {
	a.put(name, attribute{name: name, value: value})
}

// SetBare stores a value-less attribute.
func (a *Attributes) SetBare(name string) {
	a.put(name, attribute{name: name, bare: true})
}

// Get returns the value of name. ok is false when the attribute is absent or bare.
func (a *Attributes) Get(name string) (value string, ok bool) {
	if a == nil {
		return "", false
	}
	at, found := a.values[foldName(name)]
	if !found || at.bare {
		return "", false
	}
	return at.value, true
}

// Value returns the value of name or "" when it has none.
func (a *Attributes) Value(name string) string {
	v, _ := a.Get(name)
	return v
}

// Has reports whether name is present, with or without a value.
func (a *Attributes) Has(name string) bool {
	if a == nil {
		return false
	}
	_, ok := a.values[foldName(name)]
	return ok
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.order)
}

// Keys returns attribute names as first written, in insertion order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	keys := make([]string, 0, len(a.order))
	for _, k := range a.order {
		keys = append(keys, a.values[k].name)
	}
	return keys
}

// Each calls fn for every attribute in insertion order. hasValue is false for bare attributes.
func (a *Attributes) Each(fn func(name, value string, hasValue bool)) {
	if a == nil {
		return
	}
	for _, k := range a.order {
		at := a.values[k]
		fn(at.name, at.value, !at.bare)
	}
}

// Clone returns a deep copy. Cloning nil yields nil.
func (a *Attributes) Clone() *Attributes {
	if a == nil {
		return nil
	}
	c := &Attributes{
		order:  append([]string(nil), a.order...),
		values: make(map[string]attribute, len(a.values)),
	}
	for k, v := range a.values {
		c.values[k] = v
	}
	return c
}

// IsRunAtServer reports whether runat is present with a value equal to "server",
// ignoring case only. " server" or "server " do not qualify.
func (a *Attributes) IsRunAtServer() bool {
	v, ok := a.Get("runat")
	return ok && strings.EqualFold(v, "server")
}

// String renders "key=value " pairs for diagnostics.
func (a *Attributes) String() string {
	var sb strings.Builder
	a.Each(func(name, value string, _ bool) {
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(value)
		sb.WriteByte(' ')
	})
	return sb.String()
}
