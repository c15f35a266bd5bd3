package message

import (
	"errors"
	"slices"
)

// ErrInvalidValue is returned when writing a zero Value.
var ErrInvalidValue = errors.New("invalid property value")

// PropertyBag reads and writes named transport properties of one message.
// Implementations may reject any read or write.
type PropertyBag interface {
	// Read returns the value of name and whether it is set.
	Read(name string) (Value, bool, error)
	// Write sets name to v.
	Write(name string, v Value) error
}

// Remover is implemented by bags that can unset a property.
type Remover interface {
	Remove(name string) error
}

// Property is one entry of a Context.
type Property struct {
	Name  string
	Value Value
}

// Context is an insertion-ordered PropertyBag with a payload.
// The zero value is ready to use. Context is not safe for concurrent use; it is
// owned by the pipeline dispatching the message.
type Context struct {
	names   []string
	values  map[string]Value
	Payload []byte
}

var (
	_ PropertyBag = (*Context)(nil)
	_ Remover     = (*Context)(nil)
)

// NewContext creates a Context holding props in order.
func NewContext(props ...Property) *Context {
	c := &Context{}
	for _, p := range props {
		c.Set(p.Name, p.Value)
	}
	return c
}

// Read implements PropertyBag.
func (c *Context) Read(name string) (Value, bool, error) {
	v, ok := c.values[name]
	return v, ok, nil
}

// Write implements PropertyBag.
func (c *Context) Write(name string, v Value) error {
	if !v.IsValid() {
		return ErrInvalidValue
	}
	c.Set(name, v)
	return nil
}

// Set writes name without validation. A new name is appended; an existing
// name keeps its position.
func (c *Context) Set(name string, v Value) {
	if c.values == nil {
		c.values = make(map[string]Value)
	}
	if _, ok := c.values[name]; !ok {
		c.names = append(c.names, name)
	}
	c.values[name] = v
}

// Remove unsets name. Removing an unset name is a no-op.
func (c *Context) Remove(name string) error {
	if _, ok := c.values[name]; !ok {
		return nil
	}
	delete(c.values, name)
	c.names = slices.DeleteFunc(c.names, func(n string) bool { return n == name })
	return nil
}

// Get returns the value of name, or the zero Value.
func (c *Context) Get(name string) Value {
	return c.values[name]
}

// Has reports whether name is set.
func (c *Context) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Len returns the number of properties.
func (c *Context) Len() int {
	return len(c.names)
}

// Properties returns the properties in insertion order.
func (c *Context) Properties() []Property {
	out := make([]Property, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, Property{Name: n, Value: c.values[n]})
	}
	return out
}

// Clone returns a deep copy of c.
func (c *Context) Clone() *Context {
	out := NewContext(c.Properties()...)
	if c.Payload != nil {
		out.Payload = slices.Clone(c.Payload)
	}
	return out
}

// Equal reports whether c and o hold the same properties in the same order
// and the same payload.
func (c *Context) Equal(o *Context) bool {
	if !slices.Equal(c.names, o.names) {
		return false
	}
	for _, n := range c.names {
		if !c.values[n].Equal(o.values[n]) {
			return false
		}
	}
	return slices.Equal(c.Payload, o.Payload)
}
