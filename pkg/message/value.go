package message

import (
	"fmt"
	"strconv"
)

// Kind is the type of a property value.
type Kind uint8

// Property value kinds.
const (
	KindInvalid Kind = iota
	KindString
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Value is a string or boolean property value.
type Value struct {
	kind Kind
	str  string
	b    bool
}

// String creates a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool creates a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a value.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Str returns the string content, or "" for non-string values.
func (v Value) Str() string { return v.str }

// Bool returns the boolean content, or false for non-bool values.
func (v Value) Bool() bool { return v.b }

// Equal reports whether v and o have the same kind and content.
func (v Value) Equal(o Value) bool {
	return v == o
}

// String formats the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "<invalid>"
	}
}

// GoString formats the value with its kind, for test failure output.
func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("message.String(%q)", v.str)
	case KindBool:
		return fmt.Sprintf("message.Bool(%t)", v.b)
	default:
		return "message.Value{}"
	}
}
