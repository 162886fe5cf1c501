package model

import "strings"

// primitiveBits maps every C'next primitive type to its width in bits.
var primitiveBits = map[string]int{
	"u8":   8,
	"i8":   8,
	"u16":  16,
	"i16":  16,
	"u32":  32,
	"i32":  32,
	"u64":  64,
	"i64":  64,
	"f32":  32,
	"f64":  64,
	"bool": 8,
	"char": 8,
}

// TypeRef is a reference to a declared or built-in type. Array types keep
// the element type name with IsArray set; the core never needs the length.
type TypeRef struct {
	Name    string
	IsArray bool
}

// ParseTypeRef builds a TypeRef from the parser's textual type spelling,
// e.g. "u16", "Point" or "u8[64]".
func ParseTypeRef(spelling string) TypeRef {
	if i := strings.IndexByte(spelling, '['); i >= 0 {
		return TypeRef{Name: spelling[:i], IsArray: true}
	}

	return TypeRef{Name: spelling}
}

// String returns the type spelling without array length information.
func (t TypeRef) String() string {
	if t.IsArray {
		return t.Name + "[]"
	}

	return t.Name
}

// IsPrimitive reports whether the type is a scalar C'next primitive.
// Arrays are never primitive, even with a primitive element type.
func (t TypeRef) IsPrimitive() bool {
	if t.IsArray {
		return false
	}

	_, ok := primitiveBits[t.Name]

	return ok
}

// Bits returns the width of a primitive type in bits. The second return
// value is false for structs, strings, arrays and other non-primitives.
func (t TypeRef) Bits() (int, bool) {
	if t.IsArray {
		return 0, false
	}

	bits, ok := primitiveBits[t.Name]

	return bits, ok
}

// FitsByValue reports whether a parameter of this type is eligible for
// pass-by-value under the given bit threshold. Non-primitives are always
// passed by reference regardless of mutation status.
func (t TypeRef) FitsByValue(maxBits int) bool {
	bits, ok := t.Bits()
	if !ok {
		return false
	}

	return bits <= maxBits
}
