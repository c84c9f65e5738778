package quill

// Kind discriminates the variants of Value.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindBool
	KindInt32
	KindInt64
	KindFloat
	KindDouble
	KindString
	KindBytes
	KindEnum
	KindMessage
	KindRepeated
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBool:
		return "bool"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindEnum:
		return "enum"
	case KindMessage:
		return "message"
	case KindRepeated:
		return "repeated"
	default:
		return "unknown"
	}
}

// Value is the reflective representation of a field's content.
type Value struct {
	kind Kind

	// Scalar values (only one valid based on kind)
	boolVal  bool
	i32Val   int32
	i64Val   int64
	f32Val   float32
	f64Val   float64
	strVal   string
	bytesVal []byte
	enumVal  int32

	// Composite values
	msgVal  *Message
	listVal []*Value
}

// ============================================================
// Constructors
// ============================================================

// Empty creates an empty value.
func Empty() *Value {
	return &Value{kind: KindEmpty}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Int32 creates a 32-bit integer value.
func Int32(v int32) *Value {
	return &Value{kind: KindInt32, i32Val: v}
}

// Int64 creates a 64-bit integer value.
func Int64(v int64) *Value {
	return &Value{kind: KindInt64, i64Val: v}
}

// Float creates a 32-bit floating point value.
func Float(v float32) *Value {
	return &Value{kind: KindFloat, f32Val: v}
}

// Double creates a 64-bit floating point value.
func Double(v float64) *Value {
	return &Value{kind: KindDouble, f64Val: v}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{kind: KindString, strVal: v}
}

// Bytes creates a byte sequence value.
func Bytes(v []byte) *Value {
	return &Value{kind: KindBytes, bytesVal: v}
}

// Enum creates an enum value holding the value's number.
func Enum(number int32) *Value {
	return &Value{kind: KindEnum, enumVal: number}
}

// Msg creates a nested message value.
func Msg(m *Message) *Value {
	return &Value{kind: KindMessage, msgVal: m}
}

// Repeated creates an ordered sequence of values. Map fields are
// conventionally represented as a repeated sequence of two-field
// key/value entry messages.
func Repeated(values ...*Value) *Value {
	return &Value{kind: KindRepeated, listVal: values}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindEmpty
	}
	return v.kind
}

// IsEmpty returns true if this is a nil or empty value.
func (v *Value) IsEmpty() bool {
	return v == nil || v.kind == KindEmpty
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v.Kind() != KindBool {
		return false, formatErrorf("expected bool value, got %s", v.Kind())
	}
	return v.boolVal, nil
}

// AsInt32 returns the 32-bit integer value.
func (v *Value) AsInt32() (int32, error) {
	if v.Kind() != KindInt32 {
		return 0, formatErrorf("expected int32 value, got %s", v.Kind())
	}
	return v.i32Val, nil
}

// AsInt64 returns the 64-bit integer value.
func (v *Value) AsInt64() (int64, error) {
	if v.Kind() != KindInt64 {
		return 0, formatErrorf("expected int64 value, got %s", v.Kind())
	}
	return v.i64Val, nil
}

// AsFloat returns the 32-bit floating point value.
func (v *Value) AsFloat() (float32, error) {
	if v.Kind() != KindFloat {
		return 0, formatErrorf("expected float value, got %s", v.Kind())
	}
	return v.f32Val, nil
}

// AsDouble returns the 64-bit floating point value.
func (v *Value) AsDouble() (float64, error) {
	if v.Kind() != KindDouble {
		return 0, formatErrorf("expected double value, got %s", v.Kind())
	}
	return v.f64Val, nil
}

// AsStr returns the string value.
func (v *Value) AsStr() (string, error) {
	if v.Kind() != KindString {
		return "", formatErrorf("expected string value, got %s", v.Kind())
	}
	return v.strVal, nil
}

// AsBytes returns the byte sequence value.
func (v *Value) AsBytes() ([]byte, error) {
	if v.Kind() != KindBytes {
		return nil, formatErrorf("expected bytes value, got %s", v.Kind())
	}
	return v.bytesVal, nil
}

// AsEnum returns the enum value number.
func (v *Value) AsEnum() (int32, error) {
	if v.Kind() != KindEnum {
		return 0, formatErrorf("expected enum value, got %s", v.Kind())
	}
	return v.enumVal, nil
}

// AsMsg returns the nested message value.
func (v *Value) AsMsg() (*Message, error) {
	if v.Kind() != KindMessage {
		return nil, formatErrorf("expected message value, got %s", v.Kind())
	}
	return v.msgVal, nil
}

// AsRepeated returns the element sequence.
func (v *Value) AsRepeated() ([]*Value, error) {
	if v.Kind() != KindRepeated {
		return nil, formatErrorf("expected repeated value, got %s", v.Kind())
	}
	return v.listVal, nil
}

// Len returns the element count of a repeated value, and zero for
// anything else.
func (v *Value) Len() int {
	if v.Kind() != KindRepeated {
		return 0
	}
	return len(v.listVal)
}

// Equal reports whether two values are field-wise identical.
func (v *Value) Equal(o *Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}
	switch v.Kind() {
	case KindEmpty:
		return true
	case KindBool:
		return v.boolVal == o.boolVal
	case KindInt32:
		return v.i32Val == o.i32Val
	case KindInt64:
		return v.i64Val == o.i64Val
	case KindFloat:
		return v.f32Val == o.f32Val
	case KindDouble:
		return v.f64Val == o.f64Val
	case KindString:
		return v.strVal == o.strVal
	case KindBytes:
		if len(v.bytesVal) != len(o.bytesVal) {
			return false
		}
		for i := range v.bytesVal {
			if v.bytesVal[i] != o.bytesVal[i] {
				return false
			}
		}
		return true
	case KindEnum:
		return v.enumVal == o.enumVal
	case KindMessage:
		return v.msgVal.Equal(o.msgVal)
	case KindRepeated:
		if len(v.listVal) != len(o.listVal) {
			return false
		}
		for i := range v.listVal {
			if !v.listVal[i].Equal(o.listVal[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
