package quill

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// JSONType discriminates the variants of JSONValue.
type JSONType uint8

const (
	JSONNull JSONType = iota
	JSONBool
	JSONNumber
	JSONString
	JSONArray
	JSONObject
)

// String returns the JSON type name.
func (t JSONType) String() string {
	switch t {
	case JSONNull:
		return "null"
	case JSONBool:
		return "bool"
	case JSONNumber:
		return "number"
	case JSONString:
		return "string"
	case JSONArray:
		return "array"
	case JSONObject:
		return "object"
	default:
		return "unknown"
	}
}

// JSONField is one entry of a JSON object. Field order is preserved.
type JSONField struct {
	Name  string
	Value *JSONValue
}

// JSONValue is a generic JSON tree node. Numbers keep their literal
// text so the integer/decimal distinction survives and 64-bit integers
// stay exact.
type JSONValue struct {
	typ     JSONType
	boolVal bool
	numVal  string
	strVal  string
	arrVal  []*JSONValue
	objVal  []JSONField
}

// ============================================================
// Constructors
// ============================================================

// NullJSON creates a JSON null.
func NullJSON() *JSONValue {
	return &JSONValue{typ: JSONNull}
}

// BoolJSON creates a JSON boolean.
func BoolJSON(v bool) *JSONValue {
	return &JSONValue{typ: JSONBool, boolVal: v}
}

// NumberJSON creates a JSON number from its literal text. The caller
// is responsible for the literal being a valid JSON number.
func NumberJSON(literal string) *JSONValue {
	return &JSONValue{typ: JSONNumber, numVal: literal}
}

// IntJSON creates a JSON number in integer form.
func IntJSON(v int64) *JSONValue {
	return NumberJSON(strconv.FormatInt(v, 10))
}

// FloatJSON creates a JSON number from a finite float, using the
// shortest representation that round-trips at the given bit size
// (32 or 64).
func FloatJSON(v float64, bits int) *JSONValue {
	return NumberJSON(formatFloat(v, bits))
}

// StringJSON creates a JSON string.
func StringJSON(v string) *JSONValue {
	return &JSONValue{typ: JSONString, strVal: v}
}

// ArrayJSON creates a JSON array.
func ArrayJSON(items ...*JSONValue) *JSONValue {
	return &JSONValue{typ: JSONArray, arrVal: items}
}

// ObjectJSON creates a JSON object with the given ordered fields.
func ObjectJSON(fields ...JSONField) *JSONValue {
	return &JSONValue{typ: JSONObject, objVal: fields}
}

// ============================================================
// Accessors
// ============================================================

// Type returns the JSON value type. A nil node reads as null.
func (v *JSONValue) Type() JSONType {
	if v == nil {
		return JSONNull
	}
	return v.typ
}

// IsNull returns true for a nil or null node.
func (v *JSONValue) IsNull() bool {
	return v.Type() == JSONNull
}

// AsBool returns the boolean value.
func (v *JSONValue) AsBool() (bool, error) {
	if v.Type() != JSONBool {
		return false, formatErrorf("expected JSON bool, found %s", v.Type())
	}
	return v.boolVal, nil
}

// AsStr returns the string value.
func (v *JSONValue) AsStr() (string, error) {
	if v.Type() != JSONString {
		return "", formatErrorf("expected JSON string, found %s", v.Type())
	}
	return v.strVal, nil
}

// NumberLiteral returns the number's literal text.
func (v *JSONValue) NumberLiteral() (string, error) {
	if v.Type() != JSONNumber {
		return "", formatErrorf("expected JSON number, found %s", v.Type())
	}
	return v.numVal, nil
}

// IsInt reports whether a number node is in integer form (no fraction
// or exponent).
func (v *JSONValue) IsInt() bool {
	if v.Type() != JSONNumber {
		return false
	}
	return !strings.ContainsAny(v.numVal, ".eE")
}

// Int64 parses an integer-form number node to int64.
func (v *JSONValue) Int64() (int64, error) {
	lit, err := v.NumberLiteral()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return 0, wrapFormatError(err, "invalid integer %q", lit)
	}
	return n, nil
}

// Float64 parses a number node to float64.
func (v *JSONValue) Float64() (float64, error) {
	lit, err := v.NumberLiteral()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, wrapFormatError(err, "invalid number %q", lit)
	}
	return f, nil
}

// Items returns the elements of an array node.
func (v *JSONValue) Items() ([]*JSONValue, error) {
	if v.Type() != JSONArray {
		return nil, formatErrorf("expected JSON array, found %s", v.Type())
	}
	return v.arrVal, nil
}

// Fields returns the ordered fields of an object node.
func (v *JSONValue) Fields() ([]JSONField, error) {
	if v.Type() != JSONObject {
		return nil, formatErrorf("expected JSON object, found %s", v.Type())
	}
	return v.objVal, nil
}

// Field returns the first object field with the given name.
func (v *JSONValue) Field(name string) (*JSONValue, bool) {
	if v.Type() != JSONObject {
		return nil, false
	}
	for _, f := range v.objVal {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// ============================================================
// Rendering
// ============================================================

// Render produces compact JSON text for the tree.
func (v *JSONValue) Render() string {
	var buf []byte
	buf = appendJSON(buf, v)
	return string(buf)
}

func appendJSON(dst []byte, v *JSONValue) []byte {
	switch v.Type() {
	case JSONNull:
		return append(dst, "null"...)
	case JSONBool:
		if v.boolVal {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case JSONNumber:
		return append(dst, v.numVal...)
	case JSONString:
		return appendJSONString(dst, v.strVal)
	case JSONArray:
		dst = append(dst, '[')
		for i, item := range v.arrVal {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendJSON(dst, item)
		}
		return append(dst, ']')
	case JSONObject:
		dst = append(dst, '{')
		for i, f := range v.objVal {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendJSONString(dst, f.Name)
			dst = append(dst, ':')
			dst = appendJSON(dst, f.Value)
		}
		return append(dst, '}')
	default:
		return dst
	}
}

const hexDigits = "0123456789abcdef"

// appendJSONString escapes and quotes s. Only control characters, the
// quote, and the backslash are escaped; valid multi-byte UTF-8 passes
// through and invalid bytes become U+FFFD.
func appendJSONString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' && c < utf8.RuneSelf {
			dst = append(dst, c)
			i++
			continue
		}
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				dst = append(dst, '\\', '"')
			case '\\':
				dst = append(dst, '\\', '\\')
			case '\b':
				dst = append(dst, '\\', 'b')
			case '\f':
				dst = append(dst, '\\', 'f')
			case '\n':
				dst = append(dst, '\\', 'n')
			case '\r':
				dst = append(dst, '\\', 'r')
			case '\t':
				dst = append(dst, '\\', 't')
			default:
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = utf8.AppendRune(dst, utf8.RuneError)
			i++
			continue
		}
		dst = append(dst, s[i:i+size]...)
		i += size
	}
	return append(dst, '"')
}

// formatFloat renders a finite float as a JSON number literal, using
// exponent form outside [1e-6, 1e21) to match canonical output.
func formatFloat(val float64, bits int) string {
	fmtByte := byte('f')
	if abs := math.Abs(val); abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			fmtByte = 'e'
		}
	}
	out := strconv.AppendFloat(nil, val, fmtByte, -1, bits)
	if fmtByte == 'e' {
		// Clean up e-09 to e-9.
		if n := len(out); n >= 4 && out[n-4] == 'e' && out[n-3] == '-' && out[n-2] == '0' {
			out[n-2] = out[n-1]
			out = out[:n-1]
		}
	}
	return string(out)
}

// ============================================================
// Decoding
// ============================================================

// DecodeJSON parses JSON text into a JSONValue tree, preserving object
// field order and number literals. The tokenizing itself is delegated
// to the standard decoder.
func DecodeJSON(input string) (*JSONValue, error) {
	dec := json.NewDecoder(strings.NewReader(input))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, formatErrorf("unexpected trailing content after JSON value")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (*JSONValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, wrapFormatError(err, "invalid JSON")
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (*JSONValue, error) {
	switch t := tok.(type) {
	case nil:
		return NullJSON(), nil
	case bool:
		return BoolJSON(t), nil
	case json.Number:
		return NumberJSON(t.String()), nil
	case string:
		return StringJSON(t), nil
	case json.Delim:
		switch t {
		case '{':
			var fields []JSONField
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, wrapFormatError(err, "invalid JSON")
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, formatErrorf("object key must be a string, found %v", keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				fields = append(fields, JSONField{Name: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return nil, wrapFormatError(err, "invalid JSON")
			}
			return ObjectJSON(fields...), nil
		case '[':
			var items []*JSONValue
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, wrapFormatError(err, "invalid JSON")
			}
			return ArrayJSON(items...), nil
		}
	}
	return nil, formatErrorf("unsupported JSON token: %v", fmt.Sprint(tok))
}
