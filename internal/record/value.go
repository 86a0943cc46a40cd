package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Type enumerates the closed set of value types a record field can
// hold.
type Type string

const (
	TypeString Type = "string"
	TypeNumber Type = "number"
	TypeBool   Type = "bool"
	TypeTime   Type = "time"
	TypeNull   Type = "null"
)

// ParseType converts a string into a Type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeString, TypeNumber, TypeBool, TypeTime, TypeNull:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown value type: %q", s)
	}
}

// Value is one field value: a string, number, bool, timestamp or
// null. Values are immutable.
type Value struct {
	typ Type
	str string
	num float64
	b   bool
	ts  time.Time
}

// String creates a string value.
func String(s string) Value { return Value{typ: TypeString, str: s} }

// Number creates a numeric value.
func Number(f float64) Value { return Value{typ: TypeNumber, num: f} }

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{typ: TypeBool, b: b} }

// Time creates a timestamp value.
func Time(t time.Time) Value { return Value{typ: TypeTime, ts: t} }

// Null creates a null value. The zero Value is also null.
func Null() Value { return Value{typ: TypeNull} }

// Type returns the value's type. The zero Value reports TypeNull.
func (v Value) Type() Type {
	if v.typ == "" {
		return TypeNull
	}
	return v.typ
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.Type() == TypeNull }

// AsString returns the string content and whether the value is a
// string.
func (v Value) AsString() (string, bool) {
	return v.str, v.Type() == TypeString
}

// AsNumber returns the numeric content and whether the value is a
// number.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.Type() == TypeNumber
}

// AsBool returns the boolean content and whether the value is a
// bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.Type() == TypeBool
}

// AsTime returns the timestamp content and whether the value is a
// time.
func (v Value) AsTime() (time.Time, bool) {
	return v.ts, v.Type() == TypeTime
}

// String renders the value for messages and keys.
func (v Value) String() string {
	switch v.Type() {
	case TypeString:
		return v.str
	case TypeNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeTime:
		return v.ts.UTC().Format(time.RFC3339)
	default:
		return "null"
	}
}

// MarshalJSON encodes the value as plain JSON. Timestamps become
// RFC 3339 strings so the staging format stays self-describing.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Type() {
	case TypeString:
		return json.Marshal(v.str)
	case TypeNumber:
		return json.Marshal(v.num)
	case TypeBool:
		return json.Marshal(v.b)
	case TypeTime:
		return json.Marshal(v.ts.UTC().Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes plain JSON into a value. Strings that parse
// as RFC 3339 timestamps come back as time values, which keeps
// date fields round-tripping through the staging files.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch val := raw.(type) {
	case nil:
		*v = Null()
	case string:
		if ts, err := time.Parse(time.RFC3339, val); err == nil {
			*v = Time(ts)
		} else {
			*v = String(val)
		}
	case float64:
		*v = Number(val)
	case bool:
		*v = Bool(val)
	default:
		return fmt.Errorf("unsupported JSON value %T: records hold scalars only", raw)
	}

	return nil
}

// Equal reports whether two values have the same type and content.
func (v Value) Equal(other Value) bool {
	if v.Type() != other.Type() {
		return false
	}
	switch v.Type() {
	case TypeString:
		return v.str == other.str
	case TypeNumber:
		return v.num == other.num
	case TypeBool:
		return v.b == other.b
	case TypeTime:
		return v.ts.Equal(other.ts)
	default:
		return true // both null
	}
}
