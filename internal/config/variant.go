package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags the scalar held by a Variant
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
)

// String returns the kind name used in diagnostics
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Scalar lists the Go types a Variant can be extracted into
type Scalar interface {
	string | bool |
		int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// Variant holds exactly one scalar value.
//
// Extraction never coerces silently:
//   - string only from KindString
//   - bool only from KindBool
//   - integers from KindInt (range-checked) or from an integral KindFloat in range
//   - floats from KindFloat or KindInt; float32 requires the value to fit
type Variant struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

// NewString creates a string variant
func NewString(s string) Variant { return Variant{kind: KindString, s: s} }

// NewInt creates an integer variant
func NewInt(i int64) Variant { return Variant{kind: KindInt, i: i} }

// NewFloat creates a floating-point variant
func NewFloat(f float64) Variant { return Variant{kind: KindFloat, f: f} }

// NewBool creates a boolean variant
func NewBool(b bool) Variant { return Variant{kind: KindBool, b: b} }

// NewVariant builds a variant from a Go scalar. Unsigned values above
// math.MaxInt64 are rejected.
func NewVariant(v any) (Variant, bool) {
	switch x := v.(type) {
	case Variant:
		return x, x.kind != KindInvalid
	case string:
		return NewString(x), true
	case bool:
		return NewBool(x), true
	case int:
		return NewInt(int64(x)), true
	case int8:
		return NewInt(int64(x)), true
	case int16:
		return NewInt(int64(x)), true
	case int32:
		return NewInt(int64(x)), true
	case int64:
		return NewInt(x), true
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return NewInt(int64(x)), true
	case uint16:
		return NewInt(int64(x)), true
	case uint32:
		return NewInt(int64(x)), true
	case uint64:
		return fromUint(x)
	case float32:
		return NewFloat(float64(x)), true
	case float64:
		return NewFloat(x), true
	}
	return Variant{}, false
}

func fromUint(u uint64) (Variant, bool) {
	if u > math.MaxInt64 {
		return Variant{}, false
	}
	return NewInt(int64(u)), true
}

// ParseScalar infers a variant from text: integers, floats and the literals
// true/false are typed, anything else is kept as a string.
func ParseScalar(s string) Variant {
	t := strings.TrimSpace(s)
	if t == "" {
		return NewString(s)
	}
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return NewInt(i)
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil && !strings.ContainsAny(t, "xXpP_iInN") {
		return NewFloat(f)
	}
	switch t {
	case "true":
		return NewBool(true)
	case "false":
		return NewBool(false)
	}
	return NewString(s)
}

// Kind returns the tag of the held value
func (v Variant) Kind() Kind { return v.kind }

// IsValid reports whether the variant holds a value
func (v Variant) IsValid() bool { return v.kind != KindInvalid }

// GetString extracts a string; only KindString converts
func (v Variant) GetString(out *string) bool {
	if v.kind != KindString {
		return false
	}
	*out = v.s
	return true
}

// GetBool extracts a bool; only KindBool converts
func (v Variant) GetBool(out *bool) bool {
	if v.kind != KindBool {
		return false
	}
	*out = v.b
	return true
}

// GetInt extracts an int64 from KindInt or an integral KindFloat
func (v Variant) GetInt(out *int64) bool {
	i, ok := v.asInt()
	if !ok {
		return false
	}
	*out = i
	return true
}

// GetFloat extracts a float64 from KindFloat, or from a KindInt that
// float64 represents exactly
func (v Variant) GetFloat(out *float64) bool {
	switch v.kind {
	case KindFloat:
		*out = v.f
		return true
	case KindInt:
		f := float64(v.i)
		if !exactInt(f, v.i) {
			return false
		}
		*out = f
		return true
	}
	return false
}

// exactInt reports whether f converts back to i without loss. 2^63 is out
// of int64 range, so the bound is checked before converting back.
func exactInt(f float64, i int64) bool {
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return false
	}
	return int64(f) == i
}

func (v Variant) asInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) || v.f != math.Trunc(v.f) {
			return 0, false
		}
		if v.f < math.MinInt64 || v.f >= math.MaxInt64 {
			return 0, false
		}
		return int64(v.f), true
	}
	return 0, false
}

func (v Variant) asRangedInt(lo, hi int64) (int64, bool) {
	i, ok := v.asInt()
	if !ok || i < lo || i > hi {
		return 0, false
	}
	return i, true
}

func (v Variant) asUint(hi uint64) (uint64, bool) {
	i, ok := v.asInt()
	if !ok || i < 0 || uint64(i) > hi {
		return 0, false
	}
	return uint64(i), true
}

// Get extracts the value into out, which must be a pointer to a Scalar type,
// a *Variant or an *any. It returns false without touching out when the held
// kind does not convert.
func (v Variant) Get(out any) bool {
	if v.kind == KindInvalid {
		return false
	}
	switch p := out.(type) {
	case *Variant:
		*p = v
		return true
	case *any:
		*p = v.Interface()
		return true
	case *string:
		return v.GetString(p)
	case *bool:
		return v.GetBool(p)
	case *int64:
		return v.GetInt(p)
	case *float64:
		return v.GetFloat(p)
	case *int:
		i, ok := v.asRangedInt(math.MinInt, math.MaxInt)
		if ok {
			*p = int(i)
		}
		return ok
	case *int8:
		i, ok := v.asRangedInt(math.MinInt8, math.MaxInt8)
		if ok {
			*p = int8(i)
		}
		return ok
	case *int16:
		i, ok := v.asRangedInt(math.MinInt16, math.MaxInt16)
		if ok {
			*p = int16(i)
		}
		return ok
	case *int32:
		i, ok := v.asRangedInt(math.MinInt32, math.MaxInt32)
		if ok {
			*p = int32(i)
		}
		return ok
	case *uint:
		u, ok := v.asUint(math.MaxUint)
		if ok {
			*p = uint(u)
		}
		return ok
	case *uint8:
		u, ok := v.asUint(math.MaxUint8)
		if ok {
			*p = uint8(u)
		}
		return ok
	case *uint16:
		u, ok := v.asUint(math.MaxUint16)
		if ok {
			*p = uint16(u)
		}
		return ok
	case *uint32:
		u, ok := v.asUint(math.MaxUint32)
		if ok {
			*p = uint32(u)
		}
		return ok
	case *uint64:
		u, ok := v.asUint(math.MaxUint64)
		if ok {
			*p = u
		}
		return ok
	case *float32:
		if v.kind == KindInt {
			f := float32(v.i)
			if !exactInt(float64(f), v.i) {
				return false
			}
			*p = f
			return true
		}
		var f float64
		if !v.GetFloat(&f) {
			return false
		}
		if math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
			return false
		}
		*p = float32(f)
		return true
	}
	return false
}

// GetValue is the generic form of Variant.Get
func GetValue[T Scalar](v Variant, out *T) bool {
	return v.Get(any(out))
}

// Interface returns the held value as a plain Go value
func (v Variant) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	}
	return nil
}

// String renders the value for serializers and diagnostics
func (v Variant) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// GoString implements fmt.GoStringer for test failure output
func (v Variant) GoString() string {
	return fmt.Sprintf("%s(%s)", v.kind, v.String())
}

// Equal reports whether two variants hold the same kind and value
func (v Variant) Equal(o Variant) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	}
	return true
}
