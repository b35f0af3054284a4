package script

import (
	"math"
	"strconv"

	"github.com/wippyai/wast-script/errors"
	"github.com/wippyai/wast-script/wast"
)

// Value is one typed wasm numeric value. The closed set of variants is
// I32, I64, F32, F64, F32Bits and F64Bits; which float variants appear
// depends on the FloatDecoder the commands were decoded with.
type Value interface {
	isValue()
}

// I32 is a 32-bit integer. The bit pattern is decoded unsigned and
// reinterpreted as signed; no range checking happens beyond the width.
type I32 int32

// I64 is a 64-bit integer, decoded the same way as I32.
type I64 int64

// F32 is a native 32-bit float. Signaling NaN bit patterns have been
// canonicalized to quiet NaNs before materialization.
type F32 float32

// F64 is a native 64-bit float, canonicalized like F32.
type F64 float64

// F32Bits is the raw-bits representation of a 32-bit float. The exact
// source bit pattern is preserved for later bit-exact comparison.
type F32Bits uint32

// F64Bits is the raw-bits representation of a 64-bit float.
type F64Bits uint64

func (I32) isValue()     {}
func (I64) isValue()     {}
func (F32) isValue()     {}
func (F64) isValue()     {}
func (F32Bits) isValue() {}
func (F64Bits) isValue() {}

// Bits returns the IEEE 754 bit pattern of the materialized float.
func (f F32) Bits() uint32 { return math.Float32bits(float32(f)) }

// Bits returns the IEEE 754 bit pattern of the materialized float.
func (f F64) Bits() uint64 { return math.Float64bits(float64(f)) }

// Float32 materializes the bit pattern as a native float. Unlike the F32
// decode path this performs no canonicalization, so signaling NaNs come
// out as-is.
func (b F32Bits) Float32() float32 { return math.Float32frombits(uint32(b)) }

// Float64 materializes the bit pattern as a native float without
// canonicalization.
func (b F64Bits) Float64() float64 { return math.Float64frombits(uint64(b)) }

// FloatDecoder constructs float Values from raw IEEE 754 bit patterns.
// Two implementations exist: NativeFloats produces F32/F64 with NaN
// canonicalization, RawBits produces F32Bits/F64Bits preserving the exact
// pattern.
type FloatDecoder interface {
	F32FromBits(bits uint32) Value
	F64FromBits(bits uint64) Value
}

const (
	f32ExpMask   = 0x7F80_0000
	f32QuietBit  = 0x0040_0000
	f32FractMask = 0x007F_FFFF

	f64ExpMask   = 0x7FF0_0000_0000_0000
	f64QuietBit  = 0x0008_0000_0000_0000
	f64FractMask = 0x000F_FFFF_FFFF_FFFF
)

// NativeFloats decodes floats into native F32/F64 values. NaN patterns
// get the most significant fraction bit forced on, so a signaling NaN
// never materializes as a native float. The transformation is lossy:
// harnesses that must distinguish NaN encodings bit-exactly should use
// RawBits instead.
type NativeFloats struct{}

func (NativeFloats) F32FromBits(bits uint32) Value {
	return F32(math.Float32frombits(quietF32(bits)))
}

func (NativeFloats) F64FromBits(bits uint64) Value {
	return F64(math.Float64frombits(quietF64(bits)))
}

// RawBits decodes floats into F32Bits/F64Bits, passing the source bit
// pattern through untouched.
type RawBits struct{}

func (RawBits) F32FromBits(bits uint32) Value { return F32Bits(bits) }

func (RawBits) F64FromBits(bits uint64) Value { return F64Bits(bits) }

// quietF32 converts a signaling NaN pattern to a quiet one by setting the
// highest fraction bit. Non-NaN patterns pass through unchanged.
func quietF32(v uint32) uint32 {
	if v&f32ExpMask == f32ExpMask && v&f32FractMask != 0 {
		v |= f32QuietBit
	}
	return v
}

func quietF64(v uint64) uint64 {
	if v&f64ExpMask == f64ExpMask && v&f64FractMask != 0 {
		v |= f64QuietBit
	}
	return v
}

// DecodeValue converts one type-tagged decimal bit pattern into a Value.
func DecodeValue(rv wast.RuntimeValue, floats FloatDecoder) (Value, error) {
	switch rv.Type {
	case "i32":
		bits, err := strconv.ParseUint(rv.Value, 10, 32)
		if err != nil {
			return nil, errors.ValueDecode(rv.Value, rv.Type)
		}
		return I32(int32(uint32(bits))), nil
	case "i64":
		bits, err := strconv.ParseUint(rv.Value, 10, 64)
		if err != nil {
			return nil, errors.ValueDecode(rv.Value, rv.Type)
		}
		return I64(int64(bits)), nil
	case "f32":
		bits, err := strconv.ParseUint(rv.Value, 10, 32)
		if err != nil {
			return nil, errors.ValueDecode(rv.Value, rv.Type)
		}
		return floats.F32FromBits(uint32(bits)), nil
	case "f64":
		bits, err := strconv.ParseUint(rv.Value, 10, 64)
		if err != nil {
			return nil, errors.ValueDecode(rv.Value, rv.Type)
		}
		return floats.F64FromBits(bits), nil
	default:
		return nil, errors.UnknownValueType(rv.Type)
	}
}

// DecodeValues converts a value list element-wise, preserving order. The
// first failing element fails the whole list.
func DecodeValues(rvs []wast.RuntimeValue, floats FloatDecoder) ([]Value, error) {
	if len(rvs) == 0 {
		return nil, nil
	}
	values := make([]Value, 0, len(rvs))
	for _, rv := range rvs {
		v, err := DecodeValue(rv, floats)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
