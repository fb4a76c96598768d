// Package fixed implements two's-complement integers of a fixed bit width.
//
// Every operator promotes its operands to the wider of the two widths,
// computes, and truncates back to that width. Nothing overflows and nothing
// panics; a zero divisor yields a zero result, and callers that need the
// machine's "skip on zero" behaviour must test the divisor themselves.
package fixed

// Width is the bit width of a Value.
type Width uint8

const (
	WIDTH_4  = Width(4)  // Teeny immediate.
	WIDTH_16 = Width(16) // Machine word.
	WIDTH_32 = Width(32) // Host integer.
)

// Mask returns all ones for the width, or zero for an unsupported width.
func (w Width) Mask() uint32 {
	switch w {
	case WIDTH_4:
		return 0xf
	case WIDTH_16:
		return 0xffff
	case WIDTH_32:
		return 0xffffffff
	}

	return 0
}

// Value is a fixed width bit pattern, interpreted as signed or unsigned.
type Value struct {
	Width  Width
	Signed bool
	Bits   uint32
}

// New truncates value to width.
func New(width Width, signed bool, value int64) Value {
	return Value{
		Width:  width,
		Signed: signed,
		Bits:   uint32(value) & width.Mask(),
	}
}

func Int4(value int64) Value   { return New(WIDTH_4, true, value) }
func Uint4(value int64) Value  { return New(WIDTH_4, false, value) }
func Int16(value int64) Value  { return New(WIDTH_16, true, value) }
func Uint16(value int64) Value { return New(WIDTH_16, false, value) }
func Int32(value int64) Value  { return New(WIDTH_32, true, value) }
func Uint32(value int64) Value { return New(WIDTH_32, false, value) }

// Unsigned returns the bit pattern as an unsigned magnitude.
func (v Value) Unsigned() uint32 {
	return v.Bits & v.Width.Mask()
}

// Int returns the two's-complement interpretation of the bit pattern.
func (v Value) Int() int64 {
	bits := v.Unsigned()
	if v.Width == 0 {
		return 0
	}

	sign := uint32(1) << (v.Width - 1)
	if bits&sign != 0 {
		return int64(bits) - (int64(1) << v.Width)
	}

	return int64(bits)
}

// extend returns the value as seen by a wider operation.
func (v Value) extend() int64 {
	if v.Signed {
		return v.Int()
	}

	return int64(v.Unsigned())
}

// IsZero is true when all bits are clear.
func (v Value) IsZero() bool {
	return v.Unsigned() == 0
}

func (v Value) combine(other Value, op func(a, b int64) int64) Value {
	width := v.Width
	if other.Width > width {
		width = other.Width
	}

	return New(width, v.Signed, op(v.extend(), other.extend()))
}

func (v Value) Add(other Value) Value {
	return v.combine(other, func(a, b int64) int64 { return a + b })
}

func (v Value) Sub(other Value) Value {
	return v.combine(other, func(a, b int64) int64 { return a - b })
}

func (v Value) Mul(other Value) Value {
	return v.combine(other, func(a, b int64) int64 { return a * b })
}

// Div truncates toward zero.
func (v Value) Div(other Value) Value {
	return v.combine(other, func(a, b int64) int64 {
		if b == 0 {
			return 0
		}
		return a / b
	})
}

// Mod takes the sign of the dividend.
func (v Value) Mod(other Value) Value {
	return v.combine(other, func(a, b int64) int64 {
		if b == 0 {
			return 0
		}
		return a % b
	})
}

func (v Value) And(other Value) Value {
	return v.combine(other, func(a, b int64) int64 { return a & b })
}

func (v Value) Or(other Value) Value {
	return v.combine(other, func(a, b int64) int64 { return a | b })
}

func (v Value) Xor(other Value) Value {
	return v.combine(other, func(a, b int64) int64 { return a ^ b })
}

// Negate is the two's-complement negation: invert, then add one.
func (v Value) Negate() Value {
	mask := v.Width.Mask()
	return Value{
		Width:  v.Width,
		Signed: v.Signed,
		Bits:   (^v.Bits + 1) & mask,
	}
}
