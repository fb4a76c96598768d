package fixed

import (
	"fmt"
)

// Word is a 16-bit machine word. The signed and unsigned views are two
// readings of the same bits.
type Word uint16

// WordOf converts a value of any width to a word, sign extending signed
// values narrower than 16 bits.
func WordOf(v Value) Word {
	return Word(uint16(v.extend()))
}

func (w Word) Unsigned() uint16 {
	return uint16(w)
}

func (w Word) Signed() int16 {
	return int16(w)
}

// Value returns the word as a signed 16-bit value.
func (w Word) Value() Value {
	return Int16(int64(w.Signed()))
}

func (w Word) String() string {
	return fmt.Sprintf("%04X(%d)", uint16(w), int16(w))
}
