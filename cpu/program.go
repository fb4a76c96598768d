package cpu

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"strings"
)

// Program is the output of the assembler.
type Program struct {
	Opcodes     []Opcode
	Symbols     *Symbols    // Symbol tables of the final pass.
	Passes      int         // Number of passes run.
	Converged   bool        // False if the pass cap was reached.
	Diagnostics []ErrSyntax // Problems found in the final pass.
}

type Debug struct {
	*Opcode
	Index int // Word offset within the opcode.
}

// Debug finds the source line that produced the word at ip.
func (prog *Program) Debug(ip uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(ip) >= op.Ip && int(ip) < op.Ip+op.Len() {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(ip) - op.Ip,
			}
			break
		}
	}

	return
}

// Data is true for lines emitted by .raw and .var.
func (op *Opcode) Data() bool {
	return len(op.Words) > 0 && strings.HasPrefix(op.Words[0], ".")
}

// Binary returns the image words, in address order.
func (prog *Program) Binary() (words []uint16) {
	for _, code := range prog.Codes() {
		words = append(words, code.Word)
		words = append(words, code.Immediates...)
	}

	return
}

// Codes yields every emitted code with its address.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(ip uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			ip := uint16(op.Ip)
			for _, code := range op.Codes {
				if !yield(ip, code) {
					return
				}
				ip += uint16(code.Len())
			}
		}
	}
}

// WriteTo writes the image as little-endian 16-bit words.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	return WriteImage(w, prog.Binary())
}

// WriteImage writes words as little-endian 16-bit words, as read by ReadImage.
func WriteImage(w io.Writer, words []uint16) (n int64, err error) {
	buf := make([]byte, 2*len(words))
	for i, word := range words {
		binary.LittleEndian.PutUint16(buf[2*i:], word)
	}

	written, err := w.Write(buf)
	n = int64(written)
	return
}

// WriteListing writes an address, hex and source listing.
func (prog *Program) WriteListing(w io.Writer) (err error) {
	for _, op := range prog.Opcodes {
		ip := op.Ip
		for _, code := range op.Codes {
			hex := fmt.Sprintf("%04x", code.Word)
			for _, imm := range code.Immediates {
				hex += fmt.Sprintf(" %04x", imm)
			}
			text := code.String()
			if op.Data() {
				text = fmt.Sprintf(".raw %#04x", code.Word)
			}
			_, err = fmt.Fprintf(w, "%04x: %-10s %-24s ; %d: %v\n",
				ip, hex, text, op.LineNo, strings.Join(op.Words, " "))
			if err != nil {
				return
			}
			ip += code.Len()
		}
	}

	return
}

// ReadImage reads little-endian 16-bit words, as written by WriteTo.
func ReadImage(r io.Reader) (words []uint16, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	if len(data)%2 != 0 {
		err = ErrImageOdd
		return
	}

	if len(data)/2 > RAM_SIZE {
		err = ErrImageSize
		return
	}

	words = make([]uint16, len(data)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(data[2*i:])
	}

	return
}
