package cpu

import (
	"maps"
	"strconv"
	"strings"
)

// Symbols holds the assembler's name tables.
type Symbols struct {
	Constant map[string]int // Constants, fixed at their declaration.
	Variable map[string]int // Variables, by reserved address.
	Label    map[string]int // Labels, by address. Names keep their '!'.
}

// NewSymbols returns empty tables.
func NewSymbols() *Symbols {
	return &Symbols{
		Constant: make(map[string]int),
		Variable: make(map[string]int),
		Label:    make(map[string]int),
	}
}

// Lookup resolves a name, trying constants, then variables, then labels.
func (sym *Symbols) Lookup(name string) (value int, ok bool) {
	if value, ok = sym.Constant[name]; ok {
		return
	}
	if value, ok = sym.Variable[name]; ok {
		return
	}
	value, ok = sym.Label[name]
	return
}

// Addresses reports whether both tables place every label and variable at
// the same address.
func (sym *Symbols) Addresses(other *Symbols) bool {
	return maps.Equal(sym.Label, other.Label) && maps.Equal(sym.Variable, other.Variable)
}

// All yields every symbol, lowest precedence first, for expression
// evaluation; a later name overrides an earlier one.
// Label names are yielded without their '!'.
func (sym *Symbols) All(yield func(name string, value int) bool) {
	for name, value := range sym.Label {
		if !yield(strings.TrimPrefix(name, "!"), value) {
			return
		}
	}
	for name, value := range sym.Variable {
		if !yield(name, value) {
			return
		}
	}
	for name, value := range sym.Constant {
		if !yield(name, value) {
			return
		}
	}
}

// parseNumber accepts decimal and 0x prefixed hexadecimal.
func parseNumber(word string) (value int, ok bool) {
	var v64 int64
	var err error

	if len(word) > 2 && (word[:2] == "0x" || word[:2] == "0X") {
		var u64 uint64
		u64, err = strconv.ParseUint(word[2:], 16, 32)
		v64 = int64(u64)
	} else {
		v64, err = strconv.ParseInt(word, 10, 32)
	}
	if err != nil {
		return
	}

	value = int(v64)
	ok = true
	return
}
