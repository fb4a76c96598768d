package cpu

import (
	"errors"

	"github.com/ezrec/teenyat/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrBusMissing  = errors.New(f("bus missing"))
	ErrImageSize   = errors.New(f("image larger than ram"))
	ErrImageOdd    = errors.New(f("image has an odd byte count"))
	ErrOpcodeValid = errors.New(f("opcode unassigned"))

	// Assembler errors
	ErrOpcodeInvalid    = errors.New(f("opcode invalid"))
	ErrOpcodeExtraArgs  = errors.New(f("excessive arguments"))
	ErrRegisterInvalid  = errors.New(f("register invalid"))
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
	ErrConstSyntax      = errors.New(f(".const syntax"))
	ErrConstDuplicate   = errors.New(f(".const duplicated"))
	ErrVarSyntax        = errors.New(f(".var syntax"))
	ErrVarDuplicate     = errors.New(f(".var duplicated"))
	ErrNotConverged     = errors.New(f("label addresses did not converge"))
	ErrExpressionResult = errors.New(f("expression is not an integer"))
)

// ErrSymbolMissing is a name that is not a symbol, register or number.
type ErrSymbolMissing string

func (es ErrSymbolMissing) Error() string {
	return f("symbol %v missing", string(es))
}

// ErrOpcode is an instruction the engine could not execute.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x %v", eo.Word, Code(eo).Op().String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrSyntax locates an assembler diagnostic.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrParseExpression is a $(...) expression that failed to evaluate.
type ErrParseExpression struct {
	Expr string
	Err  error
}

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression: %v", err.Expr, err.Err)
}

func (err ErrParseExpression) Unwrap() error {
	return err.Err
}
