// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// MAX_PASSES is the default cap on label resolution passes.
const MAX_PASSES = 100

// Assembler is an iterative multi-pass assembler for the TeenyAT.
//
// Every pass rebuilds the symbol tables from scratch, resolving forward
// references from the previous pass, until no label or variable moves.
// Malformed input is never rejected unless Strict is set; it is encoded
// with best effort defaults and recorded as a diagnostic.
type Assembler struct {
	Verbose   bool // If set, verbosely logs the assembler actions.
	Strict    bool // If set, Parse fails on the first diagnostic.
	MaxPasses int  // Pass cap, MAX_PASSES if zero.

	predefine map[string]string
}

// Predefine defines a constant that is present before the first line.
func (asm *Assembler) Predefine(name string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{}
	}
	asm.predefine[strings.ToLower(name)] = strings.ToLower(value)
}

// session is the state of a single Parse call.
type session struct {
	verbose bool
	pass    int

	symbols *Symbols // Tables built by this pass.
	prior   *Symbols // Tables from the previous pass.

	ip      int
	opcodes []Opcode
	diags   []ErrSyntax

	lineno int
	line   string
}

// diagnose records a problem with the current line.
func (ss *session) diagnose(err error) {
	ss.diags = append(ss.diags, ErrSyntax{LineNo: ss.lineno, Line: ss.line, Err: err})
}

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	lines, err := readLines(input)
	if err != nil {
		return
	}

	maxPasses := asm.MaxPasses
	if maxPasses <= 0 {
		maxPasses = MAX_PASSES
	}

	prior := NewSymbols()
	converged := false

	var ss *session
	for pass := 1; pass <= maxPasses; pass++ {
		ss = &session{
			verbose: asm.Verbose,
			pass:    pass,
			symbols: NewSymbols(),
			prior:   prior,
		}

		for name, value := range asm.predefine {
			ss.line = value
			ss.symbols.Constant[name] = ss.value(value)
		}

		for n, text := range lines {
			ss.parseLine(n+1, text)
		}

		if asm.Verbose {
			log.Printf("asm: pass %d: %d words, %d labels, %d diagnostics",
				pass, ss.ip, len(ss.symbols.Label), len(ss.diags))
		}

		if ss.symbols.Addresses(prior) {
			converged = true
			break
		}
		prior = ss.symbols
	}

	prog = &Program{
		Opcodes:     ss.opcodes,
		Symbols:     ss.symbols,
		Passes:      ss.pass,
		Converged:   converged,
		Diagnostics: ss.diags,
	}

	if !converged {
		prog.Diagnostics = append(prog.Diagnostics, ErrSyntax{Err: ErrNotConverged})
	}

	if asm.Strict && len(prog.Diagnostics) > 0 {
		err = prog.Diagnostics[0]
	}

	return
}

// readLines splits the input into lines of any length.
func readLines(input io.Reader) (lines []string, err error) {
	reader := bufio.NewReader(input)
	for {
		var text string
		text, err = reader.ReadString('\n')
		if len(text) > 0 {
			lines = append(lines, strings.TrimRight(text, "\r\n"))
		}
		if err == io.EOF {
			err = nil
			return
		}
		if err != nil {
			return
		}
	}
}

// isSeparator splits tokens. Separators carry no meaning.
func isSeparator(r rune) bool {
	switch r {
	case ',', '+', '[', ']':
		return true
	}
	return unicode.IsSpace(r)
}

// exprRegexp finds $(...) compile time expressions.
var exprRegexp = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine assembles a single line of source.
func (ss *session) parseLine(lineno int, text string) {
	ss.lineno = lineno
	ss.line = text

	if ss.verbose {
		log.Printf("asm: %d.%d: %v", ss.pass, lineno, text)
	}

	line := strings.ToLower(text)
	if n := strings.IndexByte(line, ';'); n >= 0 {
		line = line[:n]
	}

	line = exprRegexp.ReplaceAllStringFunc(line, func(str string) string {
		expr := str[2 : len(str)-1]
		value, err := ss.eval(expr)
		if err != nil {
			ss.diagnose(ErrParseExpression{Expr: expr, Err: err})
		}
		return strconv.Itoa(value)
	})

	words := strings.FieldsFunc(line, isSeparator)

	for len(words) > 0 && words[0][0] == '!' {
		ss.defineLabel(words[0])
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	switch words[0] {
	case ".raw":
		ss.parseRaw(words)
	case ".var", ".variable":
		ss.parseVar(words)
	case ".const", ".constant":
		ss.parseConst(words)
	default:
		ss.parseInstruction(words)
	}
}

// eval does compile-time $(...) evaluations. Every known symbol is an
// integer in scope; labels are named without their '!'.
func (ss *session) eval(expr string) (value int, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for name, value := range ss.prior.All {
		pred[name] = starlark.MakeInt(value)
	}
	for name, value := range ss.symbols.All {
		pred[name] = starlark.MakeInt(value)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}

	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrExpressionResult
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrExpressionResult
		return
	}

	value = int(st_int64)
	return
}

// stripSigns removes '-' prefixes, attaching each run of them to the
// token that follows.
func stripSigns(words []string) (args []string, signs []int) {
	pending := 0
	for _, word := range words {
		trimmed := strings.TrimLeft(word, "-")
		pending += len(word) - len(trimmed)
		if len(trimmed) == 0 {
			continue
		}
		args = append(args, trimmed)
		signs = append(signs, pending)
		pending = 0
	}
	return
}

// negated applies a line's '-' markers; an even count cancels out.
func negated(value int, signs []int) int {
	if lineNegated(signs) {
		return -value
	}
	return value
}

// lineNegated is true when a line carries an odd number of '-' markers.
func lineNegated(signs []int) bool {
	total := 0
	for _, sign := range signs {
		total += sign
	}
	return total%2 == 1
}

// lineSigns keeps the markers of a negated line, and drops them all
// when the line's markers cancel out.
func lineSigns(signs []int) []int {
	if lineNegated(signs) {
		return signs
	}
	return make([]int, len(signs))
}

// lookup resolves a word, falling back to the previous pass for forward
// references to labels and variables.
func (ss *session) lookup(word string) (value int, ok bool) {
	if value, ok = ss.symbols.Lookup(word); ok {
		return
	}
	if value, ok = ss.prior.Variable[word]; ok {
		return
	}
	if value, ok = ss.prior.Label[word]; ok {
		return
	}
	value, ok = parseNumber(word)
	return
}

// value resolves a word, or diagnoses it and returns 0.
func (ss *session) value(word string) (value int) {
	value, ok := ss.lookup(word)
	if !ok {
		ss.diagnose(ErrSymbolMissing(word))
	}
	return
}

// emit appends the words of a line at the current address.
func (ss *session) emit(words []string, codes ...Code) {
	op := Opcode{LineNo: ss.lineno, Ip: ss.ip, Words: words, Codes: codes}
	ss.opcodes = append(ss.opcodes, op)
	ss.ip += op.Len()
}

// defineLabel records !name at the current address.
func (ss *session) defineLabel(name string) {
	if _, ok := ss.symbols.Label[name]; ok {
		ss.diagnose(ErrLabelDuplicate)
		return
	}
	ss.symbols.Label[name] = ss.ip
}

// parseRaw handles .raw V1 V2 ...
func (ss *session) parseRaw(words []string) {
	args, signs := stripSigns(words[1:])

	codes := make([]Code, 0, len(args))
	for n, arg := range args {
		value := negated(ss.value(arg), signs[n:n+1])
		codes = append(codes, Code{Word: uint16(value)})
	}

	if len(codes) > 0 {
		ss.emit(words, codes...)
	}
}

// parseVar handles .var NAME [VALUE]
func (ss *session) parseVar(words []string) {
	if len(words) < 2 {
		ss.diagnose(ErrVarSyntax)
		return
	}

	name := words[1]
	if _, ok := ss.symbols.Variable[name]; ok {
		ss.diagnose(ErrVarDuplicate)
	} else {
		ss.symbols.Variable[name] = ss.ip
	}

	args, signs := stripSigns(words[2:])
	var value int
	if len(args) > 0 {
		value = negated(ss.value(args[0]), signs)
	}
	if len(args) > 1 {
		ss.diagnose(ErrOpcodeExtraArgs)
	}

	ss.emit(words, Code{Word: uint16(value)})
}

// parseConst handles .const NAME VALUE
func (ss *session) parseConst(words []string) {
	if len(words) < 3 {
		ss.diagnose(ErrConstSyntax)
		return
	}

	name := words[1]
	if _, ok := ss.symbols.Constant[name]; ok {
		ss.diagnose(ErrConstDuplicate)
		return
	}

	args, signs := stripSigns(words[2:])
	if len(args) == 0 {
		ss.diagnose(ErrConstSyntax)
		return
	}
	if len(args) > 1 {
		ss.diagnose(ErrOpcodeExtraArgs)
	}

	ss.symbols.Constant[name] = negated(ss.value(args[0]), signs)
}

// register resolves a register operand, defaulting to rz.
func (ss *session) register(word string) (reg CodeReg) {
	reg, ok := LookupReg(word)
	if !ok {
		ss.diagnose(ErrRegisterInvalid)
		reg = REG_ZERO
	}
	return
}

// base resolves a `reg + imm`, `reg`, or `imm` operand. A marked symbol
// or literal is negated on its own; a marked register negates the
// immediate.
func (ss *session) base(args []string, signs []int) (reg CodeReg, imm int) {
	reg = REG_ZERO

	if len(args) > 2 {
		ss.diagnose(ErrOpcodeExtraArgs)
		args = args[:2]
	}

	flip := false
	for n, arg := range args {
		odd := signs[n]%2 == 1
		if r, ok := LookupReg(arg); ok && n == 0 {
			reg = r
			flip = odd
			continue
		}
		value := ss.value(arg)
		if odd {
			value = -value
		}
		imm += value
	}

	if flip {
		imm = -imm
	}

	return
}

// general resolves `reg1, reg2 + imm` and its shorter forms.
func (ss *session) general(args []string, signs []int) (reg1, reg2 CodeReg, imm int) {
	reg1 = REG_ZERO
	reg2 = REG_ZERO

	if len(args) == 0 {
		return
	}

	if len(args) == 1 {
		if r, ok := LookupReg(args[0]); ok {
			reg1 = r
		} else {
			imm = negated(ss.value(args[0]), signs)
		}
		return
	}

	reg1 = ss.register(args[0])
	reg2, imm = ss.base(args[1:], signs[1:])
	if signs[0]%2 == 1 {
		imm = -imm
	}
	return
}

// parseInstruction encodes an opcode or pseudo-instruction.
func (ss *session) parseInstruction(words []string) {
	name := words[0]
	args, signs := stripSigns(words[1:])
	signs = lineSigns(signs)

	var code Code

	if cond, ok := jumpMap[name]; ok {
		reg1, imm := ss.base(args, signs)
		code = MakeCodeJmp(cond, reg1, imm)
		ss.emit(words, code)
		return
	}

	switch name {
	case "ret":
		code = MakeCode(OP_POP, REG_PC, REG_PC, 0)
	case "inc", "dec":
		op := OP_ADD
		if name == "dec" {
			op = OP_SUB
		}
		reg1 := REG_ZERO
		if len(args) > 0 {
			reg1 = ss.register(args[0])
		}
		if len(args) > 1 {
			ss.diagnose(ErrOpcodeExtraArgs)
		}
		code = MakeCode(op, reg1, REG_ZERO, 1)
	default:
		op, ok := LookupOp(name)
		if !ok {
			ss.diagnose(ErrOpcodeInvalid)
			op = OP_SET
		}

		var reg1, reg2 CodeReg
		var imm int
		switch op {
		case OP_STR:
			// str [reg1 + imm], reg2
			reg2 = REG_ZERO
			if len(args) > 0 {
				last := len(args) - 1
				reg2 = ss.register(args[last])
				reg1, imm = ss.base(args[:last], signs[:last])
				if signs[last]%2 == 1 {
					imm = -imm
				}
			} else {
				reg1 = REG_ZERO
			}
		case OP_PSH, OP_CAL, OP_DLY:
			reg1 = REG_ZERO
			reg2, imm = ss.base(args, signs)
		default:
			reg1, reg2, imm = ss.general(args, signs)
		}
		code = MakeCode(op, reg1, reg2, imm)
	}

	ss.emit(words, code)
}
