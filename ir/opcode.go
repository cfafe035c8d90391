package ir

// Opcode is the closed enumeration of instruction kinds understood by
// the analyses in this module. The set mirrors a register-based
// bytecode: single- and double-width constant loads, moves, three-way
// comparisons, literal arithmetic, conditional and unconditional
// branches, calls and static field stores, plus the pseudo opcodes
// that bind method parameters and call results to registers.
type Opcode uint8

const (
	OpNop Opcode = iota
	OpConst
	OpConstWide
	OpMove
	OpMoveObject
	OpMoveWide
	OpCmplFloat
	OpCmpgFloat
	OpCmplDouble
	OpCmpgDouble
	OpCmpLong
	OpAddIntLit8
	OpAddIntLit16
	OpIfEq
	OpIfNe
	OpIfLt
	OpIfGe
	OpIfGt
	OpIfLe
	OpIfEqz
	OpIfNez
	OpIfLtz
	OpIfGez
	OpIfGtz
	OpIfLez
	OpGoto
	OpReturnVoid
	OpReturn
	OpReturnWide
	OpReturnObject
	OpInvokeStatic
	OpNewArray
	OpMoveResultPseudoObject
	OpSput
	OpSputObject
	OpLoadParam
	OpLoadParamWide
	OpLoadParamObject

	numOpcodes
)

var opcodeNames = [numOpcodes]string{
	OpNop:                    "nop",
	OpConst:                  "const",
	OpConstWide:              "const-wide",
	OpMove:                   "move",
	OpMoveObject:             "move-object",
	OpMoveWide:               "move-wide",
	OpCmplFloat:              "cmpl-float",
	OpCmpgFloat:              "cmpg-float",
	OpCmplDouble:             "cmpl-double",
	OpCmpgDouble:             "cmpg-double",
	OpCmpLong:                "cmp-long",
	OpAddIntLit8:             "add-int/lit8",
	OpAddIntLit16:            "add-int/lit16",
	OpIfEq:                   "if-eq",
	OpIfNe:                   "if-ne",
	OpIfLt:                   "if-lt",
	OpIfGe:                   "if-ge",
	OpIfGt:                   "if-gt",
	OpIfLe:                   "if-le",
	OpIfEqz:                  "if-eqz",
	OpIfNez:                  "if-nez",
	OpIfLtz:                  "if-ltz",
	OpIfGez:                  "if-gez",
	OpIfGtz:                  "if-gtz",
	OpIfLez:                  "if-lez",
	OpGoto:                   "goto",
	OpReturnVoid:             "return-void",
	OpReturn:                 "return",
	OpReturnWide:             "return-wide",
	OpReturnObject:           "return-object",
	OpInvokeStatic:           "invoke-static",
	OpNewArray:               "new-array",
	OpMoveResultPseudoObject: "move-result-pseudo-object",
	OpSput:                   "sput",
	OpSputObject:             "sput-object",
	OpLoadParam:              "load-param",
	OpLoadParamWide:          "load-param-wide",
	OpLoadParamObject:        "load-param-object",
}

func (op Opcode) String() string {
	if op >= numOpcodes {
		return "unknown"
	}
	return opcodeNames[op]
}

// IsConditionalBranch checks for the twelve if-* forms.
func (op Opcode) IsConditionalBranch() bool {
	return OpIfEq <= op && op <= OpIfLez
}

// IsZeroCompare checks for the if-*z forms, where the second operand
// is the implicit narrow constant 0.
func (op Opcode) IsZeroCompare() bool {
	return OpIfEqz <= op && op <= OpIfLez
}

// IsBranch checks for any control transfer, conditional or not.
func (op Opcode) IsBranch() bool {
	return op.IsConditionalBranch() || op == OpGoto
}

// IsLoadParam checks for the parameter binding pseudo opcodes that
// form a method's prologue.
func (op Opcode) IsLoadParam() bool {
	return OpLoadParam <= op && op <= OpLoadParamObject
}

// IsInternal checks for pseudo opcodes that do not correspond to a
// real bytecode instruction.
func (op Opcode) IsInternal() bool {
	return op.IsLoadParam() || op == OpMoveResultPseudoObject
}

// HasDest checks whether instructions of this opcode write a register.
func (op Opcode) HasDest() bool {
	switch op {
	case OpConst, OpConstWide,
		OpMove, OpMoveObject, OpMoveWide,
		OpCmplFloat, OpCmpgFloat, OpCmplDouble, OpCmpgDouble, OpCmpLong,
		OpAddIntLit8, OpAddIntLit16,
		OpNewArray, OpMoveResultPseudoObject,
		OpLoadParam, OpLoadParamWide, OpLoadParamObject:
		return true
	}
	return false
}

// DestIsWide checks whether the destination occupies a register pair.
func (op Opcode) DestIsWide() bool {
	switch op {
	case OpConstWide, OpMoveWide, OpLoadParamWide:
		return true
	}
	return false
}

// HasLiteral checks whether instructions of this opcode carry an
// integer literal operand.
func (op Opcode) HasLiteral() bool {
	switch op {
	case OpConst, OpConstWide, OpAddIntLit8, OpAddIntLit16:
		return true
	}
	return false
}

var opcodeByName = func() map[string]Opcode {
	m := make(map[string]Opcode, numOpcodes)
	for op := Opcode(0); op < numOpcodes; op++ {
		m[opcodeNames[op]] = op
	}
	return m
}()

// OpcodeByName resolves the assembler name of an opcode.
func OpcodeByName(name string) (Opcode, bool) {
	op, ok := opcodeByName[name]
	return op, ok
}
