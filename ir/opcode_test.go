package ir

import "testing"

func TestOpcodePredicates(t *testing.T) {
	tests := []struct {
		op                Opcode
		conditionalBranch bool
		zeroCompare       bool
		internal          bool
		hasDest           bool
		destIsWide        bool
	}{
		{OpNop, false, false, false, false, false},
		{OpConst, false, false, false, true, false},
		{OpConstWide, false, false, false, true, true},
		{OpMoveWide, false, false, false, true, true},
		{OpIfEq, true, false, false, false, false},
		{OpIfLez, true, true, false, false, false},
		{OpGoto, false, false, false, false, false},
		{OpLoadParam, false, false, true, true, false},
		{OpLoadParamWide, false, false, true, true, true},
		{OpMoveResultPseudoObject, false, false, true, true, false},
		{OpInvokeStatic, false, false, false, false, false},
	}

	for _, test := range tests {
		if got := test.op.IsConditionalBranch(); got != test.conditionalBranch {
			t.Errorf("%s: IsConditionalBranch() = %v", test.op, got)
		}
		if got := test.op.IsZeroCompare(); got != test.zeroCompare {
			t.Errorf("%s: IsZeroCompare() = %v", test.op, got)
		}
		if got := test.op.IsInternal(); got != test.internal {
			t.Errorf("%s: IsInternal() = %v", test.op, got)
		}
		if got := test.op.HasDest(); got != test.hasDest {
			t.Errorf("%s: HasDest() = %v", test.op, got)
		}
		if got := test.op.DestIsWide(); got != test.destIsWide {
			t.Errorf("%s: DestIsWide() = %v", test.op, got)
		}
	}
}

func TestOpcodeByName(t *testing.T) {
	for op := Opcode(0); op < numOpcodes; op++ {
		got, ok := OpcodeByName(op.String())
		if !ok || got != op {
			t.Errorf("%s does not round-trip through OpcodeByName", op)
		}
	}
	if _, ok := OpcodeByName("frob"); ok {
		t.Errorf("unknown name resolved to an opcode")
	}
}

func TestBranchPredicateCoversAllIfForms(t *testing.T) {
	count := 0
	for op := Opcode(0); op < numOpcodes; op++ {
		if op.IsConditionalBranch() {
			count++
			if !op.IsBranch() {
				t.Errorf("%s: conditional branch is not a branch", op)
			}
		}
	}
	if count != 12 {
		t.Errorf("expected 12 conditional branch forms, got %d", count)
	}
}
