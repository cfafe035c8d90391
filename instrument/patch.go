package instrument

import (
	"fmt"

	"github.com/finch-opt/finch/ir"
	"github.com/finch-opt/finch/utils"
)

// The analysis class initializes its counter storage in <clinit> with
// placeholder sizes. After instrumentation the real counts are known
// and the initializer is patched. An existing const load is never
// edited in place since it may feed other instructions; instead a
// fresh const into a fresh temp register is spliced in and the
// consumer retargeted. Dead code elimination cleans up the orphaned
// load.

// patchStatArraySize finds the allocation of the named static array in
// the class initializer and patches its size.
func patchStatArraySize(cls *ir.Class, arrayName string, arraySize int) error {
	clinit := cls.Clinit()
	if clinit == nil {
		return fmt.Errorf("%w: %s has no <clinit>", ErrPatternNotFound, cls.Name())
	}

	code := clinit.Code()
	for _, block := range code.Blocks() {
		instrs := block.Instructions()
		for i := 0; i+2 < len(instrs); i++ {
			newArray, moveResult, sput := instrs[i], instrs[i+1], instrs[i+2]
			if newArray.Opcode() != ir.OpNewArray ||
				moveResult.Opcode() != ir.OpMoveResultPseudoObject ||
				sput.Opcode() != ir.OpSputObject ||
				sput.FieldRef() == nil ||
				sput.FieldRef().Name != arrayName {
				continue
			}

			tmp := code.AllocateTemp()
			load := ir.NewInstruction(ir.OpConst).SetDest(tmp).SetLiteral(int64(arraySize))
			newArray.SetSrc(0, tmp)

			ed := ir.NewEditor(block)
			ed.InsertBefore(newArray, load)
			ed.Apply()

			utils.VerbosePrint("%s array was patched: %d\n", arrayName, arraySize)
			return nil
		}
	}
	return fmt.Errorf("%w: no %s allocation in %s.<clinit>", ErrPatternNotFound, arrayName, cls.Name())
}

// patchMethodCount patches the store to the named static counter field
// in the class initializer. The store may have been elided when the
// original field value was a compile time constant; it is recreated in
// that case.
func patchMethodCount(cls *ir.Class, fieldName string, count int) error {
	clinit := cls.Clinit()
	if clinit == nil {
		return fmt.Errorf("%w: %s has no <clinit>", ErrPatternNotFound, cls.Name())
	}

	code := clinit.Code()
	var sput *ir.Instruction
	var block *ir.Block
	code.ForEachInstruction(func(b *ir.Block, insn *ir.Instruction) {
		if sput == nil && insn.Opcode() == ir.OpSput &&
			insn.FieldRef() != nil && insn.FieldRef().Name == fieldName {
			sput, block = insn, b
		}
	})

	tmp := code.AllocateTemp()
	load := ir.NewInstruction(ir.OpConst).SetDest(tmp).SetLiteral(int64(count))

	if sput == nil {
		utils.VerbosePrint("sput %s was elided; recreating it\n", fieldName)
		sput = ir.NewInstruction(ir.OpSput).AddSrc(tmp).SetFieldRef(&ir.FieldRef{
			Class: cls.Name(),
			Name:  fieldName,
			Type:  "I",
		})
		code.Entry().Append(load, sput)
	} else {
		sput.SetSrc(0, tmp)
		ed := ir.NewEditor(block)
		ed.InsertBefore(sput, load)
		ed.Apply()
	}

	utils.VerbosePrint("%s was patched: %d\n", fieldName, count)
	return nil
}
