// Package instrument inserts dynamic analysis hooks into loaded
// programs. The analysis code itself, a static hook method plus its
// companion counter storage, is expected to already be part of the
// program; this package splices calls to it into every instrumented
// method or basic block and patches the counter storage to the final
// instrumentation count.
package instrument

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/finch-opt/finch/ir"
	"github.com/finch-opt/finch/utils"
)

// The failure kinds a run can report. Callers abort or recover as they
// see fit.
var (
	ErrEmptyAnalysisClass = errors.New("instrument: empty analysis class name")
	ErrClassNotFound      = errors.New("instrument: analysis class not found")
	ErrNotPrimaryUnit     = errors.New("instrument: analysis class outside the primary unit")
	ErrHookNotFound       = errors.New("instrument: hook method not found")
	ErrPatternNotFound    = errors.New("instrument: counter storage pattern not found")
	ErrUnknownStrategy    = errors.New("instrument: unknown strategy")
)

// Names of the counter storage members in the analysis class.
const (
	statsArrayField  = "sStats"
	methodCountField = "sMethodCount"
)

// Stats exposes the observable effect of a run.
type Stats struct {
	Instrumented int
	Excluded     int
}

// Run instruments the program according to config and returns how many
// units were instrumented. The program is modified in place; on error
// it may be left partially instrumented.
func Run(program *ir.Program, config *Config) (Stats, error) {
	if config.AnalysisClass == "" {
		return Stats{}, ErrEmptyAnalysisClass
	}

	cls := program.GetClass(config.AnalysisClass)
	if cls == nil {
		return Stats{}, fmt.Errorf("%w: %s", ErrClassNotFound, config.AnalysisClass)
	}
	// The hook must be loadable before anything else runs, so its
	// class has to live in the primary unit of the container.
	if !isPrimaryUnit(cls.Location()) {
		return Stats{}, fmt.Errorf("%w: %s is in %s", ErrNotPrimaryUnit, cls.Name(), cls.Location())
	}

	hook := cls.FindMethod(config.AnalysisMethod)
	if hook == nil {
		return Stats{}, fmt.Errorf("%w: %s in %s", ErrHookNotFound, config.AnalysisMethod, cls.Name())
	}
	utils.VerbosePrint("loaded analysis class: %s (%s)\n", cls.Name(), cls.Location())

	switch config.Strategy {
	case MethodTracing:
		return runMethodTracing(program, cls, hook, config)
	case BasicBlockTracing:
		return runBasicBlockTracing(program, cls, hook, config)
	}
	return Stats{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, config.Strategy)
}

// isPrimaryUnit reports whether location names the primary unit of a
// container, either bare or under a directory prefix.
func isPrimaryUnit(location string) bool {
	return location == "classes.dex" || strings.HasSuffix(location, "/classes.dex")
}

func runMethodTracing(program *ir.Program, cls *ir.Class, hook *ir.Method, config *Config) (Stats, error) {
	allow := newNameSet(config.Allowlist)
	deny := newNameSet(config.Denylist)

	var stats Stats
	var instrumented []*ir.Method
	program.ForEachMethod(func(m *ir.Method) {
		if m == hook || m == cls.Clinit() {
			stats.Excluded++
			utils.VerbosePrint("excluding analysis method: %s\n", m.Show())
			return
		}
		clsName := m.Class().Name()
		if len(allow) > 0 && !isIncluded(m.Name(), clsName, allow) {
			return
		}
		// An entry on both lists is not instrumented. The same holds
		// for an allowlisted method in a denylisted class.
		if isExcluded(clsName, deny) {
			stats.Excluded++
			return
		}

		stats.Instrumented++
		instrumented = append(instrumented, m)
		insertMethodHook(m, stats.Instrumented*config.NumStatsPerMethod, hook)
	})
	utils.VerbosePrint("%d methods were instrumented (%d excluded)\n",
		stats.Instrumented, stats.Excluded)

	if err := patchStatArraySize(cls, statsArrayField, stats.Instrumented*config.NumStatsPerMethod); err != nil {
		return stats, err
	}
	if err := patchMethodCount(cls, methodCountField, stats.Instrumented); err != nil {
		return stats, err
	}

	if config.MethodIndexPath != "" {
		if err := WriteMethodIndexFile(config.MethodIndexPath, instrumented); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// insertMethodHook splices `const id; invoke-static hook(id)` at the
// entry point of the method, after the register loading prologue.
func insertMethodHook(m *ir.Method, id int, hook *ir.Method) {
	code := m.Code()
	entry := code.Entry()

	tmp := code.AllocateTemp()
	load := ir.NewInstruction(ir.OpConst).SetDest(tmp).SetLiteral(int64(id))
	call := ir.NewInstruction(ir.OpInvokeStatic).AddSrc(tmp).SetMethodRef(methodRefOf(hook))

	idx := 0
	for _, insn := range entry.Instructions() {
		if !insn.Opcode().IsLoadParam() {
			break
		}
		idx++
	}
	spliceAt(entry, idx, load, call)
}

func runBasicBlockTracing(program *ir.Program, cls *ir.Class, hook *ir.Method, config *Config) (Stats, error) {
	allow := newNameSet(config.Allowlist)

	var stats Stats
	program.ForEachMethod(func(m *ir.Method) {
		if m == hook || m == cls.Clinit() {
			stats.Excluded++
			return
		}
		if len(allow) > 0 && !isIncluded(m.Name(), m.Class().Name(), allow) {
			return
		}
		stats.Instrumented += instrumentBlocks(m, hook)
	})
	return stats, nil
}

// instrumentBlocks splices a hook call at the head of every eligible
// basic block and returns how many blocks were instrumented. A block
// is identified at runtime by a hash of the method name plus its block
// index, which is unique enough across a program.
func instrumentBlocks(m *ir.Method, hook *ir.Method) int {
	code := m.Code()
	blocks := code.Blocks()
	utils.VerbosePrint("[%s] number of basic blocks: %d\n", m.Name(), len(blocks))
	if len(blocks) == 1 {
		return 0
	}

	nameHash := int64(int32(hashString(m.Show())))
	count := 0
	for _, block := range blocks {
		blockID := nameHash + int64(block.ID())

		// A block is not instrumented if it only holds internal
		// instructions, is a straight passthrough (at most one pred
		// and one succ), or has at most one real instruction.
		idx := block.FirstNonInternal()
		if idx < 0 ||
			(len(block.Preds()) <= 1 && len(block.Succs()) <= 1) ||
			block.InstructionCount() <= 1 {
			utils.VerbosePrint("no instrumentation to block: %d\n", blockID)
			continue
		}

		tmp := code.AllocateTemp()
		load := ir.NewInstruction(ir.OpConst).SetDest(tmp).SetLiteral(blockID)
		call := ir.NewInstruction(ir.OpInvokeStatic).AddSrc(tmp).SetMethodRef(methodRefOf(hook))
		spliceAt(block, idx, load, call)
		count++
	}
	return count
}

// spliceAt inserts instructions at position idx of the block, falling
// back to appending when idx is past the last instruction.
func spliceAt(block *ir.Block, idx int, ins ...*ir.Instruction) {
	instrs := block.Instructions()
	if idx >= len(instrs) {
		block.Append(ins...)
		return
	}
	ed := ir.NewEditor(block)
	ed.InsertBefore(instrs[idx], ins...)
	ed.Apply()
}

func methodRefOf(m *ir.Method) *ir.MethodRef {
	return &ir.MethodRef{
		Class:      m.Class().Name(),
		Name:       m.Name(),
		Descriptor: m.Descriptor(),
	}
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
