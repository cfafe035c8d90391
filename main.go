package main

import (
	"fmt"
	"os"

	"github.com/finch-opt/finch/analysis/constprop"
	"github.com/finch-opt/finch/instrument"
	"github.com/finch-opt/finch/ir"
	"github.com/finch-opt/finch/utils"
	"github.com/finch-opt/finch/utils/worklist"

	"go.uber.org/zap"
)

var (
	opts = utils.Opts()
	task = opts.Task()
)

func main() {
	utils.ParseArgs()
	path := utils.MakePath()

	log := newLogger()
	defer log.Sync()

	program, err := loadProgram(path)
	if err != nil {
		log.Fatalf("failed to load %s: %v", path, err)
	}

	switch {
	case task.IsConstProp():
		runConstProp(program, log)
	case task.IsInstrument():
		runInstrument(program, log)
	case task.IsCfgToDot():
		runCfgToDot(program, log)
	case task.IsPrint():
		emitProgram(program, log)
	}
}

func newLogger() *zap.SugaredLogger {
	config := zap.NewDevelopmentConfig()
	if opts.Verbose() {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	log, err := config.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return log.Sugar()
}

func loadProgram(path string) (*ir.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ir.Parse(f)
}

// zapTracer forwards analysis trace lines to the debug level of the
// process logger.
type zapTracer struct {
	log *zap.SugaredLogger
}

func (t zapTracer) Tracef(format string, args ...interface{}) {
	t.log.Debugf(format, args...)
}

func runConstProp(program *ir.Program, log *zap.SugaredLogger) {
	pass := constprop.New(constprop.Config{
		FoldArithmetic:         opts.FoldArithmetic(),
		ReplaceMovesWithConsts: opts.ReplaceMoves(),
	}, zapTracer{log})

	program.ForEachMethod(func(m *ir.Method) {
		processMethod(m, pass)
	})

	stats := pass.Stats()
	log.Infow("constant propagation done",
		"branches_propagated", stats.BranchesPropagated,
		"materialized_consts", stats.MaterializedConsts)

	emitProgram(program, log)
}

// processMethod rewrites every block reachable from the entry. Each
// block is analyzed under a fresh fully unknown entry state; chaining
// facts across blocks is the job of a whole-program driver, not this
// tool.
func processMethod(m *ir.Method, pass *constprop.LocalConstantPropagation) {
	code := m.Code()
	if len(code.Blocks()) == 0 {
		return
	}

	seen := map[*ir.Block]bool{code.Entry(): true}
	worklist.Start(code.Entry(), func(b *ir.Block, add func(*ir.Block)) {
		pass.ProcessBlock(b, constprop.NewEnvironment()).Apply()
		for _, succ := range b.Succs() {
			if !seen[succ] {
				seen[succ] = true
				add(succ)
			}
		}
	})
}

func runInstrument(program *ir.Program, log *zap.SugaredLogger) {
	if opts.ConfigPath() == "" {
		log.Fatal("the instrument task requires -config")
	}
	config, err := instrument.LoadConfig(opts.ConfigPath())
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	stats, err := instrument.Run(program, config)
	if err != nil {
		log.Fatalf("instrumentation failed: %v", err)
	}
	log.Infow("instrumentation done",
		"instrumented", stats.Instrumented,
		"excluded", stats.Excluded)

	emitProgram(program, log)
}

func runCfgToDot(program *ir.Program, log *zap.SugaredLogger) {
	if opts.Function() == "" {
		log.Fatal("the cfg-to-dot task requires -fun")
	}
	m := program.FindMethod(opts.Function())
	if m == nil {
		log.Fatalf("no method named %q", opts.Function())
	}

	G := ir.Visualize(m)
	if opts.Visualize() {
		out := opts.Output()
		if out == "" {
			out = "cfg"
		}
		rendered, err := G.RenderFile(out, opts.OutputFormat())
		if err != nil {
			log.Fatalf("failed to render graph: %v", err)
		}
		log.Infof("rendered control-flow graph to %s", rendered)
		return
	}

	w, done, err := outputWriter()
	if err != nil {
		log.Fatalf("failed to open output: %v", err)
	}
	defer done()
	if err := G.WriteDot(w); err != nil {
		log.Fatalf("failed to write graph: %v", err)
	}
}

func emitProgram(program *ir.Program, log *zap.SugaredLogger) {
	w, done, err := outputWriter()
	if err != nil {
		log.Fatalf("failed to open output: %v", err)
	}
	defer done()
	if err := ir.Fprint(w, program); err != nil {
		log.Fatalf("failed to print program: %v", err)
	}
}

func outputWriter() (*os.File, func(), error) {
	if opts.Output() == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(opts.Output())
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
