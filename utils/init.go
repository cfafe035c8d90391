package utils

import (
	"flag"
	"log"
)

type options struct {
	task         string
	configPath   string
	outputFormat string
	function     string
	output       string
	minlen       uint
	nodesep      float64
	noColorize   bool
	verbose      bool
	visualize    bool
	foldArith    bool
	replaceMoves bool
}

const (
	_CONST_PROP = iota
	_INSTRUMENT
	_CFG_TO_DOT
	_PRINT
)

var task = []struct{ flag, explanation string }{{
	"const-prop",
	"Run local constant propagation over every basic block and print the rewritten program",
}, {
	"instrument",
	"Insert calls to the configured analysis hook and patch its companion static data",
}, {
	"cfg-to-dot",
	"Create a graph for the control-flow graph of the targeted method",
}, {
	"print",
	"Parse the program and pretty-print it back",
}}

var opts = &options{}

type optInterface struct{}

type taskInterface struct{}

func Opts() optInterface {
	return optInterface{}
}

func (optInterface) NoColorize() bool {
	return opts.noColorize
}

func (optInterface) Verbose() bool {
	return opts.verbose
}

func (optInterface) ConfigPath() string {
	return opts.configPath
}

func (optInterface) OutputFormat() string {
	return opts.outputFormat
}

func (optInterface) Function() string {
	return opts.function
}

func (optInterface) Output() string {
	return opts.output
}

func (optInterface) Minlen() uint {
	return opts.minlen
}

func (optInterface) Nodesep() float64 {
	return opts.nodesep
}

func (optInterface) Visualize() bool {
	return opts.visualize
}

func (optInterface) FoldArithmetic() bool {
	return opts.foldArith
}

func (optInterface) ReplaceMoves() bool {
	return opts.replaceMoves
}

func (optInterface) Task() taskInterface {
	return taskInterface{}
}

func (taskInterface) IsConstProp() bool {
	return opts.task == task[_CONST_PROP].flag
}

func (taskInterface) IsInstrument() bool {
	return opts.task == task[_INSTRUMENT].flag
}

func (taskInterface) IsCfgToDot() bool {
	return opts.task == task[_CFG_TO_DOT].flag
}

func (taskInterface) IsPrint() bool {
	return opts.task == task[_PRINT].flag
}

func init() {
	taskFlag := "\n"
	for _, task := range task {
		taskFlag += task.flag + " -- " + task.explanation + "\n"
	}
	taskFlag += "\n"

	flag.StringVar(&(opts.task), "task", task[_CONST_PROP].flag, "Set the task to do during execution. Options:"+taskFlag)
	flag.StringVar(&(opts.configPath), "config", "", "Path to a YAML configuration file for the instrumentation pass.")
	flag.StringVar(&(opts.outputFormat), "format", "svg", "output file format [svg | png | jpg | ...]")
	flag.StringVar(&(opts.function), "fun", "", "target a specific method w. r. t. the given task.\n"+
		"Method names need not be fully qualified w. r. t. class name. If a simple name is\n"+
		"provided, the first method matching that name across all classes is targeted.\n")
	flag.StringVar(&(opts.output), "o", "", "Output path for generated artifacts (rewritten program, dot graph).")
	flag.UintVar(&(opts.minlen), "minlen", 2, "Minimum edge length (for wider output).")
	flag.Float64Var(&(opts.nodesep), "nodesep", 0.35, "Minimum space between two adjacent nodes in the same rank (for taller output).")
	flag.BoolVar(&(opts.noColorize), "no-colorize", false, "Disable pretty printer colorization")
	flag.BoolVar(&(opts.verbose), "verbose", false, "Enable verbose tracing of the analysis")
	flag.BoolVar(&(opts.visualize), "visualize", false, "Render the dot graph to an image via graphviz")
	flag.BoolVar(&(opts.foldArith), "fold-arithmetic", false, "Fold add-int/lit instructions with proven constant operands")
	flag.BoolVar(&(opts.replaceMoves), "replace-moves", false, "Rematerialize moves of proven constants as constant loads")
}

func ParseArgs() {
	// Calling flag.Parse in init messes up unit tests.
	flag.Parse()

	validTask := false
	for _, task := range task {
		if task.flag == opts.task {
			validTask = true
			break
		}
	}

	if !validTask {
		log.Fatalf("Value \"%s\" is not valid for -task", opts.task)
	}
}
