package utils

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func TimeTrack(start time.Time, name string) {
	fmt.Printf("%s took %s\n", name, time.Since(start))
}

func VerbosePrint(format string, a ...interface{}) (n int, err error) {
	if Opts().Verbose() {
		return fmt.Printf(format, a...)
	}
	return 0, nil
}

// CanColorize wraps a color.SprintFunc so that colorization can be
// globally disabled with -no-colorize.
func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			return fmt.Sprintf(strings.Repeat("%s", len(is)), is...)
		}
	}
	return col
}

// MakePath returns the positional program path argument, if given.
func MakePath() (path string) {
	args := flag.Args()
	if len(args) >= 1 {
		path = args[0]
	} else {
		fmt.Fprintln(os.Stderr, "no program file given")
		os.Exit(1)
	}

	return
}
