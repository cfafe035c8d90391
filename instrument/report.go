package instrument

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/finch-opt/finch/ir"
	"github.com/finch-opt/finch/utils"
)

// WriteMethodIndex writes the id-to-method mapping of an
// instrumentation run. Row i holds the method instrumented with id
// i+1, so the analysis runtime can resolve counter slots back to
// method names.
func WriteMethodIndex(w io.Writer, methods []*ir.Method) error {
	for i, m := range methods {
		if _, err := fmt.Fprintf(w, "%d, %s\n", i+1, m.Show()); err != nil {
			return err
		}
	}
	return nil
}

// WriteMethodIndexFile writes the method index to a file, truncating
// any previous contents.
func WriteMethodIndexFile(path string, methods []*ir.Method) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	if err := WriteMethodIndex(w, methods); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	utils.VerbosePrint("method index file was written to: %s\n", path)
	return f.Close()
}
