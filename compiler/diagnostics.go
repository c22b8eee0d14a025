package compiler

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Diagnostics accumulates the compiler's per-stage debug lines so a caller
// building a topology viewer has something to render without re-deriving
// it from logrus output. Every line recorded here is also logged through
// logrus at debug level; Diagnostics never carries anything that matters
// for correctness, only for observability.
type Diagnostics struct {
	Lines []string
}

func (d *Diagnostics) record(log *logrus.Entry, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	d.Lines = append(d.Lines, msg)
	log.Debug(msg)
}
