package compiler

import (
	"time"

	"github.com/lagorce-stick/stick-kernel/network"
	"github.com/lagorce-stick/stick-kernel/neuron"
	"github.com/lagorce-stick/stick-kernel/types"
)

// InputTrigger is a compile-time-derived instruction to inject an external
// spike pair onto one Load node's injector: the
// simulator applies it at T0 and again at T0+encode(|Value|), on whichever
// of Target's plus/minus neuron the Sign selects.
type InputTrigger struct {
	Value  float64 // normalized magnitude in [0,1], already divided by max_range
	Sign   types.Sign
	Target *neuron.Neuron // the injector neuron the sign selects (plus or minus)
	T0     time.Duration
}

// OutputReader is the (plus, minus) neuron pair the root scaffold's "out"
// plug resolves to. Decoding it is the simulator's job (package
// simulator's Decode), since only the simulator holds the spike log.
type OutputReader struct {
	Plus  *neuron.Neuron
	Minus *neuron.Neuron
}

// ExecutionPlan is the immutable artifact CompileComputation produces:
// the top-level network module, every input trigger, the output reader,
// and the max_range scale the caller compiled against.
type ExecutionPlan struct {
	Module      *network.Module
	Triggers    []InputTrigger
	Reader      OutputReader
	MaxRange    float64
	Diagnostics Diagnostics
}
