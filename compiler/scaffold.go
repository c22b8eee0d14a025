/*
Package compiler implements STICK's symbolic-to-spiking lowering: a
six-stage pipeline (flatten, spawn/instantiate, fill, wire, triggers,
reader) turning a symbolic.Scalar DAG into an ExecutionPlan the simulator
package can run.

CompileComputation is written as a sequence of named stages, each marked by
a numbered stage comment inside the one function, the same way a
component's dendritic tree, soma, and axon might be built as separate
construction steps.
*/
package compiler

import (
	"fmt"

	"github.com/lagorce-stick/stick-kernel/subnet"
	"github.com/lagorce-stick/stick-kernel/symbolic"
)

// inputPlugsFor returns the ordered plug names an operation kind's operands
// bind to, matching the fixed plug schema: Load{}, Neg{in}, Add{in_a,
// in_b}, Mul{in_a, in_b}. Every kind also exposes an "out" plug, handled
// separately since it is never an operand binding.
func inputPlugsFor(kind symbolic.Kind) []string {
	switch kind {
	case symbolic.KindNeg:
		return []string{"in"}
	case symbolic.KindAdd, symbolic.KindMul:
		return []string{"in_a", "in_b"}
	default:
		return nil
	}
}

// OpModuleScaffold is a compilation intermediate bound to one DAG node: its
// operation kind, the instantiated subnetwork backing it, and that
// subnetwork's named plugs (resolved after Fill to concrete neuron
// headers).
type OpModuleScaffold struct {
	Node    *symbolic.Scalar
	Kind    symbolic.Kind
	Ordinal int
	Subnet  *subnet.Subnetwork
	Plugs   map[string]subnet.Header
}

// childName is the scaffold's module name under the top-level module,
// unique by construction since ordinal is assigned once per distinct node
// during Flatten: uniqueness of child names is ensured by appending the
// scaffold's ordinal.
func (s *OpModuleScaffold) childName() string {
	return fmt.Sprintf("%s_%d", kindTag(s.Kind), s.Ordinal)
}

func kindTag(k symbolic.Kind) string {
	switch k {
	case symbolic.KindLoad:
		return "load"
	case symbolic.KindAdd:
		return "add"
	case symbolic.KindNeg:
		return "neg"
	case symbolic.KindMul:
		return "mul"
	default:
		return "op"
	}
}

// Connection is a wiring directive produced by Flatten: an edge from one
// scaffold's "out" plug to a consumer scaffold's named input plug.
type Connection struct {
	From   *OpModuleScaffold
	To     *OpModuleScaffold
	ToPlug string
}
