/*
Package symbolic implements STICK's symbolic expression graph: the Scalar
DAG a caller builds with ordinary Go arithmetic-looking calls before handing
it to the compiler.

A Scalar is one struct with a Kind enum rather than four separate node
types behind an interface, since the compiler's flatten step needs to
switch on kind anyway and a sealed sum type makes that switch
exhaustive-checkable.
*/
package symbolic

// Kind identifies a Scalar node's operation. The set is fixed by the model.
type Kind int

const (
	// KindLoad is a literal leaf: Value is meaningful, A and B are nil.
	KindLoad Kind = iota
	// KindAdd is binary addition: A and B are meaningful, Value is unused.
	KindAdd
	// KindNeg is unary negation: A is meaningful, B and Value are unused.
	KindNeg
	// KindMul is binary multiplication: A and B are meaningful, Value is unused.
	KindMul
)

func (k Kind) String() string {
	switch k {
	case KindLoad:
		return "Load"
	case KindAdd:
		return "Add"
	case KindNeg:
		return "Neg"
	case KindMul:
		return "Mul"
	default:
		return "unknown"
	}
}

// Scalar is one node of the symbolic expression DAG. Nodes are immutable
// once constructed and shared by pointer: two parents referencing the same
// *Scalar share that subexpression rather than duplicating it, and the
// compiler's Flatten step relies on exactly this pointer identity to
// instantiate a shared subexpression's subnetwork only once, covering the
// boundary case of a shared subexpression used by two parents.
type Scalar struct {
	Kind  Kind
	Value float64 // meaningful only for KindLoad
	A, B  *Scalar // operands; B is nil for KindLoad and KindNeg
}

// Load creates a literal leaf node carrying value.
func Load(value float64) *Scalar {
	return &Scalar{Kind: KindLoad, Value: value}
}

// Add creates a binary addition node.
func Add(a, b *Scalar) *Scalar {
	return &Scalar{Kind: KindAdd, A: a, B: b}
}

// Neg creates a unary negation node.
func Neg(a *Scalar) *Scalar {
	return &Scalar{Kind: KindNeg, A: a}
}

// Mul creates a binary multiplication node.
func Mul(a, b *Scalar) *Scalar {
	return &Scalar{Kind: KindMul, A: a, B: b}
}

// Sub is sugar for Add(a, Neg(b)): subtraction is not its own subnetwork,
// it reuses SignFlipper + Adder.
func Sub(a, b *Scalar) *Scalar {
	return Add(a, Neg(b))
}
