/*
Package subnet implements STICK's subnetwork library: fixed neuron-and-
synapse templates that realize one arithmetic primitive apiece (Load relay,
sign flip, addition, multiplication) entirely out of the four-channel
synapse model in package synapse and the forward-Euler neuron in package
neuron — no subnetwork here special-cases the simulator, and none needs to.

Each subnetwork is a reusable circuit built out of neurons and synapses and
exposed through named ports, the same shape a cortical-column or
microcircuit constructor would use. The exponential/logarithmic accumulator
construction used by AdderNetwork and SignedMultiplierNormNetwork follows
Lagorce, Ietswaart & Benosman (2015) "STICK: spike time interval
computational kernel".

Every subnetwork exposes its ports as a Headers map: named plugs, each a
(plus, minus) neuron pair carrying one signed value under the signed-
interval convention. The compiler (package compiler) is the only caller that
wires a Subnetwork's "in" plugs to an upstream "out" plug — a subnetwork
constructor only ever wires its OWN internal neurons.
*/
package subnet

import (
	"time"

	"github.com/lagorce-stick/stick-kernel/encoder"
	"github.com/lagorce-stick/stick-kernel/network"
	"github.com/lagorce-stick/stick-kernel/neuron"
)

// Header is one signed plug: exactly one of Plus, Minus ever carries a
// spike pair in a given computation ("signed interval coding").
type Header struct {
	Plus  *neuron.Neuron
	Minus *neuron.Neuron
}

// Headers maps a plug name ("in_a", "in_b", "out", ...) to its Header.
type Headers map[string]Header

// Subnetwork is a constructed subnetwork instance: the module that owns its
// neurons/synapses, and its named plugs.
type Subnetwork struct {
	Module  *network.Module
	Headers Headers
}

// Params bundles the shared sizing constants every subnetwork constructor
// needs: the Vt all internal neurons fire at, the membrane/fast time
// constants, the Encoder whose (Tmin, Tcod) define the interval code plugs
// carry values in, and Norm — the caller-supplied normalisation constant
// (spec.md's max_range) SignedMultiplierNormNetwork scales its product by.
type Params struct {
	Enc *encoder.Encoder
	Vt  float64
	Tm  time.Duration
	Tf  time.Duration
	// Tsyn is the fixed wiring delay used between neurons inside a
	// subnetwork; the compiler also uses this same value for its
	// inter-module wiring. Small relative to Tmin so the gating order
	// arguments in gating.go hold with margin.
	Tsyn time.Duration
	// Norm is the normalisation constant (max_range) every plug's fraction
	// is implicitly divided by before it reaches this subnetwork. Add and
	// Neg are linear and need no correction, but a Mul of two such
	// fractions divides the true product by Norm twice over, so
	// SignedMultiplierNormNetwork's accumulator (mrate, below) multiplies
	// its rate by Norm to cancel one factor back out. Defaults to 1 (no
	// correction) via DefaultParams; CompileComputation overrides it with
	// the caller's max_range.
	Norm float64
}

// DefaultParams derives a Params from an Encoder using the sizing the
// accumulator/gating primitives in this package were designed against:
// Tm small relative to Tmin (pure-integrator accumulation is insensitive to
// its exact value, see connectAccumulatorWindow in gating.go), Tf large relative to Tcod
// (so the multiplier's exponential discharge is well inside its linear
// regime, see multiplier.go), Tsyn a tenth of Tmin, Norm unset (1.0, i.e.
// SignedMultiplierNormNetwork computes a plain x*y over fractions in
// [0,1] unless the caller overrides Norm).
func DefaultParams(enc *encoder.Encoder) Params {
	return Params{
		Enc:  enc,
		Vt:   1.0,
		Tm:   enc.Tmin / 10,
		Tf:   enc.Tcod * 100,
		Tsyn: enc.Tmin / 10,
		Norm: 1.0,
	}
}

func (p Params) neuronParams() neuron.Params {
	return neuron.Params{Vt: p.Vt, Tm: p.Tm, Tf: p.Tf}
}

// wacc is the conductance that, held on Ge for a duration Tcod, raises V
// from 0 to exactly Vt: wacc = Vt*Tm/Tcod, so that
// dV/dt = wacc/Tm = Vt/Tcod integrates to Vt over one Tcod.
func (p Params) wacc() float64 {
	return p.Vt * float64(p.Tm) / float64(p.Enc.Tcod)
}

// mrate is the Gf charging rate SignedMultiplierNormNetwork uses to turn
// one operand's window duration into a held gf amplitude proportional to
// that operand's magnitude: charging at mrate for a duration x*Tcod (via
// connectWindow, decay negligible since Tf >> Tcod) leaves gf approximately
// equal to mrate*x*Tcod. Chosen so that subsequently integrating that held
// gf through a second Tcod-scaled gated window (the other operand's) lands
// V at exactly Vt*x_a*x_b*Norm: mrate = Vt*Tm*Norm/Tcod^2, since
// (mrate*x_a*Tcod/Tm) * (x_b*Tcod) = Vt*x_a*x_b*Norm. The extra Norm factor
// is what makes a composed Add-then-Mul DAG decode to the correct
// arithmetic product rather than the product divided by max_range twice
// over — see Params.Norm and DESIGN.md.
func (p Params) mrate() float64 {
	tcod := float64(p.Enc.Tcod)
	return p.Vt * float64(p.Tm) * p.Norm / (tcod * tcod)
}

// bigWeight is a conductance large enough to move V (or a gated gf
// contribution) across threshold within a single simulation step,
// regardless of dt, for the "digital" relay/gating neurons built in
// gating.go. It is expressed relative to Vt so it scales with whatever
// threshold the caller's Params uses.
func (p Params) bigWeight() float64 {
	return p.Vt * 1e6
}

// operandMargin is the fixed safety margin AdderNetwork and
// SignedMultiplierNormNetwork both add on top of an operand's maximum
// possible window duration (Tcod) when sequencing two phases so they never
// overlap: large enough to absorb the Tsyn/windowOffset setup latency
// buildEdgeDetector and connectWindow bake into every window's start, small
// relative to Tcod so a two-phase (Add) or three-phase (Mul, whose mag/
// magRef race is itself gated by a serialized a/b pair) pipeline still
// completes within a handful of multiples of Tcod rather than blowing up
// combinatorially with each added operation.
func (p Params) operandMargin() time.Duration {
	return 4 * p.Enc.Tmin
}

// serializeDelay is the delay both subnetworks use to push operand b's
// window (or phase B) safely after operand a's (or phase A's) has closed,
// regardless of a's actual magnitude: a's own window lasts at most Tcod
// (x=1), so Tcod+operandMargin always clears it with room to spare.
func (p Params) serializeDelay() time.Duration {
	return p.Enc.Tcod + p.operandMargin()
}

// epochDelay is AdderNetwork's delay from its epoch-start one-shot (armed
// off operand a's own first spike, near the very beginning of the
// computation) to the point it is safe to start both accumulators'
// unconditional Ge ramp: after both operand windows — a, then the
// serialized b — have certainly closed.
func (p Params) epochDelay() time.Duration {
	return 2 * p.serializeDelay()
}
