package subnet

import (
	"time"

	"github.com/lagorce-stick/stick-kernel/network"
	"github.com/lagorce-stick/stick-kernel/neuron"
	"github.com/lagorce-stick/stick-kernel/types"
)

// The gating primitives below give every multi-spike subnetwork (AdderNetwork,
// SignedMultiplierNormNetwork) a way to tell a relay neuron's FIRST spike
// apart from its SECOND without any notion of "spike count" in the generic
// neuron/simulator packages: a neuron that must fire at most once uses a
// Refractory longer than any single computation can run (oneShotParams),
// and "did the second spike, not the first, just arrive" is answered by
// racing a same-step gate-arm signal against a deliberately later direct
// pulse — see buildEdgeDetector.

// oneShotParams returns neuron.Params identical to the subnetwork's own
// except for a refractory period far longer than any run_time a caller
// could plausibly simulate, turning repeated super-threshold input into a
// single spike.
func (p Params) oneShotParams() neuron.Params {
	np := p.neuronParams()
	np.Refractory = p.Enc.Tmin * 1_000_000
	return np
}

// relayWeight is the V-channel weight used to make a single incoming spike
// reliably cross a oneShotParams neuron's threshold.
func (p Params) relayWeight() float64 { return p.Vt * 1.5 }

// halfWeight is sized so that one pairAnd input alone (0.6*Vt) leaves the
// target sub-threshold, while both of a matched pair (1.2*Vt) cross it —
// used by multiplier.go's sign logic to AND two independent one-shot
// events onto a single target without a dedicated multi-input primitive.
func (p Params) halfWeight() float64 { return p.Vt * 0.6 }

// newRelay creates a plain (non-one-shot) threshold neuron: fires on every
// super-threshold input, resetting in between. Used for header plugs and
// pass-through ports, which must fire exactly twice per computation.
func (p Params) newRelay(m *network.Module, name string) (*neuron.Neuron, error) {
	return m.NewNeuron(name, p.neuronParams())
}

// newOneShot creates a neuron that fires at most once per computation.
func (p Params) newOneShot(m *network.Module, name string) (*neuron.Neuron, error) {
	return m.NewNeuron(name, p.oneShotParams())
}

// edgeDetector is the (first, last) one-shot pair produced by
// buildEdgeDetector for a single relay neuron.
type edgeDetector struct {
	First *neuron.Neuron
	Last  *neuron.Neuron
}

// buildEdgeDetector wires a one-shot "First" neuron (fires on relay's
// earliest spike and never again) and a one-shot "Last" neuron (fires on
// relay's second spike, ignoring its first) off of a relay neuron that is
// known to fire exactly twice during a computation.
//
// Construction: First fires directly off relay (delay tsyn). Every one of
// relay's spikes also sends a large, unconditional pulse on the gf channel
// straight to Last (delay tsyn+tmin) — but gf accumulates independently of
// Last's gate, so the earliest spike's own pulse would still be resident
// (Tf is deliberately long, see DefaultParams) by the time the gate opens
// and would trigger a spurious fire off that first spike alone. First's own
// spike therefore both arms Last's gate AND cancels that first-spike gf
// contribution with an equal, opposite pulse, both at the same delay
// (tmin*1.5 after First fires) — landing strictly after the first spike's
// own gf pulse has arrived (tmin*1.5 > tmin) but strictly before a second
// spike's gf pulse can possibly arrive (tmin*1.5 < 2*tmin, since the gap
// between any two of a header's spikes is always >= tmin, the interval
// code having no shorter interval). Net effect: Last's gf returns to ~0 and
// its gate opens at tmin*1.5 after First fires, inert until a genuinely
// later spike's own gf pulse lands. See DESIGN.md for the derivation and
// the resulting fixed timing offset (tmin) that callers must subtract back
// out of any measured window.
func (p Params) buildEdgeDetector(m *network.Module, prefix string, relay *neuron.Neuron) (edgeDetector, error) {
	tsyn := p.Tsyn
	tmin := p.Enc.Tmin
	armDelay := time.Duration(float64(tmin) * 1.5)

	first, err := p.newOneShot(m, prefix+"_first")
	if err != nil {
		return edgeDetector{}, err
	}
	last, err := p.newOneShot(m, prefix+"_last")
	if err != nil {
		return edgeDetector{}, err
	}

	m.Connect(relay.UID, first.UID, types.ChannelV, p.relayWeight(), tsyn)
	m.Connect(relay.UID, last.UID, types.ChannelGf, p.bigWeight(), tsyn+tmin)
	m.Connect(first.UID, last.UID, types.ChannelGate, 1.0, armDelay)
	m.Connect(first.UID, last.UID, types.ChannelGf, -p.bigWeight(), armDelay)

	return edgeDetector{First: first, Last: last}, nil
}

// windowOffset is the extra delay connectAccumulatorWindow puts on First's
// own contribution (on top of First's fire time) so that the resulting Ge
// window spans exactly the relay's true interval minus Tmin (i.e. x*Tcod
// for a relay encoding magnitude x), rather than the raw gap between
// First's and Last's fire times: First fires tsyn after relay's first
// spike; Last fires tsyn+tmin after relay's second spike and closes the
// window immediately (zero extra delay) — so First's contribution needs an
// extra 2*tmin to cancel both that tsyn/tmin construction bias and the
// Tmin baseline every encoded interval carries. See DESIGN.md.
func (p Params) windowOffset() time.Duration { return 2 * p.Enc.Tmin }

// connectWindow wires an edgeDetector's First/Last pair onto a target
// neuron's conductance so that channel is held at amplitude for exactly
// the duration of the relay's own two-spike interval minus Tmin (i.e.
// x*Tcod for a relay encoding magnitude x), with an additional fixed
// extraDelay applied uniformly to both edges (used to serialize one
// operand's contribution after another's).
func (p Params) connectWindow(m *network.Module, ed edgeDetector, targetUID string, channel types.Channel, amplitude float64, extraDelay time.Duration) {
	m.Connect(ed.First.UID, targetUID, channel, amplitude, extraDelay+p.windowOffset())
	m.Connect(ed.Last.UID, targetUID, channel, -amplitude, extraDelay)
}

// connectAccumulatorWindow is connectWindow specialized to the Ge channel,
// used by AdderNetwork's sum accumulators.
func (p Params) connectAccumulatorWindow(m *network.Module, ed edgeDetector, accUID string, sign float64, extraDelay time.Duration) {
	p.connectWindow(m, ed, accUID, types.ChannelGe, sign*p.wacc(), extraDelay)
}
