package subnet

import (
	"github.com/lagorce-stick/stick-kernel/network"
	"github.com/lagorce-stick/stick-kernel/types"
)

// NewAdderNetwork builds the subnetwork behind an Add node: signed addition
// of two header-carried magnitudes, following the Lagorce et al. 2015
// accumulate-to-threshold construction generalized with the one-shot edge
// detectors in gating.go.
//
// Each operand's own (plus, minus) pair feeds an accumulator dedicated to
// its sign — acc_pos integrates whichever of in_a/in_b fired positive,
// acc_neg whichever fired negative — via connectAccumulatorWindow, with
// operand b's contribution serialized a fixed delay (serializeDelay) after
// operand a's so the two windows never overlap (overlapping windows would
// distort the threshold-crossing time even though the total accumulated
// charge stays correct — see DESIGN.md).
//
// Both accumulators are guaranteed to eventually fire: an "epoch" one-shot,
// triggered off operand a's own first spike, unconditionally starts both
// accumulators ramping toward Vt once both operands' real contributions
// have had time to land (epochDelay), so an operand that never fired on a
// given accumulator (sum 0 on that side) still produces a crossing. The
// accumulator that crosses FIRST encodes the larger magnitude; a pair of
// winner-take-all one-shots (plus_decided / minus_decided) turn "which one
// crossed first" into the routing decision, and the LOSING accumulator's
// own (later) crossing supplies the winning side's second spike — giving
// exactly the requested output interval Tmin + |sum_pos - sum_neg|*Tcod on
// the correct polarity, with the other polarity silent.
func NewAdderNetwork(parent *network.Module, name string, p Params) (*Subnetwork, error) {
	m, err := parent.NewChild(name)
	if err != nil {
		return nil, err
	}

	inAPlus, err := p.newRelay(m, "in_a_plus")
	if err != nil {
		return nil, err
	}
	inAMinus, err := p.newRelay(m, "in_a_minus")
	if err != nil {
		return nil, err
	}
	inBPlus, err := p.newRelay(m, "in_b_plus")
	if err != nil {
		return nil, err
	}
	inBMinus, err := p.newRelay(m, "in_b_minus")
	if err != nil {
		return nil, err
	}

	edAPlus, err := p.buildEdgeDetector(m, "a_plus", inAPlus)
	if err != nil {
		return nil, err
	}
	edAMinus, err := p.buildEdgeDetector(m, "a_minus", inAMinus)
	if err != nil {
		return nil, err
	}
	edBPlus, err := p.buildEdgeDetector(m, "b_plus", inBPlus)
	if err != nil {
		return nil, err
	}
	edBMinus, err := p.buildEdgeDetector(m, "b_minus", inBMinus)
	if err != nil {
		return nil, err
	}

	accPos, err := p.newOneShot(m, "acc_pos")
	if err != nil {
		return nil, err
	}
	accNeg, err := p.newOneShot(m, "acc_neg")
	if err != nil {
		return nil, err
	}

	serializeDelay := p.serializeDelay()
	epochDelay := p.epochDelay()

	p.connectAccumulatorWindow(m, edAPlus, accPos.UID, 1, 0)
	p.connectAccumulatorWindow(m, edAMinus, accNeg.UID, 1, 0)
	p.connectAccumulatorWindow(m, edBPlus, accPos.UID, 1, serializeDelay)
	p.connectAccumulatorWindow(m, edBMinus, accNeg.UID, 1, serializeDelay)

	epoch, err := p.newOneShot(m, "epoch_start")
	if err != nil {
		return nil, err
	}
	m.Connect(edAPlus.First.UID, epoch.UID, types.ChannelV, p.relayWeight(), p.Tsyn)
	m.Connect(edAMinus.First.UID, epoch.UID, types.ChannelV, p.relayWeight(), p.Tsyn)
	m.Connect(epoch.UID, accPos.UID, types.ChannelGe, p.wacc(), epochDelay)
	m.Connect(epoch.UID, accNeg.UID, types.ChannelGe, p.wacc(), epochDelay)

	plusDecided, err := p.newOneShot(m, "plus_decided")
	if err != nil {
		return nil, err
	}
	minusDecided, err := p.newOneShot(m, "minus_decided")
	if err != nil {
		return nil, err
	}
	m.Connect(accPos.UID, plusDecided.UID, types.ChannelV, p.relayWeight(), p.Tsyn)
	m.Connect(accNeg.UID, plusDecided.UID, types.ChannelV, -p.bigWeight(), p.Tsyn)
	m.Connect(accNeg.UID, minusDecided.UID, types.ChannelV, p.relayWeight(), p.Tsyn)
	m.Connect(accPos.UID, minusDecided.UID, types.ChannelV, -p.bigWeight(), p.Tsyn)

	outPlus, err := p.newRelay(m, "out_plus")
	if err != nil {
		return nil, err
	}
	outMinus, err := p.newRelay(m, "out_minus")
	if err != nil {
		return nil, err
	}

	// out's first spike is plusDecided's own V pulse (2 hops: accPos/accNeg
	// -> plusDecided -> outPlus, each at Tsyn). Its second spike is the
	// LOSING accumulator's own (later) crossing, routed through the same
	// gated Gf pathway buildEdgeDetector uses — but since outPlus itself
	// fires (and so resets its own V/ge/gf/gate) on that first spike, the
	// Gate pulse that arms the second spike must be scheduled to land
	// strictly AFTER that reset, not bundled into the same delivery as the
	// V pulse (see DESIGN.md): sent from plusDecided (itself Tsyn after the
	// winning accumulator) with delay 2*Tsyn+Tmin/2, it lands 3*Tsyn+Tmin/2
	// after the winning crossing — after the first spike's 2*Tsyn arrival and
	// before the second spike's 2*Tsyn+Tmin one (Tsyn < Tmin/2), with margin
	// independent of how close the two accumulators' crossings are. The second spike's own delay is bumped from the naive Tsyn to
	// 2*Tsyn+Tmin: 2*Tsyn to match the first spike's own hop count (so the
	// two cancel in the interval, rather than skewing it by one hop) and
	// +Tmin so the encoded interval carries the Tmin baseline every STICK
	// interval must (Tmin + x*Tcod), matching the analogous mag/mag_ref
	// construction in multiplier.go.
	m.Connect(plusDecided.UID, outPlus.UID, types.ChannelV, p.relayWeight(), p.Tsyn)
	m.Connect(plusDecided.UID, outPlus.UID, types.ChannelGate, 1.0, 2*p.Tsyn+p.Enc.Tmin/2)
	m.Connect(accNeg.UID, outPlus.UID, types.ChannelGf, p.bigWeight(), 2*p.Tsyn+p.Enc.Tmin)

	m.Connect(minusDecided.UID, outMinus.UID, types.ChannelV, p.relayWeight(), p.Tsyn)
	m.Connect(minusDecided.UID, outMinus.UID, types.ChannelGate, 1.0, 2*p.Tsyn+p.Enc.Tmin/2)
	m.Connect(accPos.UID, outMinus.UID, types.ChannelGf, p.bigWeight(), 2*p.Tsyn+p.Enc.Tmin)

	return &Subnetwork{
		Module: m,
		Headers: Headers{
			"in_a": Header{Plus: inAPlus, Minus: inAMinus},
			"in_b": Header{Plus: inBPlus, Minus: inBMinus},
			"out":  Header{Plus: outPlus, Minus: outMinus},
		},
	}, nil
}
