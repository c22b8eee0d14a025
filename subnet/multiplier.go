package subnet

import (
	"github.com/lagorce-stick/stick-kernel/network"
	"github.com/lagorce-stick/stick-kernel/types"
)

// NewSignedMultiplierNormNetwork builds the subnetwork behind a Mul node:
// normalized signed multiplication z = x*y of two magnitudes in [0,1],
// following Lagorce et al. 2015's charge/gate accumulator construction
// generalized onto the one-shot edge detectors in gating.go.
//
// Magnitude is computed independently of sign, off a shared pair of
// one-shot neurons (mag, mag_ref):
//
//   - Phase A charges mag's gf conductance at a fixed rate for the duration
//     of whichever operand a relay fired (connectWindow on ChannelGf), then
//     stops the charge — leaving gf approximately frozen (Tf is sized far
//     larger than Tcod, see DefaultParams) at a level proportional to a's
//     magnitude.
//   - Phase B opens mag's gate for the duration of whichever operand b
//     relay fired, serialized a fixed delay after phase A the same way the
//     adder serializes its two operands, so integrating the frozen gf
//     through this gated window drives V to exactly Vt*x_a*x_b by the
//     moment the gate closes.
//   - At that same gate-close moment, both mag (already holding
//     Vt*x_a*x_b*Norm) and mag_ref (holding 0) start an identical Ge ramp
//     at rate wacc. mag_ref crosses Vt after exactly one Tcod; mag, with
//     its head start, crosses (1-x_a*x_b*Norm)*Tcod sooner. Routing mag's
//     crossing as the output's first spike and mag_ref's as its second
//     (with an extra Tmin delay on the second) yields an output interval
//     of exactly Tmin + x_a*x_b*Norm*Tcod — see DESIGN.md for the full
//     derivation. Norm is the caller's max_range (Params.Norm): without it
//     the output fraction is x_a*x_b, which decodes to the true product
//     divided by max_range instead of the product itself.
//
// Sign is decided separately and much earlier (right off each operand's
// edge detectors' First events, long before mag/mag_ref's late crossings):
// four one-shot "pairAnd" neurons use halfWeight's sub/super-threshold
// split to detect the four (a sign, b sign) combinations, feeding a
// plus/minus decision pair whose arms gate mag/mag_ref's eventual output
// onto the correct polarity — the same Gf+Gate routing idiom adder.go uses.
func NewSignedMultiplierNormNetwork(parent *network.Module, name string, p Params) (*Subnetwork, error) {
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

	// --- magnitude ---

	mag, err := p.newOneShot(m, "mag")
	if err != nil {
		return nil, err
	}
	magRef, err := p.newOneShot(m, "mag_ref")
	if err != nil {
		return nil, err
	}

	serializeDelay := p.serializeDelay()

	// Phase A: charge mag's gf off whichever of a's relays fired.
	p.connectWindow(m, edAPlus, mag.UID, types.ChannelGf, p.mrate(), 0)
	p.connectWindow(m, edAMinus, mag.UID, types.ChannelGf, p.mrate(), 0)

	// Phase B: gate mag's integration off whichever of b's relays fired,
	// serialized after phase A.
	p.connectWindow(m, edBPlus, mag.UID, types.ChannelGate, 1.0, serializeDelay)
	p.connectWindow(m, edBMinus, mag.UID, types.ChannelGate, 1.0, serializeDelay)

	// At gate-close (b's Last, whichever fired), kick off the reference
	// race: both mag and mag_ref start ramping from their current V at the
	// same instant and rate.
	for _, edB := range []edgeDetector{edBPlus, edBMinus} {
		m.Connect(edB.Last.UID, mag.UID, types.ChannelGe, p.wacc(), serializeDelay)
		m.Connect(edB.Last.UID, magRef.UID, types.ChannelGe, p.wacc(), serializeDelay)
	}

	// --- sign ---

	half := p.halfWeight()

	sameA, err := p.newOneShot(m, "same_a") // a+, b+
	if err != nil {
		return nil, err
	}
	sameB, err := p.newOneShot(m, "same_b") // a-, b-
	if err != nil {
		return nil, err
	}
	mixedA, err := p.newOneShot(m, "mixed_a") // a+, b-
	if err != nil {
		return nil, err
	}
	mixedB, err := p.newOneShot(m, "mixed_b") // a-, b+
	if err != nil {
		return nil, err
	}

	m.Connect(edAPlus.First.UID, sameA.UID, types.ChannelV, half, p.Tsyn)
	m.Connect(edBPlus.First.UID, sameA.UID, types.ChannelV, half, p.Tsyn)

	m.Connect(edAMinus.First.UID, sameB.UID, types.ChannelV, half, p.Tsyn)
	m.Connect(edBMinus.First.UID, sameB.UID, types.ChannelV, half, p.Tsyn)

	m.Connect(edAPlus.First.UID, mixedA.UID, types.ChannelV, half, p.Tsyn)
	m.Connect(edBMinus.First.UID, mixedA.UID, types.ChannelV, half, p.Tsyn)

	m.Connect(edAMinus.First.UID, mixedB.UID, types.ChannelV, half, p.Tsyn)
	m.Connect(edBPlus.First.UID, mixedB.UID, types.ChannelV, half, p.Tsyn)

	plusSign, err := p.newOneShot(m, "plus_sign")
	if err != nil {
		return nil, err
	}
	minusSign, err := p.newOneShot(m, "minus_sign")
	if err != nil {
		return nil, err
	}
	m.Connect(sameA.UID, plusSign.UID, types.ChannelV, p.relayWeight(), p.Tsyn)
	m.Connect(sameB.UID, plusSign.UID, types.ChannelV, p.relayWeight(), p.Tsyn)
	m.Connect(mixedA.UID, minusSign.UID, types.ChannelV, p.relayWeight(), p.Tsyn)
	m.Connect(mixedB.UID, minusSign.UID, types.ChannelV, p.relayWeight(), p.Tsyn)

	// --- output ---

	outPlus, err := p.newRelay(m, "out_plus")
	if err != nil {
		return nil, err
	}
	outMinus, err := p.newRelay(m, "out_minus")
	if err != nil {
		return nil, err
	}

	m.Connect(plusSign.UID, outPlus.UID, types.ChannelGate, 1.0, p.Tsyn)
	m.Connect(minusSign.UID, outMinus.UID, types.ChannelGate, 1.0, p.Tsyn)

	m.Connect(mag.UID, outPlus.UID, types.ChannelGf, p.bigWeight(), p.Tsyn)
	m.Connect(magRef.UID, outPlus.UID, types.ChannelGf, p.bigWeight(), p.Tsyn+p.Enc.Tmin)
	m.Connect(mag.UID, outMinus.UID, types.ChannelGf, p.bigWeight(), p.Tsyn)
	m.Connect(magRef.UID, outMinus.UID, types.ChannelGf, p.bigWeight(), p.Tsyn+p.Enc.Tmin)

	// out's own first spike (mag's gf pulse, above) resets out's gate along
	// with the rest of its state, which would otherwise strand magRef's
	// later pulse against a closed gate. Re-arm the gate that actually won
	// the sign decision off mag's OWN firing, AND-ed against that side's
	// sign one-shot with halfWeight's sub/super-threshold split (the same
	// AND idiom sameA/sameB/mixedA/mixedB use above) so only the winning
	// polarity's gate reopens — mag fires unconditionally for both
	// magnitude phases regardless of sign, so an unconditional rearm would
	// wrongly reopen the losing side's gate too and break the XOR between
	// out_plus/out_minus. See DESIGN.md for the timing margin.
	plusRearm, err := p.newOneShot(m, "plus_rearm")
	if err != nil {
		return nil, err
	}
	minusRearm, err := p.newOneShot(m, "minus_rearm")
	if err != nil {
		return nil, err
	}
	m.Connect(plusSign.UID, plusRearm.UID, types.ChannelV, half, p.Tsyn)
	m.Connect(mag.UID, plusRearm.UID, types.ChannelV, half, p.Tsyn)
	m.Connect(minusSign.UID, minusRearm.UID, types.ChannelV, half, p.Tsyn)
	m.Connect(mag.UID, minusRearm.UID, types.ChannelV, half, p.Tsyn)

	m.Connect(plusRearm.UID, outPlus.UID, types.ChannelGate, 1.0, p.Tsyn)
	m.Connect(minusRearm.UID, outMinus.UID, types.ChannelGate, 1.0, p.Tsyn)

	return &Subnetwork{
		Module: m,
		Headers: Headers{
			"in_a": Header{Plus: inAPlus, Minus: inAMinus},
			"in_b": Header{Plus: inBPlus, Minus: inBMinus},
			"out":  Header{Plus: outPlus, Minus: outMinus},
		},
	}, nil
}
