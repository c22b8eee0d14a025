package subnet

import (
	"github.com/lagorce-stick/stick-kernel/network"
	"github.com/lagorce-stick/stick-kernel/types"
)

// NewSignFlipperNetwork builds the subnetwork behind a Neg node: negation
// is pure crossed wiring, no arithmetic circuit needed. Whichever of in's
// two relays receives the upstream spike pair, its timing is routed to the
// OPPOSITE polarity on out — a value carried on in.minus re-emerges on
// out.plus with the identical interval, and vice versa.
func NewSignFlipperNetwork(parent *network.Module, name string, p Params) (*Subnetwork, error) {
	m, err := parent.NewChild(name)
	if err != nil {
		return nil, err
	}

	inPlus, err := p.newRelay(m, "in_plus")
	if err != nil {
		return nil, err
	}
	inMinus, err := p.newRelay(m, "in_minus")
	if err != nil {
		return nil, err
	}
	outPlus, err := p.newRelay(m, "out_plus")
	if err != nil {
		return nil, err
	}
	outMinus, err := p.newRelay(m, "out_minus")
	if err != nil {
		return nil, err
	}

	m.Connect(inMinus.UID, outPlus.UID, types.ChannelV, p.relayWeight(), p.Tsyn)
	m.Connect(inPlus.UID, outMinus.UID, types.ChannelV, p.relayWeight(), p.Tsyn)

	return &Subnetwork{
		Module: m,
		Headers: Headers{
			"in":  Header{Plus: inPlus, Minus: inMinus},
			"out": Header{Plus: outPlus, Minus: outMinus},
		},
	}, nil
}
