package subnet

import (
	"github.com/lagorce-stick/stick-kernel/network"
)

// InjectorNetwork is the trivial subnetwork backing a Load leaf: its plus
// and minus neurons ARE the plug the compiler's InputTrigger stage drives
// directly, so the whole subnetwork is just two relay neurons exposed as
// the "out" header — there is nothing to compute, only somewhere for an
// external spike pair to land and fan out from.
func NewInjectorNetwork(parent *network.Module, name string, p Params) (*Subnetwork, error) {
	m, err := parent.NewChild(name)
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
	return &Subnetwork{
		Module: m,
		Headers: Headers{
			"out": Header{Plus: outPlus, Minus: outMinus},
		},
	}, nil
}
