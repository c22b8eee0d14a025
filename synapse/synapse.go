/*
Package synapse implements the STICK synapse: an immutable, typed
connection between two neurons that delivers a weighted effect on one of
four channels after a fixed delay.

There is no vesicle dynamics, STDP plasticity, or activity monitoring here
— STICK has no learning/plasticity and no chemical diffusion layer. The
shape that remains is a small, immutable struct plus a Deliver method that
applies its effect to target state: a stateless engine executing based on
its own configuration.
*/
package synapse

import (
	"time"

	"github.com/lagorce-stick/stick-kernel/neuron"
	"github.com/lagorce-stick/stick-kernel/types"
)

// Synapse is immutable after creation: source and target uid, channel,
// weight, and delay.
type Synapse struct {
	Source  string
	Target  string
	Channel types.Channel
	Weight  float64
	Delay   time.Duration
}

// New constructs a Synapse. Delay must be non-negative.
func New(source, target string, channel types.Channel, weight float64, delay time.Duration) Synapse {
	return Synapse{Source: source, Target: target, Channel: channel, Weight: weight, Delay: delay}
}

// Deliver applies this synapse's effect to the target neuron's state,
// per the channel semantics documented on types.Channel. It does not touch V's
// integration or gf's decay — those are the simulator's per-step update;
// Deliver only adds the synaptic contribution that the delivery queue has
// determined is due at the current step.
func (s Synapse) Deliver(target *neuron.State) {
	switch s.Channel {
	case types.ChannelV:
		target.V += s.Weight
	case types.ChannelGe:
		target.Ge += s.Weight
	case types.ChannelGf:
		target.Gf += s.Weight
	case types.ChannelGate:
		target.Gate += s.Weight
	}
}
