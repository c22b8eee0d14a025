/*
Package neuron implements the STICK multi-conductance neuron model: a
threshold unit integrated under four conductances (V, ge, gf, gate) by
forward Euler, firing an all-or-nothing spike when V crosses Vt.

STICK's neuron is a plain value rather than a long-running process: its
identity and fixed parameters live on *Neuron, while its time-varying state
(V, ge, gf, gate, lastSpikeTime) is held in simulator-owned state vectors
keyed by uid (see package simulator). This split lets the simulator replay
a network deterministically and in isolation from whatever the caller does
with the shared *Neuron descriptors between runs.

BIOLOGICAL INSPIRATION (trimmed to what STICK actually models):
  - V accumulates charge like a membrane potential.
  - ge is a constant-current conductance: it contributes a fixed slope to
    dV/dt for as long as it is nonzero.
  - gf is a fast, exponentially decaying conductance; it only contributes
    to dV/dt while the multiplicative gate is open.
  - gate is not itself integrated into V — it scales gf's contribution.
  - Threshold crossing is all-or-nothing: V resets to 0 and every outgoing
    synapse is enqueued for delivery after its delay.
*/
package neuron

import (
	"fmt"
	"time"

	"github.com/lagorce-stick/stick-kernel/types"
)

// Params holds a neuron's fixed, simulation-time-invariant parameters.
type Params struct {
	// Vt is the firing threshold on V.
	Vt float64
	// Tm is the membrane time constant governing dV/dt.
	Tm time.Duration
	// Tf is the fast synapse time constant governing gf's decay.
	Tf time.Duration
	// Refractory is the minimum wall-clock gap the simulator enforces
	// between consecutive spikes of this neuron. Zero (the default used by
	// every neuron/synapse/network-level neuron) imposes no gap. The
	// subnet package's internal gating neurons set this far longer than any
	// single computation can run, turning them into one-shot edge
	// detectors — see subnet/gating.go.
	Refractory time.Duration
}

// Validate checks Vt, Tm, Tf > 0, returning types.ErrInvalidNeuronConfig
// otherwise.
func (p Params) Validate() error {
	if p.Vt <= 0 || p.Tm <= 0 || p.Tf <= 0 {
		return fmt.Errorf("%w: Vt=%v Tm=%v Tf=%v", types.ErrInvalidNeuronConfig, p.Vt, p.Tm, p.Tf)
	}
	return nil
}

// DefaultParams returns fixed parameters: Vt=1, Tm=Tf=1ms, no refractory
// gap. They are not derived from any Encoder; the subnet package builds its
// own Encoder-sized Params. Components that need nonstandard Vt/Tm/Tf build
// Params directly.
func DefaultParams() Params {
	return Params{Vt: 1.0, Tm: time.Millisecond, Tf: time.Millisecond}
}

// Neuron is the stable, shared descriptor for one neuron: its network-wide
// unique uid, optional human name, and fixed parameters. It carries no
// mutable simulation state — see package simulator.
type Neuron struct {
	UID    string
	Name   string
	Params Params
}

// New validates params and returns a Neuron with the given uid and display
// name. uid is assigned by the owning network.Module (the dotted module
// path + local name); New does not itself enforce uniqueness — that is
// network.Module's job, which is why ErrDuplicateUid is a network-model
// error, not a neuron error.
func New(uid, name string, params Params) (*Neuron, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Neuron{UID: uid, Name: name, Params: params}, nil
}

// State is the per-step mutable state of a neuron during simulation:
// membrane voltage, the two conductances, the multiplicative gate level,
// and the wall-clock (simulated) time of the neuron's most recent spike.
// It is never stored on *Neuron — the simulator owns one State per uid.
type State struct {
	V             float64
	Ge            float64
	Gf            float64
	Gate          float64
	LastSpikeTime time.Duration
	HasSpiked     bool
}

// Reset zeroes V, Ge, Gf, and Gate, modeling the instantaneous reset that
// follows spike emission.
func (s *State) Reset() {
	s.V = 0
	s.Ge = 0
	s.Gf = 0
	s.Gate = 0
}
