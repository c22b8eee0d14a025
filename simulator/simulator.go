/*
Package simulator implements STICK's discrete-time numerical core: forward-
Euler integration of the multi-conductance neuron model, a synapse delivery
priority queue, and the spike/voltage logs the compiler's ExecutionPlan and
the encoder's decoding contract are read against.

Simulator is a single synchronous loop over plain state vectors keyed by
uid, rather than one goroutine per neuron: replay must produce bitwise-
identical spike logs across runs with identical inputs, a property a
goroutine scheduling order would have to re-earn with explicit barriers on
every step. Neuron identity (*neuron.Neuron) stays a small, immutable
descriptor, and all per-run mutable state lives somewhere else entirely —
here, in the Simulator's own state vectors, never on the shared descriptor
(see neuron/neuron.go's Neuron/State split).
*/
package simulator

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lagorce-stick/stick-kernel/compiler"
	"github.com/lagorce-stick/stick-kernel/encoder"
	"github.com/lagorce-stick/stick-kernel/network"
	"github.com/lagorce-stick/stick-kernel/neuron"
	"github.com/lagorce-stick/stick-kernel/synapse"
	"github.com/lagorce-stick/stick-kernel/types"
)

// VoltagePoint is one sample of the optional voltage trace: voltage_log[uid]
// -> list[(t,V)].
type VoltagePoint struct {
	Time time.Duration
	V    float64
}

// Simulator advances a network.Module's neurons under discrete-time
// forward-Euler integration. Construct with New or InitWithPlan; the zero
// value is not usable.
type Simulator struct {
	Module *network.Module
	Enc    *encoder.Encoder
	Dt     time.Duration

	// RecordVoltage, when true, appends a VoltagePoint for every neuron on
	// every step. Off by default: most callers only need the spike log to
	// decode a result.
	RecordVoltage bool

	RunID uuid.UUID

	uids        []string // sorted once at construction, for deterministic iteration
	states      map[string]*neuron.State
	params      map[string]neuron.Params
	outSynapses map[string][]synapse.Synapse

	pq  *deliveryQueue
	seq uint64

	spikeLog   map[string][]time.Duration
	voltageLog map[string][]VoltagePoint

	log *logrus.Entry
}

// New builds a Simulator over mod's full neuron/synapse tree (network.Module.
// AllNeurons/AllSynapses), with its own per-uid state vectors isolated from
// the shared *neuron.Neuron descriptors.
func New(mod *network.Module, enc *encoder.Encoder, dt time.Duration) *Simulator {
	s := &Simulator{
		Module:     mod,
		Enc:        enc,
		Dt:         dt,
		RunID:      uuid.New(),
		spikeLog:   make(map[string][]time.Duration),
		voltageLog: make(map[string][]VoltagePoint),
		pq:         newDeliveryQueue(),
	}
	s.log = logrus.WithFields(logrus.Fields{"component": "simulator", "run_id": s.RunID})
	s.index()
	return s
}

// InitWithPlan loads a compiled ExecutionPlan into a fresh Simulator and
// registers its input triggers: the plan's network becomes the simulated
// module, and every InputTrigger is applied immediately via
// ApplyInputValue.
func InitWithPlan(plan *compiler.ExecutionPlan, enc *encoder.Encoder, dt time.Duration) *Simulator {
	s := New(plan.Module, enc, dt)
	for _, trig := range plan.Triggers {
		s.ApplyInputValue(trig.Value, trig.Target, trig.T0)
	}
	return s
}

func (s *Simulator) index() {
	neurons := s.Module.AllNeurons()
	s.states = make(map[string]*neuron.State, len(neurons))
	s.params = make(map[string]neuron.Params, len(neurons))
	s.uids = make([]string, 0, len(neurons))
	for uid, n := range neurons {
		s.states[uid] = &neuron.State{}
		s.params[uid] = n.Params
		s.uids = append(s.uids, uid)
	}
	sort.Strings(s.uids)

	s.outSynapses = make(map[string][]synapse.Synapse)
	for _, syn := range s.Module.AllSynapses() {
		s.outSynapses[syn.Source] = append(s.outSynapses[syn.Source], syn)
	}
}

// triggerEpsilonFrac is the margin added to Vt for an external trigger:
// injected as V += Vt + epsilon. Expressed relative to the target
// neuron's own Vt so it scales with whatever threshold the network uses.
const triggerEpsilonFrac = 1e-6

// ApplyInputValue injects an external spike pair onto target: a spike at t0
// and a second at t0+encode(value), so the interval between them carries
// value (already normalized to [0,1]; sign is expressed by which of a
// header's two neurons the caller passes as target, not by this method).
func (s *Simulator) ApplyInputValue(value float64, target *neuron.Neuron, t0 time.Duration) {
	weight := target.Params.Vt * (1 + triggerEpsilonFrac)
	interval := s.Enc.EncodeInterval(value)
	s.enqueue(t0, target.UID, types.ChannelV, weight)
	s.enqueue(t0+interval, target.UID, types.ChannelV, weight)
}

func (s *Simulator) enqueue(t time.Duration, target string, ch types.Channel, weight float64) {
	s.seq++
	s.pq.push(&delivery{time: t, seq: s.seq, target: target, channel: ch, weight: weight})
}

// Simulate advances simulated time from 0 to simulationTime in steps of Dt,
// a pure synchronous loop over floor(simulationTime/Dt) steps. It returns
// types.ErrSimulationDiverged, wrapped with the
// offending uid and step time, if any neuron's voltage becomes non-finite;
// the spike log accumulated up to that point remains valid and readable.
func (s *Simulator) Simulate(simulationTime time.Duration) error {
	steps := int64(simulationTime / s.Dt)
	dtf := float64(s.Dt)

	for step := int64(0); step < steps; step++ {
		t := time.Duration(step) * s.Dt
		s.deliverDue(t)

		var firing []string
		for _, uid := range s.uids {
			st := s.states[uid]
			p := s.params[uid]

			st.V += (st.Ge + st.Gate*st.Gf) / float64(p.Tm) * dtf
			st.Gf += -st.Gf / float64(p.Tf) * dtf

			if math.IsNaN(st.V) || math.IsInf(st.V, 0) {
				s.log.WithFields(logrus.Fields{"uid": uid, "t": t}).Warn("simulation diverged")
				return errors.Wrapf(types.ErrSimulationDiverged, "neuron %s at t=%v", uid, t)
			}

			if st.V >= p.Vt {
				if !st.HasSpiked || t-st.LastSpikeTime >= p.Refractory {
					firing = append(firing, uid)
				}
			}
		}

		for _, uid := range firing {
			st := s.states[uid]
			s.spikeLog[uid] = append(s.spikeLog[uid], t)
			st.HasSpiked = true
			st.LastSpikeTime = t
			for _, syn := range s.outSynapses[uid] {
				s.enqueue(t+syn.Delay, syn.Target, syn.Channel, syn.Weight)
			}
			st.Reset()
		}

		if s.RecordVoltage {
			for _, uid := range s.uids {
				s.voltageLog[uid] = append(s.voltageLog[uid], VoltagePoint{Time: t, V: s.states[uid].V})
			}
		}
	}
	return nil
}

// deliverDue applies every pending synapse delivery scheduled at or before
// t, in FIFO order within t, before that step's integration.
func (s *Simulator) deliverDue(t time.Duration) {
	for {
		dt, ok := s.pq.peekTime()
		if !ok || dt > t {
			return
		}
		d := s.pq.pop()
		st, ok := s.states[d.target]
		if !ok {
			continue
		}
		switch d.channel {
		case types.ChannelV:
			st.V += d.weight
		case types.ChannelGe:
			st.Ge += d.weight
		case types.ChannelGf:
			st.Gf += d.weight
		case types.ChannelGate:
			st.Gate += d.weight
		}
	}
}

// UIDs returns every neuron uid in the simulated network, sorted
// lexicographically — the same fixed order integration and tie-breaking
// use, handy for callers (e.g. package export) that want a deterministic
// enumeration.
func (s *Simulator) UIDs() []string {
	out := make([]string, len(s.uids))
	copy(out, s.uids)
	return out
}

// SpikeLog returns the ascending spike times recorded for uid.
func (s *Simulator) SpikeLog(uid string) []time.Duration { return s.spikeLog[uid] }

// VoltageLog returns the recorded voltage trace for uid (empty unless
// RecordVoltage was set before Simulate).
func (s *Simulator) VoltageLog(uid string) []VoltagePoint { return s.voltageLog[uid] }

// Decode applies the output contract to an OutputReader: whichever
// of r.Plus/r.Minus recorded exactly two spikes determines sign, and the
// decoded magnitude is enc.decode(interval)*maxRange. Returns
// types.ErrUndecodableOutput if both or neither side has exactly two
// spikes.
func (s *Simulator) Decode(r compiler.OutputReader, maxRange float64) (float64, types.Sign, error) {
	plus := s.spikeLog[r.Plus.UID]
	minus := s.spikeLog[r.Minus.UID]
	plusOK := len(plus) == 2
	minusOK := len(minus) == 2

	switch {
	case plusOK && !minusOK:
		return s.Enc.DecodeInterval(plus[1]-plus[0]) * maxRange, types.Positive, nil
	case minusOK && !plusOK:
		return s.Enc.DecodeInterval(minus[1]-minus[0]) * maxRange, types.Negative, nil
	default:
		return 0, 0, errors.Wrapf(types.ErrUndecodableOutput, "plus spikes=%d minus spikes=%d", len(plus), len(minus))
	}
}

// DecodePlan is Decode specialized to an ExecutionPlan's own reader and
// max_range, the common case of reading back a compiled computation.
func (s *Simulator) DecodePlan(plan *compiler.ExecutionPlan) (float64, types.Sign, error) {
	return s.Decode(plan.Reader, plan.MaxRange)
}
