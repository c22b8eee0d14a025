package compiler

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lagorce-stick/stick-kernel/encoder"
	"github.com/lagorce-stick/stick-kernel/network"
	"github.com/lagorce-stick/stick-kernel/subnet"
	"github.com/lagorce-stick/stick-kernel/symbolic"
	"github.com/lagorce-stick/stick-kernel/types"
)

// config collects CompileComputation's optional knobs.
type config struct {
	loadTimes map[*symbolic.Scalar]time.Duration
	logger    *logrus.Logger
}

// Option configures a single CompileComputation call.
type Option func(*config)

// WithLoadTime sets the absolute injection time t0 for a specific Load
// node (an InputTrigger's caller-chosen t0). Load nodes not given
// an explicit time inject at t0=0.
func WithLoadTime(node *symbolic.Scalar, t0 time.Duration) Option {
	return func(c *config) { c.loadTimes[node] = t0 }
}

// WithLogger overrides the logrus.Logger diagnostics are recorded through.
// Defaults to logrus.StandardLogger().
func WithLogger(l *logrus.Logger) Option {
	return func(c *config) { c.logger = l }
}

// CompileComputation lowers root into a spiking network and returns the
// ExecutionPlan the simulator consumes, following a six-stage pipeline:
// flatten, spawn each scaffold's subnetwork (instantiation is the
// subnetwork constructor attaching itself as a child of top in the same
// step — see DESIGN.md for why this repository merges "spawn" and
// "instantiate" rather than keeping them as two passes), fill plugs, wire
// connections, derive input triggers, and build the root's output reader.
//
// Compilation is deterministic: the same DAG (same pointer-identity
// sharing structure) always flattens to the same scaffold ordinals, hence
// the same uids and the same wiring.
func CompileComputation(root *symbolic.Scalar, maxRange float64, enc *encoder.Encoder, opts ...Option) (*ExecutionPlan, error) {
	cfg := &config{loadTimes: make(map[*symbolic.Scalar]time.Duration), logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.logger.WithField("component", "compiler")
	var diag Diagnostics

	top := network.NewRoot("root")
	params := subnet.DefaultParams(enc)
	// SignedMultiplierNormNetwork needs the caller's max_range to correct
	// for the two plugs it multiplies already being max_range-normalized
	// fractions (spec §4.2, §4.5 step 2: "spawn ... with norm = max_range").
	params.Norm = maxRange

	// --- 1. Flatten ---
	nodes := symbolic.Flatten(root)
	scaffolds := make([]*OpModuleScaffold, len(nodes))
	byNode := make(map[*symbolic.Scalar]*OpModuleScaffold, len(nodes))
	for i, n := range nodes {
		s := &OpModuleScaffold{Node: n, Kind: n.Kind, Ordinal: i}
		scaffolds[i] = s
		byNode[n] = s
	}
	var connections []Connection
	for _, n := range nodes {
		plugs := inputPlugsFor(n.Kind)
		operands := []*symbolic.Scalar{n.A, n.B}
		for i, plugName := range plugs {
			connections = append(connections, Connection{
				From:   byNode[operands[i]],
				To:     byNode[n],
				ToPlug: plugName,
			})
		}
	}
	diag.record(log, "flatten: %d distinct nodes, %d connections", len(scaffolds), len(connections))

	// --- 2/4. Spawn + Instantiate ---
	for _, s := range scaffolds {
		sn, err := spawnSubnetwork(top, s, params)
		if err != nil {
			return nil, errors.Wrapf(err, "spawning scaffold %s", s.childName())
		}
		s.Subnet = sn
	}
	diag.record(log, "spawn: instantiated %d subnetworks under %s", len(scaffolds), top.Path())

	// --- 3. Fill ---
	for _, s := range scaffolds {
		s.Plugs = s.Subnet.Headers
	}

	// --- 5. Wire ---
	for _, c := range connections {
		fromOut := c.From.Plugs["out"]
		toIn := c.To.Plugs[c.ToPlug]
		top.Connect(fromOut.Plus.UID, toIn.Plus.UID, types.ChannelV, params.Vt, params.Tsyn)
		top.Connect(fromOut.Minus.UID, toIn.Minus.UID, types.ChannelV, params.Vt, params.Tsyn)
	}
	diag.record(log, "wire: %d connections wired at Tsyn=%v", len(connections), params.Tsyn)

	// --- 6. Triggers ---
	var triggers []InputTrigger
	for _, s := range scaffolds {
		if s.Kind != symbolic.KindLoad {
			continue
		}
		value := s.Node.Value
		v := math.Abs(value) / maxRange
		if v > 1 {
			return nil, errors.Wrapf(types.ErrRangeError, "load %s: |%.6g|/%.6g = %.6g exceeds 1", s.childName(), value, maxRange, v)
		}
		sign := types.SignOf(value)
		out := s.Plugs["out"]
		target := out.Plus
		if sign == types.Negative {
			target = out.Minus
		}
		t0 := cfg.loadTimes[s.Node]
		triggers = append(triggers, InputTrigger{Value: v, Sign: sign, Target: target, T0: t0})
	}
	diag.record(log, "triggers: %d Load nodes bound", len(triggers))

	// --- 7. Reader ---
	rootScaffold := byNode[root]
	rootOut := rootScaffold.Plugs["out"]
	reader := OutputReader{Plus: rootOut.Plus, Minus: rootOut.Minus}
	diag.record(log, "reader: root scaffold %s, out=(%s,%s)", rootScaffold.childName(), rootOut.Plus.UID, rootOut.Minus.UID)

	return &ExecutionPlan{
		Module:      top,
		Triggers:    triggers,
		Reader:      reader,
		MaxRange:    maxRange,
		Diagnostics: diag,
	}, nil
}

// spawnSubnetwork instantiates the subnetwork kind matches, attaching it as
// a child of top named by the scaffold's ordinal.
func spawnSubnetwork(top *network.Module, s *OpModuleScaffold, params subnet.Params) (*subnet.Subnetwork, error) {
	name := s.childName()
	switch s.Kind {
	case symbolic.KindLoad:
		return subnet.NewInjectorNetwork(top, name, params)
	case symbolic.KindNeg:
		return subnet.NewSignFlipperNetwork(top, name, params)
	case symbolic.KindAdd:
		return subnet.NewAdderNetwork(top, name, params)
	case symbolic.KindMul:
		return subnet.NewSignedMultiplierNormNetwork(top, name, params)
	default:
		return nil, errors.Errorf("unknown scalar kind %v", s.Kind)
	}
}
