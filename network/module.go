/*
Package network implements STICK's hierarchical network model: modules that
own neurons, synapses, and child modules, with stable dotted-path uids.

A Module is a registry that rejects re-registration by construction: its
NewNeuron/NewChild calls reject a duplicate local name before a caller ever
has a chance to collide two uids, rather than leaving duplicate detection
to something every caller has to check for by hand. uid uniqueness is
derived purely from the module path, so no global counter is required.
*/
package network

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/lagorce-stick/stick-kernel/neuron"
	"github.com/lagorce-stick/stick-kernel/synapse"
	"github.com/lagorce-stick/stick-kernel/types"
)

// Module is a hierarchical container: a named node owning neurons, synapses,
// and child modules. A neuron's uid is the dotted path of module names
// (starting with the root's own name) followed by its local name — see
// Module.Path.
type Module struct {
	name     string
	parent   *Module
	neurons  map[string]*neuron.Neuron
	synapses []synapse.Synapse
	children map[string]*Module
	childOrd []string // insertion order, for reproducible Walk
}

// NewRoot creates a new top-level module with the given name. The top
// module's name is the first segment of every uid beneath it.
func NewRoot(name string) *Module {
	return &Module{
		name:     name,
		neurons:  make(map[string]*neuron.Neuron),
		children: make(map[string]*Module),
	}
}

// Path returns this module's dotted path from the root, e.g. "root.add_3".
func (m *Module) Path() string {
	if m.parent == nil {
		return m.name
	}
	return m.parent.Path() + "." + m.name
}

// Name returns this module's local (non-dotted) name.
func (m *Module) Name() string { return m.name }

// NewChild attaches a new child module under this one and returns it.
// Uniqueness of child names within a parent is the caller's responsibility
// to arrange (the compiler does so by appending a scaffold's ordinal); a
// collision here is a compiler bug and returns types.ErrDuplicateUid
// wrapped with the colliding path.
func (m *Module) NewChild(name string) (*Module, error) {
	if _, exists := m.children[name]; exists {
		return nil, errors.Wrapf(types.ErrDuplicateUid, "child module %q already exists under %q", name, m.Path())
	}
	child := &Module{
		name:     name,
		parent:   m,
		neurons:  make(map[string]*neuron.Neuron),
		children: make(map[string]*Module),
	}
	m.children[name] = child
	m.childOrd = append(m.childOrd, name)
	return child, nil
}

// NewNeuron creates a neuron local to this module with the given local
// name and parameters. Its uid is Module.Path() + "." + localName. Returns
// types.ErrDuplicateUid if localName collides with an existing neuron in
// this module.
func (m *Module) NewNeuron(localName string, params neuron.Params) (*neuron.Neuron, error) {
	uid := m.Path() + "." + localName
	if _, exists := m.neurons[uid]; exists {
		return nil, errors.Wrapf(types.ErrDuplicateUid, "neuron uid %q already exists", uid)
	}
	n, err := neuron.New(uid, localName, params)
	if err != nil {
		return nil, err
	}
	m.neurons[uid] = n
	return n, nil
}

// Connect adds a synapse from source to target on the given channel. Both
// uids must already exist somewhere in the tree rooted at the top module;
// Connect itself does not validate this (the compiler and subnetwork
// constructors always connect neurons they just created or were handed),
// but AllNeurons can be used by callers that want to validate wiring.
func (m *Module) Connect(source, target string, channel types.Channel, weight float64, delay time.Duration) {
	m.synapses = append(m.synapses, synapse.New(source, target, channel, weight, delay))
}

// LocalSynapses returns the synapses added directly to this module (not
// its children).
func (m *Module) LocalSynapses() []synapse.Synapse {
	return m.synapses
}

// LocalNeurons returns the neurons owned directly by this module, keyed by
// uid.
func (m *Module) LocalNeurons() map[string]*neuron.Neuron {
	return m.neurons
}

// Child looks up a direct child module by name.
func (m *Module) Child(name string) (*Module, bool) {
	c, ok := m.children[name]
	return c, ok
}

// ChildNames returns this module's direct child names in insertion order.
func (m *Module) ChildNames() []string {
	out := make([]string, len(m.childOrd))
	copy(out, m.childOrd)
	return out
}

// Walk performs a deterministic pre-order traversal of this module and
// every descendant, in insertion order, invoking visit on each module.
// Used by AllNeurons and AllSynapses to enumerate every neuron/synapse in a
// reproducible, insertion-stable order.
func (m *Module) Walk(visit func(*Module)) {
	visit(m)
	for _, name := range m.childOrd {
		m.children[name].Walk(visit)
	}
}

// AllNeurons collects every neuron in the tree rooted at m, keyed by uid.
func (m *Module) AllNeurons() map[string]*neuron.Neuron {
	out := make(map[string]*neuron.Neuron)
	m.Walk(func(mod *Module) {
		for uid, n := range mod.neurons {
			out[uid] = n
		}
	})
	return out
}

// AllSynapses collects every synapse in the tree rooted at m, in a
// deterministic order: pre-order module walk, then each module's
// synapses in the order they were added.
func (m *Module) AllSynapses() []synapse.Synapse {
	var out []synapse.Synapse
	m.Walk(func(mod *Module) {
		out = append(out, mod.synapses...)
	})
	return out
}

// String implements fmt.Stringer for debug/log output.
func (m *Module) String() string {
	return fmt.Sprintf("Module(%s)", m.Path())
}
