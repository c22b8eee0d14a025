// Package types holds the small vocabulary of value types shared across the
// STICK core: synaptic channels, signed magnitudes, and the sentinel error
// kinds every other package reports through.
package types

import "errors"

// Error kinds surfaced by the core, as sentinel values so callers can use
// errors.Is against them even after a package wraps them with additional
// context (errors.New here, github.com/pkg/errors.Wrap at the boundary).
var (
	// ErrRangeError is returned when a Load value's magnitude exceeds max_range.
	ErrRangeError = errors.New("stick: load value exceeds max_range")

	// ErrInvalidEncoderConfig is returned when Tmin <= 0 or Tcod <= 0.
	ErrInvalidEncoderConfig = errors.New("stick: invalid encoder configuration")

	// ErrInvalidNeuronConfig is returned when Vt, tm, or tf <= 0.
	ErrInvalidNeuronConfig = errors.New("stick: invalid neuron configuration")

	// ErrDuplicateUid is returned when two neurons would resolve to the same
	// uid. This indicates a compiler bug; it is fatal.
	ErrDuplicateUid = errors.New("stick: duplicate neuron uid")

	// ErrUndecodableOutput is returned when an OutputReader finds both or
	// neither of its plus/minus neurons with exactly two spikes.
	ErrUndecodableOutput = errors.New("stick: output reader could not decode a value")

	// ErrSimulationDiverged is returned when a neuron's voltage becomes
	// non-finite during integration.
	ErrSimulationDiverged = errors.New("stick: simulation diverged (non-finite voltage)")
)
