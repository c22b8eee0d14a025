/*
Package encoder implements STICK's interval coding: the map between a scalar
in [0,1] and the spike interval that carries it.

BIOLOGICAL INSPIRATION:
A STICK neuron pair does not encode a value as a firing rate or a membrane
voltage — it encodes it as the elapsed time between two spikes. A short
interval means a small value; a long interval means a value near 1. This
package is the one place that knows the two constants (Tmin, Tcod) that
turn a duration into a number and back.

Every other package that needs to turn "x=0.37" into a delay, or a measured
delay into "x=0.37", goes through an *Encoder — nothing downstream hardcodes
the affine relationship.
*/
package encoder

import (
	"fmt"
	"time"

	"github.com/lagorce-stick/stick-kernel/types"
)

// Encoder carries the two parameters of STICK's interval code: a minimum
// interval Tmin (the interval encoding x=0) and a coding span Tcod (the
// additional interval spanning the full [0,1] range).
type Encoder struct {
	Tmin time.Duration
	Tcod time.Duration
}

// New validates (Tmin, Tcod) and returns an Encoder, or
// types.ErrInvalidEncoderConfig if either is not strictly positive.
func New(tmin, tcod time.Duration) (*Encoder, error) {
	if tmin <= 0 || tcod <= 0 {
		return nil, fmt.Errorf("%w: Tmin=%v Tcod=%v", types.ErrInvalidEncoderConfig, tmin, tcod)
	}
	return &Encoder{Tmin: tmin, Tcod: tcod}, nil
}

// EncodeInterval maps a normalized magnitude x (expected in [0,1], but not
// clamped here — callers validate range before this point) to the spike
// interval Tmin + x·Tcod.
func (e *Encoder) EncodeInterval(x float64) time.Duration {
	return e.Tmin + time.Duration(x*float64(e.Tcod))
}

// DecodeInterval inverts EncodeInterval: (interval - Tmin) / Tcod.
func (e *Encoder) DecodeInterval(interval time.Duration) float64 {
	return float64(interval-e.Tmin) / float64(e.Tcod)
}
