package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lagorce-stick/stick-kernel/compiler"
	"github.com/lagorce-stick/stick-kernel/simulator"
	"github.com/lagorce-stick/stick-kernel/symbolic"
	"github.com/lagorce-stick/stick-kernel/types"
)

// addSimulateBudget generously outlives AdderNetwork's own epochDelay/
// serializeDelay (see DESIGN.md) plus the compiler's extra inter-module
// Tsyn hops from each operand's Load injector into the adder's plugs.
const addSimulateBudget = 1200 * time.Millisecond

func TestAddOfTwoPositiveLoads(t *testing.T) {
	enc := testEncoder(t)
	root := symbolic.Add(symbolic.Load(2), symbolic.Load(3))

	plan, err := compiler.CompileComputation(root, 10, enc)
	require.NoError(t, err)

	sim := simulator.InitWithPlan(plan, enc, 100*time.Microsecond)
	require.NoError(t, sim.Simulate(addSimulateBudget))

	value, sign, err := sim.DecodePlan(plan)
	require.NoError(t, err)
	require.Equal(t, types.Positive, sign)
	require.InDelta(t, 5.0, value, 1.5)
}

func TestSubViaAddAndNegYieldsSignedDifference(t *testing.T) {
	enc := testEncoder(t)
	// Sub(a,b) is sugar for Add(a, Neg(b)).
	root := symbolic.Sub(symbolic.Load(3), symbolic.Load(5))

	plan, err := compiler.CompileComputation(root, 10, enc)
	require.NoError(t, err)

	sim := simulator.InitWithPlan(plan, enc, 100*time.Microsecond)
	require.NoError(t, sim.Simulate(addSimulateBudget))

	value, sign, err := sim.DecodePlan(plan)
	require.NoError(t, err)
	require.Equal(t, types.Negative, sign)
	require.InDelta(t, 2.0, value, 1.5)
}

func TestAddOfPositiveAndNegativeLoadsKeepsLargerMagnitudesSign(t *testing.T) {
	enc := testEncoder(t)
	root := symbolic.Add(symbolic.Load(8), symbolic.Load(-2))

	plan, err := compiler.CompileComputation(root, 10, enc)
	require.NoError(t, err)

	sim := simulator.InitWithPlan(plan, enc, 100*time.Microsecond)
	require.NoError(t, sim.Simulate(addSimulateBudget))

	value, sign, err := sim.DecodePlan(plan)
	require.NoError(t, err)
	require.Equal(t, types.Positive, sign)
	require.InDelta(t, 6.0, value, 1.5)
}
