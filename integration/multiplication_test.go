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

const mulSimulateBudget = 1200 * time.Millisecond

func TestMulOfTwoPositiveLoadsNormalized(t *testing.T) {
	enc := testEncoder(t)
	// The compiler spawns SignedMultiplierNormNetwork with norm=max_range
	// (spec §4.5 step 2), which corrects for both operands already being
	// max_range-normalized fractions, so the decoded result is the plain
	// arithmetic product: 5*4=20.
	root := symbolic.Mul(symbolic.Load(5), symbolic.Load(4))

	plan, err := compiler.CompileComputation(root, 10, enc)
	require.NoError(t, err)

	sim := simulator.InitWithPlan(plan, enc, 100*time.Microsecond)
	require.NoError(t, sim.Simulate(mulSimulateBudget))

	value, sign, err := sim.DecodePlan(plan)
	require.NoError(t, err)
	require.Equal(t, types.Positive, sign)
	require.InDelta(t, 20.0, value, 2.0)
}

func TestMulOfPositiveAndNegativeLoadIsNegative(t *testing.T) {
	enc := testEncoder(t)
	root := symbolic.Mul(symbolic.Load(6), symbolic.Load(-5))

	plan, err := compiler.CompileComputation(root, 10, enc)
	require.NoError(t, err)

	sim := simulator.InitWithPlan(plan, enc, 100*time.Microsecond)
	require.NoError(t, sim.Simulate(mulSimulateBudget))

	value, sign, err := sim.DecodePlan(plan)
	require.NoError(t, err)
	require.Equal(t, types.Negative, sign)
	require.InDelta(t, 30.0, value, 2.0)
}

func TestMulOfTwoNegativeLoadsIsPositive(t *testing.T) {
	enc := testEncoder(t)
	root := symbolic.Mul(symbolic.Load(-6), symbolic.Load(-5))

	plan, err := compiler.CompileComputation(root, 10, enc)
	require.NoError(t, err)

	sim := simulator.InitWithPlan(plan, enc, 100*time.Microsecond)
	require.NoError(t, sim.Simulate(mulSimulateBudget))

	value, sign, err := sim.DecodePlan(plan)
	require.NoError(t, err)
	require.Equal(t, types.Positive, sign)
	require.InDelta(t, 30.0, value, 2.0)
}
