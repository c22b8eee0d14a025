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

func TestNegFlipsPositiveLoadToNegativeOutput(t *testing.T) {
	enc := testEncoder(t)
	root := symbolic.Neg(symbolic.Load(7))

	plan, err := compiler.CompileComputation(root, 10, enc)
	require.NoError(t, err)

	sim := simulator.InitWithPlan(plan, enc, 100*time.Microsecond)
	require.NoError(t, sim.Simulate(300*time.Millisecond))

	value, sign, err := sim.DecodePlan(plan)
	require.NoError(t, err)
	require.Equal(t, types.Negative, sign)
	require.InDelta(t, 7.0, value, 0.2)
}

func TestNegFlipsNegativeLoadToPositiveOutput(t *testing.T) {
	enc := testEncoder(t)
	root := symbolic.Neg(symbolic.Load(-4))

	plan, err := compiler.CompileComputation(root, 10, enc)
	require.NoError(t, err)

	sim := simulator.InitWithPlan(plan, enc, 100*time.Microsecond)
	require.NoError(t, sim.Simulate(300*time.Millisecond))

	value, sign, err := sim.DecodePlan(plan)
	require.NoError(t, err)
	require.Equal(t, types.Positive, sign)
	require.InDelta(t, 4.0, value, 0.2)
}

func TestDoubleNegIsIdentity(t *testing.T) {
	enc := testEncoder(t)
	root := symbolic.Neg(symbolic.Neg(symbolic.Load(5)))

	plan, err := compiler.CompileComputation(root, 10, enc)
	require.NoError(t, err)

	sim := simulator.InitWithPlan(plan, enc, 100*time.Microsecond)
	require.NoError(t, sim.Simulate(400*time.Millisecond))

	value, sign, err := sim.DecodePlan(plan)
	require.NoError(t, err)
	require.Equal(t, types.Positive, sign)
	require.InDelta(t, 5.0, value, 0.2)
}
