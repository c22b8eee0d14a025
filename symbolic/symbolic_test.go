package symbolic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lagorce-stick/stick-kernel/symbolic"
)

func TestFlattenLeavesFirst(t *testing.T) {
	a := symbolic.Load(2)
	b := symbolic.Load(3)
	sum := symbolic.Add(a, b)
	c := symbolic.Load(4)
	prod := symbolic.Mul(sum, c)

	order := symbolic.Flatten(prod)
	require.Len(t, order, 5)

	index := make(map[*symbolic.Scalar]int, len(order))
	for i, n := range order {
		index[n] = i
	}

	require.Less(t, index[a], index[sum])
	require.Less(t, index[b], index[sum])
	require.Less(t, index[sum], index[prod])
	require.Less(t, index[c], index[prod])
}

func TestFlattenDeduplicatesSharedSubexpression(t *testing.T) {
	shared := symbolic.Load(5)
	left := symbolic.Add(shared, symbolic.Load(1))
	right := symbolic.Mul(shared, symbolic.Load(2))
	root := symbolic.Add(left, right)

	order := symbolic.Flatten(root)

	seen := make(map[*symbolic.Scalar]int)
	for _, n := range order {
		seen[n]++
	}
	require.Equal(t, 1, seen[shared], "shared subexpression must be flattened exactly once")
	require.Len(t, order, 6) // shared, Load(1), left, Load(2), right, root
}

func TestSubIsAddOfNeg(t *testing.T) {
	a := symbolic.Load(10)
	b := symbolic.Load(4)
	sub := symbolic.Sub(a, b)

	require.Equal(t, symbolic.KindAdd, sub.Kind)
	require.Equal(t, symbolic.KindNeg, sub.B.Kind)
	require.Same(t, b, sub.B.A)
	require.Same(t, a, sub.A)
}
