package sudscale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitBalanced(t *testing.T) {
	for _, p := range []struct{ stripeNum, n, k int }{bigStripes, smallStripes} {
		for _, d := range nodeNums {
			s := newTestScaler(p.stripeNum, p.n, p.k)
			err := s.Init(d)
			require.NoError(t, err, "S:%d,N:%d,D:%d", p.stripeNum, p.n, d)

			l := s.Layout()
			require.Equal(t, d, l.NodeNum())
			require.True(t, l.Balanced(), "S:%d,N:%d,D:%d", p.stripeNum, p.n, d)
			require.True(t, l.Consistent(), "S:%d,N:%d,D:%d", p.stripeNum, p.n, d)
			for i := 0; i < d; i++ {
				require.Equal(t, p.n*p.stripeNum/d, l.Load(i), "S:%d,N:%d,D:%d,node:%d", p.stripeNum, p.n, d, i)
			}
			requireSymmetric(t, l)
			require.Equal(t, OptimalBound(p.k, p.stripeNum, p.n, d), s.Optimal())
		}
	}
}

func TestInitBalancedTightConfigs(t *testing.T) {
	// the random phase alone could starve a node here
	for _, c := range []struct{ nodeNum, stripeNum, n int }{
		{4, 4, 3},
		{4, 8, 3},
		{4, 10, 4},
		{6, 6, 5},
		{5, 5, 2},
	} {
		for seed := int64(1); seed <= 20; seed++ {
			s := newTestScaler(c.stripeNum, c.n, 1)
			s.Rand.Seed(seed)
			err := s.Init(c.nodeNum)
			require.NoError(t, err)
			require.True(t, s.Layout().Balanced(), "D:%d,S:%d,N:%d,seed:%d", c.nodeNum, c.stripeNum, c.n, seed)
		}
	}
}

func TestInitReproducible(t *testing.T) {
	a := newTestScaler(smallStripes.stripeNum, smallStripes.n, smallStripes.k)
	b := newTestScaler(smallStripes.stripeNum, smallStripes.n, smallStripes.k)
	require.NoError(t, a.Init(12))
	require.NoError(t, b.Init(12))
	for stripe := 0; stripe < smallStripes.stripeNum; stripe++ {
		require.Equal(t, a.Layout().StripeNodes(stripe), b.Layout().StripeNodes(stripe))
	}
}

func TestInitRejectsBadParams(t *testing.T) {
	s := newTestScaler(6000, 4, 3)
	require.ErrorIs(t, s.Init(7), ErrIndivisible)
	require.ErrorIs(t, s.Init(3), ErrTooFewNodes)
	require.Nil(t, s.Layout())

	require.ErrorIs(t, newTestScaler(6000, 4, 0).Init(8), ErrInvalidShards)
	require.ErrorIs(t, newTestScaler(6000, 4, 4).Init(8), ErrInvalidShards)
	require.ErrorIs(t, newTestScaler(6000, 300, 3).Init(300), ErrTooManyShards)
	require.ErrorIs(t, newTestScaler(0, 4, 3).Init(8), ErrInvalidStripeNum)
}

func TestLoad(t *testing.T) {
	s := newTestScaler(4, 3, 2)
	require.NoError(t, s.Load(4, allTriples))

	l := s.Layout()
	require.True(t, l.Balanced())
	require.True(t, l.Consistent())
	for i := 0; i < 4; i++ {
		require.Equal(t, 3, l.Load(i))
		for j := 0; j < 4; j++ {
			if i != j {
				require.Equal(t, 2, l.CoLocation(i, j), "i:%d,j:%d", i, j)
			}
		}
	}
	require.Equal(t, []int{0, 1, 2}, l.NodeStripes(0))
	require.Equal(t, []int{1, 2, 3}, l.StripeNodes(3))

	// the caller's slices are not shared
	placement := [][]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}
	require.NoError(t, s.Load(4, placement))
	placement[0][0] = 3
	require.Equal(t, []int{0, 1, 2}, s.Layout().StripeNodes(0))
}

func TestLoadRejectsBrokenLayouts(t *testing.T) {
	cases := map[string][][]int{
		"duplicate":    {{0, 0, 2}, {0, 1, 3}, {1, 2, 3}, {1, 2, 3}},
		"short stripe": {{0, 1}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}},
		"out of range": {{0, 1, 4}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}},
		"unbalanced":   {{0, 1, 2}, {0, 1, 2}, {0, 2, 3}, {1, 2, 3}},
		"few stripes":  {{0, 1, 2}, {0, 1, 3}, {0, 2, 3}},
	}
	for name, placement := range cases {
		s := newTestScaler(4, 3, 2)
		require.ErrorIs(t, s.Load(4, placement), ErrInvalidLayout, name)
		require.Nil(t, s.Layout(), name)
	}
}

func TestLayoutAccessorsOutOfRange(t *testing.T) {
	s := newTestScaler(4, 3, 2)
	require.NoError(t, s.Load(4, allTriples))
	l := s.Layout()

	require.Equal(t, 0, l.Load(-1))
	require.Equal(t, 0, l.Load(9))
	require.Nil(t, l.NodeStripes(9))
	require.Nil(t, l.StripeNodes(-1))
	require.Equal(t, 0, l.CoLocation(0, 9))
	require.Equal(t, 0, l.CoLocation(-1, 2))
	require.Equal(t, 0, l.CoLocation(2, -1))
	require.Equal(t, 3, l.N())
	require.Equal(t, 4, l.StripeNum())
	require.Equal(t, 3, l.Capacity())
}
