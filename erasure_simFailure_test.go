package sudscale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimulateFailure(t *testing.T) {
	s := newTestScaler(4, 3, 2)
	_, err := s.SimulateFailure(0)
	require.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, s.Load(4, allTriples))
	rl, err := s.SimulateFailure(0)
	require.NoError(t, err)
	require.Equal(t, 0, rl.Failed)
	require.Equal(t, 3, rl.Lost)
	require.Equal(t, []int{0, 2, 2, 2}, rl.Reads)
	require.Equal(t, 1, rl.Bottleneck)
	require.Equal(t, 2, rl.MaxReads)

	_, err = s.SimulateFailure(4)
	require.ErrorIs(t, err, ErrInvalidNode)

	for i := 0; i < 10; i++ {
		rl, err = s.SimulateFailure(-1)
		require.NoError(t, err)
		require.GreaterOrEqual(t, rl.Failed, 0)
		require.Less(t, rl.Failed, 4)
	}
	// a simulation leaves the layout untouched
	require.True(t, s.Layout().Balanced())
	require.True(t, s.Layout().Consistent())
}

func TestEvaluate(t *testing.T) {
	s := newTestScaler(4, 3, 2)
	require.NoError(t, s.Load(4, allTriples))
	ev, err := s.Evaluate()
	require.NoError(t, err)
	require.Equal(t, 3, ev.Optimal)
	require.Equal(t, 2, ev.MaxCoLocation)
	require.Equal(t, []int{2, 2, 2, 2}, ev.Bottlenecks)
	require.InDelta(t, 2.0, ev.MeanBottleneck, 1e-9)
	require.True(t, ev.Optimum)
}

func TestEvaluateAfterShrink(t *testing.T) {
	p := smallStripes
	s := newTestScaler(p.stripeNum, p.n, p.k)
	require.NoError(t, s.Init(12))
	res, err := s.Scale(8, nil)
	require.NoError(t, err)

	ev, err := s.Evaluate()
	require.NoError(t, err)
	require.Len(t, ev.Bottlenecks, 8)
	require.Equal(t, res.MaxCoLocation, ev.MaxCoLocation)
	require.Equal(t, res.Optimal, ev.Optimal)
	require.Equal(t, res.Optimum, ev.Optimum)

	// retired nodes are out of the active range
	_, err = s.SimulateFailure(8)
	require.ErrorIs(t, err, ErrInvalidNode)
}
