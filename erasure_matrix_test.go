package sudscale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

//countPairs is the sequential reference of buildMatrix
func countPairs(stripes [][]int, dim int) [][]int {
	cnt := make([][]int, dim)
	for i := range cnt {
		cnt[i] = make([]int, dim)
	}
	for _, members := range stripes {
		for _, a := range members {
			for _, b := range members {
				if a != b {
					cnt[a][b]++
				}
			}
		}
	}
	return cnt
}

func TestBuildMatrix(t *testing.T) {
	// large enough to be split among several workers
	p := bigStripes
	for _, d := range nodeNums {
		s := newTestScaler(p.stripeNum, p.n, p.k)
		placement := generateLayout(s, d)
		m, err := buildMatrix(placement, d)
		require.NoError(t, err)
		require.Equal(t, d, m.Dim())

		want := countPairs(placement, d)
		for i := 0; i < d; i++ {
			require.Equal(t, want[i], m.Row(i, d), "D:%d,row:%d", d, i)
			require.Zero(t, m.Get(i, i))
		}
	}
}

func TestBuildMatrixRejectsUnknownNode(t *testing.T) {
	_, err := buildMatrix([][]int{{0, 1}, {1, 5}}, 4)
	require.ErrorIs(t, err, ErrInvalidLayout)
	_, err = buildMatrix([][]int{{-1, 1}}, 4)
	require.ErrorIs(t, err, ErrInvalidLayout)
}

func TestMatrixGrow(t *testing.T) {
	m, err := buildMatrix(allTriples, 4)
	require.NoError(t, err)
	m.grow(6)
	require.Equal(t, 6, m.Dim())
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i != j {
				require.Equal(t, 2, m.Get(i, j), "i:%d,j:%d", i, j)
			}
		}
		require.Zero(t, m.Get(i, 4))
		require.Zero(t, m.Get(5, i))
	}
	// shrinking is a no-op
	m.grow(2)
	require.Equal(t, 6, m.Dim())

	m.add(4, 5, 3)
	require.Equal(t, 3, m.Get(5, 4))
	require.Equal(t, 3, m.Max(6))
	require.Equal(t, 2, m.Max(4))
	require.Zero(t, m.Get(7, 0))
	require.Zero(t, m.Get(-1, 0))
	require.Zero(t, m.Get(0, -6))
}

func TestMatrixClone(t *testing.T) {
	m, err := buildMatrix(allTriples, 4)
	require.NoError(t, err)
	c := m.Clone()
	require.True(t, c.Equal(m, 4))
	c.add(0, 1, 1)
	require.False(t, c.Equal(m, 4))
	require.Equal(t, 2, m.Get(0, 1))
}
