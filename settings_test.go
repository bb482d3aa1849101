package sudscale

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSeed = 100000007

// node counts sharing the fragments of both stripe grids equally
var nodeNums = []int{8, 10, 12, 15, 16}

// 6000 (3+1)-stripes, as in production sized runs
var bigStripes = struct{ stripeNum, n, k int }{6000, 4, 3}

// 60 (3+1)-stripes, small enough to recheck the matrix after every move
var smallStripes = struct{ stripeNum, n, k int }{60, 4, 3}

func newTestScaler(stripeNum, n, k int) *Scaler {
	return &Scaler{
		N:         n,
		K:         k,
		StripeNum: stripeNum,
		Quiet:     true,
		Rand:      rand.New(rand.NewSource(testSeed)),
	}
}

// allTriples places 4 stripes of 3 fragments on 4 nodes, each pair sharing 2 stripes
var allTriples = [][]int{
	{0, 1, 2},
	{0, 1, 3},
	{0, 2, 3},
	{1, 2, 3},
}

//checkEveryMove verifies the layout after each migrated fragment
func checkEveryMove(t *testing.T, s *Scaler) {
	t.Helper()
	s.OnMigrate = func(ev MigrationEvent) {
		l := s.Layout()
		require.True(t, l.holds(ev.Stripe, ev.Target), "stripe %d not on target %d", ev.Stripe, ev.Target)
		require.False(t, l.holds(ev.Stripe, ev.Source), "stripe %d still on source %d", ev.Stripe, ev.Source)
		require.Len(t, l.StripeNodes(ev.Stripe), s.N)
		require.True(t, l.Consistent(), "matrix drifted after moving stripe %d from %d to %d", ev.Stripe, ev.Source, ev.Target)
	}
}

//requireSymmetric checks Matrix[i][j] == Matrix[j][i] over the active nodes
func requireSymmetric(t *testing.T, l *Layout) {
	t.Helper()
	for i := 0; i < l.NodeNum(); i++ {
		for j := 0; j < l.NodeNum(); j++ {
			require.Equal(t, l.CoLocation(i, j), l.CoLocation(j, i), "i:%d,j:%d", i, j)
		}
	}
}
