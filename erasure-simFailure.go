package sudscale

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// RecoveryLoad is the worst-case reconstruction traffic of a single failed node.
type RecoveryLoad struct {
	Failed     int   // the failed node
	Lost       int   // fragments lost with it
	Reads      []int // Reads[j] bounds the reads survivor j serves, the co-location count
	Bottleneck int   // the survivor serving the most reads
	MaxReads   int   // reads served by the bottleneck
}

// Evaluation summarizes how close the layout is to the optimal bound.
type Evaluation struct {
	Optimal        int     // optimal bound for the active node count
	MaxCoLocation  int     // largest co-location count
	MeanBottleneck float64 // mean over nodes of their bottleneck reads
	Bottlenecks    []int   // per node, the reads its bottleneck survivor serves
	Optimum        bool
}

// SimulateFailure marks node as failed and reports who would serve its
// reconstruction. A negative node picks a random active node.
//
// Since it's a simulation, the layout is left untouched.
func (s *Scaler) SimulateFailure(node int) (*RecoveryLoad, error) {
	l := s.layout
	if l == nil {
		return nil, ErrNotInitialized
	}
	if node < 0 {
		node = genRandomArr(s.random(), l.active, 0)[0]
	}
	if node >= l.active {
		return nil, errors.Wrapf(ErrInvalidNode, "node %d, active %d", node, l.active)
	}
	rl := &RecoveryLoad{
		Failed: node,
		Lost:   len(l.nodes[node]),
		Reads:  l.matrix.Row(node, l.active),
	}
	rl.Bottleneck, rl.MaxReads = l.bottleneck(node, l.active)
	s.log().WithFields(logrus.Fields{
		"failed":     node,
		"lost":       rl.Lost,
		"bottleneck": rl.Bottleneck,
		"reads":      rl.MaxReads,
	}).Info("simulate failure")
	return rl, nil
}

// Evaluate simulates the failure of every active node in turn.
func (s *Scaler) Evaluate() (*Evaluation, error) {
	l := s.layout
	if l == nil {
		return nil, ErrNotInitialized
	}
	ev := &Evaluation{
		Optimal:     OptimalBound(s.K, s.StripeNum, s.N, l.active),
		Bottlenecks: make([]int, l.active),
	}
	sum := 0
	for i := 0; i < l.active; i++ {
		_, reads := l.bottleneck(i, l.active)
		ev.Bottlenecks[i] = reads
		sum += reads
		if reads > ev.MaxCoLocation {
			ev.MaxCoLocation = reads
		}
	}
	if l.active > 0 {
		ev.MeanBottleneck = float64(sum) / float64(l.active)
	}
	ev.Optimum = ev.MaxCoLocation <= ev.Optimal
	return ev, nil
}
