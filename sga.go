package sudscale

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// RecoveryPlan tells which survivors serve the rebuild of a failed node.
type RecoveryPlan struct {
	Failed  int
	Readers map[int][]int // lost stripe -> the K survivors read to rebuild it
	Loads   []int         // reads served by every active node
	MaxLoad int
	Slices  [][]int // lost stripes rebuilt together, no two of a slice share a reader
}

// PlanRecovery balances the reconstruction reads of a failed node over the survivors.
//
// Every lost stripe starts out reading all of its surviving members. While a
// stripe has more than K readers, the most loaded survivor is dropped from
// one of its stripes. Then the most loaded survivor hands a stripe over to an
// idle member with at least two reads less, as long as one exists.
func (s *Scaler) PlanRecovery(node int) (*RecoveryPlan, error) {
	l := s.layout
	if l == nil {
		return nil, ErrNotInitialized
	}
	if node < 0 || node >= l.active {
		return nil, errors.Wrapf(ErrInvalidNode, "node %d, active %d", node, l.active)
	}
	lost := slices.Clone(l.nodes[node])
	slices.Sort(lost)

	rp := &RecoveryPlan{
		Failed:  node,
		Readers: make(map[int][]int, len(lost)),
		Loads:   make([]int, l.active),
	}
	//reading marks, per node, the lost stripes it currently reads
	reading := make([]IntSet, l.active)
	for i := range reading {
		reading[i] = IntSet{}
	}
	//redu is how many readers a lost stripe can still drop
	redu := make(map[int]int, len(lost))
	avlbleSum := 0
	for _, stripe := range lost {
		readers, _ := removeInt(slices.Clone(l.stripes[stripe]), node)
		rp.Readers[stripe] = readers
		for _, r := range readers {
			reading[r].Insert(stripe)
			rp.Loads[r]++
		}
		redu[stripe] = len(readers) - s.K
		avlbleSum += redu[stripe]
	}

	for ; avlbleSum > 0; avlbleSum-- {
		j, stripe := maxReducible(l, rp.Loads, reading, redu)
		rp.Readers[stripe], _ = removeInt(rp.Readers[stripe], j)
		reading[j].Erase(stripe)
		rp.Loads[j]--
		redu[stripe]--
	}

	for borrowRead(l, node, rp, reading) {
	}

	for _, load := range rp.Loads {
		if load > rp.MaxLoad {
			rp.MaxLoad = load
		}
	}
	rp.Slices = colorStripes(lost, rp.Readers)
	s.log().WithFields(logrus.Fields{
		"failed":  node,
		"lost":    len(lost),
		"maxLoad": rp.MaxLoad,
		"slices":  len(rp.Slices),
	}).Info("plan recovery")
	return rp, nil
}

//maxReducible picks the most loaded node still reading a stripe that
//has readers to spare, with the first such stripe in the node's order
func maxReducible(l *Layout, loads []int, reading []IntSet, redu map[int]int) (int, int) {
	best, bestStripe := -1, -1
	for j := range loads {
		if best >= 0 && loads[j] <= loads[best] {
			continue
		}
		for _, stripe := range l.nodes[j] {
			if reading[j].Exist(stripe) && redu[stripe] > 0 {
				best, bestStripe = j, stripe
				break
			}
		}
	}
	return best, bestStripe
}

//borrowRead moves one read from the most loaded survivor to a member of
//the same stripe which reads nothing of it and at least two reads less
func borrowRead(l *Layout, failed int, rp *RecoveryPlan, reading []IntSet) bool {
	j := 0
	for i := range rp.Loads {
		if rp.Loads[i] > rp.Loads[j] {
			j = i
		}
	}
	for _, stripe := range l.nodes[j] {
		if !reading[j].Exist(stripe) {
			continue
		}
		for _, m := range l.stripes[stripe] {
			if m == failed || reading[m].Exist(stripe) || rp.Loads[m]+1 >= rp.Loads[j] {
				continue
			}
			rp.Readers[stripe], _ = removeInt(rp.Readers[stripe], j)
			rp.Readers[stripe] = append(rp.Readers[stripe], m)
			reading[j].Erase(stripe)
			reading[m].Insert(stripe)
			rp.Loads[j]--
			rp.Loads[m]++
			return true
		}
	}
	return false
}
