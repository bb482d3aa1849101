package sudscale

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Layout is the placement of every stripe's fragments on nodes together
// with its co-location matrix.
type Layout struct {
	n         int
	stripeNum int
	active    int     // nodes [0, active) are in service
	nodes     [][]int // node -> stripes it holds a fragment of
	stripes   [][]int // stripe -> member nodes
	matrix    *Matrix
}

// Init generates a fresh balanced layout on nodeNum nodes.
func (s *Scaler) Init(nodeNum int) error {
	if err := s.checkParams(nodeNum); err != nil {
		return err
	}
	placement := generateLayout(s, nodeNum)
	return s.install(nodeNum, placement)
}

// Load adopts a caller-supplied layout, placement[stripe] being the member nodes of the stripe.
// Every stripe must hold N distinct nodes out of [0, nodeNum) and every node
// must hold exactly N*StripeNum/nodeNum fragments.
func (s *Scaler) Load(nodeNum int, placement [][]int) error {
	if err := s.checkParams(nodeNum); err != nil {
		return err
	}
	if len(placement) != s.StripeNum {
		return errors.Wrapf(ErrInvalidLayout, "got %d stripes, want %d", len(placement), s.StripeNum)
	}
	load := make([]int, nodeNum)
	for i, members := range placement {
		if len(members) != s.N {
			return errors.Wrapf(ErrInvalidLayout, "stripe %d has %d fragments, want %d", i, len(members), s.N)
		}
		seen := IntSet{}
		for _, node := range members {
			if node < 0 || node >= nodeNum {
				return errors.Wrapf(ErrInvalidLayout, "stripe %d holds node %d out of [0,%d)", i, node, nodeNum)
			}
			if seen.Exist(node) {
				return errors.Wrapf(ErrInvalidLayout, "stripe %d holds node %d twice", i, node)
			}
			seen.Insert(node)
			load[node]++
		}
	}
	want := capacity(s.N, s.StripeNum, nodeNum)
	for node, l := range load {
		if l != want {
			return errors.Wrapf(ErrInvalidLayout, "node %d holds %d fragments, want %d", node, l, want)
		}
	}
	copied := make([][]int, len(placement))
	for i := range placement {
		copied[i] = slices.Clone(placement[i])
	}
	return s.install(nodeNum, copied)
}

//install derives the node view and the matrix from a stripe placement
func (s *Scaler) install(nodeNum int, placement [][]int) error {
	matrix, err := buildMatrix(placement, nodeNum)
	if err != nil {
		return err
	}
	nodes := make([][]int, nodeNum)
	for stripe, members := range placement {
		for _, node := range members {
			nodes[node] = append(nodes[node], stripe)
		}
	}
	s.layout = &Layout{
		n:         s.N,
		stripeNum: s.StripeNum,
		active:    nodeNum,
		nodes:     nodes,
		stripes:   placement,
		matrix:    matrix,
	}
	s.optimal = OptimalBound(s.K, s.StripeNum, s.N, nodeNum)
	s.log().WithFields(logrus.Fields{
		"nodes":   nodeNum,
		"stripes": s.StripeNum,
		"n":       s.N,
		"optimal": s.optimal,
		"max":     matrix.Max(nodeNum),
	}).Info("layout installed")
	return nil
}

//generateLayout places stripes on random nodes until a node fills up,
//then on the N least loaded nodes, so that every node ends with the same load.
//The random phase also stops once a node could no longer be filled by the
//remaining stripes, which keeps the greedy phase exact.
func generateLayout(s *Scaler, nodeNum int) [][]int {
	r := s.random()
	limit := capacity(s.N, s.StripeNum, nodeNum)
	placement := make([][]int, s.StripeNum)
	load := make([]int, nodeNum)
	stripe := 0
	for stripe < s.StripeNum {
		full := false
		remain := s.StripeNum - stripe
		for _, l := range load {
			if limit-l >= remain {
				full = true
				break
			}
		}
		if full {
			break
		}
		members := genRandomArr(r, nodeNum, 0)[:s.N]
		for _, node := range members {
			load[node]++
			if load[node] >= limit {
				full = true
			}
		}
		placement[stripe] = members
		stripe++
		if full {
			break
		}
	}
	order := make([]int, nodeNum)
	for ; stripe < s.StripeNum; stripe++ {
		for i := range order {
			order[i] = i
		}
		slices.SortStableFunc(order, func(a, b int) int {
			return load[a] - load[b]
		})
		members := slices.Clone(order[:s.N])
		for _, node := range members {
			load[node]++
		}
		placement[stripe] = members
	}
	return placement
}

//addNodes brings nodes [active, nodeNum) into service
func (l *Layout) addNodes(nodeNum int) {
	for len(l.nodes) < nodeNum {
		l.nodes = append(l.nodes, nil)
	}
	l.matrix.grow(len(l.nodes))
	l.active = nodeNum
}

//detach takes node out of stripe
func (l *Layout) detach(stripe, node int) {
	l.nodes[node], _ = removeInt(l.nodes[node], stripe)
	l.stripes[stripe], _ = removeInt(l.stripes[stripe], node)
	for _, m := range l.stripes[stripe] {
		l.matrix.add(node, m, -1)
	}
}

//attach places the stripe's missing fragment on node
func (l *Layout) attach(stripe, node int) {
	for _, m := range l.stripes[stripe] {
		l.matrix.add(node, m, 1)
	}
	l.nodes[node] = append(l.nodes[node], stripe)
	l.stripes[stripe] = append(l.stripes[stripe], node)
}

//move migrates the fragment of stripe from one node to another
func (l *Layout) move(stripe, from, to int) {
	l.detach(stripe, from)
	l.attach(stripe, to)
}

//holds reports whether node is a member of stripe
func (l *Layout) holds(stripe, node int) bool {
	return slices.Contains(l.stripes[stripe], node)
}

//fits reports whether adding node to the stripe keeps every pair
//with the current members, except skip, within bound
func (l *Layout) fits(stripe, node, skip, bound int) bool {
	for _, m := range l.stripes[stripe] {
		if m == skip {
			continue
		}
		if l.matrix.Get(node, m)+1 > bound {
			return false
		}
	}
	return true
}

//bottleneck is the first node in [0, upto) sharing the most stripes with node
func (l *Layout) bottleneck(node, upto int) (int, int) {
	best, count := -1, -1
	for j := 0; j < upto; j++ {
		if j == node {
			continue
		}
		if c := l.matrix.Get(node, j); c > count {
			best, count = j, c
		}
	}
	return best, count
}

// N returns the number of fragments per stripe.
func (l *Layout) N() int {
	return l.n
}

// StripeNum returns the number of stripes.
func (l *Layout) StripeNum() int {
	return l.stripeNum
}

// NodeNum returns the number of active nodes.
func (l *Layout) NodeNum() int {
	return l.active
}

// Capacity returns the per-node load of a balanced layout.
func (l *Layout) Capacity() int {
	return capacity(l.n, l.stripeNum, l.active)
}

// Load returns the number of fragments held by node.
func (l *Layout) Load(node int) int {
	if node < 0 || node >= len(l.nodes) {
		return 0
	}
	return len(l.nodes[node])
}

// NodeStripes returns the stripes node holds a fragment of.
func (l *Layout) NodeStripes(node int) []int {
	if node < 0 || node >= len(l.nodes) {
		return nil
	}
	return slices.Clone(l.nodes[node])
}

// StripeNodes returns the member nodes of stripe.
func (l *Layout) StripeNodes(stripe int) []int {
	if stripe < 0 || stripe >= len(l.stripes) {
		return nil
	}
	return slices.Clone(l.stripes[stripe])
}

// CoLocation returns the number of stripes shared by nodes i and j.
func (l *Layout) CoLocation(i, j int) int {
	return l.matrix.Get(i, j)
}

// Matrix returns a copy of the co-location matrix.
func (l *Layout) Matrix() *Matrix {
	return l.matrix.Clone()
}

// Balanced reports whether every stripe has N distinct active members,
// every active node holds Capacity fragments and retired nodes hold none.
func (l *Layout) Balanced() bool {
	want := l.Capacity()
	for node := range l.nodes {
		if node < l.active && len(l.nodes[node]) != want {
			return false
		}
		if node >= l.active && len(l.nodes[node]) != 0 {
			return false
		}
	}
	for _, members := range l.stripes {
		if len(members) != l.n {
			return false
		}
		seen := IntSet{}
		for _, node := range members {
			if node >= l.active || seen.Exist(node) {
				return false
			}
			seen.Insert(node)
		}
	}
	return true
}

// Consistent reports whether the incrementally maintained matrix equals
// one rebuilt from the stripe placement, and both views agree.
func (l *Layout) Consistent() bool {
	rebuilt, err := buildMatrix(l.stripes, len(l.nodes))
	if err != nil {
		return false
	}
	if !rebuilt.Equal(l.matrix, len(l.nodes)) {
		return false
	}
	held := 0
	for node, stripes := range l.nodes {
		for _, stripe := range stripes {
			if !l.holds(stripe, node) {
				return false
			}
		}
		held += len(stripes)
	}
	return held == l.n*l.stripeNum
}
