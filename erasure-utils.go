package sudscale

import (
	"math/rand"
	"slices"
)

// IntSet is a set of node or stripe ids.
type IntSet map[int]struct{}

func (s IntSet) Insert(x int) {
	s[x] = struct{}{}
}

func (s IntSet) Erase(x int) {
	delete(s, x)
}

func (s IntSet) Exist(x int) bool {
	_, ok := s[x]
	return ok
}

func (s IntSet) Clear() {
	for k := range s {
		delete(s, k)
	}
}

//genRandomArr returns a random permutation of [start, start+n)
func genRandomArr(r *rand.Rand, n, start int) []int {
	arr := r.Perm(n)
	for i := range arr {
		arr[i] += start
	}
	return arr
}

//removeInt deletes the first x in arr, keeping the order of the rest
func removeInt(arr []int, x int) ([]int, bool) {
	idx := slices.Index(arr, x)
	if idx < 0 {
		return arr, false
	}
	return slices.Delete(arr, idx, idx+1), true
}

//OptimalBound is the designed ceiling of any co-location count when
//stripeNum stripes of n fragments live on nodeNum nodes and recovering
//one fragment reads k survivors.
func OptimalBound(k, stripeNum, n, nodeNum int) int {
	if nodeNum < 2 {
		return 1
	}
	return 1 + (k*stripeNum*n)/(nodeNum*(nodeNum-1))
}

//capacity is the equal per-node load at nodeNum nodes
func capacity(n, stripeNum, nodeNum int) int {
	return n * stripeNum / nodeNum
}
