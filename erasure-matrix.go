package sudscale

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// minStripesPerWorker keeps tiny layouts on a single goroutine.
const minStripesPerWorker = 1024

// Matrix is the symmetric co-location matrix: Get(i, j) is the number of
// stripes holding a fragment on both node i and node j.
//
// It is dense and indexed by node id; it grows with the largest node
// count reached during a run.
type Matrix struct {
	dim  int
	cell []int
}

func newMatrix(dim int) *Matrix {
	return &Matrix{dim: dim, cell: make([]int, dim*dim)}
}

// Dim returns the number of rows (and columns).
func (m *Matrix) Dim() int {
	return m.dim
}

// Get returns the co-location count of nodes i and j.
func (m *Matrix) Get(i, j int) int {
	if i < 0 || j < 0 || i >= m.dim || j >= m.dim {
		return 0
	}
	return m.cell[i*m.dim+j]
}

//add changes the symmetric pair (i,j),(j,i) by delta
func (m *Matrix) add(i, j, delta int) {
	m.cell[i*m.dim+j] += delta
	m.cell[j*m.dim+i] += delta
}

//grow enlarges the matrix to dim x dim, keeping the counts
func (m *Matrix) grow(dim int) {
	if dim <= m.dim {
		return
	}
	cell := make([]int, dim*dim)
	for i := 0; i < m.dim; i++ {
		copy(cell[i*dim:i*dim+m.dim], m.cell[i*m.dim:(i+1)*m.dim])
	}
	m.dim = dim
	m.cell = cell
}

// Row returns a copy of the counts of node i against nodes [0, upto).
func (m *Matrix) Row(i, upto int) []int {
	row := make([]int, upto)
	for j := 0; j < upto; j++ {
		row[j] = m.Get(i, j)
	}
	return row
}

// Max returns the largest count between two distinct nodes in [0, upto).
func (m *Matrix) Max(upto int) int {
	best := 0
	for i := 0; i < upto; i++ {
		for j := i + 1; j < upto; j++ {
			if v := m.Get(i, j); v > best {
				best = v
			}
		}
	}
	return best
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{dim: m.dim, cell: make([]int, len(m.cell))}
	copy(c.cell, m.cell)
	return c
}

// Equal reports whether both matrices hold the same counts over [0, upto).
func (m *Matrix) Equal(o *Matrix, upto int) bool {
	for i := 0; i < upto; i++ {
		for j := 0; j < upto; j++ {
			if m.Get(i, j) != o.Get(i, j) {
				return false
			}
		}
	}
	return true
}

//buildMatrix counts every member pair of every stripe.
//Stripes are independent, so each worker fills a private matrix
//over its own chunk and the partial matrices are summed afterwards.
func buildMatrix(stripes [][]int, dim int) (*Matrix, error) {
	workers := runtime.GOMAXPROCS(0)
	if limit := (len(stripes) + minStripesPerWorker - 1) / minStripesPerWorker; workers > limit {
		workers = limit
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (len(stripes) + workers - 1) / workers
	partial := make([]*Matrix, workers)
	erg := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		w := w
		erg.Go(func() error {
			local := newMatrix(dim)
			begin, end := w*chunk, (w+1)*chunk
			if end > len(stripes) {
				end = len(stripes)
			}
			for s := begin; s < end; s++ {
				members := stripes[s]
				for a := 0; a < len(members); a++ {
					if members[a] < 0 || members[a] >= dim {
						return errors.Wrapf(ErrInvalidLayout, "stripe %d holds node %d", s, members[a])
					}
					for b := a + 1; b < len(members); b++ {
						if members[b] < 0 || members[b] >= dim {
							return errors.Wrapf(ErrInvalidLayout, "stripe %d holds node %d", s, members[b])
						}
						local.add(members[a], members[b], 1)
					}
				}
			}
			partial[w] = local
			return nil
		})
	}
	if err := erg.Wait(); err != nil {
		return nil, err
	}
	m := partial[0]
	for _, p := range partial[1:] {
		for i := range p.cell {
			m.cell[i] += p.cell[i]
		}
	}
	return m, nil
}
