package sudscale

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Scale migrates the layout to target nodes.
//
// A larger target expands the cluster, a smaller one shrinks it. An equal
// target keeps the node count but redistributes: the layout is expanded to
// the next node count that divides N*StripeNum and shrunk back, which shakes
// a stale layout into a lower co-location matrix.
//
// Fragments are only ever moved, never copied. Exceeding the optimal bound
// is not an error, it is reported by Result.Optimum.
func (s *Scaler) Scale(target int, opts *Options) (*Result, error) {
	if s.layout == nil {
		return nil, ErrNotInitialized
	}
	origin := s.layout.active
	switch {
	case target > origin:
		return s.Expand(target, opts)
	case target < origin:
		return s.Shrink(target, opts)
	}
	return s.Redistribute(opts)
}

// Expand adds nodes [active, target) and migrates fragments onto them.
func (s *Scaler) Expand(target int, opts *Options) (*Result, error) {
	return s.run(ModeExpand, target, opts, func(repair bool) error {
		if target <= s.layout.active {
			return errors.Wrapf(ErrWrongDirection, "expand %d -> %d", s.layout.active, target)
		}
		s.optimal = OptimalBound(s.K, s.StripeNum, s.N, target)
		if err := s.expand(target); err != nil {
			return err
		}
		if repair {
			s.rebalance()
		}
		return nil
	})
}

// Shrink retires nodes [target, active) and migrates their fragments to the survivors.
func (s *Scaler) Shrink(target int, opts *Options) (*Result, error) {
	return s.run(ModeShrink, target, opts, func(repair bool) error {
		if target >= s.layout.active {
			return errors.Wrapf(ErrWrongDirection, "shrink %d -> %d", s.layout.active, target)
		}
		s.optimal = OptimalBound(s.K, s.StripeNum, s.N, target)
		if err := s.shrink(target); err != nil {
			return err
		}
		if repair {
			s.rebalance()
		}
		return nil
	})
}

// Redistribute improves the layout without changing the node count.
func (s *Scaler) Redistribute(opts *Options) (*Result, error) {
	if s.layout == nil {
		return nil, ErrNotInitialized
	}
	origin := s.layout.active
	return s.run(ModeRedistribute, origin, opts, func(repair bool) error {
		virtual, err := nextDivisor(s.N*s.StripeNum, origin)
		if err != nil {
			return err
		}
		s.log().WithFields(logrus.Fields{
			"nodes":   origin,
			"virtual": virtual,
		}).Info("redistribute through a virtual node count")
		s.optimal = OptimalBound(s.K, s.StripeNum, s.N, virtual)
		if err := s.expand(virtual); err != nil {
			return err
		}
		if repair {
			s.rebalance()
		}
		s.optimal = OptimalBound(s.K, s.StripeNum, s.N, origin)
		if err := s.shrink(origin); err != nil {
			return err
		}
		if repair {
			s.rebalance()
		}
		return nil
	})
}

//run validates the target, executes one migration and reports it
func (s *Scaler) run(mode Mode, target int, opts *Options, migrate func(repair bool) error) (*Result, error) {
	if s.layout == nil {
		return nil, ErrNotInitialized
	}
	if opts == nil {
		opts = &Options{}
	}
	if err := s.checkParams(target); err != nil {
		return nil, err
	}
	origin := s.layout.active
	s.mode = mode
	s.tierMoves = make(map[Tier]int)
	start := time.Now()
	if err := migrate(!opts.NoRepair); err != nil {
		s.log().WithError(err).WithField("mode", mode).Error("migration failed")
		return nil, err
	}
	res := s.result(origin, target, time.Since(start))
	s.collector().ObservePhase(mode.String(), res.Duration.Seconds(), res.Optimum)
	s.collector().SetMaxCoLocation(mode.String(), res.MaxCoLocation)
	s.collector().SetOptimalBound(res.Optimal)
	entry := s.log().WithFields(logrus.Fields{
		"mode":    mode,
		"from":    origin,
		"to":      target,
		"moves":   res.Moves,
		"max":     res.MaxCoLocation,
		"optimal": res.Optimal,
		"elapsed": res.Duration,
	})
	if res.Optimum {
		entry.Info("reached the optimal bound")
	} else {
		entry.Warn("optimal bound exceeded")
	}
	return res, nil
}

func (s *Scaler) result(origin, target int, elapsed time.Duration) *Result {
	l := s.layout
	res := &Result{
		Mode:          s.mode,
		Origin:        origin,
		Target:        target,
		Optimal:       s.optimal,
		MaxCoLocation: l.matrix.Max(l.active),
		TierMoves:     make(map[Tier]int, len(s.tierMoves)),
		Duration:      elapsed,
	}
	for tier, cnt := range s.tierMoves {
		res.TierMoves[tier] = cnt
		res.Moves += cnt
	}
	res.Optimum = res.MaxCoLocation <= res.Optimal
	return res
}

//nextDivisor is the smallest node count above nodeNum sharing total fragments equally
func nextDivisor(total, nodeNum int) (int, error) {
	for d := nodeNum + 1; d <= total; d++ {
		if total%d == 0 {
			return d, nil
		}
	}
	return 0, errors.Wrapf(ErrIndivisible, "no node count above %d divides %d fragments", nodeNum, total)
}
