package sudscale

import "github.com/sirupsen/logrus"

//rebalance moves fragments off over-filled active nodes, left behind by
//planC placements, onto under-filled ones.
//
//An under-filled node u shares fewer stripes with an over-filled node o
//than o holds, so o always has a fragment u can take.
func (s *Scaler) rebalance() {
	l := s.layout
	limit := l.Capacity()
	for over := 0; over < l.active; over++ {
		for len(l.nodes[over]) > limit {
			p := s.findRepairMove(over, limit)
			if !p.found() {
				s.log().WithFields(logrus.Fields{
					"node": over,
					"load": len(l.nodes[over]),
					"want": limit,
				}).Warn("node stays over-filled")
				break
			}
			l.move(p.stripe, over, p.target)
			s.emit(MigrationEvent{Mode: s.mode, Source: over, Stripe: p.stripe, Target: p.target, Tier: TierRepair})
		}
	}
}

//findRepairMove prefers a move keeping every pair within the optimal bound,
//then the first move that keeps the stripe's nodes distinct.
func (s *Scaler) findRepairMove(over, limit int) plan {
	l := s.layout
	var fallback plan
	for u := 0; u < l.active; u++ {
		if len(l.nodes[u]) >= limit {
			continue
		}
		for _, stripe := range l.nodes[over] {
			if l.holds(stripe, u) {
				continue
			}
			if l.fits(stripe, u, over, s.optimal) {
				return plan{stripe: stripe, target: u, tier: TierRepair}
			}
			if !fallback.found() {
				fallback = plan{stripe: stripe, target: u, tier: TierRepair}
			}
		}
	}
	return fallback
}
