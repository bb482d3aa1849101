package sudscale

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// plan is a candidate move of a stripe's fragment to target;
// the zero plan (tierNone) means nothing was found.
type plan struct {
	stripe int
	target int
	tier   Tier
}

func (p plan) found() bool {
	return p.tier != tierNone
}

//expand grows the layout to target nodes. In each of the quota rounds every
//origin node hands one fragment over to a new node, chosen to relieve the
//node it shares the most stripes with.
func (s *Scaler) expand(target int) error {
	l := s.layout
	origin := l.active
	quota := capacity(s.N, s.StripeNum, origin) - capacity(s.N, s.StripeNum, target)
	if quota <= 0 {
		return errors.Wrapf(ErrWrongDirection, "expand %d -> %d moves no fragment", origin, target)
	}
	limit := capacity(s.N, s.StripeNum, target)
	l.addNodes(target)
	s.log().WithFields(logrus.Fields{
		"from":    origin,
		"to":      target,
		"quota":   quota,
		"optimal": s.optimal,
	}).Info("start expanding")
	for round := 0; round < quota; round++ {
		for i := 0; i < origin; i++ {
			bottleneck, _ := l.bottleneck(i, target)
			p := s.selectTravelBlock(i, bottleneck, origin, target, limit)
			if !p.found() {
				return &migrationError{mode: s.mode, node: i, stripe: -1, cause: ErrMigrationExhausted}
			}
			l.move(p.stripe, i, p.target)
			s.emit(MigrationEvent{Mode: s.mode, Source: i, Stripe: p.stripe, Target: p.target, Tier: p.tier})
		}
	}
	return nil
}

//selectTravelBlock picks a fragment of node sharing its stripe with bottleneck
//and a new node in [origin, target) to receive it.
//
//A new node not in the stripe, with room left and keeping every pair within
//the optimal bound wins at once. Otherwise the last match with room left is
//used, then the last match without room.
func (s *Scaler) selectTravelBlock(node, bottleneck, origin, target, limit int) plan {
	l := s.layout
	var planB, planC plan
	for _, stripe := range l.nodes[node] {
		if !l.holds(stripe, bottleneck) {
			continue
		}
		for j := origin; j < target; j++ {
			if l.holds(stripe, j) {
				continue
			}
			if len(l.nodes[j]) >= limit {
				planC = plan{stripe: stripe, target: j, tier: TierPlanC}
				continue
			}
			planB = plan{stripe: stripe, target: j, tier: TierPlanB}
			if l.fits(stripe, j, node, s.optimal) {
				return plan{stripe: stripe, target: j, tier: TierOptimal}
			}
		}
	}
	if planB.found() {
		return planB
	}
	return planC
}
