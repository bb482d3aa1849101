package sudscale

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//shrink retires nodes [target, active) and hands each of their fragments
//to a surviving node.
func (s *Scaler) shrink(target int) error {
	l := s.layout
	origin := l.active
	if target >= origin {
		return errors.Wrapf(ErrWrongDirection, "shrink %d -> %d", origin, target)
	}
	limit := capacity(s.N, s.StripeNum, target)
	s.log().WithFields(logrus.Fields{
		"from":    origin,
		"to":      target,
		"optimal": s.optimal,
	}).Info("start shrinking")
	for i := target; i < origin; i++ {
		for len(l.nodes[i]) > 0 {
			stripe := l.nodes[i][len(l.nodes[i])-1]
			l.detach(stripe, i)
			p := s.findTargetNode(stripe, target, limit)
			if !p.found() {
				// put it back so that the layout stays consistent
				l.attach(stripe, i)
				return &migrationError{mode: s.mode, node: i, stripe: stripe, cause: ErrMigrationExhausted}
			}
			l.attach(stripe, p.target)
			s.emit(MigrationEvent{Mode: s.mode, Source: i, Stripe: p.stripe, Target: p.target, Tier: p.tier})
		}
	}
	l.active = target
	return nil
}

//findTargetNode chooses a surviving node in [0, upto) for the detached
//fragment of stripe. The first node with room left that keeps every pair
//within the optimal bound wins. Otherwise the last node with room left is
//taken, then the last node at all.
func (s *Scaler) findTargetNode(stripe, upto, limit int) plan {
	l := s.layout
	var planB, planC plan
	for j := 0; j < upto; j++ {
		if l.holds(stripe, j) {
			continue
		}
		spare := len(l.nodes[j]) < limit
		if spare && l.fits(stripe, j, -1, s.optimal) {
			return plan{stripe: stripe, target: j, tier: TierOptimal}
		}
		if spare {
			planB = plan{stripe: stripe, target: j, tier: TierPlanB}
		}
		planC = plan{stripe: stripe, target: j, tier: TierPlanC}
	}
	if planB.found() {
		return planB
	}
	return planC
}
