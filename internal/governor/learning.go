package governor

import "github.com/arbiterhq/arbiter/internal/model"

// Learning deltas. Blocked principles were under-weighted relative to
// observed violations; sustained allows for an action type suggest its
// remembered principles are over-weighted.
const (
	blockDelta       = 0.02
	restrictDelta    = 0.01
	allowDecayDelta  = 0.005
	allowDecayStreak = 20
)

// learn nudges principle weights after a decision. Advisory bookkeeping
// only: the decision already computed for this call is never altered.
// Callers hold the lock.
func (g *Governor) learn(d model.Decision) {
	switch d.Kind {
	case model.Block, model.Restrict:
		delta := restrictDelta
		if d.Kind == model.Block {
			delta = blockDelta
		}
		for _, p := range d.AffectedPrinciples {
			if applied := g.weights.Adjust(p, delta); applied != 0 {
				g.metrics.LearningAdjustments++
			}
		}
		g.remember(d.ActionType, d.AffectedPrinciples)
		g.allowStreaks[d.ActionType] = 0

	case model.Monitor, model.Escalate:
		g.remember(d.ActionType, d.AffectedPrinciples)
		g.allowStreaks[d.ActionType] = 0

	case model.Allow:
		g.allowStreaks[d.ActionType]++
		if g.allowStreaks[d.ActionType] < allowDecayStreak {
			return
		}
		for _, p := range g.patterns[d.ActionType] {
			if applied := g.weights.Adjust(p, -allowDecayDelta); applied != 0 {
				g.metrics.LearningAdjustments++
			}
		}
		g.allowStreaks[d.ActionType] = 0
	}
}

// remember records which principles an action type has implicated so a
// later allow streak knows what to decay.
func (g *Governor) remember(actionType string, principles []model.Principle) {
	known := g.patterns[actionType]
	for _, p := range principles {
		seen := false
		for _, k := range known {
			if k == p {
				seen = true
				break
			}
		}
		if !seen {
			known = append(known, p)
		}
	}
	g.patterns[actionType] = known
}
