// Package principle maintains the importance weights attached to
// governance principles. Weights are seeded from the foundation
// statements of a profile and drift over the process lifetime as the
// learning loop observes decisions.
package principle

import (
	"strings"

	"github.com/arbiterhq/arbiter/internal/model"
)

// Weights maps each principle to an importance weight in [0, 1].
// The map itself is not synchronized; the governor lock guards mutation.
type Weights map[model.Principle]float64

// DefaultWeights returns the built-in weight for every principle.
func DefaultWeights() Weights {
	return Weights{
		model.Privacy:         1.0,
		model.Security:        1.0,
		model.Autonomy:        0.9,
		model.Transparency:    0.9,
		model.Fairness:        0.8,
		model.Safety:          0.9,
		model.Creativity:      0.8,
		model.HumanWellbeing:  1.0,
		model.SystemIntegrity: 0.9,
	}
}

// seedWeights are the weights assigned when a foundation statement
// mentions the principle by name.
var seedWeights = map[model.Principle]float64{
	model.Privacy:      1.0,
	model.Security:     1.0,
	model.Transparency: 0.9,
	model.Autonomy:     0.9,
	model.Creativity:   0.8,
}

// InitializeWeights scans free-text foundation statements for principle
// keywords (case-insensitive substring match) and seeds matched
// principles; every unmatched principle is filled from DefaultWeights.
// The result always covers all nine principles.
func InitializeWeights(foundation []string) Weights {
	weights := make(Weights, len(model.AllPrinciples()))

	for _, statement := range foundation {
		lower := strings.ToLower(statement)
		for p, w := range seedWeights {
			if strings.Contains(lower, string(p)) {
				weights[p] = w
			}
		}
	}

	for p, w := range DefaultWeights() {
		if _, ok := weights[p]; !ok {
			weights[p] = w
		}
	}

	return weights
}

// Adjust nudges the weight of a principle by delta, clamped to [0, 1].
// Returns the applied change, which is zero when already at a bound.
func (w Weights) Adjust(p model.Principle, delta float64) float64 {
	current, ok := w[p]
	if !ok {
		current = DefaultWeights()[p]
	}

	next := current + delta
	if next < 0 {
		next = 0
	}
	if next > 1 {
		next = 1
	}
	w[p] = next
	return next - current
}

// Snapshot returns a copy safe to hand out without the governor lock.
func (w Weights) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(w))
	for p, v := range w {
		out[string(p)] = v
	}
	return out
}
