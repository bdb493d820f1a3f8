// Package gate implements the deterministic admissibility gate: a pure
// three-way classifier over structural observables. The gate decides
// whether a transition is structurally permitted; it is independent of
// any magnitude-of-drive signal (energy being present does not make a
// transition admissible).
package gate

import (
	"github.com/pkarpov/structgate/internal/model"
)

// lowObservableCutoff is the fixed cutoff below which an individual
// observable is reported as the attributed DENY cause.
const lowObservableCutoff = 0.25

// Score computes the structural aggregator f(g,a,c) = wg*g + wa*a + wc*c.
// The output is not clamped: weights need not sum to exactly 1 and the
// caller owns that invariant.
func Score(t model.Triple, p Params) float64 {
	return p.WG*t.G + p.WA*t.A + p.WC*t.C
}

// Classify converts a score into a status using the threshold and the
// tolerance band:
//
//	DENY    if score < tau - band
//	ABSTAIN if tau - band <= score <= tau + band
//	ALLOW   if score > tau + band
//
// The band is closed on both sides.
func Classify(score float64, p Params) model.Status {
	low := p.Tau - p.Band
	high := p.Tau + p.Band
	if score < low {
		return model.Deny
	}
	if score <= high {
		return model.Abstain
	}
	return model.Allow
}

// Permission maps a score to a permission level in [0,1]: linear
// interpolation between tau-band and tau+band, clamped. With a zero
// band it degenerates to the indicator of score >= tau; no division
// occurs in that case.
func Permission(score float64, p Params) float64 {
	if p.Band <= 0.0 {
		if score >= p.Tau {
			return 1.0
		}
		return 0.0
	}
	low := p.Tau - p.Band
	high := p.Tau + p.Band
	return model.Clamp01((score - low) / (high - low))
}

// Risk is the distance below threshold: max(0, tau - score).
// Asymmetric: only under-permission accrues risk.
func Risk(score float64, p Params) float64 {
	if score >= p.Tau {
		return 0.0
	}
	return p.Tau - score
}

// attributeReason refines a status into a reason label. For DENY it
// inspects g, then a, then c against the low-value cutoff and reports
// the first below it. The g → a → c order is a fixed tie-break carried
// over from the reference tables, not a causal claim.
func attributeReason(status model.Status, t model.Triple) model.Reason {
	switch status {
	case model.Allow:
		return model.ReasonAdmissible
	case model.Abstain:
		return model.ReasonNearThreshold
	}
	if t.G < lowObservableCutoff {
		return model.ReasonAlignmentLow
	}
	if t.A < lowObservableCutoff {
		return model.ReasonAccessLow
	}
	if t.C < lowObservableCutoff {
		return model.ReasonContextLow
	}
	return model.ReasonBelowThreshold
}

// Evaluate runs the full gate on a caller-supplied triple: range
// validation, score, status, permission, risk, and reason attribution.
func Evaluate(t model.Triple, p Params) (model.Result, error) {
	return EvaluateWithPenalty(t, 0.0, p)
}

// EvaluateWithPenalty evaluates a triple with a resistance penalty
// already computed from history. The decision, permission, and risk are
// taken on the effective score (score - penalty); the raw score is
// reported alongside. Reason attribution still inspects the raw
// observables.
func EvaluateWithPenalty(t model.Triple, penalty float64, p Params) (model.Result, error) {
	if err := t.Validate(); err != nil {
		return model.Result{}, err
	}

	score := Score(t, p)
	eff := score - penalty
	status := Classify(eff, p)

	return model.Result{
		Status:     status,
		Score:      score,
		Effective:  eff,
		Permission: Permission(eff, p),
		Risk:       Risk(eff, p),
		Reason:     attributeReason(status, t),
	}, nil
}
