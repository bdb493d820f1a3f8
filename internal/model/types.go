package model

import (
	"fmt"
	"math"
)

// Status is the three-way admissibility outcome.
type Status string

const (
	Deny    Status = "DENY"
	Abstain Status = "ABSTAIN"
	Allow   Status = "ALLOW"
)

// StatusRank maps a status to a comparable integer.
// DENY < ABSTAIN < ALLOW. The order is used only for monotonicity
// checking, never for arithmetic.
var StatusRank = map[Status]int{
	Deny:    0,
	Abstain: 1,
	Allow:   2,
}

// ParseStatus maps a string to a Status. Fail-closed: unknown → Deny.
func ParseStatus(s string) Status {
	switch Status(s) {
	case Deny, Abstain, Allow:
		return Status(s)
	default:
		return Deny
	}
}

// Reason refines a status with the deterministic cause label.
type Reason string

const (
	ReasonAdmissible     Reason = "admissible"
	ReasonNearThreshold  Reason = "near_threshold"
	ReasonBelowThreshold Reason = "below_threshold"
	ReasonAlignmentLow   Reason = "alignment_insufficient"
	ReasonAccessLow      Reason = "internal_access_low"
	ReasonContextLow     Reason = "constraint_too_weak"
)

// Triple holds the three normalized structural observables.
// g: alignment, a: internal access, c: context/constraint support.
type Triple struct {
	G float64 `json:"g" yaml:"g"`
	A float64 `json:"a" yaml:"a"`
	C float64 `json:"c" yaml:"c"`
}

// Validate rejects caller-supplied observables outside [0,1].
// Direct inputs are validated strictly; adapter-derived values are
// clamped at the adapter boundary instead (see ClampTriple).
func (t Triple) Validate() error {
	for _, v := range []struct {
		name string
		x    float64
	}{{"g", t.G}, {"a", t.A}, {"c", t.C}} {
		if math.IsNaN(v.x) || v.x < 0.0 || v.x > 1.0 {
			return fmt.Errorf("%s must be in [0,1], got %v", v.name, v.x)
		}
	}
	return nil
}

// Clamp01 clamps x into [0,1].
func Clamp01(x float64) float64 {
	if x < 0.0 {
		return 0.0
	}
	if x > 1.0 {
		return 1.0
	}
	return x
}

// ClampTriple clamps each component into [0,1]. Used for values derived
// by adapters and proxies from raw domain data, which are clamped
// rather than rejected.
func ClampTriple(t Triple) Triple {
	return Triple{
		G: Clamp01(t.G),
		A: Clamp01(t.A),
		C: Clamp01(t.C),
	}
}

// Result is the output of one gate evaluation.
type Result struct {
	Status Status `json:"status"`
	// Score is the raw weighted sum f(g,a,c).
	Score float64 `json:"score"`
	// Effective is the score after any resistance penalty. Equal to
	// Score when no history applies.
	Effective float64 `json:"effective_score"`
	// Permission is the normalized position inside the tolerance band,
	// clamped to [0,1].
	Permission float64 `json:"permission"`
	// Risk is the distance below threshold, zero at or above.
	Risk   float64 `json:"risk"`
	Reason Reason  `json:"reason"`
}
