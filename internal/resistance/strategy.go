// Package resistance maintains the scalar history state that biases
// future gate decisions: repeated failures build resistance, which
// degrades the effective score of later steps. Exactly one state exists
// per sequence; it starts at zero, is stepped once per evaluation, and
// is never shared across sequences.
package resistance

import (
	"fmt"

	"github.com/pkarpov/structgate/internal/model"
)

// Strategy is one named resistance update rule. The two variants have
// different semantics (decay-capable vs monotone-only) and are kept
// distinct; callers select one explicitly.
type Strategy interface {
	// Name identifies the strategy in evidence tables.
	Name() string
	// Update returns the new resistance given the previous value, the
	// status of the current step, and the step's risk.
	Update(s float64, status model.Status, risk float64) float64
}

// Differential is the deny/abstain/allow differential update:
//
//	DENY:    s' = s + KDeny * r
//	ABSTAIN: s' = s + KAbstain * r
//	ALLOW:   s' = s * (1 - KAllow)
//
// Resistance grows on failures and decays geometrically toward zero on
// successes.
type Differential struct {
	KDeny    float64
	KAbstain float64
	KAllow   float64
}

// DefaultDifferential returns the reference gains: k_deny 0.60,
// k_abstain 0.25, k_allow 0.30.
func DefaultDifferential() Differential {
	return Differential{
		KDeny:    0.60,
		KAbstain: 0.25,
		KAllow:   0.30,
	}
}

func (d Differential) Name() string { return "differential" }

func (d Differential) Update(s float64, status model.Status, risk float64) float64 {
	switch status {
	case model.Deny:
		return s + d.KDeny*risk
	case model.Abstain:
		return s + d.KAbstain*risk
	default:
		return s * (1.0 - d.KAllow)
	}
}

// Validate rejects gains outside their meaningful ranges.
func (d Differential) Validate() error {
	if d.KDeny < 0.0 || d.KAbstain < 0.0 {
		return fmt.Errorf("accumulation gains must be >= 0, got k_deny=%v k_abstain=%v", d.KDeny, d.KAbstain)
	}
	if d.KAllow < 0.0 || d.KAllow > 1.0 {
		return fmt.Errorf("k_allow must be in [0,1], got %v", d.KAllow)
	}
	return nil
}

// Monotone is the simple accumulation-only update:
//
//	s' = s + KResist * max(0, r - RSafe)
//
// Risk below RSafe does not accumulate; there is no decay branch. Used
// where only accumulation, not recovery, needs to be demonstrated.
type Monotone struct {
	KResist float64
	RSafe   float64
}

// DefaultMonotone returns the reference gains: k_resist 1.00,
// r_safe 0.20.
func DefaultMonotone() Monotone {
	return Monotone{
		KResist: 1.00,
		RSafe:   0.20,
	}
}

func (m Monotone) Name() string { return "monotone" }

func (m Monotone) Update(s float64, status model.Status, risk float64) float64 {
	inc := risk - m.RSafe
	if inc < 0.0 {
		inc = 0.0
	}
	return s + m.KResist*inc
}

// Validate rejects negative gains.
func (m Monotone) Validate() error {
	if m.KResist < 0.0 {
		return fmt.Errorf("k_resist must be >= 0, got %v", m.KResist)
	}
	if m.RSafe < 0.0 {
		return fmt.Errorf("r_safe must be >= 0, got %v", m.RSafe)
	}
	return nil
}

// ByName returns a built-in strategy with its reference gains.
// Fail-fast: unknown names are an error, never a silent default.
func ByName(name string) (Strategy, error) {
	switch name {
	case "differential":
		return DefaultDifferential(), nil
	case "monotone":
		return DefaultMonotone(), nil
	default:
		return nil, fmt.Errorf("unknown resistance strategy: %q", name)
	}
}
