package gate

import (
	"math"
	"testing"

	"github.com/pkarpov/structgate/internal/model"
)

const eps = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestScoreReferenceCase(t *testing.T) {
	p := DefaultParams()
	score := Score(model.Triple{G: 0.80, A: 0.70, C: 0.70}, p)
	if !almostEqual(score, 0.745) {
		t.Errorf("score = %v, want 0.745", score)
	}
}

func TestEvaluateAdmissible(t *testing.T) {
	p := DefaultParams()
	res, err := Evaluate(model.Triple{G: 0.80, A: 0.70, C: 0.70}, p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != model.Allow {
		t.Errorf("status = %s, want ALLOW", res.Status)
	}
	if res.Reason != model.ReasonAdmissible {
		t.Errorf("reason = %s, want admissible", res.Reason)
	}
	if res.Risk != 0.0 {
		t.Errorf("risk = %v, want 0", res.Risk)
	}
	if res.Permission != 1.0 {
		t.Errorf("permission = %v, want 1", res.Permission)
	}
}

func TestEvaluateLowEverything(t *testing.T) {
	p := DefaultParams()
	res, err := Evaluate(model.Triple{G: 0.10, A: 0.10, C: 0.10}, p)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(res.Score, 0.10) {
		t.Errorf("score = %v, want 0.10", res.Score)
	}
	if res.Status != model.Deny {
		t.Errorf("status = %s, want DENY", res.Status)
	}
	// g is checked before a and c
	if res.Reason != model.ReasonAlignmentLow {
		t.Errorf("reason = %s, want alignment_insufficient", res.Reason)
	}
	if !almostEqual(res.Risk, 0.52) {
		t.Errorf("risk = %v, want 0.52", res.Risk)
	}
	if res.Permission != 0.0 {
		t.Errorf("permission = %v, want 0", res.Permission)
	}
}

func TestClassifyBandBoundaries(t *testing.T) {
	p := DefaultParams() // low 0.57, high 0.67

	cases := []struct {
		score float64
		want  model.Status
	}{
		{0.5699, model.Deny},
		{0.57, model.Abstain}, // band closed below
		{0.62, model.Abstain},
		{0.67, model.Abstain}, // band closed above
		{0.6701, model.Allow},
	}
	for _, tc := range cases {
		if got := Classify(tc.score, p); got != tc.want {
			t.Errorf("Classify(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestPermissionLinearInBand(t *testing.T) {
	p := DefaultParams()
	if got := Permission(0.57, p); !almostEqual(got, 0.0) {
		t.Errorf("permission at band low = %v, want 0", got)
	}
	if got := Permission(0.62, p); !almostEqual(got, 0.5) {
		t.Errorf("permission at tau = %v, want 0.5", got)
	}
	if got := Permission(0.67, p); !almostEqual(got, 1.0) {
		t.Errorf("permission at band high = %v, want 1", got)
	}
	if got := Permission(0.40, p); got != 0.0 {
		t.Errorf("permission below band = %v, want 0", got)
	}
	if got := Permission(0.90, p); got != 1.0 {
		t.Errorf("permission above band = %v, want 1", got)
	}
}

func TestZeroBandDegeneratesToIndicator(t *testing.T) {
	p := DefaultParams()
	p.Band = 0.0

	if got := Classify(0.62, p); got != model.Abstain {
		// tau-band <= score <= tau+band collapses to score == tau
		t.Errorf("Classify(tau) with zero band = %s, want ABSTAIN", got)
	}
	if got := Classify(0.6199, p); got != model.Deny {
		t.Errorf("Classify(just below tau) = %s, want DENY", got)
	}
	if got := Classify(0.6201, p); got != model.Allow {
		t.Errorf("Classify(just above tau) = %s, want ALLOW", got)
	}

	// Permission must be a clean indicator, no division by zero
	if got := Permission(0.62, p); got != 1.0 {
		t.Errorf("permission at tau with zero band = %v, want 1", got)
	}
	if got := Permission(0.6199, p); got != 0.0 {
		t.Errorf("permission below tau with zero band = %v, want 0", got)
	}
	if math.IsNaN(Permission(0.62, p)) {
		t.Error("permission produced NaN with zero band")
	}
}

func TestRiskAsymmetric(t *testing.T) {
	p := DefaultParams()
	if got := Risk(0.90, p); got != 0.0 {
		t.Errorf("risk above tau = %v, want 0", got)
	}
	if got := Risk(0.62, p); got != 0.0 {
		t.Errorf("risk at tau = %v, want 0", got)
	}
	if got := Risk(0.50, p); !almostEqual(got, 0.12) {
		t.Errorf("risk below tau = %v, want 0.12", got)
	}
}

func TestDenyReasonOrder(t *testing.T) {
	p := DefaultParams()

	cases := []struct {
		name string
		in   model.Triple
		want model.Reason
	}{
		// all three below cutoff: g reported first
		{"all low", model.Triple{G: 0.10, A: 0.10, C: 0.10}, model.ReasonAlignmentLow},
		// g fine, a and c low: a reported before c
		{"a and c low", model.Triple{G: 0.30, A: 0.10, C: 0.10}, model.ReasonAccessLow},
		{"only c low", model.Triple{G: 0.30, A: 0.30, C: 0.10}, model.ReasonContextLow},
		// nothing individually low, score still under threshold
		{"generic", model.Triple{G: 0.55, A: 0.55, C: 0.55}, model.ReasonBelowThreshold},
	}
	for _, tc := range cases {
		res, err := Evaluate(tc.in, p)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if res.Status != model.Deny {
			t.Fatalf("%s: status = %s, want DENY", tc.name, res.Status)
		}
		if res.Reason != tc.want {
			t.Errorf("%s: reason = %s, want %s", tc.name, res.Reason, tc.want)
		}
	}
}

func TestEvaluateRejectsOutOfRange(t *testing.T) {
	p := DefaultParams()
	if _, err := Evaluate(model.Triple{G: 1.2, A: 0.5, C: 0.5}, p); err == nil {
		t.Error("expected error for g out of range")
	}
	if _, err := Evaluate(model.Triple{G: 0.5, A: -0.1, C: 0.5}, p); err == nil {
		t.Error("expected error for negative a")
	}
}

func TestEvaluateWithPenalty(t *testing.T) {
	p := DefaultParams()

	// (0.70, 0.70, 0.70) scores 0.70: ALLOW on its own
	res, err := EvaluateWithPenalty(model.Triple{G: 0.70, A: 0.70, C: 0.70}, 0.10, p)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(res.Score, 0.70) {
		t.Errorf("raw score = %v, want 0.70", res.Score)
	}
	if !almostEqual(res.Effective, 0.60) {
		t.Errorf("effective = %v, want 0.60", res.Effective)
	}
	// decision follows the effective score, not the raw one
	if res.Status != model.Abstain {
		t.Errorf("status = %s, want ABSTAIN", res.Status)
	}
	if !almostEqual(res.Risk, 0.02) {
		t.Errorf("risk = %v, want 0.02", res.Risk)
	}
}

func TestSameInputsSameVerdict(t *testing.T) {
	p := DefaultParams()
	in := model.Triple{G: 0.61, A: 0.37, C: 0.83}
	first, err := Evaluate(in, p)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		res, err := Evaluate(in, p)
		if err != nil {
			t.Fatal(err)
		}
		if res != first {
			t.Fatalf("evaluation %d differs: %+v vs %+v", i, res, first)
		}
	}
}
