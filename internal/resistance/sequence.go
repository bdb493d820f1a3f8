package resistance

import (
	"fmt"

	"github.com/pkarpov/structgate/internal/gate"
	"github.com/pkarpov/structgate/internal/model"
)

// Step is the record of one evaluation in a sequence: the input, the
// raw and effective scores, the resistance before and after the update,
// and the gate result.
type Step struct {
	Index  int          `json:"t"`
	Input  model.Triple `json:"input"`
	Before float64      `json:"s_before"`
	After  float64      `json:"s_after"`
	Result model.Result `json:"result"`
}

// Runner owns one ResistanceState for one sequence of evaluations.
// Steps are strictly sequential: each depends on the previous step's
// output state. Independent sequences get independent runners.
type Runner struct {
	params gate.Params
	strat  Strategy
	// alpha scales the penalty applied to the score before the
	// decision: effective = score - alpha * s_prev. The state built
	// from history degrades the present score before the present
	// decision is made.
	alpha float64
	s     float64
	steps int
}

// DefaultAlpha is the reference resistance penalty factor.
const DefaultAlpha = 0.40

// NewRunner creates a sequence runner with resistance starting at zero.
func NewRunner(p gate.Params, strat Strategy, alpha float64) (*Runner, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if strat == nil {
		return nil, fmt.Errorf("resistance strategy is required")
	}
	if alpha < 0.0 {
		return nil, fmt.Errorf("alpha must be >= 0, got %v", alpha)
	}
	return &Runner{params: p, strat: strat, alpha: alpha}, nil
}

// Resistance returns the current accumulated state.
func (r *Runner) Resistance() float64 { return r.s }

// Strategy returns the update rule this runner applies.
func (r *Runner) Strategy() Strategy { return r.strat }

// Step evaluates one triple against the gate with the penalty built
// from prior history, then updates the state once from the produced
// status and risk.
func (r *Runner) Step(t model.Triple) (Step, error) {
	before := r.s

	res, err := gate.EvaluateWithPenalty(t, r.alpha*before, r.params)
	if err != nil {
		return Step{}, err
	}

	r.s = r.strat.Update(before, res.Status, res.Risk)
	r.steps++

	return Step{
		Index:  r.steps,
		Input:  t,
		Before: before,
		After:  r.s,
		Result: res,
	}, nil
}

// Run evaluates a whole path in order and returns the per-step records.
func (r *Runner) Run(path []model.Triple) ([]Step, error) {
	steps := make([]Step, 0, len(path))
	for _, t := range path {
		st, err := r.Step(t)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", r.steps+1, err)
		}
		steps = append(steps, st)
	}
	return steps, nil
}

// Path is a named deterministic sequence of triples.
type Path struct {
	Name   string
	Label  string
	Points []model.Triple
}

// ReferencePaths returns the two canonical paths that reach the same
// endpoint (0.62, 0.62, 0.62) through different histories. With a
// positive alpha the fatigue path can end in a different status than
// the clean path, showing that admissibility is not a pure function of
// the final instantaneous triple.
func ReferencePaths() []Path {
	return []Path{
		{
			Name:  "A",
			Label: "fatigue_path",
			Points: []model.Triple{
				{G: 0.58, A: 0.58, C: 0.58},
				{G: 0.59, A: 0.59, C: 0.59},
				{G: 0.60, A: 0.60, C: 0.60},
				{G: 0.61, A: 0.61, C: 0.61},
				{G: 0.62, A: 0.62, C: 0.62},
			},
		},
		{
			Name:  "B",
			Label: "clean_path",
			Points: []model.Triple{
				{G: 0.70, A: 0.70, C: 0.70},
				{G: 0.66, A: 0.66, C: 0.66},
				{G: 0.64, A: 0.64, C: 0.64},
				{G: 0.63, A: 0.63, C: 0.63},
				{G: 0.62, A: 0.62, C: 0.62},
			},
		},
	}
}
