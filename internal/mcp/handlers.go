package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pkarpov/structgate/internal/gate"
	"github.com/pkarpov/structgate/internal/model"
	"github.com/pkarpov/structgate/internal/resistance"
	"github.com/pkarpov/structgate/internal/sweep"
)

// --- Input/Output types ---

// CheckInput defines parameters for the gate_check tool.
type CheckInput struct {
	G float64 `json:"g" jsonschema:"alignment observable in [0,1]"`
	A float64 `json:"a" jsonschema:"internal access observable in [0,1]"`
	C float64 `json:"c" jsonschema:"context/constraint observable in [0,1]"`
}

// CheckOutput contains the gate decision.
type CheckOutput struct {
	Status     string  `json:"status"`
	Score      float64 `json:"score"`
	Permission float64 `json:"permission"`
	Risk       float64 `json:"risk"`
	Reason     string  `json:"reason"`
	ConfigHash string  `json:"config_hash"`
}

// SweepInput defines parameters for the gate_sweep tool.
type SweepInput struct {
	GridN int      `json:"grid_n" jsonschema:"grid resolution per axis (default 11)"`
	Tau   *float64 `json:"tau,omitempty" jsonschema:"threshold override in [0,1]"`
	Band  *float64 `json:"band,omitempty" jsonschema:"tolerance band override (>= 0)"`
}

// SweepOutput contains the sweep summary and monotonicity verdict.
type SweepOutput struct {
	GridN      int      `json:"grid_n"`
	Points     int      `json:"points"`
	Deny       int      `json:"deny"`
	Abstain    int      `json:"abstain"`
	Allow      int      `json:"allow"`
	Violations int      `json:"violations"`
	Monotone   bool     `json:"monotone"`
	Examples   []string `json:"examples,omitempty"`
}

// SequenceStep is one triple within a gate_sequence call.
type SequenceStep struct {
	G float64 `json:"g"`
	A float64 `json:"a"`
	C float64 `json:"c"`
}

// SequenceInput defines parameters for the gate_sequence tool.
type SequenceInput struct {
	Steps    []SequenceStep `json:"steps" jsonschema:"ordered observable triples"`
	Strategy string         `json:"strategy,omitempty" jsonschema:"resistance strategy (differential or monotone, default differential)"`
	Alpha    *float64       `json:"alpha,omitempty" jsonschema:"resistance penalty factor (default 0.40)"`
}

// SequenceStepOutput is one evaluated step.
type SequenceStepOutput struct {
	Step      int     `json:"t"`
	Score     float64 `json:"score"`
	Effective float64 `json:"effective"`
	Status    string  `json:"status"`
	Risk      float64 `json:"risk"`
	Before    float64 `json:"s_before"`
	After     float64 `json:"s_after"`
}

// SequenceOutput contains the full sequence trace.
type SequenceOutput struct {
	Strategy    string               `json:"strategy"`
	Alpha       float64              `json:"alpha"`
	Steps       []SequenceStepOutput `json:"steps"`
	Final       float64              `json:"final_resistance"`
	FinalStatus string               `json:"final_status"`
}

// --- Handlers ---

func (s *Server) handleCheck(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckInput) (*mcpsdk.CallToolResult, CheckOutput, error) {
	p, hash := s.Params()

	res, err := gate.Evaluate(model.Triple{G: input.G, A: input.A, C: input.C}, p)
	if err != nil {
		return nil, CheckOutput{}, err
	}

	return nil, CheckOutput{
		Status:     string(res.Status),
		Score:      res.Score,
		Permission: res.Permission,
		Risk:       res.Risk,
		Reason:     string(res.Reason),
		ConfigHash: hash,
	}, nil
}

func (s *Server) handleSweep(ctx context.Context, req *mcpsdk.CallToolRequest, input SweepInput) (*mcpsdk.CallToolResult, SweepOutput, error) {
	p, _ := s.Params()
	if input.Tau != nil {
		p.Tau = *input.Tau
	}
	if input.Band != nil {
		p.Band = *input.Band
	}

	n := input.GridN
	if n == 0 {
		n = 11
	}

	rep, err := sweep.Run(p, n)
	if err != nil {
		return nil, SweepOutput{}, err
	}

	out := SweepOutput{
		GridN:      rep.GridN,
		Points:     rep.Points,
		Deny:       rep.Counts[model.Deny],
		Abstain:    rep.Counts[model.Abstain],
		Allow:      rep.Counts[model.Allow],
		Violations: rep.Violations,
		Monotone:   rep.Monotone(),
	}
	for _, v := range rep.Examples {
		out.Examples = append(out.Examples, v.String())
	}
	return nil, out, nil
}

func (s *Server) handleSequence(ctx context.Context, req *mcpsdk.CallToolRequest, input SequenceInput) (*mcpsdk.CallToolResult, SequenceOutput, error) {
	if len(input.Steps) == 0 {
		return nil, SequenceOutput{}, fmt.Errorf("steps must not be empty")
	}

	name := input.Strategy
	if name == "" {
		name = "differential"
	}
	strat, err := resistance.ByName(name)
	if err != nil {
		return nil, SequenceOutput{}, err
	}

	alpha := resistance.DefaultAlpha
	if input.Alpha != nil {
		alpha = *input.Alpha
	}

	p, _ := s.Params()
	runner, err := resistance.NewRunner(p, strat, alpha)
	if err != nil {
		return nil, SequenceOutput{}, err
	}

	path := make([]model.Triple, 0, len(input.Steps))
	for _, st := range input.Steps {
		path = append(path, model.Triple{G: st.G, A: st.A, C: st.C})
	}

	steps, err := runner.Run(path)
	if err != nil {
		return nil, SequenceOutput{}, err
	}

	out := SequenceOutput{
		Strategy: strat.Name(),
		Alpha:    alpha,
		Final:    runner.Resistance(),
	}
	for _, st := range steps {
		out.Steps = append(out.Steps, SequenceStepOutput{
			Step:      st.Index,
			Score:     st.Result.Score,
			Effective: st.Result.Effective,
			Status:    string(st.Result.Status),
			Risk:      st.Result.Risk,
			Before:    st.Before,
			After:     st.After,
		})
	}
	out.FinalStatus = string(steps[len(steps)-1].Result.Status)

	return nil, out, nil
}
