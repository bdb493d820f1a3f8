package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pkarpov/structgate/internal/gate"
	"github.com/pkarpov/structgate/internal/model"
	"github.com/pkarpov/structgate/internal/resistance"
)

// Run evaluates all cases in a scenario against the given parameters.
// Every case is decided independently; the monotone resistance tally
// accumulates across cases in order, for reporting only.
func Run(s *Scenario, p gate.Params) (*RunResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	tally := resistance.DefaultMonotone()
	acc := 0.0

	result := &RunResult{
		Name:  s.Name,
		Total: len(s.Cases),
	}

	for i, c := range s.Cases {
		t := model.Triple{G: c.G, A: c.A, C: c.C}
		res, err := gate.Evaluate(t, p)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.ID, err)
		}

		acc = tally.Update(acc, res.Status, res.Risk)

		cr := CaseResult{
			Index:      i + 1,
			ID:         c.ID,
			Label:      c.Label,
			Energy:     c.Energy,
			Input:      t,
			Result:     res,
			Resistance: acc,
			Expected:   c.Expect,
		}

		cr.Passed = matches(c.Expect, res)
		if cr.Passed {
			result.Passed++
		} else {
			result.Failed++
		}

		result.Cases = append(result.Cases, cr)
	}

	return result, nil
}

// matches checks a result against an expectation. Empty expect fields
// match anything.
func matches(e Expect, res model.Result) bool {
	if e.Status != "" && model.ParseStatus(e.Status) != res.Status {
		return false
	}
	if e.Reason != "" && model.Reason(e.Reason) != res.Reason {
		return false
	}
	return true
}

// LoadAndRun loads a scenario YAML file and runs it with the given
// gate configuration path (empty path means defaults).
func LoadAndRun(path, configPath string) (*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	p, err := gate.LoadParams(configPath)
	if err != nil {
		return nil, fmt.Errorf("load gate config: %w", err)
	}

	result, err := Run(&s, p)
	if err != nil {
		return nil, err
	}
	result.File = path

	return result, nil
}
