// Package scenario runs named deterministic case suites against the
// gate and checks the produced statuses against expectations. Cases are
// independent; a sequential resistance tally is carried alongside for
// the evidence tables only and never feeds back into decisions.
package scenario

import "github.com/pkarpov/structgate/internal/model"

// Expect is the expected outcome of one case. Reason is optional;
// empty means any reason passes.
type Expect struct {
	Status string `yaml:"status"`
	Reason string `yaml:"reason,omitempty"`
}

// Case is one deterministic gate input within a scenario. Energy is
// carried through the evidence rows untouched: it exists to show that
// magnitude of drive never influences admissibility.
type Case struct {
	ID     string  `yaml:"id"`
	Label  string  `yaml:"label"`
	Energy float64 `yaml:"energy"`
	G      float64 `yaml:"g"`
	A      float64 `yaml:"a"`
	C      float64 `yaml:"c"`
	Note   string  `yaml:"note,omitempty"`
	Expect Expect  `yaml:"expect"`
}

// Scenario is a named collection of gate test cases.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Cases       []Case `yaml:"cases"`
}

// CaseResult is the outcome of evaluating one case.
type CaseResult struct {
	Index      int          `json:"index"`
	ID         string       `json:"id"`
	Label      string       `json:"label"`
	Energy     float64      `json:"energy"`
	Input      model.Triple `json:"input"`
	Result     model.Result `json:"result"`
	Resistance float64      `json:"s_resistance"`
	Expected   Expect       `json:"expected"`
	Passed     bool         `json:"passed"`
}

// RunResult is the outcome of running all cases in one scenario.
type RunResult struct {
	File   string       `json:"file,omitempty"`
	Name   string       `json:"name"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}
