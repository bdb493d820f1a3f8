package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkarpov/structgate/internal/gate"
	"github.com/pkarpov/structgate/internal/model"
)

func TestBuiltinSuitesPass(t *testing.T) {
	p := gate.DefaultParams()
	for _, name := range ListSuites() {
		s, err := LoadSuite(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		rr, err := Run(s, p)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if rr.Failed != 0 {
			t.Errorf("suite %s: %d failures", name, rr.Failed)
			for _, c := range rr.Cases {
				if !c.Passed {
					t.Errorf("  case %s: expected %s/%s, got %s/%s (score %.4f)",
						c.ID, c.Expected.Status, c.Expected.Reason,
						c.Result.Status, c.Result.Reason, c.Result.Score)
				}
			}
		}
	}
}

func TestListSuites(t *testing.T) {
	names := ListSuites()
	if len(names) != 2 {
		t.Fatalf("suites = %v", names)
	}
	if names[0] != "canonical" || names[1] != "demo" {
		t.Errorf("suites = %v, want [canonical demo]", names)
	}
	if _, err := LoadSuite("nonexistent"); err == nil {
		t.Error("expected error for unknown suite")
	}
}

func TestFailedAssertionDetected(t *testing.T) {
	s := &Scenario{
		Name: "wrong expectation",
		Cases: []Case{
			// (0.8, 0.7, 0.7) scores 0.745: ALLOW, but we expect DENY
			{ID: "x", G: 0.8, A: 0.7, C: 0.7, Expect: Expect{Status: "DENY"}},
		},
	}
	rr, err := Run(s, gate.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if rr.Failed != 1 || rr.Passed != 0 {
		t.Errorf("passed=%d failed=%d, want 0/1", rr.Passed, rr.Failed)
	}
}

func TestReasonExpectationChecked(t *testing.T) {
	s := &Scenario{
		Name: "reason mismatch",
		Cases: []Case{
			// DENY is right but the attributed reason is alignment_insufficient
			{ID: "x", G: 0.1, A: 0.1, C: 0.1, Expect: Expect{Status: "DENY", Reason: "constraint_too_weak"}},
		},
	}
	rr, err := Run(s, gate.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if rr.Failed != 1 {
		t.Errorf("failed = %d, want 1", rr.Failed)
	}
}

func TestEmptyExpectMatchesAnything(t *testing.T) {
	s := &Scenario{
		Name:  "no expectations",
		Cases: []Case{{ID: "x", G: 0.5, A: 0.5, C: 0.5}},
	}
	rr, err := Run(s, gate.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if rr.Passed != 1 {
		t.Errorf("passed = %d, want 1", rr.Passed)
	}
}

func TestResistanceTallyAccumulates(t *testing.T) {
	s, err := LoadSuite("demo")
	if err != nil {
		t.Fatal(err)
	}
	rr, err := Run(s, gate.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	prev := 0.0
	for _, c := range rr.Cases {
		if c.Resistance < prev {
			t.Errorf("case %s: tally decreased %v -> %v", c.ID, prev, c.Resistance)
		}
		prev = c.Resistance
	}
	if prev <= 0.0 {
		t.Errorf("final tally = %v, want > 0", prev)
	}
}

func TestRunRejectsOutOfRangeCase(t *testing.T) {
	s := &Scenario{
		Name:  "bad case",
		Cases: []Case{{ID: "x", G: 1.5, A: 0.5, C: 0.5}},
	}
	if _, err := Run(s, gate.DefaultParams()); err == nil {
		t.Error("expected error for out-of-range observable")
	}
}

func TestLoadAndRunFromFile(t *testing.T) {
	content := `name: file suite
cases:
  - id: f1
    label: admissible
    g: 0.80
    a: 0.70
    c: 0.70
    expect:
      status: ALLOW
`
	path := filepath.Join(t.TempDir(), "suite.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rr, err := LoadAndRun(path, filepath.Join(t.TempDir(), "no-config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if rr.File != path {
		t.Errorf("file = %q", rr.File)
	}
	if rr.Failed != 0 {
		t.Errorf("failed = %d, want 0", rr.Failed)
	}
	if rr.Cases[0].Result.Status != model.Allow {
		t.Errorf("status = %s", rr.Cases[0].Result.Status)
	}
}
