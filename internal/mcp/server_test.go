package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNewWithDefaults(t *testing.T) {
	srv, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}
	p, hash := srv.Params()
	if p.Tau != 0.62 || p.Band != 0.05 {
		t.Errorf("params = %+v", p)
	}
	if hash == "" {
		t.Error("expected a config hash")
	}
}

func TestHandleCheck(t *testing.T) {
	srv, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}

	_, out, err := srv.handleCheck(context.Background(), nil, CheckInput{G: 0.80, A: 0.70, C: 0.70})
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != "ALLOW" {
		t.Errorf("status = %s, want ALLOW", out.Status)
	}
	if out.Risk != 0.0 {
		t.Errorf("risk = %v, want 0", out.Risk)
	}

	if _, _, err := srv.handleCheck(context.Background(), nil, CheckInput{G: 1.5}); err == nil {
		t.Error("expected error for out-of-range input")
	}
}

func TestHandleSweep(t *testing.T) {
	srv, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}

	tau := 0.50
	_, out, err := srv.handleSweep(context.Background(), nil, SweepInput{GridN: 5, Tau: &tau})
	if err != nil {
		t.Fatal(err)
	}
	if out.Points != 125 {
		t.Errorf("points = %d, want 125", out.Points)
	}
	if !out.Monotone {
		t.Errorf("expected monotone sweep, got %d violations", out.Violations)
	}
	if out.Deny+out.Abstain+out.Allow != out.Points {
		t.Error("status counts do not cover the grid")
	}
}

func TestHandleSequence(t *testing.T) {
	srv, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}

	in := SequenceInput{
		Steps: []SequenceStep{
			{G: 0.58, A: 0.58, C: 0.58},
			{G: 0.59, A: 0.59, C: 0.59},
		},
	}
	_, out, err := srv.handleSequence(context.Background(), nil, in)
	if err != nil {
		t.Fatal(err)
	}
	if out.Strategy != "differential" {
		t.Errorf("strategy = %s", out.Strategy)
	}
	if len(out.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(out.Steps))
	}
	if out.Final <= 0.0 {
		t.Errorf("final resistance = %v, want > 0", out.Final)
	}
	if out.FinalStatus != "ABSTAIN" {
		t.Errorf("final status = %s, want ABSTAIN", out.FinalStatus)
	}

	if _, _, err := srv.handleSequence(context.Background(), nil, SequenceInput{}); err == nil {
		t.Error("expected error for empty steps")
	}
	if _, _, err := srv.handleSequence(context.Background(), nil, SequenceInput{
		Steps:    []SequenceStep{{G: 0.5, A: 0.5, C: 0.5}},
		Strategy: "unknown",
	}); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestReloadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gate.yaml")
	if err := os.WriteFile(path, []byte("tau: 0.62\n"), 0644); err != nil {
		t.Fatal(err)
	}

	srv, err := New(Config{ConfigPath: path})
	if err != nil {
		t.Fatal(err)
	}
	_, before := srv.Params()

	if err := os.WriteFile(path, []byte("tau: 0.70\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := srv.ReloadParams(); err != nil {
		t.Fatal(err)
	}

	p, after := srv.Params()
	if p.Tau != 0.70 {
		t.Errorf("tau = %v, want 0.70 after reload", p.Tau)
	}
	if before == after {
		t.Error("config hash did not change on reload")
	}
}

func TestReloadKeepsParamsOnInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gate.yaml")
	if err := os.WriteFile(path, []byte("tau: 0.62\n"), 0644); err != nil {
		t.Fatal(err)
	}

	srv, err := New(Config{ConfigPath: path})
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("band: -5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := srv.ReloadParams(); err == nil {
		t.Error("expected reload error for invalid config")
	}

	p, _ := srv.Params()
	if p.Tau != 0.62 || p.Band != 0.05 {
		t.Errorf("params changed despite invalid reload: %+v", p)
	}
}
