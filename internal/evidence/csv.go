// Package evidence persists gate outcomes in two forms: fixed-precision
// CSV files for the reproducible evidence tables, and a SQLite store
// for accumulating runs over time. All floats are written with six
// decimals so identical inputs produce byte-identical files.
package evidence

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pkarpov/structgate/internal/model"
	"github.com/pkarpov/structgate/internal/reaction"
	"github.com/pkarpov/structgate/internal/resistance"
	"github.com/pkarpov/structgate/internal/scenario"
	"github.com/pkarpov/structgate/internal/sweep"
)

// f6 is the fixed float format used in every evidence file.
func f6(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func b01(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// WriteScenarioCSV writes one row per scenario case.
func WriteScenarioCSV(out io.Writer, rr *scenario.RunResult) error {
	w := csv.NewWriter(out)
	header := []string{
		"id", "label", "energy", "g", "a", "c",
		"score", "status", "permission", "risk", "s_resistance",
		"reason", "expected_status", "passed",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, c := range rr.Cases {
		rec := []string{
			c.ID, c.Label, f6(c.Energy),
			f6(c.Input.G), f6(c.Input.A), f6(c.Input.C),
			f6(c.Result.Score), string(c.Result.Status),
			f6(c.Result.Permission), f6(c.Result.Risk), f6(c.Resistance),
			string(c.Result.Reason), c.Expected.Status, b01(c.Passed),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteSweepCSV writes one row per evaluated grid cell.
func WriteSweepCSV(out io.Writer, rep *sweep.Report) error {
	w := csv.NewWriter(out)
	header := []string{
		"i", "j", "k", "g", "a", "c",
		"score", "status", "permission", "risk", "reason",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, cell := range rep.Cells {
		rec := []string{
			strconv.Itoa(cell.I), strconv.Itoa(cell.J), strconv.Itoa(cell.K),
			f6(cell.Input.G), f6(cell.Input.A), f6(cell.Input.C),
			f6(cell.Result.Score), string(cell.Result.Status),
			f6(cell.Result.Permission), f6(cell.Result.Risk),
			string(cell.Result.Reason),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteBatchCSV writes one summary row per (tau, band) sweep.
func WriteBatchCSV(out io.Writer, entries []sweep.BatchEntry) error {
	w := csv.NewWriter(out)
	header := []string{
		"tau", "band", "grid_n", "points",
		"deny", "abstain", "allow",
		"violations", "monotone",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			f6(e.Tau), f6(e.Band),
			strconv.Itoa(e.Report.GridN), strconv.Itoa(e.Report.Points),
			strconv.Itoa(e.Report.Counts[model.Deny]),
			strconv.Itoa(e.Report.Counts[model.Abstain]),
			strconv.Itoa(e.Report.Counts[model.Allow]),
			strconv.Itoa(e.Report.Violations),
			b01(e.Report.Monotone()),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// SequenceRun is one labeled sequence for CSV output.
type SequenceRun struct {
	Label    string
	Strategy string
	Steps    []resistance.Step
}

// WriteSequenceCSV writes one row per step across all runs.
func WriteSequenceCSV(out io.Writer, runs []SequenceRun) error {
	w := csv.NewWriter(out)
	header := []string{
		"path", "strategy", "t", "g", "a", "c",
		"score", "effective", "s_before", "s_after",
		"status", "permission", "risk", "reason",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, run := range runs {
		for _, st := range run.Steps {
			rec := []string{
				run.Label, run.Strategy, strconv.Itoa(st.Index),
				f6(st.Input.G), f6(st.Input.A), f6(st.Input.C),
				f6(st.Result.Score), f6(st.Result.Effective),
				f6(st.Before), f6(st.After),
				string(st.Result.Status),
				f6(st.Result.Permission), f6(st.Result.Risk),
				string(st.Result.Reason),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// WriteAlignCSV writes one row per sampled reaction record.
func WriteAlignCSV(out io.Writer, rows []reaction.Row) error {
	w := csv.NewWriter(out)
	header := []string{
		"line_idx", "rid_sha16",
		"g", "a", "c", "score", "status",
		"baseline_energy", "baseline_class", "reaction_is_real",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		class := "LOW"
		if r.High {
			class = "HIGH"
		}
		rec := []string{
			strconv.Itoa(r.LineIdx), r.ID,
			f6(r.Input.G), f6(r.Input.A), f6(r.Input.C),
			f6(r.Result.Score), string(r.Result.Status),
			f6(r.Baseline), class, b01(r.Real),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteAlignSummaryCSV writes the single-row confusion summary of an
// alignment run.
func WriteAlignSummaryCSV(out io.Writer, source string, sum *reaction.Summary) error {
	w := csv.NewWriter(out)
	header := []string{
		"source", "tau", "band",
		"total", "parsed", "skipped", "sampled", "baseline_thr",
		"allow_real", "allow_not",
		"abstain_real", "abstain_not",
		"deny_real", "deny_not",
		"high_real", "high_not", "low_real", "low_not",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	rec := []string{
		source, f6(sum.Params.Tau), f6(sum.Params.Band),
		strconv.Itoa(sum.Total), strconv.Itoa(sum.Parsed),
		strconv.Itoa(sum.Skipped), strconv.Itoa(sum.Sampled),
		fmt.Sprintf("%.2f", reaction.BaselineThreshold),
		strconv.Itoa(sum.Gate.Real[model.Allow]), strconv.Itoa(sum.Gate.Not[model.Allow]),
		strconv.Itoa(sum.Gate.Real[model.Abstain]), strconv.Itoa(sum.Gate.Not[model.Abstain]),
		strconv.Itoa(sum.Gate.Real[model.Deny]), strconv.Itoa(sum.Gate.Not[model.Deny]),
		strconv.Itoa(sum.Baseline.HighReal), strconv.Itoa(sum.Baseline.HighNot),
		strconv.Itoa(sum.Baseline.LowReal), strconv.Itoa(sum.Baseline.LowNot),
	}
	if err := w.Write(rec); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
