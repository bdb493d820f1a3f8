package reaction

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkarpov/structgate/internal/gate"
	"github.com/pkarpov/structgate/internal/model"
)

// BaselineThreshold is the fixed cutoff that splits the energy baseline
// into HIGH and LOW classes.
const BaselineThreshold = 0.55

// maxLineBytes bounds one .rsmi line; patent reaction records can run
// very long.
const maxLineBytes = 1 << 20

// Row is one sampled evidence record from an alignment run.
type Row struct {
	LineIdx  int          `json:"line_idx"`
	ID       string       `json:"rid_sha16"`
	Record   Record       `json:"-"`
	Input    model.Triple `json:"input"`
	Result   model.Result `json:"result"`
	Baseline float64      `json:"baseline_energy"`
	High     bool         `json:"baseline_high"`
	Real     bool         `json:"reaction_is_real"`
}

// Confusion counts gate statuses against the record-derived label.
type Confusion struct {
	Real map[model.Status]int
	Not  map[model.Status]int
}

// BaselineConfusion counts baseline classes against the label.
type BaselineConfusion struct {
	HighReal, HighNot int
	LowReal, LowNot   int
}

// Summary is the outcome of one streaming alignment run.
type Summary struct {
	Params   gate.Params
	Total    int
	Parsed   int
	Skipped  int
	Sampled  int
	Gate     Confusion
	Baseline BaselineConfusion
}

// AlignOptions controls a streaming run. MaxLines <= 0 means no limit;
// EveryK <= 1 samples every parsed line.
type AlignOptions struct {
	MaxLines int
	EveryK   int
}

// Align streams .rsmi lines from r, evaluates each parsed record
// against the gate, and accumulates confusion counts for both the gate
// and the energy baseline. Every EveryK-th line is also returned as an
// evidence row. Malformed lines are skipped and counted, never fatal.
func Align(src io.Reader, p gate.Params, opts AlignOptions) (*Summary, []Row, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}

	sum := &Summary{
		Params: p,
		Gate: Confusion{
			Real: make(map[model.Status]int, 3),
			Not:  make(map[model.Status]int, 3),
		},
	}
	var rows []Row

	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	for idx := 0; sc.Scan(); idx++ {
		if opts.MaxLines > 0 && idx >= opts.MaxLines {
			break
		}
		sum.Total++

		line := sc.Text()
		rec := SplitRecord(line)
		if rec.Empty() {
			sum.Skipped++
			continue
		}

		t := Observables(rec)
		res, err := gate.Evaluate(t, p)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", idx, err)
		}

		base := EnergyBaseline(rec)
		high := base >= BaselineThreshold
		real := rec.IsReal()

		if real {
			sum.Gate.Real[res.Status]++
		} else {
			sum.Gate.Not[res.Status]++
		}
		switch {
		case high && real:
			sum.Baseline.HighReal++
		case high:
			sum.Baseline.HighNot++
		case real:
			sum.Baseline.LowReal++
		default:
			sum.Baseline.LowNot++
		}

		sum.Parsed++

		if opts.EveryK <= 1 || idx%opts.EveryK == 0 {
			rows = append(rows, Row{
				LineIdx:  idx,
				ID:       ID(line),
				Record:   rec,
				Input:    t,
				Result:   res,
				Baseline: base,
				High:     high,
				Real:     real,
			})
			sum.Sampled++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading rsmi stream: %w", err)
	}

	return sum, rows, nil
}
