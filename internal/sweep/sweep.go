// Package sweep exhaustively evaluates the gate over a regular grid of
// observables and verifies the monotonicity property of the induced
// status field: a uniform simultaneous increase in all three drivers
// must never decrease admissibility.
package sweep

import (
	"fmt"

	"github.com/pkarpov/structgate/internal/adapter"
	"github.com/pkarpov/structgate/internal/gate"
	"github.com/pkarpov/structgate/internal/model"
)

// maxViolationExamples bounds the list of offending coordinate triples
// kept for reporting.
const maxViolationExamples = 10

// Values returns n evenly spaced values in [0,1]. For n < 2 the grid
// degenerates to the single point 0.0.
func Values(n int) []float64 {
	if n < 2 {
		return []float64{0.0}
	}
	step := 1.0 / float64(n-1)
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i) * step
	}
	return vals
}

// Point is one evaluated grid cell.
type Point struct {
	I, J, K int
	Input   model.Triple
	Result  model.Result
}

// Violation is one offending coordinate triple: the status at
// (I+1, J+1, K+1) ranked below the status at (I, J, K).
type Violation struct {
	I, J, K  int
	From, To model.Status
}

func (v Violation) String() string {
	return fmt.Sprintf("(%d,%d,%d) %s -> %s", v.I, v.J, v.K, v.From, v.To)
}

// Report is the outcome of one cube sweep: the status table indexed by
// grid coordinates, per-status counts, and the monotonicity verdict.
type Report struct {
	GridN    int
	Points   int
	Params   gate.Params
	Counts   map[model.Status]int
	Cells    []Point
	statuses []model.Status

	Violations int
	Examples   []Violation
}

// Monotone reports whether the sweep found zero violations.
func (r *Report) Monotone() bool { return r.Violations == 0 }

// StatusAt returns the status recorded at integer grid coordinates.
func (r *Report) StatusAt(i, j, k int) model.Status {
	n := r.GridN
	return r.statuses[(i*n+j)*n+k]
}

// Run sweeps the full n³ cube of direct (g,a,c) grid points.
func Run(p gate.Params, n int) (*Report, error) {
	return run(p, n, nil)
}

// RunAdapter sweeps the cube of raw domain drivers mapped through an
// adapter. The adapter is checked for compatibility first: a
// non-monotone or negative-coefficient mapping invalidates the
// monotonicity guarantee and is rejected.
func RunAdapter(p gate.Params, n int, ad adapter.Adapter) (*Report, error) {
	if err := ad.Check(); err != nil {
		return nil, fmt.Errorf("adapter %q: %w", ad.Name, err)
	}
	return run(p, n, &ad)
}

func run(p gate.Params, n int, ad *adapter.Adapter) (*Report, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("grid resolution must be >= 1, got %d", n)
	}

	vals := Values(n)
	n = len(vals) // collapse degenerate n < 2 to the actual grid size

	r := &Report{
		GridN:    n,
		Points:   n * n * n,
		Params:   p,
		Counts:   make(map[model.Status]int, 3),
		Cells:    make([]Point, 0, n*n*n),
		statuses: make([]model.Status, n*n*n),
	}

	for i, d1 := range vals {
		for j, d2 := range vals {
			for k, d3 := range vals {
				t := model.Triple{G: d1, A: d2, C: d3}
				if ad != nil {
					t = ad.Map(d1, d2, d3)
				}
				res, err := gate.Evaluate(t, p)
				if err != nil {
					return nil, fmt.Errorf("grid point (%d,%d,%d): %w", i, j, k, err)
				}
				r.Counts[res.Status]++
				r.statuses[(i*n+j)*n+k] = res.Status
				r.Cells = append(r.Cells, Point{I: i, J: j, K: k, Input: t, Result: res})
			}
		}
	}

	r.checkMonotonicity()
	return r, nil
}

// checkMonotonicity verifies that for every (i,j,k) with headroom, the
// status at (i+1,j+1,k+1) does not rank lower. Violations are counted
// and a bounded list of examples is kept; they are a reportable
// finding, not an error.
func (r *Report) checkMonotonicity() {
	n := r.GridN
	for i := 0; i < n-1; i++ {
		for j := 0; j < n-1; j++ {
			for k := 0; k < n-1; k++ {
				from := r.StatusAt(i, j, k)
				to := r.StatusAt(i+1, j+1, k+1)
				if model.StatusRank[to] < model.StatusRank[from] {
					r.Violations++
					if len(r.Examples) < maxViolationExamples {
						r.Examples = append(r.Examples, Violation{
							I: i, J: j, K: k,
							From: from, To: to,
						})
					}
				}
			}
		}
	}
}
