package sweep

import (
	"fmt"

	"github.com/pkarpov/structgate/internal/gate"
)

// BatchEntry is the condensed result of one (tau, band) sweep.
type BatchEntry struct {
	Tau    float64
	Band   float64
	Report *Report
}

// RunBatch sweeps the same n³ cube once per (tau, band) combination,
// holding the weights fixed. Used to show the monotonicity verdict is a
// property of the gate shape, not of one threshold choice.
func RunBatch(base gate.Params, n int, taus, bands []float64) ([]BatchEntry, error) {
	if len(taus) == 0 || len(bands) == 0 {
		return nil, fmt.Errorf("batch needs at least one tau and one band")
	}
	entries := make([]BatchEntry, 0, len(taus)*len(bands))
	for _, tau := range taus {
		for _, band := range bands {
			p := base
			p.Tau = tau
			p.Band = band
			rep, err := Run(p, n)
			if err != nil {
				return nil, fmt.Errorf("tau=%v band=%v: %w", tau, band, err)
			}
			entries = append(entries, BatchEntry{Tau: tau, Band: band, Report: rep})
		}
	}
	return entries, nil
}
