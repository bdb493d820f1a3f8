// Package adapter maps raw domain drivers onto the structural triple
// (g, a, c). Each adapter is a fixed affine mapping; the gate itself
// never changes per domain, only the observable extraction does.
package adapter

import (
	"fmt"
	"sort"

	"github.com/pkarpov/structgate/internal/model"
)

// Adapter is one domain's observable extraction: three raw drivers in,
// a structural triple out. Coeff[r][c] is the contribution of raw
// driver c to output observable r (rows g, a, c); Offset[r] is the
// additive term.
type Adapter struct {
	Name   string
	Domain string
	Inputs [3]string
	Coeff  [3][3]float64
	Offset [3]float64
}

var outputNames = [3]string{"g", "a", "c"}

// Check verifies the adapter preserves the gate's monotonicity
// guarantee: every coefficient must be non-negative, so that raising
// any raw driver can never lower any structural observable. A mapping
// that fails this check must not feed the verifier.
func (ad Adapter) Check() error {
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if ad.Coeff[r][c] < 0.0 {
				return fmt.Errorf("coefficient %s<-%s is negative (%v); mapping is not monotone",
					outputNames[r], ad.Inputs[c], ad.Coeff[r][c])
			}
		}
	}
	return nil
}

// Map applies the affine mapping to three raw drivers. Outputs are
// clamped to [0,1]: adapter-derived values are a trusted internal
// source, so out-of-range results are clamped rather than rejected.
func (ad Adapter) Map(x, y, z float64) model.Triple {
	in := [3]float64{x, y, z}
	var out [3]float64
	for r := 0; r < 3; r++ {
		out[r] = ad.Offset[r]
		for c := 0; c < 3; c++ {
			out[r] += ad.Coeff[r][c] * in[c]
		}
	}
	return model.ClampTriple(model.Triple{G: out[0], A: out[1], C: out[2]})
}

// PhysicsPhase maps phase-transition drivers (temperature departure,
// pressure departure, sample purity) onto the triple. Alignment leans
// on temperature, access splits evenly, context is purity alone.
func PhysicsPhase() Adapter {
	return Adapter{
		Name:   "physics_phase",
		Domain: "physics",
		Inputs: [3]string{"temp_departure", "pressure_departure", "purity"},
		Coeff: [3][3]float64{
			{0.60, 0.40, 0.00},
			{0.50, 0.50, 0.00},
			{0.00, 0.00, 1.00},
		},
	}
}

// ChemReaction maps reaction drivers (orientation quality, activation
// fraction, catalyst fit) onto the triple. The mapping is the identity:
// the drivers are already structural.
func ChemReaction() Adapter {
	return Adapter{
		Name:   "chem_reaction",
		Domain: "chemistry",
		Inputs: [3]string{"orientation", "activation", "catalyst"},
		Coeff: [3][3]float64{
			{1.00, 0.00, 0.00},
			{0.00, 1.00, 0.00},
			{0.00, 0.00, 1.00},
		},
	}
}

// MaterialsYield maps yield drivers (resolved stress fraction, strain
// rate suitability, microstructure readiness) onto the triple.
func MaterialsYield() Adapter {
	return Adapter{
		Name:   "materials_yield",
		Domain: "materials",
		Inputs: [3]string{"stress_fraction", "rate_suitability", "microstructure"},
		Coeff: [3][3]float64{
			{0.70, 0.30, 0.00},
			{0.30, 0.70, 0.00},
			{0.00, 0.00, 1.00},
		},
	}
}

var builtins = map[string]func() Adapter{
	"physics_phase":   PhysicsPhase,
	"chem_reaction":   ChemReaction,
	"materials_yield": MaterialsYield,
}

// ByName returns a built-in adapter. Unknown names are an error.
func ByName(name string) (Adapter, error) {
	f, ok := builtins[name]
	if !ok {
		return Adapter{}, fmt.Errorf("unknown domain adapter: %q", name)
	}
	return f(), nil
}

// Names lists the built-in adapter names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns every built-in adapter in name order.
func All() []Adapter {
	var out []Adapter
	for _, n := range Names() {
		ad, _ := ByName(n)
		out = append(out, ad)
	}
	return out
}
