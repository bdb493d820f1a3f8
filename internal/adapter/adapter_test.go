package adapter

import (
	"math"
	"testing"

	"github.com/pkarpov/structgate/internal/model"
)

const eps = 1e-9

func TestByName(t *testing.T) {
	for _, name := range []string{"physics_phase", "chem_reaction", "materials_yield"} {
		ad, err := ByName(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if ad.Name != name {
			t.Errorf("name = %s, want %s", ad.Name, name)
		}
		if err := ad.Check(); err != nil {
			t.Errorf("%s: built-in failed check: %v", name, err)
		}
	}
	if _, err := ByName("biology_folding"); err == nil {
		t.Error("expected error for unknown adapter")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != 3 {
		t.Fatalf("names = %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}

func TestChemReactionIsIdentity(t *testing.T) {
	ad := ChemReaction()
	got := ad.Map(0.3, 0.7, 0.9)
	want := model.Triple{G: 0.3, A: 0.7, C: 0.9}
	if got != want {
		t.Errorf("Map = %+v, want %+v", got, want)
	}
}

func TestPhysicsPhaseMapping(t *testing.T) {
	ad := PhysicsPhase()
	got := ad.Map(0.5, 0.9, 0.4)

	if math.Abs(got.G-(0.60*0.5+0.40*0.9)) > eps {
		t.Errorf("g = %v", got.G)
	}
	if math.Abs(got.A-(0.50*0.5+0.50*0.9)) > eps {
		t.Errorf("a = %v", got.A)
	}
	if got.C != 0.4 {
		t.Errorf("c = %v, want 0.4", got.C)
	}
}

func TestMaterialsYieldMapping(t *testing.T) {
	ad := MaterialsYield()
	got := ad.Map(1.0, 0.0, 0.6)

	if math.Abs(got.G-0.70) > eps {
		t.Errorf("g = %v, want 0.70", got.G)
	}
	if math.Abs(got.A-0.30) > eps {
		t.Errorf("a = %v, want 0.30", got.A)
	}
	if got.C != 0.6 {
		t.Errorf("c = %v, want 0.6", got.C)
	}
}

func TestMapClampsDerivedValues(t *testing.T) {
	ad := Adapter{
		Name:   "hot",
		Inputs: [3]string{"x", "y", "z"},
		Coeff: [3][3]float64{
			{2.0, 0, 0},
			{0, 1.0, 0},
			{0, 0, 1.0},
		},
	}
	got := ad.Map(0.9, 0.5, 0.5)
	if got.G != 1.0 {
		t.Errorf("g = %v, want clamped 1.0", got.G)
	}
}

func TestCheckRejectsNegativeCoefficient(t *testing.T) {
	ad := ChemReaction()
	ad.Coeff[1][2] = -0.1
	if err := ad.Check(); err == nil {
		t.Error("expected error for negative coefficient")
	}
}

func TestMapIsMonotonePerDriver(t *testing.T) {
	// raising any single raw driver must never lower any observable
	for _, ad := range All() {
		base := ad.Map(0.4, 0.4, 0.4)
		bumps := [][3]float64{{0.6, 0.4, 0.4}, {0.4, 0.6, 0.4}, {0.4, 0.4, 0.6}}
		for _, in := range bumps {
			up := ad.Map(in[0], in[1], in[2])
			if up.G < base.G-eps || up.A < base.A-eps || up.C < base.C-eps {
				t.Errorf("%s: raising driver %v lowered an observable: %+v -> %+v",
					ad.Name, in, base, up)
			}
		}
	}
}
