package reaction

import (
	"testing"
)

func TestSplitRecordThreePart(t *testing.T) {
	rec := SplitRecord("CCO.CC(=O)O>OS(=O)(=O)O>CCOC(C)=O.O")
	if rec.Reactants != "CCO.CC(=O)O" {
		t.Errorf("reactants = %q", rec.Reactants)
	}
	if rec.Reagents != "OS(=O)(=O)O" {
		t.Errorf("reagents = %q", rec.Reagents)
	}
	if rec.Products != "CCOC(C)=O.O" {
		t.Errorf("products = %q", rec.Products)
	}
}

func TestSplitRecordDoubleArrow(t *testing.T) {
	rec := SplitRecord("CCO>>CC=O")
	if rec.Reactants != "CCO" || rec.Products != "CC=O" {
		t.Errorf("parsed %+v", rec)
	}
	if rec.Reagents != "" {
		t.Errorf("reagents = %q, want empty", rec.Reagents)
	}
}

func TestSplitRecordPreservesLateArrows(t *testing.T) {
	// a '>' inside the product side stays there
	rec := SplitRecord("A>B>C>D")
	if rec.Products != "C>D" {
		t.Errorf("products = %q, want C>D", rec.Products)
	}
}

func TestSplitRecordMalformed(t *testing.T) {
	for _, line := range []string{"", "   ", "no arrows here", "only>two", "a>>b>>c"} {
		rec := SplitRecord(line)
		if !rec.Empty() {
			t.Errorf("line %q parsed to %+v, want empty", line, rec)
		}
	}
}

func TestCanonicalSideSortsFragments(t *testing.T) {
	if got := CanonicalSide("CCO.CC"); got != "CC.CCO" {
		t.Errorf("got %q", got)
	}
	if got := CanonicalSide("  C C O "); got != "CCO" {
		t.Errorf("whitespace not stripped: %q", got)
	}
	if got := CanonicalSide("..A..B.."); got != "A.B" {
		t.Errorf("empty fragments kept: %q", got)
	}
	if got := CanonicalSide(""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestIsReal(t *testing.T) {
	if !(Record{Reactants: "CCO", Products: "CC=O"}).IsReal() {
		t.Error("different sides should label real")
	}
	// same fragments in a different order: not real
	if (Record{Reactants: "A.B", Products: "B.A"}).IsReal() {
		t.Error("reordered identical sides should not label real")
	}
	if (Record{Reactants: "", Products: "CC"}).IsReal() {
		t.Error("missing side should not label real")
	}
}

func TestTokenCounts(t *testing.T) {
	c := TokenCounts("c1ccccc1C(=O)[O-]")
	if c.Rings != 2 {
		t.Errorf("rings = %d, want 2", c.Rings)
	}
	if c.Branches != 2 {
		t.Errorf("branches = %d, want 2", c.Branches)
	}
	if c.Double != 1 {
		t.Errorf("double = %d, want 1", c.Double)
	}
	if c.Brackets != 2 {
		t.Errorf("brackets = %d, want 2", c.Brackets)
	}
	if c.Charges != 1 {
		t.Errorf("charges = %d, want 1", c.Charges)
	}
	if c.Aromatic != 6 {
		t.Errorf("aromatic = %d, want 6", c.Aromatic)
	}
}

func TestProxiesStayInRange(t *testing.T) {
	records := []Record{
		{},
		{Reactants: "CCO", Products: "CC=O", Reagents: "O"},
		{Reactants: "A.B.C.D.E.F.G.H", Products: "X"},
		{Reagents: "very.long.reagent.side.with.many.fragments.indeed.yes"},
	}
	for _, rec := range records {
		tr := Observables(rec)
		for name, v := range map[string]float64{"g": tr.G, "a": tr.A, "c": tr.C} {
			if v < 0.0 || v > 1.0 {
				t.Errorf("%s = %v out of range for %+v", name, v, rec)
			}
		}
		if b := EnergyBaseline(rec); b < 0.0 || b > 1.0 {
			t.Errorf("baseline = %v out of range", b)
		}
	}
}

func TestProxyAlignmentIdentity(t *testing.T) {
	// identical sides carry no transformation signature
	if got := ProxyAlignment("CCO", "CCO"); got != 0.0 {
		t.Errorf("identical sides: g = %v, want 0", got)
	}
	// a changed side earns at least the identity term
	if got := ProxyAlignment("CCO", "CC=O"); got < 0.45 {
		t.Errorf("changed side: g = %v, want >= 0.45", got)
	}
}

func TestProxyAccessNeedsBothSides(t *testing.T) {
	if got := ProxyAccess("", "CCO"); got != 0.0 {
		t.Errorf("missing reactants: a = %v, want 0", got)
	}
	if got := ProxyAccess("CCO", ""); got != 0.0 {
		t.Errorf("missing products: a = %v, want 0", got)
	}
	// five marker shifts out of 25
	if got := ProxyAccess("CCCCC", "C1CC1C(=O)[O-]"); got == 0.0 {
		t.Error("marker shifts should register")
	}
}

func TestProxyContextEmptyReagents(t *testing.T) {
	if got := ProxyContext(""); got != 0.0 {
		t.Errorf("empty reagents: c = %v, want 0", got)
	}
	if got := ProxyContext("O.CCN(CC)CC"); got <= 0.0 {
		t.Errorf("present reagents: c = %v, want > 0", got)
	}
}

func TestIDStable(t *testing.T) {
	a := ID("CCO>>CC=O")
	b := ID("  CCO>>CC=O  ")
	if a != b {
		t.Error("trimmed lines should share an id")
	}
	if len(a) != 16 {
		t.Errorf("id length = %d, want 16", len(a))
	}
}
