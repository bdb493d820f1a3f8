// Package reaction derives structural observables from reaction SMILES
// records (.rsmi lines). The proxies are deterministic string measures;
// they make no chemical claims. Labels come from the record itself:
// a reaction is "real" when its canonicalized reactant and product
// sides differ.
package reaction

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/pkarpov/structgate/internal/model"
)

// Record is one parsed reaction line.
type Record struct {
	Reactants string
	Reagents  string
	Products  string
}

// Empty reports whether parsing yielded nothing usable.
func (r Record) Empty() bool {
	return r.Reactants == "" && r.Products == ""
}

// SplitRecord parses a reaction SMILES line into its three sides.
// Supported shapes:
//
//	reactants>reagents>products
//	reactants>>products
//
// Malformed lines parse to the empty record; callers skip those rather
// than fail the whole stream.
func SplitRecord(line string) Record {
	s := strings.TrimSpace(line)
	if s == "" {
		return Record{}
	}

	if strings.Contains(s, ">>") {
		parts := strings.Split(s, ">>")
		if len(parts) != 2 {
			return Record{}
		}
		return Record{
			Reactants: strings.TrimSpace(parts[0]),
			Products:  strings.TrimSpace(parts[1]),
		}
	}

	parts := strings.Split(s, ">")
	if len(parts) < 3 {
		return Record{}
	}
	return Record{
		Reactants: strings.TrimSpace(parts[0]),
		Reagents:  strings.TrimSpace(parts[1]),
		// preserve any later '>' inside the product side
		Products: strings.TrimSpace(strings.Join(parts[2:], ">")),
	}
}

// CanonicalSide produces a stable string identity for one side:
// whitespace removed, '.'-separated fragments sorted and rejoined.
// String identity only; not chemical equivalence.
func CanonicalSide(side string) string {
	t := strings.ReplaceAll(side, " ", "")
	if t == "" {
		return ""
	}
	var frags []string
	for _, f := range strings.Split(t, ".") {
		if f != "" {
			frags = append(frags, f)
		}
	}
	sort.Strings(frags)
	return strings.Join(frags, ".")
}

// IsReal labels the record from its own content: the canonical
// reactant and product sides both present and different.
func (r Record) IsReal() bool {
	cr := CanonicalSide(r.Reactants)
	cp := CanonicalSide(r.Products)
	return cr != "" && cp != "" && cr != cp
}

// ID returns a short stable identifier for the raw line: the first 16
// hex characters of its SHA-256.
func ID(line string) string {
	h := sha256.Sum256([]byte(strings.TrimSpace(line)))
	return hex.EncodeToString(h[:])[:16]
}

// Counts are deterministic structural markers counted in a SMILES-like
// string. Single-letter halogens are deliberately not counted: as raw
// character counts they are ambiguous.
type Counts struct {
	Len      int
	Rings    int
	Branches int
	Charges  int
	Brackets int
	Aromatic int
	Double   int
	Triple   int
}

// TokenCounts counts the structural markers in s.
func TokenCounts(s string) Counts {
	count := func(subs ...string) int {
		n := 0
		for _, sub := range subs {
			n += strings.Count(s, sub)
		}
		return n
	}
	return Counts{
		Len:      len(s),
		Rings:    count("1", "2", "3", "4", "5"),
		Branches: count("(", ")"),
		Charges:  count("+", "-"),
		Brackets: count("[", "]"),
		Aromatic: count("c", "n", "o", "s"),
		Double:   count("="),
		Triple:   count("#"),
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func fragCount(canonical string) int {
	if canonical == "" {
		return 0
	}
	return len(strings.Split(canonical, "."))
}

// ProxyAlignment derives g from the transformation signature between
// the reactant and product sides: identity change, fragment-count
// change, and length change.
func ProxyAlignment(reactants, products string) float64 {
	r := CanonicalSide(reactants)
	p := CanonicalSide(products)

	fragTerm := model.Clamp01(float64(absInt(fragCount(p)-fragCount(r))) / 5.0)
	lenTerm := model.Clamp01(float64(absInt(len(p)-len(r))) / 80.0)

	ident := 0.0
	if r != "" && p != "" && r != p {
		ident = 1.0
	}

	return model.Clamp01(0.45*ident + 0.30*fragTerm + 0.25*lenTerm)
}

// ProxyAccess derives a from shifts in internal structural markers
// between the two sides (rings, bond orders, charges, brackets,
// branches, aromatic atoms).
func ProxyAccess(reactants, products string) float64 {
	r := CanonicalSide(reactants)
	p := CanonicalSide(products)
	if r == "" || p == "" {
		return 0.0
	}

	cr := TokenCounts(r)
	cp := TokenCounts(p)

	diffs := absInt(cp.Rings-cr.Rings) +
		absInt(cp.Double-cr.Double) +
		absInt(cp.Triple-cr.Triple) +
		absInt(cp.Charges-cr.Charges) +
		absInt(cp.Brackets-cr.Brackets) +
		absInt(cp.Branches-cr.Branches) +
		absInt(cp.Aromatic-cr.Aromatic)

	return model.Clamp01(float64(diffs) / 25.0)
}

// ProxyContext derives c from the explicit reagent content: length and
// fragment count of the reagent side.
func ProxyContext(reagents string) float64 {
	t := CanonicalSide(reagents)
	if t == "" {
		return 0.0
	}
	lenTerm := model.Clamp01(float64(len(t)) / 120.0)
	fragTerm := model.Clamp01(float64(fragCount(t)) / 6.0)
	return model.Clamp01(0.55*lenTerm + 0.45*fragTerm)
}

// Observables maps a parsed record to its structural triple.
func Observables(r Record) model.Triple {
	return model.Triple{
		G: ProxyAlignment(r.Reactants, r.Products),
		A: ProxyAccess(r.Reactants, r.Products),
		C: ProxyContext(r.Reagents),
	}
}

// EnergyBaseline is the deliberately weak magnitude-only comparator:
// it reads overall string complexity of the whole record as "energy
// present" and nothing else. It exists to be shown inadequate next to
// the structural gate.
func EnergyBaseline(r Record) float64 {
	s := CanonicalSide(r.Reactants) + CanonicalSide(r.Reagents) + CanonicalSide(r.Products)
	if s == "" {
		return 0.0
	}
	cnt := TokenCounts(s)
	return model.Clamp01(
		0.30*model.Clamp01(float64(cnt.Len)/250.0) +
			0.20*model.Clamp01(float64(cnt.Rings)/10.0) +
			0.20*model.Clamp01(float64(cnt.Double)/20.0) +
			0.15*model.Clamp01(float64(cnt.Branches)/30.0) +
			0.15*model.Clamp01(float64(cnt.Charges)/6.0),
	)
}
