package gate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Params holds the immutable gate configuration: the weight triple, the
// admissibility threshold, and the tolerance half-width.
type Params struct {
	WG   float64 `yaml:"wg"`
	WA   float64 `yaml:"wa"`
	WC   float64 `yaml:"wc"`
	Tau  float64 `yaml:"tau"`
	Band float64 `yaml:"band"`
}

// DefaultParams returns the reference configuration used across the
// evidence tables: weights (0.45, 0.35, 0.20), tau 0.62, band 0.05.
func DefaultParams() Params {
	return Params{
		WG:   0.45,
		WA:   0.35,
		WC:   0.20,
		Tau:  0.62,
		Band: 0.05,
	}
}

// Validate rejects an invalid configuration before any evaluation:
// tau outside [0,1], a negative band, negative weights, or weights
// summing to a non-positive value.
func (p Params) Validate() error {
	if p.Tau < 0.0 || p.Tau > 1.0 {
		return fmt.Errorf("tau must be in [0,1], got %v", p.Tau)
	}
	if p.Band < 0.0 {
		return fmt.Errorf("band must be >= 0, got %v", p.Band)
	}
	for _, w := range []struct {
		name string
		x    float64
	}{{"wg", p.WG}, {"wa", p.WA}, {"wc", p.WC}} {
		if w.x < 0.0 {
			return fmt.Errorf("weight %s must be >= 0, got %v", w.name, w.x)
		}
	}
	if p.WG+p.WA+p.WC <= 0.0 {
		return fmt.Errorf("weights must sum to a positive value, got %v", p.WG+p.WA+p.WC)
	}
	return nil
}

// WeightSum returns wg + wa + wc.
func (p Params) WeightSum() float64 {
	return p.WG + p.WA + p.WC
}

// Normalized returns a copy with the weights scaled to sum to 1.0.
// Normalization never happens implicitly; callers that want unit-sum
// weights ask for it here. Errors if the sum is non-positive.
func (p Params) Normalized() (Params, error) {
	sum := p.WeightSum()
	if sum <= 0.0 {
		return Params{}, fmt.Errorf("cannot normalize: weights sum to %v", sum)
	}
	out := p
	out.WG = p.WG / sum
	out.WA = p.WA / sum
	out.WC = p.WC / sum
	return out, nil
}

// LoadParams loads gate parameters from a YAML file. Empty path falls
// back to ~/.structgate/gate.yaml. A missing file returns defaults.
// Invalid YAML or an invalid configuration returns an error.
func LoadParams(path string) (Params, error) {
	p, _, err := LoadParamsWithHash(path)
	return p, err
}

// LoadParamsWithHash loads gate parameters and returns the SHA-256 hash
// of the raw YAML bytes, so evidence tables can cite the exact
// configuration that produced them. When defaults are used the hash is
// the SHA-256 of empty input.
func LoadParamsWithHash(path string) (Params, string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			h := sha256.Sum256(nil)
			return DefaultParams(), "sha256:" + hex.EncodeToString(h[:]), nil
		}
		path = filepath.Join(home, ".structgate", "gate.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			h := sha256.Sum256(nil)
			return DefaultParams(), "sha256:" + hex.EncodeToString(h[:]), nil
		}
		return Params{}, "", fmt.Errorf("failed to read gate config: %w", err)
	}

	h := sha256.Sum256(data)
	hash := "sha256:" + hex.EncodeToString(h[:])

	// Start with defaults, YAML overwrites only specified fields
	p := DefaultParams()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Params{}, "", fmt.Errorf("failed to parse gate config: %w", err)
	}

	if err := p.Validate(); err != nil {
		return Params{}, "", fmt.Errorf("invalid gate config: %w", err)
	}

	return p, hash, nil
}

// DefaultParamsYAML returns a commented YAML string for init-config.
func DefaultParamsYAML() string {
	return `# structgate gate configuration
# Generated by: structgate init-config
#
# Status rule:
#   score < tau - band            -> DENY
#   tau - band <= score <= tau + band -> ABSTAIN (closed band)
#   score > tau + band            -> ALLOW

# Structural aggregator weights. Intended to sum to 1.0 for
# interpretability; never renormalized implicitly.
wg: 0.45   # alignment weight
wa: 0.35   # internal access weight
wc: 0.20   # context/constraint weight

# Admissibility threshold in [0,1].
tau: 0.62

# Half-width of the ABSTAIN band around tau (>= 0).
band: 0.05
`
}
