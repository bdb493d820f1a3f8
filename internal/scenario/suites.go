package scenario

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed suites/demo.yaml
var demoSuiteYAML []byte

//go:embed suites/canonical.yaml
var canonicalSuiteYAML []byte

var builtinSuites = map[string][]byte{
	"demo":      demoSuiteYAML,
	"canonical": canonicalSuiteYAML,
}

// LoadSuite loads a built-in scenario suite by name.
func LoadSuite(name string) (*Scenario, error) {
	data, ok := builtinSuites[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario suite: %q", name)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse suite %q: %w", name, err)
	}

	return &s, nil
}

// ListSuites returns sorted names of all built-in scenario suites.
func ListSuites() []string {
	names := make([]string, 0, len(builtinSuites))
	for name := range builtinSuites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
