// Package fixtures loads Mustache-spec-style YAML test suites, the format
// the upstream Mustache spec test suite and its Go ports (hayeah/mustache,
// hoisie/mustache) ship their conformance tests in.
package fixtures

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Case is one entry in a Suite's tests list.
type Case struct {
	Name     string            `yaml:"name"`
	Desc     string            `yaml:"desc"`
	Data     any               `yaml:"data"`
	Template string            `yaml:"template"`
	Expected string            `yaml:"expected"`
	Partials map[string]string `yaml:"partials"`
}

// Suite is the top-level shape of a fixture file.
type Suite struct {
	Tests []Case `yaml:"tests"`
}

// Load reads and parses a YAML fixture file at path.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: reading %s: %w", path, err)
	}
	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("fixtures: parsing %s: %w", path, err)
	}
	return &suite, nil
}

// LoadAll reads every fixture file in paths and concatenates their cases in
// path order. Case names are kept as written in each file. The first file
// that fails to load aborts the call with its error.
func LoadAll(paths []string) ([]Case, error) {
	var all []Case
	for _, p := range paths {
		suite, err := Load(p)
		if err != nil {
			return nil, err
		}
		all = append(all, suite.Tests...)
	}
	return all, nil
}
