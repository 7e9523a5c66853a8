// Package matrix loads the compilation-matrix declaration file: which
// header roots to scan and which (architecture, API level) pairs to parse
// each header under.
package matrix

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"versioner/internal/declarations"
	"versioner/internal/errors"
)

// HeaderRoot is one directory of headers, optionally restricted to a subset
// of the matrix.
type HeaderRoot struct {
	Root          string   `toml:"root"`
	Architectures []string `toml:"architectures,omitempty"`
	ApiLevels     []int    `toml:"api-levels,omitempty"`
}

// Matrix declares the scan: the default architecture/API-level cross
// product plus the header roots it applies to.
type Matrix struct {
	Architectures []string     `toml:"architectures"`
	ApiLevels     []int        `toml:"api-levels"`
	Headers       []HeaderRoot `toml:"headers"`
}

// Load reads and validates a matrix file.
func Load(path string) (*Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid, fmt.Sprintf("reading matrix file %s", path), err)
	}

	var m Matrix
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid, fmt.Sprintf("parsing matrix file %s", path), err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks architecture names and matrix completeness.
func (m *Matrix) Validate() error {
	if len(m.Headers) == 0 {
		return errors.New(errors.ConfigInvalid, "matrix declares no header roots")
	}
	if len(m.Architectures) == 0 || len(m.ApiLevels) == 0 {
		return errors.New(errors.ConfigInvalid, "matrix needs at least one architecture and one api level")
	}
	for _, names := range append([][]string{m.Architectures}, rootArchLists(m.Headers)...) {
		for _, name := range names {
			if _, ok := declarations.ArchFromString(name); !ok {
				return errors.New(errors.ConfigInvalid, fmt.Sprintf("unknown architecture %q", name))
			}
		}
	}
	return nil
}

func rootArchLists(headers []HeaderRoot) [][]string {
	lists := make([][]string, 0, len(headers))
	for _, h := range headers {
		if len(h.Architectures) > 0 {
			lists = append(lists, h.Architectures)
		}
	}
	return lists
}

// Configurations returns the compilation types for one header root,
// applying per-root overrides over the matrix defaults. Order is
// deterministic: architectures as declared, API levels as declared.
func (m *Matrix) Configurations(root HeaderRoot) []declarations.CompilationType {
	arches := m.Architectures
	if len(root.Architectures) > 0 {
		arches = root.Architectures
	}
	levels := m.ApiLevels
	if len(root.ApiLevels) > 0 {
		levels = root.ApiLevels
	}

	var types []declarations.CompilationType
	for _, name := range arches {
		arch, _ := declarations.ArchFromString(name)
		for _, level := range levels {
			types = append(types, declarations.CompilationType{Arch: arch, ApiLevel: level})
		}
	}
	return types
}
