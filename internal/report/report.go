// Package report renders the reduced declaration database for humans and
// tooling. Output is deterministic: symbols sort by name, declarations by
// location, configurations by (arch, API level).
package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"versioner/internal/baseline"
	"versioner/internal/declarations"
)

// ConfigAvailability is one configuration's rendered availability record.
type ConfigAvailability struct {
	Type   string `yaml:"type" json:"type"`
	Values string `yaml:"values,omitempty" json:"values,omitempty"`
}

// DeclarationReport is one declaration site of a symbol.
type DeclarationReport struct {
	Location     string               `yaml:"location" json:"location"`
	Extern       bool                 `yaml:"extern" json:"extern"`
	Definition   bool                 `yaml:"definition" json:"definition"`
	Availability []ConfigAvailability `yaml:"availability,omitempty" json:"availability,omitempty"`
}

// SymbolReport is the reduced result for one symbol.
type SymbolReport struct {
	Name           string              `yaml:"name" json:"name"`
	Kind           string              `yaml:"kind" json:"kind"`
	Availability   string              `yaml:"availability,omitempty" json:"availability,omitempty"`
	Conflict       bool                `yaml:"conflict,omitempty" json:"conflict,omitempty"`
	ConflictDetail string              `yaml:"conflictDetail,omitempty" json:"conflictDetail,omitempty"`
	Suppressed     bool                `yaml:"suppressed,omitempty" json:"suppressed,omitempty"`
	SuppressReason string              `yaml:"suppressReason,omitempty" json:"suppressReason,omitempty"`
	Declarations   []DeclarationReport `yaml:"declarations,omitempty" json:"declarations,omitempty"`
}

// Report is the rendered form of a finished scan.
type Report struct {
	Symbols []SymbolReport `yaml:"symbols" json:"symbols"`
	// Conflicts counts unsuppressed conflicts.
	Conflicts int `yaml:"conflicts" json:"conflicts"`
}

// Build reduces every symbol in the database and assembles the report.
// Reduction conflicts never abort the build: every conflicting symbol is
// enumerated so one run reports them all. includeDecls adds the
// per-declaration, per-configuration detail used by the dump command.
func Build(db *declarations.Database, base *baseline.Baseline, includeDecls bool) *Report {
	r := &Report{}

	for _, name := range db.SymbolNames() {
		symbol := db.Symbol(name)
		sr := SymbolReport{Name: name, Kind: symbol.Type().String()}

		avail, err := symbol.CalculateAvailability()
		if err != nil {
			sr.Conflict = true
			sr.ConflictDetail = err.Error()
			if reason, ok := base.IsSuppressed(name); ok {
				sr.Suppressed = true
				sr.SuppressReason = reason
			} else {
				r.Conflicts++
			}
		} else {
			sr.Availability = avail.String()
		}

		if includeDecls {
			for _, decl := range symbol.SortedDeclarations() {
				dr := DeclarationReport{
					Location:   decl.Location.String(),
					Extern:     decl.IsExtern,
					Definition: decl.IsDefinition,
				}
				for _, t := range decl.CompilationTypes() {
					dr.Availability = append(dr.Availability, ConfigAvailability{
						Type:   t.String(),
						Values: decl.Availability[t].String(),
					})
				}
				sr.Declarations = append(sr.Declarations, dr)
			}
		}

		r.Symbols = append(r.Symbols, sr)
	}
	return r
}

// Failed reports whether the scan should be treated as failing: any
// unsuppressed conflict does it.
func (r *Report) Failed() bool {
	return r.Conflicts > 0
}

// RenderText writes the human-readable report.
func (r *Report) RenderText(w io.Writer) {
	for _, sr := range r.Symbols {
		switch {
		case sr.Conflict && sr.Suppressed:
			fmt.Fprintf(w, "%s %s: conflict (suppressed: %s)\n", sr.Kind, sr.Name, sr.SuppressReason)
		case sr.Conflict:
			fmt.Fprintf(w, "%s %s: conflict: %s\n", sr.Kind, sr.Name, sr.ConflictDetail)
		default:
			fmt.Fprintf(w, "%s %s: %s\n", sr.Kind, sr.Name, sr.Availability)
		}

		for _, dr := range sr.Declarations {
			role := "declaration"
			if dr.Definition {
				role = "definition"
			}
			linkage := "internal"
			if dr.Extern {
				linkage = "extern"
			}
			fmt.Fprintf(w, "  %s (%s %s)\n", dr.Location, linkage, role)
			for _, ca := range dr.Availability {
				if ca.Values == "" {
					continue
				}
				fmt.Fprintf(w, "    %s: %s\n", ca.Type, ca.Values)
			}
		}
	}
	fmt.Fprintf(w, "%d symbols, %d conflicts\n", len(r.Symbols), r.Conflicts)
}

// RenderYAML writes the report as YAML.
func (r *Report) RenderYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
