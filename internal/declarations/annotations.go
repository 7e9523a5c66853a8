package declarations

import (
	"strconv"
	"strings"

	"versioner/internal/errors"
)

// availabilityField selects one integer field of an AvailabilityValues.
type availabilityField int

const (
	fieldIntroduced availabilityField = iota
	fieldDeprecated
	fieldObsoleted
)

// annotationTarget names one destination slot for an annotation value:
// either the global record or one architecture's record, plus the field.
type annotationTarget struct {
	global bool
	arch   Arch
	field  availabilityField
}

// annotationTargets maps each recognized annotation prefix to the slots its
// value is written to. Fan-out prefixes (introduced_in_32/64) own a slot per
// affected architecture. Unknown prefixes are ignored by the caller.
var annotationTargets = map[string][]annotationTarget{
	"introduced_in": {{global: true, field: fieldIntroduced}},
	"deprecated_in": {{global: true, field: fieldDeprecated}},
	"obsoleted_in":  {{global: true, field: fieldObsoleted}},

	"introduced_in_arm":  {{arch: ArchArm, field: fieldIntroduced}},
	"introduced_in_mips": {{arch: ArchMips, field: fieldIntroduced}},
	"introduced_in_x86":  {{arch: ArchX86, field: fieldIntroduced}},

	"introduced_in_32": {
		{arch: ArchArm, field: fieldIntroduced},
		{arch: ArchMips, field: fieldIntroduced},
		{arch: ArchX86, field: fieldIntroduced},
	},
	"introduced_in_64": {
		{arch: ArchArm64, field: fieldIntroduced},
		{arch: ArchMips64, field: fieldIntroduced},
		{arch: ArchX86_64, field: fieldIntroduced},
	},
}

// parseAnnotations builds the availability record encoded by a
// declaration's annotation strings, as observed under compilation type t.
// A malformed integer operand is a fatal authoring error.
func parseAnnotations(t CompilationType, annotations []string) (DeclarationAvailability, error) {
	avail := NewDeclarationAvailability()

	for _, annotation := range annotations {
		if annotation == "introduced_in_future" {
			// Future availability is inherently per-arch: the same header is
			// compiled once per architecture, so tag the current one.
			av := avail.ByArch[t.Arch]
			av.Future = true
			avail.ByArch[t.Arch] = av
			continue
		}

		fragments := strings.Split(annotation, "=")
		if len(fragments) != 2 {
			continue
		}
		targets, ok := annotationTargets[fragments[0]]
		if !ok {
			continue
		}

		value, err := strconv.Atoi(fragments[1])
		if err != nil {
			return avail, errors.Fatalf(errors.BadAnnotation,
				"invalid availability annotation: '%s'", annotation)
		}

		for _, target := range targets {
			if target.global {
				setField(&avail.Global, target.field, value)
				continue
			}
			av := avail.ByArch[target.arch]
			setField(&av, target.field, value)
			avail.ByArch[target.arch] = av
		}
	}
	return avail, nil
}

func setField(av *AvailabilityValues, field availabilityField, value int) {
	switch field {
	case fieldIntroduced:
		av.Introduced = value
	case fieldDeprecated:
		av.Deprecated = value
	case fieldObsoleted:
		av.Obsoleted = value
	}
}
