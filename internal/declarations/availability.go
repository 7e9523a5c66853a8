package declarations

import (
	"fmt"
	"strings"

	"versioner/internal/errors"
)

// AvailabilityValues is the introduced/deprecated/obsoleted version triple
// for one slot (global or one architecture). Zero means unset. Future marks
// a symbol that is only reachable behind a forward-looking guard.
type AvailabilityValues struct {
	Introduced int
	Deprecated int
	Obsoleted  int
	Future     bool
}

// Empty reports whether no field of the record is set.
func (av AvailabilityValues) Empty() bool {
	return av.Introduced == 0 && av.Deprecated == 0 && av.Obsoleted == 0 && !av.Future
}

func (av AvailabilityValues) String() string {
	var parts []string
	if av.Future {
		parts = append(parts, "future")
	}
	if av.Introduced != 0 {
		parts = append(parts, fmt.Sprintf("introduced = %d", av.Introduced))
	}
	if av.Deprecated != 0 {
		parts = append(parts, fmt.Sprintf("deprecated = %d", av.Deprecated))
	}
	if av.Obsoleted != 0 {
		parts = append(parts, fmt.Sprintf("obsoleted = %d", av.Obsoleted))
	}
	return strings.Join(parts, ", ")
}

// DeclarationAvailability is the full availability record for one
// declaration: one global slot plus one slot per architecture.
type DeclarationAvailability struct {
	Global AvailabilityValues
	ByArch map[Arch]AvailabilityValues
}

// NewDeclarationAvailability returns an empty record with every slot unset.
func NewDeclarationAvailability() DeclarationAvailability {
	return DeclarationAvailability{ByArch: make(map[Arch]AvailabilityValues, len(SupportedArchs))}
}

// Clone returns a deep copy of the record.
func (da DeclarationAvailability) Clone() DeclarationAvailability {
	out := DeclarationAvailability{Global: da.Global, ByArch: make(map[Arch]AvailabilityValues, len(da.ByArch))}
	for arch, av := range da.ByArch {
		out.ByArch[arch] = av
	}
	return out
}

// Empty reports whether every slot of the record is unset.
func (da DeclarationAvailability) Empty() bool {
	if !da.Global.Empty() {
		return false
	}
	for _, av := range da.ByArch {
		if !av.Empty() {
			return false
		}
	}
	return true
}

// Merge folds other into da, slot by slot. A slot that is already set may
// only be assigned the identical value again; anything else is a conflict.
// Non-conflicting slots are still applied before the conflict is reported,
// which keeps the operation commutative and associative for conflict-free
// inputs.
func (da *DeclarationAvailability) Merge(other DeclarationAvailability) error {
	if da.ByArch == nil {
		da.ByArch = make(map[Arch]AvailabilityValues, len(SupportedArchs))
	}

	var conflict error
	if !other.Global.Empty() {
		if !da.Global.Empty() && da.Global != other.Global {
			conflict = conflictError("global", da.Global, other.Global)
		}
		da.Global = other.Global
	}

	for _, arch := range SupportedArchs {
		theirs := other.ByArch[arch]
		if theirs.Empty() {
			continue
		}
		ours := da.ByArch[arch]
		if !ours.Empty() && ours != theirs {
			if conflict == nil {
				conflict = conflictError(string(arch), ours, theirs)
			}
		}
		da.ByArch[arch] = theirs
	}
	return conflict
}

func conflictError(slot string, ours, theirs AvailabilityValues) error {
	return errors.New(errors.AvailabilityConflict,
		fmt.Sprintf("conflicting availability for %s slot: '%s' vs '%s'", slot, ours, theirs))
}

func (da DeclarationAvailability) String() string {
	var parts []string
	if !da.Global.Empty() {
		parts = append(parts, da.Global.String())
	}
	for _, arch := range SupportedArchs {
		if av := da.ByArch[arch]; !av.Empty() {
			parts = append(parts, fmt.Sprintf("%s: %s", arch, av))
		}
	}
	if len(parts) == 0 {
		return "no availability"
	}
	return strings.Join(parts, ", ")
}
