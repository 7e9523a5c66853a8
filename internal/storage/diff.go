package storage

import (
	"sort"

	"versioner/internal/logging"
)

// SymbolChange is one symbol whose reduced availability differs between two
// snapshots.
type SymbolChange struct {
	Name string
	Old  string
	New  string
}

// Diff is the comparison of two snapshots.
type Diff struct {
	Added   []SymbolRow
	Removed []SymbolRow
	Changed []SymbolChange
}

// Empty reports whether the two snapshots agree.
func (d *Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// DiffSnapshots compares two snapshot files symbol by symbol.
func DiffSnapshots(oldPath, newPath string, logger *logging.Logger) (*Diff, error) {
	oldSnap, err := Open(oldPath, logger)
	if err != nil {
		return nil, err
	}
	defer oldSnap.Close()

	newSnap, err := Open(newPath, logger)
	if err != nil {
		return nil, err
	}
	defer newSnap.Close()

	oldSymbols, err := oldSnap.Symbols()
	if err != nil {
		return nil, err
	}
	newSymbols, err := newSnap.Symbols()
	if err != nil {
		return nil, err
	}

	diff := &Diff{}
	for name, row := range newSymbols {
		old, ok := oldSymbols[name]
		if !ok {
			diff.Added = append(diff.Added, row)
			continue
		}
		if old.Availability != row.Availability || old.Conflict != row.Conflict {
			diff.Changed = append(diff.Changed, SymbolChange{
				Name: name,
				Old:  describeRow(old),
				New:  describeRow(row),
			})
		}
	}
	for name, row := range oldSymbols {
		if _, ok := newSymbols[name]; !ok {
			diff.Removed = append(diff.Removed, row)
		}
	}

	sort.Slice(diff.Added, func(i, j int) bool { return diff.Added[i].Name < diff.Added[j].Name })
	sort.Slice(diff.Removed, func(i, j int) bool { return diff.Removed[i].Name < diff.Removed[j].Name })
	sort.Slice(diff.Changed, func(i, j int) bool { return diff.Changed[i].Name < diff.Changed[j].Name })
	return diff, nil
}

func describeRow(row SymbolRow) string {
	if row.Conflict {
		return "conflict"
	}
	if row.Availability == "" {
		return "no availability"
	}
	return row.Availability
}
