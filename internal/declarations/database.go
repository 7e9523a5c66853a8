package declarations

import (
	"sort"
	"sync"

	"versioner/internal/errors"
)

// Declaration is one physical declaration site of a symbol, identified by
// its exact source span. It records, per compilation type, the availability
// annotations observed under that parse. Owned by its Symbol; created by
// ingestion and never removed.
type Declaration struct {
	Name         string
	Location     Location
	IsExtern     bool
	IsDefinition bool
	Kind         DeclarationType

	Availability map[CompilationType]DeclarationAvailability
}

// CalculateAvailability folds the declaration's per-configuration records
// into one. Configurations that assigned different non-empty values to the
// same slot make the fold fail with the first conflict.
func (d *Declaration) CalculateAvailability() (DeclarationAvailability, error) {
	avail := NewDeclarationAvailability()
	for _, t := range d.CompilationTypes() {
		if err := avail.Merge(d.Availability[t]); err != nil {
			return NewDeclarationAvailability(), err
		}
	}
	return avail, nil
}

// CompilationTypes returns the declaration's configuration keys in
// deterministic order.
func (d *Declaration) CompilationTypes() []CompilationType {
	types := make([]CompilationType, 0, len(d.Availability))
	for t := range d.Availability {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Less(types[j]) })
	return types
}

// Symbol aggregates every declaration site sharing one name. A symbol may
// legitimately be declared at several locations as long as each location is
// consistent with itself across configurations.
type Symbol struct {
	Name         string
	Declarations map[Location]*Declaration
}

// SortedDeclarations returns the symbol's declarations ordered by location.
func (s *Symbol) SortedDeclarations() []*Declaration {
	decls := make([]*Declaration, 0, len(s.Declarations))
	for _, d := range s.Declarations {
		decls = append(decls, d)
	}
	sort.Slice(decls, func(i, j int) bool {
		a, b := decls[i].Location, decls[j].Location
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Start != b.Start {
			return a.Start.Line < b.Start.Line ||
				(a.Start.Line == b.Start.Line && a.Start.Column < b.Start.Column)
		}
		return a.End.Line < b.End.Line ||
			(a.End.Line == b.End.Line && a.End.Column < b.End.Column)
	})
	return decls
}

// CalculateAvailability folds availability across the symbol's declaration
// sites. Definitions are skipped: an entity defined in a header should not
// carry availability metadata, only its governing prototype does. A symbol
// with only definitions therefore reduces to an empty record.
func (s *Symbol) CalculateAvailability() (DeclarationAvailability, error) {
	avail := NewDeclarationAvailability()
	for _, decl := range s.SortedDeclarations() {
		if decl.IsDefinition {
			continue
		}
		declAvail, err := decl.CalculateAvailability()
		if err != nil {
			return NewDeclarationAvailability(), err
		}
		if err := avail.Merge(declAvail); err != nil {
			return NewDeclarationAvailability(), err
		}
	}
	return avail, nil
}

// HasDeclaration reports whether any declaration of the symbol was observed
// under the given compilation type.
func (s *Symbol) HasDeclaration(t CompilationType) bool {
	for _, decl := range s.Declarations {
		if _, ok := decl.Availability[t]; ok {
			return true
		}
	}
	return false
}

// Type classifies the symbol by its declarations, reporting
// DeclarationInconsistent when they disagree.
func (s *Symbol) Type() DeclarationType {
	first := true
	var kind DeclarationType
	for _, decl := range s.Declarations {
		if first {
			kind = decl.Kind
			first = false
			continue
		}
		if decl.Kind != kind {
			return DeclarationInconsistent
		}
	}
	return kind
}

// Database is the shared declaration store. Ingestion calls are mutually
// exclusive; once the last ingestion has completed, reads need no locking
// because nothing mutates the map afterwards. That write-then-read phase
// split is a usage contract, not enforced by the type.
type Database struct {
	mu      sync.Mutex
	symbols map[string]*Symbol
}

// NewDatabase returns an empty declaration database.
func NewDatabase() *Database {
	return &Database{symbols: make(map[string]*Symbol)}
}

// Symbol returns the symbol with the given name, or nil.
func (db *Database) Symbol(name string) *Symbol {
	return db.symbols[name]
}

// SymbolNames returns every symbol name in sorted order.
func (db *Database) SymbolNames() []string {
	names := make([]string, 0, len(db.symbols))
	for name := range db.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ingest folds one parsed translation unit into the database under the
// given compilation type. It is safe to call concurrently from the per-job
// workers; the whole traversal runs under the database lock.
//
// Errors returned with a fatal code (tentative definition, malformed
// annotation, extern/definition mismatch) mean the header itself is
// unsound; the caller is expected to stop the run.
func (db *Database) Ingest(t CompilationType, tu *TranslationUnit) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range tu.Decls {
		if err := db.ingestDecl(t, &tu.Decls[i]); err != nil {
			return err
		}
	}
	return nil
}

func (db *Database) ingestDecl(t CompilationType, decl *ParsedDecl) error {
	// Declarations inside function bodies are not API surface.
	if decl.FunctionLocal {
		return nil
	}

	var kind DeclarationType
	var isDefinition bool
	switch decl.Kind {
	case ParsedFunction:
		kind = DeclarationFunction
		isDefinition = decl.FunctionDefinition
	case ParsedVariable:
		kind = DeclarationVariable
		switch decl.VarStatus {
		case VarDeclarationOnly:
			isDefinition = false
		case VarDefinition:
			isDefinition = true
		case VarTentativeDefinition:
			return errors.Fatalf(errors.TentativeDefinition,
				"declaration '%s' at %s is a tentative definition",
				declName(decl), decl.Location)
		}
	default:
		// Only functions and file-scope variables matter here.
		return nil
	}

	// Declarations marked unavailable exist only to produce compile-time
	// diagnostics when referenced.
	if decl.Unavailable {
		return nil
	}

	name := declName(decl)
	avail, err := parseAnnotations(t, decl.Annotations)
	if err != nil {
		return err
	}

	symbol, ok := db.symbols[name]
	if !ok {
		symbol = &Symbol{Name: name, Declarations: make(map[Location]*Declaration)}
		db.symbols[name] = symbol
	}

	existing, ok := symbol.Declarations[decl.Location]
	if !ok {
		symbol.Declarations[decl.Location] = &Declaration{
			Name:         name,
			Location:     decl.Location,
			IsExtern:     decl.Extern,
			IsDefinition: isDefinition,
			Kind:         kind,
			Availability: map[CompilationType]DeclarationAvailability{t: avail},
		}
		return nil
	}

	if existing.IsExtern != decl.Extern || existing.IsDefinition != isDefinition {
		return errors.Fatalf(errors.DeclarationMismatch,
			"varying declaration of '%s' at %s", name, decl.Location)
	}
	existing.Availability[t] = avail
	return nil
}

// declName resolves the canonical name of a parsed declaration: the mangled
// name when the ABI provides one, the plain identifier otherwise, and an
// error sentinel when neither exists.
func declName(decl *ParsedDecl) string {
	if decl.MangledName != "" {
		return decl.MangledName
	}
	if decl.Identifier != "" {
		return decl.Identifier
	}
	return "<error>"
}
