package declarations

import (
	"testing"

	"versioner/internal/errors"
)

var (
	arm9    = CompilationType{Arch: ArchArm, ApiLevel: 9}
	arm6421 = CompilationType{Arch: ArchArm64, ApiLevel: 21}
	x869    = CompilationType{Arch: ArchX86, ApiLevel: 9}
)

func fooLocation() Location {
	return Location{
		Filename: "include/foo.h",
		Start:    Position{Line: 10, Column: 1},
		End:      Position{Line: 10, Column: 30},
	}
}

func functionDecl(name string, annotations ...string) ParsedDecl {
	return ParsedDecl{
		Kind:        ParsedFunction,
		Identifier:  name,
		Extern:      true,
		Annotations: annotations,
		Location:    fooLocation(),
	}
}

func ingestOne(t *testing.T, db *Database, ct CompilationType, decl ParsedDecl) {
	t.Helper()
	if err := db.Ingest(ct, &TranslationUnit{Path: decl.Location.Filename, Decls: []ParsedDecl{decl}}); err != nil {
		t.Fatalf("Ingest(%s) failed: %v", ct, err)
	}
}

func TestIngestEndToEnd(t *testing.T) {
	db := NewDatabase()
	ingestOne(t, db, arm9, functionDecl("foo", "introduced_in=9"))
	ingestOne(t, db, arm6421, functionDecl("foo", "introduced_in=9"))

	symbol := db.Symbol("foo")
	if symbol == nil {
		t.Fatal("symbol 'foo' not recorded")
	}
	if len(symbol.Declarations) != 1 {
		t.Fatalf("declaration count = %d, want 1 (same location must dedupe)", len(symbol.Declarations))
	}

	avail, err := symbol.CalculateAvailability()
	if err != nil {
		t.Fatalf("CalculateAvailability failed: %v", err)
	}
	if avail.Global.Introduced != 9 {
		t.Errorf("Global.Introduced = %d, want 9", avail.Global.Introduced)
	}

	if !symbol.HasDeclaration(arm9) {
		t.Error("HasDeclaration(arm-9) = false, want true")
	}
	if !symbol.HasDeclaration(arm6421) {
		t.Error("HasDeclaration(arm64-21) = false, want true")
	}
	if symbol.HasDeclaration(x869) {
		t.Error("HasDeclaration(x86-9) = true, want false")
	}
}

func TestIngestConflictSurfacesInReduction(t *testing.T) {
	db := NewDatabase()
	ingestOne(t, db, arm9, functionDecl("foo", "introduced_in=9"))

	// The same declaration site under a second configuration, but with a
	// different introduction level. Ingestion accepts it; reduction fails.
	ingestOne(t, db, arm6421, functionDecl("foo", "introduced_in=21"))

	_, err := db.Symbol("foo").CalculateAvailability()
	if err == nil {
		t.Fatal("CalculateAvailability should report the conflict")
	}
	if errors.CodeOf(err) != errors.AvailabilityConflict {
		t.Errorf("error code = %s, want %s", errors.CodeOf(err), errors.AvailabilityConflict)
	}
	if errors.IsFatal(err) {
		t.Error("availability conflicts are recoverable, not fatal")
	}
}

func TestIngestArchFanOut(t *testing.T) {
	db := NewDatabase()
	ingestOne(t, db, arm9, functionDecl("foo", "introduced_in_32=21"))

	avail, err := db.Symbol("foo").CalculateAvailability()
	if err != nil {
		t.Fatalf("CalculateAvailability failed: %v", err)
	}
	if !avail.Global.Empty() {
		t.Errorf("global slot = %q, want empty", avail.Global)
	}
	for _, arch := range []Arch{ArchArm, ArchMips, ArchX86} {
		if avail.ByArch[arch].Introduced != 21 {
			t.Errorf("%s introduced = %d, want 21", arch, avail.ByArch[arch].Introduced)
		}
	}
	for _, arch := range []Arch{ArchArm64, ArchMips64, ArchX86_64} {
		if !avail.ByArch[arch].Empty() {
			t.Errorf("%s slot = %q, want empty", arch, avail.ByArch[arch])
		}
	}
}

func TestIngestFutureIsScopedToCurrentArch(t *testing.T) {
	db := NewDatabase()
	ingestOne(t, db, x869, functionDecl("foo", "introduced_in_future"))

	avail, err := db.Symbol("foo").CalculateAvailability()
	if err != nil {
		t.Fatalf("CalculateAvailability failed: %v", err)
	}
	if !avail.ByArch[ArchX86].Future {
		t.Error("x86 future = false, want true")
	}
	if avail.Global.Future {
		t.Error("global future = true, want false")
	}
	if avail.ByArch[ArchArm].Future {
		t.Error("arm future = true, want false")
	}
}

func TestIngestDefinitionExcludedFromReduction(t *testing.T) {
	db := NewDatabase()

	definition := functionDecl("foo", "introduced_in=9")
	definition.FunctionDefinition = true
	ingestOne(t, db, arm9, definition)

	avail, err := db.Symbol("foo").CalculateAvailability()
	if err != nil {
		t.Fatalf("CalculateAvailability failed: %v", err)
	}
	if !avail.Empty() {
		t.Errorf("availability = %q, want empty (definitions are excluded)", avail)
	}

	// A non-definition site of the same symbol contributes normally.
	prototype := functionDecl("foo", "introduced_in=12")
	prototype.Location.Start.Line = 20
	prototype.Location.End.Line = 20
	ingestOne(t, db, arm9, prototype)

	avail, err = db.Symbol("foo").CalculateAvailability()
	if err != nil {
		t.Fatalf("CalculateAvailability failed: %v", err)
	}
	if avail.Global.Introduced != 12 {
		t.Errorf("Global.Introduced = %d, want 12", avail.Global.Introduced)
	}
}

func TestIngestExternDefinitionMismatchIsFatal(t *testing.T) {
	db := NewDatabase()
	ingestOne(t, db, arm9, functionDecl("foo"))

	definition := functionDecl("foo")
	definition.FunctionDefinition = true
	err := db.Ingest(arm6421, &TranslationUnit{Decls: []ParsedDecl{definition}})
	if err == nil {
		t.Fatal("mismatched is_definition at the same location must fail")
	}
	if !errors.IsFatal(err) {
		t.Error("declaration mismatch must be fatal")
	}
	if errors.CodeOf(err) != errors.DeclarationMismatch {
		t.Errorf("error code = %s, want %s", errors.CodeOf(err), errors.DeclarationMismatch)
	}
}

func TestIngestTentativeDefinitionIsFatal(t *testing.T) {
	db := NewDatabase()
	decl := ParsedDecl{
		Kind:       ParsedVariable,
		Identifier: "errno_value",
		Extern:     true,
		VarStatus:  VarTentativeDefinition,
		Location:   fooLocation(),
	}
	err := db.Ingest(arm9, &TranslationUnit{Decls: []ParsedDecl{decl}})
	if err == nil {
		t.Fatal("tentative definition must fail ingestion")
	}
	if !errors.IsFatal(err) || errors.CodeOf(err) != errors.TentativeDefinition {
		t.Errorf("got %v, want fatal %s", err, errors.TentativeDefinition)
	}
}

func TestIngestMalformedAnnotationIsFatal(t *testing.T) {
	db := NewDatabase()
	err := db.Ingest(arm9, &TranslationUnit{Decls: []ParsedDecl{
		functionDecl("foo", "introduced_in=NaN"),
	}})
	if err == nil {
		t.Fatal("malformed annotation integer must fail ingestion")
	}
	if !errors.IsFatal(err) || errors.CodeOf(err) != errors.BadAnnotation {
		t.Errorf("got %v, want fatal %s", err, errors.BadAnnotation)
	}
}

func TestIngestUnrecognizedAnnotationIgnored(t *testing.T) {
	db := NewDatabase()
	ingestOne(t, db, arm9, functionDecl("foo", "versioned_symbol=9", "introduced_in"))

	avail, err := db.Symbol("foo").CalculateAvailability()
	if err != nil {
		t.Fatalf("CalculateAvailability failed: %v", err)
	}
	if !avail.Empty() {
		t.Errorf("availability = %q, want empty", avail)
	}
}

func TestIngestSkipsNonAPIDeclarations(t *testing.T) {
	db := NewDatabase()
	decls := []ParsedDecl{
		{Kind: ParsedFunction, Identifier: "local", FunctionLocal: true, Location: fooLocation()},
		{Kind: ParsedOther, Identifier: "struct_tag", Location: fooLocation()},
		{Kind: ParsedFunction, Identifier: "gone", Extern: true, Unavailable: true, Location: fooLocation()},
	}
	if err := db.Ingest(arm9, &TranslationUnit{Decls: decls}); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if names := db.SymbolNames(); len(names) != 0 {
		t.Errorf("symbols recorded = %v, want none", names)
	}
}

func TestIngestIdempotent(t *testing.T) {
	db := NewDatabase()
	tu := &TranslationUnit{Decls: []ParsedDecl{functionDecl("foo", "introduced_in=9")}}
	if err := db.Ingest(arm9, tu); err != nil {
		t.Fatalf("first Ingest failed: %v", err)
	}
	if err := db.Ingest(arm9, tu); err != nil {
		t.Fatalf("second Ingest failed: %v", err)
	}

	symbol := db.Symbol("foo")
	if len(symbol.Declarations) != 1 {
		t.Fatalf("declaration count = %d, want 1", len(symbol.Declarations))
	}
	avail, err := symbol.CalculateAvailability()
	if err != nil {
		t.Fatalf("CalculateAvailability failed: %v", err)
	}
	if avail.Global.Introduced != 9 {
		t.Errorf("Global.Introduced = %d, want 9", avail.Global.Introduced)
	}
}

func TestNameFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		decl ParsedDecl
		want string
	}{
		{"mangled wins", ParsedDecl{MangledName: "_Z3foov", Identifier: "foo"}, "_Z3foov"},
		{"identifier fallback", ParsedDecl{Identifier: "foo"}, "foo"},
		{"sentinel", ParsedDecl{}, "<error>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := declName(&tt.decl); got != tt.want {
				t.Errorf("declName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSymbolTypeInconsistent(t *testing.T) {
	db := NewDatabase()
	ingestOne(t, db, arm9, functionDecl("foo"))

	variable := ParsedDecl{
		Kind:       ParsedVariable,
		Identifier: "foo",
		Extern:     true,
		VarStatus:  VarDeclarationOnly,
		Location:   Location{Filename: "include/bar.h", Start: Position{Line: 3, Column: 1}, End: Position{Line: 3, Column: 20}},
	}
	ingestOne(t, db, arm9, variable)

	if got := db.Symbol("foo").Type(); got != DeclarationInconsistent {
		t.Errorf("Type() = %s, want inconsistent", got)
	}
}
