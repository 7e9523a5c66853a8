// Package declarations holds the shared declaration database: the symbols
// and declaration sites observed while parsing a header set once per
// (architecture, API level) configuration, together with the availability
// metadata attached to each of them.
package declarations

import "fmt"

// Arch identifies one of the supported target architectures.
type Arch string

const (
	ArchArm    Arch = "arm"
	ArchArm64  Arch = "arm64"
	ArchMips   Arch = "mips"
	ArchMips64 Arch = "mips64"
	ArchX86    Arch = "x86"
	ArchX86_64 Arch = "x86_64"
)

// SupportedArchs lists every architecture in the fixed iteration order used
// throughout the database. Deterministic ordering matters for diagnostics
// and rendered output.
var SupportedArchs = []Arch{ArchArm, ArchArm64, ArchMips, ArchMips64, ArchX86, ArchX86_64}

var archIndex = map[Arch]int{
	ArchArm: 0, ArchArm64: 1, ArchMips: 2, ArchMips64: 3, ArchX86: 4, ArchX86_64: 5,
}

// ArchFromString maps an architecture name to its Arch value.
func ArchFromString(s string) (Arch, bool) {
	a := Arch(s)
	_, ok := archIndex[a]
	return a, ok
}

// CompilationType identifies one cell of the compilation matrix: the
// architecture and platform API level a header was parsed under.
type CompilationType struct {
	Arch     Arch
	ApiLevel int
}

func (t CompilationType) String() string {
	return fmt.Sprintf("%s-%d", t.Arch, t.ApiLevel)
}

// Less orders compilation types by architecture, then API level.
func (t CompilationType) Less(other CompilationType) bool {
	if t.Arch != other.Arch {
		return archIndex[t.Arch] < archIndex[other.Arch]
	}
	return t.ApiLevel < other.ApiLevel
}

// Position is a line/column pair, 1-indexed.
type Position struct {
	Line   int
	Column int
}

// Location is the exact source span of a declaration. It is the identity
// key for declaration sites: two parses that report the same span are
// talking about the same declaration.
type Location struct {
	Filename string
	Start    Position
	End      Position
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Start.Line, l.Start.Column)
}

// DeclarationType classifies what kind of entity a declaration introduces.
type DeclarationType int

const (
	DeclarationFunction DeclarationType = iota
	DeclarationVariable
	DeclarationInconsistent
)

func (t DeclarationType) String() string {
	switch t {
	case DeclarationFunction:
		return "function"
	case DeclarationVariable:
		return "variable"
	default:
		return "inconsistent"
	}
}

// VarDeclStatus is the definition status the front end reports for a
// file-scope variable.
type VarDeclStatus int

const (
	// VarDeclarationOnly is a pure declaration (`extern int x;`).
	VarDeclarationOnly VarDeclStatus = iota
	// VarDefinition is a completed definition (`int x = 1;`).
	VarDefinition
	// VarTentativeDefinition is a C tentative definition (`int x;`),
	// which headers must not contain.
	VarTentativeDefinition
)

// ParsedKind is the syntactic kind of a parsed declaration.
type ParsedKind int

const (
	ParsedFunction ParsedKind = iota
	ParsedVariable
	ParsedOther
)

// ParsedDecl is one named declaration as reported by the front end for a
// single parse. It is the input contract of Database.Ingest; anything that
// can produce these can populate the database.
type ParsedDecl struct {
	Kind        ParsedKind
	Identifier  string
	MangledName string // empty when the ABI does not mangle this declaration

	// FunctionLocal marks declarations lexically nested inside a function
	// body (parameters, locals of inline functions). Not API surface.
	FunctionLocal bool

	Extern             bool
	FunctionDefinition bool          // functions: this occurrence carries a body
	VarStatus          VarDeclStatus // variables only

	// Unavailable marks declarations that exist purely to produce a
	// compile-time diagnostic when referenced.
	Unavailable bool

	Annotations []string
	Location    Location
}

// TranslationUnit is the parsed form of one header under one configuration.
type TranslationUnit struct {
	Path  string
	Decls []ParsedDecl
}
