// Package export serializes the declaration database for external tooling:
// a SCIP index for code-intelligence consumers and a compressed JSON dump.
package export

import (
	"fmt"
	"os"
	"sort"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"versioner/internal/declarations"
	"versioner/internal/version"
)

// WriteSCIP writes a SCIP index of every declaration site in the database.
// Each declaration becomes an occurrence in its header's document; symbols
// use a local "c-header" scheme since platform headers have no package
// coordinates.
func WriteSCIP(db *declarations.Database, projectRoot, outPath string) error {
	index := &scippb.Index{
		Metadata: &scippb.Metadata{
			ToolInfo: &scippb.ToolInfo{
				Name:    "versioner",
				Version: version.Version,
			},
			ProjectRoot:          "file://" + projectRoot,
			TextDocumentEncoding: scippb.TextEncoding_UTF8,
		},
	}

	documents := make(map[string]*scippb.Document)
	for _, name := range db.SymbolNames() {
		symbol := db.Symbol(name)
		scipSymbol := scipSymbolName(name, symbol.Type())

		for _, decl := range symbol.SortedDeclarations() {
			doc, ok := documents[decl.Location.Filename]
			if !ok {
				doc = &scippb.Document{
					RelativePath: decl.Location.Filename,
					Language:     "c",
				}
				documents[decl.Location.Filename] = doc
			}

			var roles int32
			if decl.IsDefinition {
				roles = int32(scippb.SymbolRole_Definition)
			}
			doc.Occurrences = append(doc.Occurrences, &scippb.Occurrence{
				Range: []int32{
					int32(decl.Location.Start.Line - 1),
					int32(decl.Location.Start.Column - 1),
					int32(decl.Location.End.Line - 1),
					int32(decl.Location.End.Column - 1),
				},
				Symbol:      scipSymbol,
				SymbolRoles: roles,
			})

			if !containsSymbol(doc.Symbols, scipSymbol) {
				doc.Symbols = append(doc.Symbols, &scippb.SymbolInformation{
					Symbol: scipSymbol,
					Kind:   scipKind(symbol.Type()),
				})
			}
		}
	}

	paths := make([]string, 0, len(documents))
	for path := range documents {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		index.Documents = append(index.Documents, documents[path])
	}

	data, err := proto.Marshal(index)
	if err != nil {
		return fmt.Errorf("marshaling SCIP index: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("writing SCIP index: %w", err)
	}
	return nil
}

// scipSymbolName renders a database symbol in SCIP symbol syntax.
func scipSymbolName(name string, kind declarations.DeclarationType) string {
	if kind == declarations.DeclarationFunction {
		return fmt.Sprintf("c-header . . . %s().", name)
	}
	return fmt.Sprintf("c-header . . . %s.", name)
}

func scipKind(kind declarations.DeclarationType) scippb.SymbolInformation_Kind {
	switch kind {
	case declarations.DeclarationFunction:
		return scippb.SymbolInformation_Function
	case declarations.DeclarationVariable:
		return scippb.SymbolInformation_Variable
	default:
		return scippb.SymbolInformation_UnspecifiedKind
	}
}

func containsSymbol(infos []*scippb.SymbolInformation, symbol string) bool {
	for _, info := range infos {
		if info.Symbol == symbol {
			return true
		}
	}
	return false
}
