//go:build cgo

package cparse

import (
	"bytes"
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"versioner/internal/declarations"
	"versioner/internal/errors"
)

// Parser parses C headers with tree-sitter. Not safe for concurrent use;
// each scan worker owns its own Parser.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a C header parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(c.GetLanguage())
	return &Parser{parser: p}
}

// ParseHeader reads and parses one header file.
func (p *Parser) ParseHeader(ctx context.Context, path string) (*declarations.TranslationUnit, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ParseFailed, fmt.Sprintf("reading header %s", path), err)
	}
	return p.ParseSource(ctx, path, source)
}

// ParseSource parses header source text, reporting declarations under the
// given path name.
func (p *Parser) ParseSource(ctx context.Context, path string, source []byte) (*declarations.TranslationUnit, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.Wrap(errors.ParseFailed, fmt.Sprintf("parsing header %s", path), err)
	}

	tu := &declarations.TranslationUnit{Path: path}
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		switch node.Type() {
		case "function_definition":
			tu.Decls = append(tu.Decls, p.functionDefinition(node, path, source))
		case "declaration":
			tu.Decls = append(tu.Decls, p.declaration(node, path, source)...)
		}
	}
	return tu, nil
}

func (p *Parser) functionDefinition(node *sitter.Node, path string, source []byte) declarations.ParsedDecl {
	annotations, unavailable := extractAnnotations(node.Content(source))
	return declarations.ParsedDecl{
		Kind:               declarations.ParsedFunction,
		Identifier:         declaratorIdentifier(node.ChildByFieldName("declarator"), source),
		Extern:             !hasStorageClass(node, source, "static"),
		FunctionDefinition: true,
		Unavailable:        unavailable,
		Annotations:        annotations,
		Location:           nodeLocation(node, path),
	}
}

// declaration handles one top-level declaration statement, which may
// declare several entities (`extern int a, b;`).
func (p *Parser) declaration(node *sitter.Node, path string, source []byte) []declarations.ParsedDecl {
	isExtern := hasStorageClass(node, source, "extern")
	isStatic := hasStorageClass(node, source, "static")

	// Trailing availability macros may confuse the grammar into closing the
	// declaration node early, so scan annotations through the terminating
	// semicolon in the raw source.
	annotations, unavailable := extractAnnotations(declarationText(node, source))
	location := nodeLocation(node, path)

	var decls []declarations.ParsedDecl
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if !isDeclaratorNode(child.Type()) {
			continue
		}

		identifier := declaratorIdentifier(child, source)
		if identifier == "" {
			continue
		}

		decl := declarations.ParsedDecl{
			Identifier:  identifier,
			Extern:      !isStatic,
			Unavailable: unavailable,
			Annotations: annotations,
			Location:    location,
		}
		if declaresFunction(child) {
			decl.Kind = declarations.ParsedFunction
		} else {
			decl.Kind = declarations.ParsedVariable
			switch {
			case child.Type() == "init_declarator":
				decl.VarStatus = declarations.VarDefinition
			case isExtern:
				decl.VarStatus = declarations.VarDeclarationOnly
			default:
				decl.VarStatus = declarations.VarTentativeDefinition
			}
		}
		decls = append(decls, decl)
	}
	return decls
}

var declaratorNodeTypes = map[string]bool{
	"identifier":               true,
	"init_declarator":          true,
	"function_declarator":      true,
	"pointer_declarator":       true,
	"array_declarator":         true,
	"parenthesized_declarator": true,
}

func isDeclaratorNode(nodeType string) bool {
	return declaratorNodeTypes[nodeType]
}

// declaresFunction reports whether the declarator chain contains a
// function declarator (making the declared entity a function prototype
// rather than a variable).
func declaresFunction(node *sitter.Node) bool {
	for node != nil {
		if node.Type() == "function_declarator" {
			return true
		}
		node = node.ChildByFieldName("declarator")
	}
	return false
}

// declaratorIdentifier descends the declarator chain to the declared
// identifier.
func declaratorIdentifier(node *sitter.Node, source []byte) string {
	for node != nil {
		if node.Type() == "identifier" {
			return node.Content(source)
		}
		next := node.ChildByFieldName("declarator")
		if next == nil {
			// Parenthesized declarators carry no field name.
			for i := 0; i < int(node.NamedChildCount()); i++ {
				child := node.NamedChild(i)
				if isDeclaratorNode(child.Type()) {
					next = child
					break
				}
			}
		}
		node = next
	}
	return ""
}

func hasStorageClass(node *sitter.Node, source []byte, class string) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "storage_class_specifier" && child.Content(source) == class {
			return true
		}
	}
	return false
}

// declarationText returns the declaration's source text extended through
// the next semicolon, so annotations the grammar pushed past the node
// boundary are still seen.
func declarationText(node *sitter.Node, source []byte) string {
	start := int(node.StartByte())
	end := int(node.EndByte())
	if idx := bytes.IndexByte(source[end:], ';'); idx >= 0 {
		end += idx + 1
	}
	return string(source[start:end])
}

func nodeLocation(node *sitter.Node, path string) declarations.Location {
	return declarations.Location{
		Filename: path,
		Start: declarations.Position{
			Line:   int(node.StartPoint().Row) + 1,
			Column: int(node.StartPoint().Column) + 1,
		},
		End: declarations.Position{
			Line:   int(node.EndPoint().Row) + 1,
			Column: int(node.EndPoint().Column) + 1,
		},
	}
}

// IsAvailable reports whether the tree-sitter front end was compiled in.
func IsAvailable() bool {
	return true
}
