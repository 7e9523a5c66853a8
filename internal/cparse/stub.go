//go:build !cgo

// Package cparse is the C header front end. This stub is used when CGO is
// not available; tree-sitter needs cgo.
package cparse

import (
	"context"

	"versioner/internal/declarations"
	"versioner/internal/errors"
)

// Parser parses C headers with tree-sitter. This is a stub implementation
// when CGO is not available.
type Parser struct{}

// NewParser returns nil when CGO is not available.
func NewParser() *Parser {
	return nil
}

// ParseHeader fails when CGO is not available.
func (p *Parser) ParseHeader(ctx context.Context, path string) (*declarations.TranslationUnit, error) {
	return nil, errors.New(errors.ParseFailed, "built without cgo: tree-sitter front end unavailable")
}

// ParseSource fails when CGO is not available.
func (p *Parser) ParseSource(ctx context.Context, path string, source []byte) (*declarations.TranslationUnit, error) {
	return nil, errors.New(errors.ParseFailed, "built without cgo: tree-sitter front end unavailable")
}

// IsAvailable reports whether the tree-sitter front end was compiled in.
func IsAvailable() bool {
	return false
}
