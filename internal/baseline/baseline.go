// Package baseline reads the known-issues file: symbols whose availability
// conflicts are already acknowledged. Suppressed symbols still appear in
// reports, marked suppressed, but do not fail the scan.
package baseline

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"versioner/internal/errors"
)

// Suppression acknowledges one symbol's conflict.
type Suppression struct {
	Symbol string `toml:"symbol"`
	Reason string `toml:"reason"`
}

// Baseline is the parsed known-issues file.
type Baseline struct {
	Suppressions []Suppression `toml:"suppression"`

	bySymbol map[string]Suppression
}

// Empty returns a baseline that suppresses nothing.
func Empty() *Baseline {
	return New(nil)
}

// New builds a baseline from literal suppressions.
func New(suppressions []Suppression) *Baseline {
	b := &Baseline{
		Suppressions: suppressions,
		bySymbol:     make(map[string]Suppression, len(suppressions)),
	}
	for _, s := range suppressions {
		b.bySymbol[s.Symbol] = s
	}
	return b
}

// Load reads a baseline file. A missing file is not an error; it behaves as
// an empty baseline.
func Load(path string) (*Baseline, error) {
	var b Baseline
	if _, err := toml.DecodeFile(path, &b); err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return nil, errors.Wrap(errors.ConfigInvalid, fmt.Sprintf("parsing baseline file %s", path), err)
	}

	for _, s := range b.Suppressions {
		if s.Symbol == "" {
			return nil, errors.New(errors.ConfigInvalid, "baseline suppression without a symbol name")
		}
	}
	return New(b.Suppressions), nil
}

// IsSuppressed reports whether the named symbol's conflicts are
// acknowledged, and under what reason.
func (b *Baseline) IsSuppressed(symbol string) (string, bool) {
	s, ok := b.bySymbol[symbol]
	return s.Reason, ok
}
