package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"versioner/internal/report"
)

// WriteJSON writes the report as zstd-compressed JSON to outPath.
func WriteJSON(r *report.Report, outPath string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating dump file: %w", err)
	}
	defer f.Close()

	if err := EncodeJSON(r, f); err != nil {
		return err
	}
	return f.Close()
}

// EncodeJSON streams the report as zstd-compressed JSON.
func EncodeJSON(r *report.Report, w io.Writer) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}

	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		zw.Close()
		return fmt.Errorf("encoding report: %w", err)
	}
	return zw.Close()
}

// DecodeJSON reads a report back from a zstd-compressed JSON stream.
func DecodeJSON(rd io.Reader) (*report.Report, error) {
	zr, err := zstd.NewReader(rd)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer zr.Close()

	var r report.Report
	if err := json.NewDecoder(zr).Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return &r, nil
}
