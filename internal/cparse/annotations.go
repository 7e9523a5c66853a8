// Package cparse is the C header front end: it parses a header with
// tree-sitter and produces the translation unit consumed by the declaration
// database. Headers are read as authored, without preprocessing, so both the
// raw annotate attribute spelling and the platform availability macros are
// recognized.
package cparse

import (
	"fmt"
	"regexp"
)

var annotateAttrPattern = regexp.MustCompile(`__attribute__\(\(\s*annotate\(\s*"([^"]*)"\s*\)\s*\)\)`)

var unavailablePattern = regexp.MustCompile(`__attribute__\(\(\s*unavailable\b`)

var futureMacroPattern = regexp.MustCompile(`__INTRODUCED_IN_FUTURE\b`)

// availabilityMacros maps each availability macro to the annotation prefix
// it expands to. Ordered so that rendered annotations are deterministic.
var availabilityMacros = []struct {
	pattern *regexp.Regexp
	prefix  string
}{
	{regexp.MustCompile(`__INTRODUCED_IN\((\d+)\)`), "introduced_in"},
	{regexp.MustCompile(`__INTRODUCED_IN_ARM\((\d+)\)`), "introduced_in_arm"},
	{regexp.MustCompile(`__INTRODUCED_IN_MIPS\((\d+)\)`), "introduced_in_mips"},
	{regexp.MustCompile(`__INTRODUCED_IN_X86\((\d+)\)`), "introduced_in_x86"},
	{regexp.MustCompile(`__INTRODUCED_IN_32\((\d+)\)`), "introduced_in_32"},
	{regexp.MustCompile(`__INTRODUCED_IN_64\((\d+)\)`), "introduced_in_64"},
	{regexp.MustCompile(`__DEPRECATED_IN\((\d+)\)`), "deprecated_in"},
	{regexp.MustCompile(`__REMOVED_IN\((\d+)\)`), "obsoleted_in"},
}

// extractAnnotations scans one declaration's source text for availability
// annotations and the unavailable marker.
func extractAnnotations(text string) (annotations []string, unavailable bool) {
	for _, match := range annotateAttrPattern.FindAllStringSubmatch(text, -1) {
		annotations = append(annotations, match[1])
	}

	if futureMacroPattern.MatchString(text) {
		annotations = append(annotations, "introduced_in_future")
	}
	for _, macro := range availabilityMacros {
		for _, match := range macro.pattern.FindAllStringSubmatch(text, -1) {
			annotations = append(annotations, fmt.Sprintf("%s=%s", macro.prefix, match[1]))
		}
	}

	return annotations, unavailablePattern.MatchString(text)
}
