// Package attribute implements the function-attribution pass: a best-effort
// heuristic that maps a mutation site to its enclosing function name by
// scanning upward from the site's line.
package attribute

import (
	"regexp"
	"strings"

	"github.com/gomutate/cmu/internal/model"
)

// functionSignature matches a line of the shape
// "<type-and-modifiers> name[<template>](params) [const] [throw(...)] {".
// It is intentionally loose: this is not a C/C++ parser, only a heuristic
// good enough to group sites that share an enclosing function.
var functionSignature = regexp.MustCompile(
	`^[\w\s\*&:,<>]+?\s+([a-zA-Z_][a-zA-Z0-9_:]*(?:<[^>]*>)?)\s*\([^)]*\)\s*(?:const)?\s*(?:throw\s*\([^)]*\))?\s*\{`,
)

var controlFlowKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true,
}

// FunctionName returns the best-effort enclosing function name for the site
// at lineIdx within lines, or model.UnknownFunc when none can be inferred.
func FunctionName(lines []string, lineIdx int) string {
	for i := lineIdx; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])

		if skip(line) {
			continue
		}

		if m := functionSignature.FindStringSubmatch(line); m != nil {
			name := m[1]
			if !controlFlowKeywords[name] {
				return name
			}
		}
	}

	return model.UnknownFunc
}

// skip reports whether a line obviously is not a function definition:
// blank, a comment, a preprocessor directive, a closing brace, or a
// statement/declaration terminated by a semicolon.
func skip(line string) bool {
	switch {
	case line == "":
		return true
	case strings.HasPrefix(line, "//"):
		return true
	case strings.HasPrefix(line, "/*"):
		return true
	case strings.HasPrefix(line, "*"):
		return true
	case strings.HasPrefix(line, "#"):
		return true
	case strings.HasPrefix(line, "}"):
		return true
	case strings.HasSuffix(line, ";"):
		return true
	default:
		return false
	}
}

// GroupByFunction groups sites by their attributed function name, preserving
// the relative order of sites within each group.
func GroupByFunction(sites []model.Site, lines []string) map[string][]model.Site {
	groups := make(map[string][]model.Site)

	for _, site := range sites {
		name := FunctionName(lines, site.Line)
		groups[name] = append(groups[name], site)
	}

	return groups
}
