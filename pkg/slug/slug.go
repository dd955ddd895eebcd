// Copyright (c) 2026 Revuo. All rights reserved.

// Package slug derives ASCII identifiers from arbitrary Unicode names.
//
// # Usage
//
// Catalog slugs are strictly alphanumeric (no punctuation, no whitespace,
// no hyphens). When a client omits the slug on category/genre creation, the
// service derives one from the name with [From].
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// From converts an arbitrary Unicode string into a lowercase alphanumeric slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
// 4. Drops every rune that is not an ASCII letter or digit.
//
// The result may be empty (e.g. for purely symbolic input); callers must
// treat an empty slug as a validation failure.
func From(s string) string {
	// 1–2. Normalize and strip accents
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	decomposed, _, err := transform.String(chain, s)
	if err != nil {
		decomposed = s
	}

	// 3. Lowercase
	lowered := strings.ToLower(decomposed)

	// 4. Keep ASCII letters and digits only
	var builder strings.Builder
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}
