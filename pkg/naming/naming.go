// Package naming turns arbitrary schema keys and operation identifiers into
// valid, deduplicated declaration names. The Registry is scoped to a single
// generation run and is the only state threaded through resolution.
package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// digitPrefix is prepended when a sanitized name starts with a digit.
	digitPrefix = "Type"
	// defaultName is used when nothing survives sanitization.
	defaultName = "Model"
)

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// RemoveAccents converts accented characters to their base forms.
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// SplitWords splits a string into words, handling camelCase, PascalCase,
// snake_case, kebab-case, and arbitrary punctuation.
func SplitWords(s string) []string {
	s = strings.TrimSpace(RemoveAccents(s))
	if s == "" {
		return nil
	}
	var words []string
	for _, part := range nonAlnum.Split(s, -1) {
		if part == "" {
			continue
		}
		words = append(words, splitCamelCase(part)...)
	}
	return words
}

// splitCamelCase splits a camelCase or PascalCase word, keeping acronym runs
// together ("XMLHttp" -> "XML", "Http").
func splitCamelCase(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	var current strings.Builder
	rs := []rune(s)
	for i, r := range rs {
		boundary := false
		if i > 0 && isUpper(r) {
			if !isUpper(rs[i-1]) {
				boundary = true
			} else if i < len(rs)-1 && !isUpper(rs[i+1]) {
				boundary = true
			}
		}
		if boundary && current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

// ToPascalCase converts a string to PascalCase.
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, p := range SplitWords(s) {
		b.WriteString(strings.ToUpper(p[:1]))
		if len(p) > 1 {
			b.WriteString(strings.ToLower(p[1:]))
		}
	}
	return b.String()
}

// ToCamelCase converts a string to camelCase.
func ToCamelCase(s string) string {
	p := ToPascalCase(s)
	if p == "" {
		return ""
	}
	return strings.ToLower(p[:1]) + p[1:]
}

// ToSnakeCase converts a string to snake_case.
func ToSnakeCase(s string) string {
	parts := SplitWords(s)
	for i := range parts {
		parts[i] = strings.ToLower(parts[i])
	}
	return strings.Join(parts, "_")
}

// Sanitize produces a valid PascalCase identifier from a raw schema key.
// Invalid runes are stripped, a leading digit gets the Type prefix, and an
// empty result falls back to the default name.
func Sanitize(raw string) string {
	name := ToPascalCase(raw)
	if name == "" {
		return defaultName
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = digitPrefix + name
	}
	return name
}
