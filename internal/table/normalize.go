package table

import (
	"regexp"
	"strings"
)

var (
	namePunct  = regexp.MustCompile("[.,/#!$%^&*;:{}=\\-_`~()]")
	whitespace = regexp.MustCompile(`\s+`)
)

// NormalizeName canonicalizes a person's name for matching: lowercase,
// trimmed, punctuation removed, whitespace runs collapsed to one space.
// Idempotent: NormalizeName(NormalizeName(x)) == NormalizeName(x).
func NormalizeName(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	v = namePunct.ReplaceAllString(v, "")
	v = whitespace.ReplaceAllString(v, " ")
	return strings.TrimSpace(v)
}

// ResolveHeader finds the first header whose case-insensitive trimmed form
// matches any alias. Returns the original header spelling so callers can use
// it as a row key.
func ResolveHeader(headers []string, aliases []string) (string, bool) {
	for _, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		for _, a := range aliases {
			if norm == strings.ToLower(strings.TrimSpace(a)) {
				return h, true
			}
		}
	}
	return "", false
}

// ResolveHeaderContains is like ResolveHeader but matches when the header
// contains the alias as a substring. Used for loose headers such as
// "Nama Lengkap Siswa".
func ResolveHeaderContains(headers []string, aliases []string) (string, bool) {
	for _, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		for _, a := range aliases {
			if strings.Contains(norm, strings.ToLower(strings.TrimSpace(a))) {
				return h, true
			}
		}
	}
	return "", false
}
