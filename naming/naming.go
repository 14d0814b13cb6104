// Package naming converts vocabulary names into credential claim names.
package naming

import (
	"regexp"
	"strings"
)

var (
	firstCap = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	allCap   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// ToSnake converts camelCase or PascalCase to snake_case.
//
//	ToSnake("orderIdentifier") // order_identifier
//	ToSnake("HTTPServerID")    // http_server_id
//	ToSnake("hasISOCode")      // has_iso_code
//
// Already snake_cased input is returned unchanged, so ToSnake is idempotent.
func ToSnake(s string) string {
	s = firstCap.ReplaceAllString(s, "${1}_${2}")
	s = allCap.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// LocalName returns the part of an IRI after the last '#', '/' or ':'.
// A trailing separator is ignored.
func LocalName(iri string) string {
	trimmed := strings.TrimRight(iri, "#/")
	if i := strings.LastIndexAny(trimmed, "#/:"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// FileStem is the lowercased name used in artifact file names.
func FileStem(name string) string {
	return strings.ToLower(name)
}
