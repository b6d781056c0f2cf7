package emitter

import (
	"strings"
	"unicode"
)

// PathTranslator turns a template path into a string that is safe to use as a
// JavaScript object key: the path is lowercased and every rune outside
// [a-z0-9/] becomes a single underscore.
func PathTranslator(path string) string {
	var b strings.Builder
	b.Grow(len(path))
	for _, r := range path {
		r = unicode.ToLower(r)
		if isNameRune(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

// PartialPathTranslator names a partial: the underscore that starts the final
// path segment is dropped, the result goes through PathTranslator, and the
// directory separators become dots ("views/_item" -> "views.item").
func PartialPathTranslator(path string) string {
	return strings.ReplaceAll(PathTranslator(stripPartialUnderscore(path)), "/", ".")
}

// IsPartial reports whether a file name marks a partial template.
func IsPartial(basename string) bool {
	return strings.HasPrefix(basename, "_")
}

// stripPartialUnderscore removes the single underscore leading the last path
// segment. A segment made of the underscore alone is left untouched.
func stripPartialUnderscore(path string) string {
	dir, segment := "", path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		dir, segment = path[:i+1], path[i+1:]
	}
	if len(segment) < 2 || segment[0] != '_' {
		return path
	}
	return dir + segment[1:]
}

func isNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '/'
}
