package codegen

import (
	"go/token"
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gosimple/slug"
)

var (
	parenthesized = regexp.MustCompile(`\(.*?\)`)
	nonPackage    = regexp.MustCompile(`[^a-z0-9]`)
)

// ArtifactName derives the exported Go identifier for a license display name.
// Parenthesized text is dropped, the rest is slugified and PascalCased.
//
//	"MIT License"                         -> "MitLicense"
//	"Apache License 2.0"                  -> "ApacheLicense20"
//	"GNU General Public License (GPL) v3" -> "GnuGeneralPublicLicenseV3"
//	"0BSD"                                -> "License0bsd"
func ArtifactName(name string) string {
	var b strings.Builder
	for _, part := range slugParts(name) {
		first, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(first))
		b.WriteString(part[size:])
	}
	ident := b.String()
	if ident == "" || !unicode.IsLetter(rune(ident[0])) {
		return "License" + ident
	}
	return ident
}

// FileStem derives the file base name used for a license's generated source.
func FileStem(name string) string {
	stem := strings.Join(slugParts(name), "_")
	if stem == "" {
		return "license"
	}
	return stem
}

// PackageIdent derives the package clause for an import path: the last path
// element, reduced to its final dot-separated segment, then passed through
// PackageElem.
func PackageIdent(importPath string) string {
	elem := path.Base(strings.TrimSuffix(strings.TrimSpace(importPath), "/"))
	if idx := strings.LastIndex(elem, "."); idx >= 0 && idx < len(elem)-1 {
		elem = elem[idx+1:]
	}
	return PackageElem(elem)
}

// PackageElem lowercases s and replaces every character outside [a-z0-9]
// with an underscore, so "GPL-2.0" and "GPL-2.0+" stay distinct. Results that
// do not start with a letter or are Go keywords get a "pkg_" prefix.
func PackageElem(s string) string {
	ident := nonPackage.ReplaceAllString(strings.ToLower(s), "_")
	if ident == "" || ident[0] < 'a' || ident[0] > 'z' || token.IsKeyword(ident) {
		return "pkg_" + ident
	}
	return ident
}

func slugParts(name string) []string {
	cleaned := parenthesized.ReplaceAllString(name, " ")
	return strings.FieldsFunc(slug.Make(cleaned), func(r rune) bool {
		return r == '-' || r == '_'
	})
}
