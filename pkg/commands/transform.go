package commands

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// TextTransform maps a cell value to a new value.
type TextTransform func(string) string

// transforms is the closed set of text transforms a transform command may
// name. Casers are not safe for reuse across calls, so each call builds one.
var transforms = map[string]TextTransform{
	"trim": strings.TrimSpace,
	"upper": func(s string) string {
		return cases.Upper(language.Und).String(s)
	},
	"lower": func(s string) string {
		return cases.Lower(language.Und).String(s)
	},
	"title": func(s string) string {
		return cases.Title(language.Und).String(s)
	},
	"fold": func(s string) string {
		return cases.Fold().String(s)
	},
	"nfc":    norm.NFC.String,
	"nfkc":   norm.NFKC.String,
	"narrow": width.Narrow.String,
	"wide":   width.Widen.String,
}

// LookupTransform returns the transform registered under name.
func LookupTransform(name string) (TextTransform, bool) {
	fn, ok := transforms[name]
	return fn, ok
}

// TransformNames returns the available transform names in sorted order.
func TransformNames() []string {
	names := make([]string, 0, len(transforms))
	for name := range transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
