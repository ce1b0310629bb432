// Package lang renders structured outcomes into user-facing strings. The
// core pipeline returns reasons and results; every string a user sees comes
// from the tables here.
package lang

import (
	"sort"
	"strings"
)

// Placeholder is one named substitution in a template.
type Placeholder struct {
	Key   string
	Value string
}

// Placeholders is the single internal representation for template
// substitutions; boundary inputs of any shape are normalized into it.
type Placeholders []Placeholder

// FromMap normalizes a map into Placeholders with deterministic order.
func FromMap(m map[string]string) Placeholders {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ph := make(Placeholders, 0, len(m))
	for _, k := range keys {
		ph = append(ph, Placeholder{Key: k, Value: m[k]})
	}
	return ph
}

// P builds Placeholders from alternating key/value pairs.
func P(pairs ...string) Placeholders {
	ph := make(Placeholders, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		ph = append(ph, Placeholder{Key: pairs[i], Value: pairs[i+1]})
	}
	return ph
}

// T looks up key in the table for langCode, falling back to English, and
// substitutes {name} placeholders. Unknown keys return the key itself so a
// missing translation is visible instead of silent.
func T(langCode, key string, ph Placeholders) string {
	table, ok := tables[langCode]
	if !ok {
		table = tables["en"]
	}
	tpl, ok := table[key]
	if !ok {
		tpl, ok = tables["en"][key]
		if !ok {
			return key
		}
	}

	for _, p := range ph {
		tpl = strings.ReplaceAll(tpl, "{"+p.Key+"}", p.Value)
	}
	return tpl
}

// Supported returns the language codes with a string table.
func Supported() []string {
	langs := make([]string, 0, len(tables))
	for code := range tables {
		langs = append(langs, code)
	}
	sort.Strings(langs)
	return langs
}
