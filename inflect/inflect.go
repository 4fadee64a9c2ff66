// Package inflect provides deterministic singular/plural English word
// transforms. All functions are pure and case-pattern preserving: uppercase,
// titlecase and lowercase inputs yield matching-cased outputs.
package inflect

import "strings"

// irregulars maps singular forms to plurals that follow no suffix rule.
var irregulars = map[string]string{
	"person": "people",
	"man":    "men",
	"woman":  "women",
	"child":  "children",
	"foot":   "feet",
	"tooth":  "teeth",
	"goose":  "geese",
	"mouse":  "mice",
	"ox":     "oxen",
	"die":    "dice",
	"quiz":   "quizzes",
}

// irregularSingulars is the reverse index of irregulars.
var irregularSingulars = func() map[string]string {
	m := make(map[string]string, len(irregulars))
	for singular, plural := range irregulars {
		m[plural] = singular
	}
	return m
}()

// uncountables are returned unchanged by both transforms.
var uncountables = map[string]bool{
	"equipment":   true,
	"information": true,
	"money":       true,
	"news":        true,
	"rice":        true,
	"series":      true,
	"sheep":       true,
	"species":     true,
	"fish":        true,
	"deer":        true,
	"data":        true,
	"metadata":    true,
}

// oesWords take -oes instead of -os.
var oesWords = map[string]bool{
	"echo":   true,
	"hero":   true,
	"potato": true,
	"tomato": true,
	"veto":   true,
}

// vesToFe singularize -ves back to -fe instead of -f.
var vesToFe = map[string]bool{
	"knives": true,
	"wives":  true,
	"lives":  true,
}

// Pluralize returns the plural form of an English word.
func Pluralize(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)

	if uncountables[lower] {
		return word
	}
	if plural, ok := irregulars[lower]; ok {
		return matchCase(word, plural)
	}
	if _, ok := irregularSingulars[lower]; ok {
		return word // already an irregular plural
	}

	var plural string
	switch {
	case hasAnySuffix(lower, "ch", "sh", "ss", "s", "x", "z"):
		plural = lower + "es"
	case strings.HasSuffix(lower, "fe"):
		plural = strings.TrimSuffix(lower, "fe") + "ves"
	case strings.HasSuffix(lower, "f") && !strings.HasSuffix(lower, "ff"):
		plural = strings.TrimSuffix(lower, "f") + "ves"
	case strings.HasSuffix(lower, "y") && !endsInVowelY(lower):
		plural = strings.TrimSuffix(lower, "y") + "ies"
	case strings.HasSuffix(lower, "o") && oesWords[lower]:
		plural = lower + "es"
	default:
		plural = lower + "s"
	}
	return matchCase(word, plural)
}

// Singularize returns the singular form of an English word. Words already in
// singular form are returned unchanged.
func Singularize(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)

	if uncountables[lower] {
		return word
	}
	if singular, ok := irregularSingulars[lower]; ok {
		return matchCase(word, singular)
	}
	if _, ok := irregulars[lower]; ok {
		return word // already an irregular singular
	}

	var singular string
	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 3:
		singular = strings.TrimSuffix(lower, "ies") + "y"
	case strings.HasSuffix(lower, "ves"):
		if vesToFe[lower] {
			singular = strings.TrimSuffix(lower, "ves") + "fe"
		} else {
			singular = strings.TrimSuffix(lower, "ves") + "f"
		}
	case hasAnySuffix(lower, "ches", "shes", "sses", "xes", "zes", "oes"):
		singular = strings.TrimSuffix(lower, "es")
	case strings.HasSuffix(lower, "ses") && len(lower) > 3:
		// statuses -> status, gases -> gas
		singular = strings.TrimSuffix(lower, "es")
	case strings.HasSuffix(lower, "s") && !hasAnySuffix(lower, "ss", "us", "is"):
		singular = strings.TrimSuffix(lower, "s")
	default:
		return word
	}
	return matchCase(word, singular)
}

// IsPlural reports whether a word is in plural form. Uncountable words count
// as plural since pluralizing them is the identity transform.
func IsPlural(word string) bool {
	if word == "" {
		return false
	}
	lower := strings.ToLower(word)
	if uncountables[lower] {
		return true
	}
	if _, ok := irregularSingulars[lower]; ok {
		return true
	}
	if _, ok := irregulars[lower]; ok {
		return false
	}
	return Singularize(word) != word
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func endsInVowelY(lower string) bool {
	if len(lower) < 2 {
		return false
	}
	return strings.ContainsRune("aeiou", rune(lower[len(lower)-2]))
}

// matchCase reshapes transformed to follow the case pattern of original:
// all-uppercase, titlecase, or lowercase.
func matchCase(original, transformed string) string {
	if original == strings.ToUpper(original) && original != strings.ToLower(original) {
		return strings.ToUpper(transformed)
	}
	if isTitleCase(original) {
		return strings.ToUpper(transformed[:1]) + transformed[1:]
	}
	return transformed
}

func isTitleCase(word string) bool {
	if len(word) == 0 {
		return false
	}
	first := word[:1]
	rest := word[1:]
	return first == strings.ToUpper(first) && first != strings.ToLower(first) &&
		rest == strings.ToLower(rest)
}
