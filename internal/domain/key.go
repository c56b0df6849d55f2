package domain

import "strings"

// Category classifies an embedding key by its prefix. The prefix alone
// determines category membership; nothing is stored alongside the key.
type Category int

const (
	// CategoryUnknown is a key whose prefix matches no known category,
	// including plain words without a prefix.
	CategoryUnknown Category = iota
	CategoryAuthor
	CategoryOrg
	CategorySIG
	CategorySIGYear
	CategoryYear
	CategoryYearMonth
	CategoryArticle
	CategoryFile
)

// categories in declaration order. Order matters: prefix fallback resolution
// tries them in exactly this sequence and the first hit wins.
var categories = []struct {
	cat    Category
	prefix string
	name   string
}{
	{CategoryAuthor, "P", "author"},
	{CategoryOrg, "O", "org"},
	{CategorySIG, "SIG", "sig"},
	{CategorySIGYear, "SIG_YEAR", "sig_year"},
	{CategoryYear, "Y", "year"},
	{CategoryYearMonth, "M", "year_month"},
	{CategoryArticle, "ID", "article"},
	{CategoryFile, "FILE", "filename"},
}

// Prefix returns the key prefix for the category ("P", "ID", ...).
// Empty for CategoryUnknown.
func (c Category) Prefix() string {
	for _, e := range categories {
		if e.cat == c {
			return e.prefix
		}
	}
	return ""
}

// Name returns the caller-facing category name ("author", "article", ...).
func (c Category) Name() string {
	for _, e := range categories {
		if e.cat == c {
			return e.name
		}
	}
	return "unknown"
}

// CategoryByName maps a caller-facing category name to its Category.
func CategoryByName(name string) (Category, bool) {
	for _, e := range categories {
		if e.name == name {
			return e.cat, true
		}
	}
	return CategoryUnknown, false
}

// CategoryNames lists all category names in declaration order.
func CategoryNames() []string {
	names := make([]string, len(categories))
	for i, e := range categories {
		names[i] = e.name
	}
	return names
}

// AllCategories lists all categories in declaration order.
func AllCategories() []Category {
	cats := make([]Category, len(categories))
	for i, e := range categories {
		cats[i] = e.cat
	}
	return cats
}

// Key is a parsed embedding key such as "ID:12345" or "Y:1999".
type Key struct {
	Raw      string
	Category Category
	// Suffix is the part after the first colon, empty for bare keys.
	Suffix string
	// WellFormed reports whether the key has exactly one colon-separated
	// suffix. Sentinel keys like "SIG" and compound keys are not well formed.
	WellFormed bool
}

// ParseKey derives the category of a raw embedding key from its prefix.
// The category is resolved once here, never re-parsed at call sites.
func ParseKey(raw string) Key {
	parts := strings.Split(raw, ":")
	k := Key{Raw: raw, WellFormed: len(parts) == 2}
	if len(parts) < 2 {
		return k
	}
	k.Suffix = strings.Join(parts[1:], ":")
	for _, e := range categories {
		if parts[0] == e.prefix {
			k.Category = e.cat
			break
		}
	}
	return k
}

// PrefixedCandidates returns the prefixed forms of a bare term, in category
// declaration order, for prefix-fallback resolution.
func PrefixedCandidates(term string) []string {
	out := make([]string, len(categories))
	for i, e := range categories {
		out[i] = e.prefix + ":" + term
	}
	return out
}
