package shell

import (
	"sort"
	"strings"
)

// Tables holds the abbreviation lookup structures derived from the command
// name snapshot at startup. Prefixes maps every unambiguous abbreviation
// (including each full name) to its canonical command name. Ambiguous maps
// every prefix shared by two or more names to the candidates it could mean,
// each rendered with its minimal unique abbreviation marked in brackets,
// e.g. "[do]wnload".
//
// A string is a key of at most one of the two maps. Both maps are read-only
// after construction.
type Tables struct {
	Prefixes  map[string]string
	Ambiguous map[string][]string
}

// BuildTables derives the prefix and ambiguity tables from the given name
// set. Names are deduplicated and processed in sorted order, so ambiguity
// candidate lists come out name-sorted and the build is deterministic.
//
// For each name the prefixes are walked longest to shortest. While a prefix
// is unique among all names it resolves directly; the shortest unique prefix
// seen so far is kept as the name's minimal abbreviation. Uniqueness only
// shrinks as prefixes get shorter, so once the first shared prefix is hit,
// that prefix and every shorter one collect the abbreviation into the
// ambiguity table.
func BuildTables(names []string) *Tables {
	sorted := dedupeSorted(names)

	t := &Tables{
		Prefixes:  make(map[string]string),
		Ambiguous: make(map[string][]string),
	}

	for _, name := range sorted {
		abbrev := ""
		unique := true
		for n := len(name); n >= 1; n-- {
			p := name[:n]
			if unique && countPrefixed(sorted, p) == 1 {
				t.Prefixes[p] = name
				abbrev = "[" + p + "]" + name[n:]
				continue
			}
			unique = false
			if abbrev != "" {
				t.Ambiguous[p] = append(t.Ambiguous[p], abbrev)
			}
		}
	}

	return t
}

// Resolve maps a typed token to its canonical name. Tokens that are no key of
// the prefix table pass through unchanged; the caller decides whether the
// result names a command.
func (t *Tables) Resolve(typed string) string {
	if name, ok := t.Prefixes[typed]; ok {
		return name
	}
	return typed
}

// AddAlias installs a manual prefix table entry outside the derived scheme,
// used for the '?' shorthand of help.
func (t *Tables) AddAlias(alias, name string) {
	t.Prefixes[alias] = name
}

// countPrefixed returns how many names start with p.
func countPrefixed(names []string, p string) int {
	count := 0
	for _, name := range names {
		if strings.HasPrefix(name, p) {
			count++
		}
	}
	return count
}

func dedupeSorted(names []string) []string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	out := sorted[:0]
	for i, name := range sorted {
		if i == 0 || name != sorted[i-1] {
			out = append(out, name)
		}
	}
	return out
}
