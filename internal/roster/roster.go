// Package roster holds the single source of truth for the staff names that can
// be assigned as lead or co-lead on a record. The assignment fields on leads and
// clients store one of these full names as text.
package roster

import "strings"

// Default is the built-in assignment roster. It can be overridden through
// configuration; everything downstream receives the roster as a value.
var Default = []string{
	"Rahul Mehta",
	"Aakash Sharma",
	"Priya Nair",
	"Vikram Singhania",
	"Ananya Iyer",
	"Rohan Kapoor",
}

// MatchFirstName scans names in order and returns the first entry whose
// lowercase form starts with the lowercase first name. Iteration order is the
// tie-break when a first name prefixes more than one entry. The second return
// is false when nothing matches or the first name is empty.
func MatchFirstName(names []string, firstName string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(firstName))
	if needle == "" {
		return "", false
	}
	for _, name := range names {
		if strings.HasPrefix(strings.ToLower(name), needle) {
			return name, true
		}
	}
	return "", false
}
