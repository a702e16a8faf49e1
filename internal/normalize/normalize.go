package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// Name turns a user supplied player or group name into its canonical form:
// lower case, no leading @, single spaces.
func Name(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "@")
	return lower.String(strings.Join(strings.Fields(name), " "))
}

// Names applies Name to every element and drops empty results.
func Names(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = Name(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
