// Package lists loads the operator-curated text lists (safe comments, DM
// targets, DM message templates). Files are newline-delimited; blank lines
// and lines starting with '#' are skipped. Each call re-reads the file so the
// operator can edit lists while the menu is running.
package lists

import (
	"math/rand"
	"os"
	"strings"
)

// Load reads all usable lines from path. A missing file yields an empty list,
// not an error; the curated lists are optional.
func Load(path string) []string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var lines []string
	for _, l := range strings.Split(string(raw), "\n") {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// Pick returns a uniformly random element, or "" when the list is empty.
func Pick(rng *rand.Rand, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[rng.Intn(len(items))]
}
