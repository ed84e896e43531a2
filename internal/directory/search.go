package directory

import (
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

const (
	// searchCutoff is the minimum similarity (0-100) for a record to count
	// as a search match.
	searchCutoff = 60

	// spotlightSize caps the random sample shown alongside search results.
	spotlightSize = 4
)

// Search fuzzy-matches query against the display name of every active record
// and returns the matches sorted alphabetically by name. Similarity is only
// an inclusion filter; presentation order is alphabetical regardless of score.
func Search(query string, records []Record) []Record {
	var matches []Record
	for _, record := range records {
		if !record.Moderated {
			continue
		}
		if similarity(query, record.Name) < searchCutoff {
			continue
		}
		matches = append(matches, record)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Name < matches[j].Name
	})
	return matches
}

// Spotlight draws up to four active records at random, without replacement,
// skipping anything already present in exclude. Exclusion compares full field
// values, not just IDs.
func Spotlight(records, exclude []Record) []Record {
	var remaining []Record
	for _, record := range records {
		if !record.Moderated {
			continue
		}
		if containsRecord(exclude, record) {
			continue
		}
		remaining = append(remaining, record)
	}
	rand.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})
	if len(remaining) > spotlightSize {
		remaining = remaining[:spotlightSize]
	}
	return remaining
}

// similarity scores query against name on a 0-100 scale, case-insensitively.
// The name is scored whole and word by word and the best score wins, so a
// surname query still matches a "First Last" display name.
func similarity(query, name string) int {
	query = strings.ToLower(query)
	name = strings.ToLower(name)

	best := ratio(query, name)
	for _, word := range strings.Fields(name) {
		if s := ratio(query, word); s > best {
			best = s
		}
	}
	return best
}

func ratio(a, b string) int {
	return int(math.Round(levenshtein.Similarity(a, b, levenshtein.NewParams()) * 100))
}

func containsRecord(records []Record, record Record) bool {
	for _, candidate := range records {
		if candidate == record {
			return true
		}
	}
	return false
}
