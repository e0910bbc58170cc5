package agent

import (
	"regexp"
	"strings"

	"go-paper-ledger/internal/model"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Tokens that appear in most catalog names and cannot identify an item alone.
var genericTokens = map[string]bool{
	"paper": true, "sheet": true, "of": true, "the": true, "a": true,
	"and": true, "with": true, "size": true, "sized": true, "type": true,
}

// TokenResolver maps informal descriptions onto catalog names: an exact
// case-insensitive match wins, otherwise the entry sharing the most
// distinctive tokens with the description.
type TokenResolver struct {
	catalog *model.Catalog
	entries []resolverEntry
}

type resolverEntry struct {
	name   string
	tokens map[string]bool
}

func NewTokenResolver(catalog *model.Catalog) *TokenResolver {
	r := &TokenResolver{catalog: catalog}
	for _, e := range catalog.Entries() {
		r.entries = append(r.entries, resolverEntry{name: e.ItemName, tokens: tokenSet(e.ItemName)})
	}
	return r
}

func (r *TokenResolver) Resolve(description string) (string, bool) {
	if entry, err := r.catalog.Lookup(description); err == nil {
		return entry.ItemName, true
	}

	wanted := tokenSet(description)
	best, bestOverlap, bestCoverage := "", 0, 0.0
	for _, e := range r.entries {
		overlap, distinctive := 0, false
		for t := range e.tokens {
			if wanted[t] {
				overlap++
				distinctive = distinctive || !genericTokens[t]
			}
		}
		if !distinctive {
			continue
		}
		coverage := float64(overlap) / float64(len(e.tokens))
		if overlap > bestOverlap || (overlap == bestOverlap && coverage > bestCoverage) {
			best, bestOverlap, bestCoverage = e.name, overlap, coverage
		}
	}
	return best, best != ""
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range tokenPattern.FindAllString(strings.ToLower(s), -1) {
		set[stem(t)] = true
	}
	return set
}

// stem folds simple plurals so "plates" matches "plate".
func stem(t string) string {
	if len(t) > 3 && strings.HasSuffix(t, "s") && !strings.HasSuffix(t, "ss") {
		return t[:len(t)-1]
	}
	return t
}
