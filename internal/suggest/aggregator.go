package suggest

import (
	"log/slog"
	"sort"

	"github.com/spendscope/spendscope/internal/model"
)

// Aggregator merges suggestion lists accumulated across analysis runs.
type Aggregator struct{}

// NewAggregator creates a suggestion aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Deduplicate collapses suggestions that say the same thing, keeping the
// most recently generated copy of each. Two suggestions collide when their
// fingerprints match or their normalized titles match. Invalid records are
// dropped. The result carries deterministic IDs and is ordered newest
// first, so running the output back through Deduplicate returns it
// unchanged.
func (a *Aggregator) Deduplicate(suggestions []model.Suggestion) []model.Suggestion {
	sorted := make([]model.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if err := s.Validate(); err != nil {
			slog.Debug("dropping invalid suggestion", "title", s.Title, "error", err)
			continue
		}
		sorted = append(sorted, s)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GeneratedAt.After(sorted[j].GeneratedAt)
	})

	seenHash := make(map[string]bool)
	seenTitle := make(map[string]bool)
	out := make([]model.Suggestion, 0, len(sorted))
	for _, s := range sorted {
		hash := Fingerprint(s)
		title := Normalize(s.Title)
		if seenHash[hash] || seenTitle[title] {
			continue
		}
		seenHash[hash] = true
		seenTitle[title] = true

		s.ID = DerivedID(hash)
		out = append(out, s)
	}

	return out
}

// DeduplicateExact removes byte-for-byte duplicates within each suggestion
// type, comparing title, category, and description without normalization.
// Order is preserved and the first occurrence wins.
func (a *Aggregator) DeduplicateExact(suggestions []model.Suggestion) []model.Suggestion {
	type key struct {
		kind        model.SuggestionType
		title       string
		category    string
		description string
	}

	seen := make(map[key]bool)
	out := make([]model.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		k := key{kind: s.Type, title: s.Title, category: s.Category, description: s.Description}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}

	return out
}

// Aggregate runs the exact pass first to drop literal repeats cheaply,
// then the fuzzy pass to collapse reworded duplicates.
func (a *Aggregator) Aggregate(suggestions []model.Suggestion) []model.Suggestion {
	return a.Deduplicate(a.DeduplicateExact(suggestions))
}
