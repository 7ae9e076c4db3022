// Package insight generates bounded, non-redundant observations about a
// transaction subset for a chosen analysis focus.
package insight

import (
	"fmt"

	"github.com/spendscope/spendscope/internal/common"
	"github.com/spendscope/spendscope/internal/model"
)

// maxInsights bounds the number of insights returned per generation call.
const maxInsights = 5

// candidate is one entry in a focus's ordered evaluation table. build
// returns ok=false when the candidate's precondition is unmet (empty
// subset, zero denominator, threshold not reached).
type candidate struct {
	tag   string
	build func(s *stats) (model.Insight, bool)
}

// Generator evaluates focus-specific candidate tables over transaction
// collections. It holds no per-call state; concurrent calls are safe.
type Generator struct {
	tables map[model.Focus][]candidate
}

// NewGenerator creates an insight generator with the built-in focus tables.
func NewGenerator() *Generator {
	return &Generator{
		tables: map[model.Focus][]candidate{
			model.FocusOverview:         overviewCandidates,
			model.FocusSpendingPatterns: spendingCandidates,
			model.FocusTrendAnalysis:    trendCandidates,
			model.FocusMerchantAnalysis: merchantCandidates,
			model.FocusPredictive:       predictiveCandidates,
		},
	}
}

// Generate evaluates the focus's candidates strictly in declared order over
// the filtered subset, skipping candidates whose preconditions fail or
// whose type tag was already emitted, and stopping at five insights.
//
// An empty filtered subset yields an empty list: "nothing notable" is a
// valid result, not a failure. An unrecognized focus is a contract
// violation and returns an error immediately.
func (g *Generator) Generate(focus model.Focus, full, filtered []model.Transaction) ([]model.Insight, error) {
	table, ok := g.tables[focus]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownFocus, focus)
	}

	if len(filtered) == 0 {
		return []model.Insight{}, nil
	}

	s := newStats(full, filtered)

	insights := make([]model.Insight, 0, maxInsights)
	seen := make(map[string]bool, maxInsights)

	for _, c := range table {
		if len(insights) >= maxInsights {
			break
		}
		if seen[c.tag] {
			continue
		}
		ins, ok := c.build(s)
		if !ok {
			continue
		}
		ins.Type = c.tag
		seen[c.tag] = true
		insights = append(insights, ins)
	}

	return insights, nil
}
