// Package suggest derives savings suggestions from detected patterns and
// deduplicates suggestions accumulated across analysis runs.
package suggest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/spendscope/spendscope/internal/model"
)

const savingsBucket = 10.0

var punctuationReplacer = strings.NewReplacer(".", "", ",", "", "!", "", "?", "")

// Normalize lowercases text, strips sentence punctuation, and collapses
// runs of whitespace so near-identical wording compares equal.
func Normalize(text string) string {
	text = punctuationReplacer.Replace(strings.ToLower(text))
	return strings.Join(strings.Fields(text), " ")
}

// Fingerprint computes a stable content hash for a suggestion. Two
// suggestions that say the same thing in slightly different wording, or
// whose estimated savings differ by only a few dollars, hash the same.
func Fingerprint(s model.Suggestion) string {
	savings := 0.0
	if s.PotentialSavings != nil {
		savings = math.Round(*s.PotentialSavings/savingsBucket) * savingsBucket
	}

	payload := strings.Join([]string{
		Normalize(s.Title),
		Normalize(s.Description),
		Normalize(s.Category),
		string(s.Type),
		fmt.Sprintf("%.0f", savings),
	}, "|")

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// DerivedID returns the deterministic suggestion ID for a fingerprint.
func DerivedID(fingerprint string) string {
	return "sug-" + fingerprint[:16]
}
