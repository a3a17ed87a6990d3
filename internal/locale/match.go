package locale

import (
	"strings"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/unicode/norm"
)

// MinLabelSimilarity is the Jaro-Winkler score a visible label needs to be
// accepted as a match for an expected label.
const MinLabelSimilarity = 0.85

// NormalizeLabel folds width variants (NFKC), case and whitespace so that
// labels rendered with full-width characters or extra spacing compare equal.
func NormalizeLabel(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// LabelMatch is the result of MatchLabel.
type LabelMatch struct {
	Index int     // index into the candidate slice, -1 if none
	Label string  // the matched candidate as rendered
	Score float64 // 1.0 for an exact normalized match
}

// Found reports whether a candidate was accepted.
func (m LabelMatch) Found() bool { return m.Index >= 0 }

// MatchLabel picks the candidate that best matches want. An exact match
// after normalization wins outright; otherwise the highest Jaro-Winkler
// score at or above MinLabelSimilarity is used.
func MatchLabel(want string, candidates []string) LabelMatch {
	best := LabelMatch{Index: -1}
	target := NormalizeLabel(want)
	if target == "" {
		return best
	}

	for i, c := range candidates {
		normalized := NormalizeLabel(c)
		if normalized == target {
			return LabelMatch{Index: i, Label: c, Score: 1}
		}
		score := float64(edlib.JaroWinklerSimilarity(target, normalized))
		if score > best.Score {
			best = LabelMatch{Index: i, Label: c, Score: score}
		}
	}

	if best.Score < MinLabelSimilarity {
		return LabelMatch{Index: -1}
	}
	return best
}
