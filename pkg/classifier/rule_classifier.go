package classifier

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RuleClassifier implements Classifier with static keyword tables.
// It holds no state; the zero value is ready to use.
type RuleClassifier struct{}

var _ Classifier = (*RuleClassifier)(nil)

// NewRuleClassifier returns a keyword-table backed classifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

// defaultConfidence is reported when no category keyword matches at all.
const defaultConfidence = 0.3

// Preprocess normalizes text for keyword matching: lowercase, every rune
// that is not a word character, whitespace or '?' becomes a space, runs of
// whitespace collapse to one space, leading/trailing whitespace is trimmed.
// Idempotent and total; empty input yields "".
func Preprocess(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if r == '?' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ClassifyCategory scores every category's keywords against the combined
// title+description text. A hit anywhere counts 1; a hit that also appears
// in the title counts 2. Ties resolve to the category declared first in the
// table. Confidence is the winning share of the total score, boosted ×1.2
// when the winning score is at least 3 and ×1.1 when any winning-category
// keyword appears in the title, each boost capped at 1.0 independently,
// then rounded to 2 decimals. With no hits at all the result is
// (task, 0.30).
func (c *RuleClassifier) ClassifyCategory(title, description string) Result {
	titleText := Preprocess(title)
	combined := titleText + " " + Preprocess(description)

	scores := make([]int, len(categoryTable))
	for i, entry := range categoryTable {
		for _, kw := range entry.keywords {
			if !strings.Contains(combined, kw) {
				continue
			}
			if strings.Contains(titleText, kw) {
				scores[i] += 2
			} else {
				scores[i]++
			}
		}
	}

	best, total := 0, 0
	for i, s := range scores {
		total += s
		if s > scores[best] {
			best = i
		}
	}
	if scores[best] == 0 {
		return Result{Category: CategoryTask, Confidence: defaultConfidence}
	}

	confidence := float64(scores[best]) / float64(total)
	if scores[best] >= 3 {
		confidence = math.Min(confidence*1.2, 1.0)
	}
	for _, kw := range categoryTable[best].keywords {
		if strings.Contains(titleText, kw) {
			confidence = math.Min(confidence*1.1, 1.0)
			break
		}
	}

	return Result{
		Category:   categoryTable[best].category,
		Confidence: math.Round(confidence*100) / 100,
	}
}

// SuggestPriority scans priority levels from critical down to low and
// returns the level of the first keyword found anywhere in the combined
// text. Unlike ClassifyCategory there is no scoring and no title weighting.
// No match yields medium.
func (c *RuleClassifier) SuggestPriority(title, description string) Priority {
	combined := Preprocess(title + " " + description)
	for _, level := range priorityTable {
		for _, kw := range level.keywords {
			if strings.Contains(combined, kw) {
				return level.priority
			}
		}
	}
	return PriorityMedium
}

// ExtractKeywords returns up to topN tokens ranked by frequency. Tokens of
// 3 or fewer characters and stop words are dropped. Equal frequencies keep
// first-seen order. topN <= 0 means DefaultTopKeywords.
func (c *RuleClassifier) ExtractKeywords(text string, topN int) []string {
	if topN <= 0 {
		topN = DefaultTopKeywords
	}

	counts := make(map[string]int)
	var order []string
	for _, word := range strings.Fields(Preprocess(text)) {
		if utf8.RuneCountInString(word) <= 3 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, seen := counts[word]; !seen {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topN {
		order = order[:topN]
	}
	return order
}

// AnalyzeSentiment counts which lexicon words occur in the text (each word
// at most once) and compares the positive and negative tallies. Equal
// tallies, including zero hits, are neutral.
func (c *RuleClassifier) AnalyzeSentiment(text string) Sentiment {
	processed := Preprocess(text)

	var positive, negative int
	for _, w := range positiveWords {
		if strings.Contains(processed, w) {
			positive++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(processed, w) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
