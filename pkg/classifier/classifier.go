package classifier

// Category labels the nature of an issue. The set is closed.
type Category string

const (
	CategoryBug           Category = "bug"
	CategoryFeature       Category = "feature"
	CategoryQuestion      Category = "question"
	CategoryEnhancement   Category = "enhancement"
	CategoryDocumentation Category = "documentation"
	CategoryTask          Category = "task"
)

// Priority labels the urgency of an issue.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Sentiment is a coarse 3-way tag for issue text.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Result holds a suggested category and the confidence backing it.
type Result struct {
	Category   Category
	Confidence float64
}

// DefaultTopKeywords is used by ExtractKeywords when topN <= 0.
const DefaultTopKeywords = 5

// Classifier assigns categories, priorities, keywords and sentiment to
// issue text. Implementations must be pure: deterministic, no I/O, safe
// for concurrent use.
type Classifier interface {
	ClassifyCategory(title, description string) Result
	SuggestPriority(title, description string) Priority
	ExtractKeywords(text string, topN int) []string
	AnalyzeSentiment(text string) Sentiment
}
