package classifier

// Static keyword tables. These are data, not logic: matching is
// case-insensitive substring containment against preprocessed text, and
// the declared order below is load-bearing (category order breaks score
// ties, priority order decides which level a first match belongs to).

type categoryEntry struct {
	category Category
	keywords []string
}

var categoryTable = []categoryEntry{
	{CategoryBug, []string{
		"bug", "error", "crash", "broken", "not working", "fails", "failure",
		"issue", "problem", "wrong", "incorrect", "unexpected", "exception",
		"traceback", "stack trace", "null pointer", "500 error", "404",
		"syntax error", "runtime error", "does not work", "doesn't work",
		"fix", "broke", "regression", "defect", "fault",
	}},
	{CategoryFeature, []string{
		"feature", "add", "new", "request", "could", "should", "would like",
		"enhancement", "improve", "suggestion", "propose", "ability to",
		"it would be nice", "please add", "can we have", "is it possible",
		"implement", "create", "build", "develop", "want", "need",
	}},
	{CategoryQuestion, []string{
		"question", "how", "what", "why", "when", "where", "who", "which",
		"can i", "is it", "does", "help", "guide", "documentation",
		"explain", "clarify", "understand", "?", "wondering", "confused",
		"not sure", "how to", "way to",
	}},
	{CategoryEnhancement, []string{
		"enhance", "better", "optimize", "performance", "speed up",
		"refactor", "redesign", "upgrade", "modernize", "efficiency",
		"scalability", "usability", "user experience", "ux", "ui",
		"polish", "cleanup", "streamline", "faster",
	}},
	{CategoryDocumentation, []string{
		"documentation", "docs", "readme", "guide", "tutorial", "example",
		"wiki", "manual", "instruction", "explain", "comment", "docstring",
		"reference", "api docs", "help text", "tooltip",
	}},
	{CategoryTask, []string{
		"task", "todo", "to-do", "implement", "create", "setup", "configure",
		"deploy", "release", "update", "migrate", "install", "prepare",
		"organize", "plan", "schedule",
	}},
}

type priorityEntry struct {
	priority Priority
	keywords []string
}

var priorityTable = []priorityEntry{
	{PriorityCritical, []string{
		"critical", "urgent", "emergency", "immediately", "asap", "production down",
		"security", "vulnerability", "exploit", "data loss", "cannot access",
		"severe", "catastrophic", "show stopper", "blocker", "down",
	}},
	{PriorityHigh, []string{
		"high priority", "important", "blocking", "severe", "major",
		"affects many", "customer facing", "deadline", "soon", "priority",
		"must fix", "needed", "required",
	}},
	{PriorityMedium, []string{
		"medium", "moderate", "normal", "should fix", "inconvenient",
		"would be good", "affects some", "non-critical",
	}},
	{PriorityLow, []string{
		"low priority", "minor", "trivial", "nice to have", "cosmetic",
		"eventually", "someday", "when possible", "polish", "small",
	}},
}

// stopWords are excluded from keyword extraction.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "is": {},
	"are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "must": {}, "can": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {},
	"they": {}, "what": {}, "which": {}, "who": {}, "when": {}, "where": {},
	"why": {}, "how": {}, "all": {}, "each": {}, "every": {}, "both": {},
	"few": {}, "more": {}, "most": {}, "other": {}, "some": {}, "such": {},
	"no": {}, "nor": {}, "not": {}, "only": {}, "own": {}, "same": {},
	"so": {}, "than": {}, "too": {}, "very": {}, "just": {}, "now": {},
}

var positiveWords = []string{
	"good", "great", "excellent", "awesome", "love", "perfect",
	"best", "wonderful", "fantastic", "amazing",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "hate", "worst", "horrible",
	"disappointing", "frustrating", "annoying", "useless",
}
