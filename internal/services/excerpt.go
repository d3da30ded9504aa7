package services

import (
	"strings"

	"github.com/neurosnap/sentences"
)

// Excerpt returns the first maxSentences sentences of text, trimmed.
// Used to keep notification and email bodies short without cutting words
// mid-sentence.
func Excerpt(text string, maxSentences int) string {
	text = strings.TrimSpace(text)
	if text == "" || maxSentences <= 0 {
		return ""
	}

	tokenizer := sentences.NewSentenceTokenizer(sentences.NewStorage())
	parts := tokenizer.Tokenize(text)
	if len(parts) <= maxSentences {
		return text
	}

	var b strings.Builder
	for _, s := range parts[:maxSentences] {
		b.WriteString(s.Text)
	}
	return strings.TrimSpace(b.String())
}
