package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"tracker/internal/observability/metrics"
	"tracker/internal/store"
	"tracker/pkg/classifier"
)

// Suggestion is the full one-shot classifier output for a piece of issue
// text.
type Suggestion struct {
	Category   classifier.Category  `json:"category"`
	Confidence float64              `json:"confidence"`
	Priority   classifier.Priority  `json:"priority"`
	Keywords   []string             `json:"keywords"`
	Sentiment  classifier.Sentiment `json:"sentiment"`
}

// ClassificationService runs the rule classifier against issues and stores
// suggestions that clear the confidence threshold.
type ClassificationService struct {
	classifier classifier.Classifier
	issues     store.IssueStore
	threshold  float64
	metrics    *metrics.Metrics
}

func NewClassificationService(c classifier.Classifier, issues store.IssueStore, threshold float64, m *metrics.Metrics) *ClassificationService {
	return &ClassificationService{
		classifier: c,
		issues:     issues,
		threshold:  threshold,
		metrics:    m,
	}
}

// Classify runs all four classifier operations over the given text and
// returns the combined result. It never fails: the classifier is total.
func (s *ClassificationService) Classify(title, description string) Suggestion {
	res := s.classifier.ClassifyCategory(title, description)
	combined := title + " " + description
	suggestion := Suggestion{
		Category:   res.Category,
		Confidence: res.Confidence,
		Priority:   s.classifier.SuggestPriority(title, description),
		Keywords:   s.classifier.ExtractKeywords(combined, classifier.DefaultTopKeywords),
		Sentiment:  s.classifier.AnalyzeSentiment(combined),
	}
	if s.metrics != nil {
		s.metrics.ClassificationRun(string(suggestion.Category))
	}
	return suggestion
}

// SuggestForIssue classifies a stored issue and persists the advisory
// fields when confidence clears the threshold. A below-threshold result is
// not an error; the issue simply keeps no suggestion.
func (s *ClassificationService) SuggestForIssue(ctx context.Context, issueID int64) error {
	issue, err := s.issues.GetIssue(ctx, issueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("issue %d vanished before classification: %w", issueID, err)
		}
		return fmt.Errorf("load issue %d for classification: %w", issueID, err)
	}
	if issue.AISuggestedCategory != nil {
		// Already classified; creation-time suggestion is one-shot.
		return nil
	}

	suggestion := s.Classify(issue.Title, issue.Description)
	if suggestion.Confidence <= s.threshold {
		log.WithFields(log.Fields{
			"issue_id":   issueID,
			"category":   suggestion.Category,
			"confidence": suggestion.Confidence,
		}).Debug("classification below threshold, skipping suggestion")
		return nil
	}

	if err := s.issues.SetAISuggestion(ctx, issueID, suggestion.Category, suggestion.Confidence, suggestion.Priority); err != nil {
		return fmt.Errorf("store suggestion for issue %d: %w", issueID, err)
	}
	log.WithFields(log.Fields{
		"issue_id":   issueID,
		"category":   suggestion.Category,
		"confidence": suggestion.Confidence,
		"priority":   suggestion.Priority,
	}).Info("stored classifier suggestion")
	return nil
}
