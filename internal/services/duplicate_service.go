package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"tracker/internal/models"
	"tracker/internal/store"
	"tracker/pkg/classifier"
)

// maxDuplicateMatches caps how many candidates are reported.
const maxDuplicateMatches = 5

// DuplicateMatch pairs a candidate issue with its keyword similarity.
type DuplicateMatch struct {
	Issue      *models.Issue `json:"issue"`
	Similarity float64       `json:"similarity"`
}

// DuplicateService approximates issue similarity by Jaccard overlap of the
// classifier's extracted keywords. Cheap and coarse; good enough to warn
// a reporter before they file.
type DuplicateService struct {
	issues        store.IssueStore
	classifier    classifier.Classifier
	threshold     float64
	maxCandidates int
}

func NewDuplicateService(issues store.IssueStore, c classifier.Classifier, threshold float64, maxCandidates int) *DuplicateService {
	return &DuplicateService{
		issues:        issues,
		classifier:    c,
		threshold:     threshold,
		maxCandidates: maxCandidates,
	}
}

// FindDuplicates scans open and in-progress issues for keyword overlap
// with the probe text, returning matches at or above the threshold,
// strongest first.
func (s *DuplicateService) FindDuplicates(ctx context.Context, title, description string) ([]DuplicateMatch, error) {
	probe := s.classifier.ExtractKeywords(title+" "+description, classifier.DefaultTopKeywords)

	candidates, err := s.issues.ListIssues(ctx, store.ListIssuesParams{
		Statuses: []models.Status{models.StatusOpen, models.StatusInProgress},
		Limit:    s.maxCandidates,
	})
	if err != nil {
		return nil, fmt.Errorf("list duplicate candidates: %w", err)
	}

	var matches []DuplicateMatch
	for _, candidate := range candidates {
		keywords := s.classifier.ExtractKeywords(candidate.Title+" "+candidate.Description, classifier.DefaultTopKeywords)
		similarity := jaccard(probe, keywords)
		if similarity >= s.threshold {
			matches = append(matches, DuplicateMatch{
				Issue:      candidate,
				Similarity: math.Round(similarity*100) / 100,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > maxDuplicateMatches {
		matches = matches[:maxDuplicateMatches]
	}
	return matches, nil
}

// jaccard computes |a∩b| / |a∪b| over keyword lists. Empty probe keywords
// mean no basis for similarity, so 0.
func jaccard(a, b []string) float64 {
	if len(a) == 0 {
		return 0
	}
	union := make(map[string]struct{}, len(a)+len(b))
	inA := make(map[string]struct{}, len(a))
	for _, k := range a {
		union[k] = struct{}{}
		inA[k] = struct{}{}
	}
	overlap := 0
	for _, k := range b {
		if _, ok := union[k]; !ok {
			union[k] = struct{}{}
		}
	}
	seen := make(map[string]struct{}, len(b))
	for _, k := range b {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := inA[k]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(union))
}
