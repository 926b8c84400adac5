package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opiniondesk/opiniondesk-backend/internal/common"
	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
	"github.com/opiniondesk/opiniondesk-backend/internal/repository"
)

// AnalysisService produces structured analyses of attached documents.
// The analysis is derived from the parent opinion's narrative sections;
// attachment contents are opaque to this layer.
type AnalysisService struct {
	opinionRepo repository.OpinionRepository
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(opinionRepo repository.OpinionRepository) *AnalysisService {
	return &AnalysisService{opinionRepo: opinionRepo}
}

// AnalyzeExisting analyzes a document already attached to an opinion
func (s *AnalysisService) AnalyzeExisting(docID string) (*domain.DocumentAnalysis, error) {
	doc, err := s.opinionRepo.FindDocument(docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, common.ErrNotFound
	}

	op, err := s.opinionRepo.FindByID(doc.OpinionID)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, common.ErrOpinionNotFound
	}

	return &domain.DocumentAnalysis{
		DocumentID: doc.ID,
		Metadata: domain.DocumentMetadata{
			Name:      doc.Name,
			URL:       doc.URL,
			Opinion:   op.ID,
			Reference: op.ReferenceNumber,
		},
		ExecutiveSummary: executiveSummary(op),
		KeyTopics:        keyTopics(op),
		Stakeholders:     stakeholders(op),
	}, nil
}

func executiveSummary(op *domain.Opinion) string {
	parts := []string{
		fmt.Sprintf("%s (%s), submitted by %s.", op.Title, op.ReferenceNumber, op.SubmitterName),
	}
	if statement := firstSentence(op.Details.RequestStatement); statement != "" {
		parts = append(parts, statement)
	}
	if impact := firstSentence(op.Details.ExpectedImpact); impact != "" {
		parts = append(parts, "Expected impact: "+impact)
	}
	return strings.Join(parts, " ")
}

// keyTopics extracts the most frequent significant words across the
// narrative sections. Crude, but stable and dependency-free.
func keyTopics(op *domain.Opinion) []string {
	counts := map[string]int{}
	for _, field := range op.Details.Fields() {
		for _, word := range strings.Fields(strings.ToLower(field[1])) {
			word = strings.Trim(word, ".,;:!?()\"'")
			if len(word) < 5 || stopWords[word] {
				continue
			}
			counts[word]++
		}
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		if counts[w] > 1 {
			words = append(words, w)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > 8 {
		words = words[:8]
	}
	topics := append([]string{op.Category}, words...)
	if op.SubCategory != "" {
		topics = append(topics, op.SubCategory)
	}
	return topics
}

func stakeholders(op *domain.Opinion) []string {
	out := []string{op.SubmitterName}
	if op.Department != "" {
		out = append(out, op.Department+" department")
	}
	if op.Assignee != "" {
		out = append(out, op.Assignee)
	}
	if strings.TrimSpace(op.Details.StakeholderFeedback) != "" {
		out = append(out, "consulted stakeholders")
	}
	return out
}

var stopWords = map[string]bool{
	"about": true, "after": true, "before": true, "being": true,
	"could": true, "their": true, "every": true, "there": true,
	"these": true, "those": true, "through": true, "under": true,
	"where": true, "which": true, "while": true, "would": true,
	"should": true, "between": true, "against": true, "during": true,
}
