package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
	"github.com/opiniondesk/opiniondesk-backend/internal/repository"
	pkges "github.com/opiniondesk/opiniondesk-backend/pkg/elasticsearch"
	pkglogger "github.com/opiniondesk/opiniondesk-backend/pkg/logger"
)

const opinionIndex = "opinions"

// SearchService answers categorized search and search analysis.
// Elasticsearch is used when configured; otherwise it falls back to
// SQL LIKE queries, which is adequate for small installs.
type SearchService struct {
	opinionRepo  repository.OpinionRepository
	employeeRepo repository.EmployeeRepository
	es           *pkges.Client
}

// NewSearchService creates a new SearchService. es may be nil.
func NewSearchService(
	opinionRepo repository.OpinionRepository,
	employeeRepo repository.EmployeeRepository,
	es *pkges.Client,
) *SearchService {
	return &SearchService{
		opinionRepo:  opinionRepo,
		employeeRepo: employeeRepo,
		es:           es,
	}
}

// EnsureIndex creates the opinion index when Elasticsearch is enabled
func (s *SearchService) EnsureIndex(ctx context.Context) error {
	if s.es == nil {
		return nil
	}
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"title":             map[string]interface{}{"type": "text"},
				"reference_number":  map[string]interface{}{"type": "keyword"},
				"department":        map[string]interface{}{"type": "keyword"},
				"category":          map[string]interface{}{"type": "keyword"},
				"status":            map[string]interface{}{"type": "keyword"},
				"request_statement": map[string]interface{}{"type": "text"},
			},
		},
	}
	return s.es.CreateIndex(ctx, opinionIndex, mapping)
}

// IndexOpinion upserts an opinion into the search index, best effort
func (s *SearchService) IndexOpinion(ctx context.Context, op *domain.Opinion) {
	if s.es == nil {
		return
	}
	doc := map[string]interface{}{
		"title":             op.Title,
		"reference_number":  op.ReferenceNumber,
		"department":        op.Department,
		"category":          op.Category,
		"status":            string(op.Status),
		"request_statement": op.Details.RequestStatement,
	}
	if err := s.es.IndexDocument(ctx, opinionIndex, op.ID, doc); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("opinion_id", op.ID).Msg("search indexing failed")
	}
}

// RemoveOpinion drops an opinion from the search index, best effort
func (s *SearchService) RemoveOpinion(ctx context.Context, id string) {
	if s.es == nil {
		return
	}
	if err := s.es.DeleteDocument(ctx, opinionIndex, id); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("opinion_id", id).Msg("search removal failed")
	}
}

// Search runs a categorized search and groups results into bundles
func (s *SearchService) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	limit := req.Options.Limit
	if limit <= 0 {
		limit = 20
	}
	wanted := bundleSet(req.Options.Categories)

	resp := &domain.SearchResponse{Query: req.Query}

	if wanted["opinions"] {
		bundle, err := s.searchOpinions(ctx, req.Query, limit)
		if err != nil {
			return nil, err
		}
		resp.Bundles = append(resp.Bundles, *bundle)
	}

	if wanted["employees"] {
		employees, total, err := s.employeeRepo.Search(req.Query, limit)
		if err != nil {
			return nil, err
		}
		bundle := domain.SearchBundle{Category: "employees", Total: total, Results: []interface{}{}}
		for i := range employees {
			bundle.Results = append(bundle.Results, employees[i].ToResponse())
		}
		resp.Bundles = append(resp.Bundles, bundle)
	}

	if wanted["documents"] {
		bundle, err := s.searchDocuments(req.Query, limit)
		if err != nil {
			return nil, err
		}
		resp.Bundles = append(resp.Bundles, *bundle)
	}

	return resp, nil
}

func (s *SearchService) searchOpinions(ctx context.Context, query string, limit int) (*domain.SearchBundle, error) {
	bundle := &domain.SearchBundle{Category: "opinions", Results: []interface{}{}}

	if s.es != nil {
		esQuery := map[string]interface{}{
			"query": map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":  query,
					"fields": []string{"title^2", "reference_number^3", "request_statement"},
				},
			},
		}
		res, err := s.es.Search(ctx, opinionIndex, esQuery, 0, limit)
		if err == nil {
			bundle.Total = res.Total
			for _, hit := range res.Results {
				hit.Source["id"] = hit.ID
				bundle.Results = append(bundle.Results, hit.Source)
			}
			return bundle, nil
		}
		pkglogger.GetLogger().Warn().Err(err).Msg("elasticsearch query failed, using SQL fallback")
	}

	opinions, total, err := s.opinionRepo.Search(query, limit)
	if err != nil {
		return nil, err
	}
	bundle.Total = total
	for i := range opinions {
		bundle.Results = append(bundle.Results, opinions[i])
	}
	return bundle, nil
}

func (s *SearchService) searchDocuments(query string, limit int) (*domain.SearchBundle, error) {
	// documents are searched through their parent opinions
	opinions, _, err := s.opinionRepo.Search(query, limit)
	if err != nil {
		return nil, err
	}
	bundle := &domain.SearchBundle{Category: "documents", Results: []interface{}{}}
	for i := range opinions {
		full, err := s.opinionRepo.FindByID(opinions[i].ID)
		if err != nil || full == nil {
			continue
		}
		for _, doc := range full.Documents {
			bundle.Results = append(bundle.Results, doc)
			bundle.Total++
		}
	}
	return bundle, nil
}

// Analyze summarizes the opinion set matching a query: a short summary
// line, key points from the top matches and simple trend counts.
func (s *SearchService) Analyze(ctx context.Context, query string) (*domain.SearchAnalysis, error) {
	opinions, total, err := s.opinionRepo.Search(query, 50)
	if err != nil {
		return nil, err
	}

	analysis := &domain.SearchAnalysis{
		KeyPoints: []string{},
		Trends:    []string{},
	}

	if total == 0 {
		analysis.Summary = fmt.Sprintf("No opinions match %q.", query)
		return analysis, nil
	}

	analysis.Summary = fmt.Sprintf("%d opinions match %q.", total, query)

	for i, op := range opinions {
		if i >= 5 {
			break
		}
		analysis.KeyPoints = append(analysis.KeyPoints,
			fmt.Sprintf("%s (%s): %s", op.Title, op.ReferenceNumber, firstSentence(op.Details.RequestStatement)))
	}

	byStatus := map[domain.WorkflowStatus]int{}
	byDepartment := map[string]int{}
	for _, op := range opinions {
		byStatus[op.Status]++
		if op.Department != "" {
			byDepartment[op.Department]++
		}
	}
	for _, line := range countLines(byDepartment, "department") {
		analysis.Trends = append(analysis.Trends, line)
	}
	statusCounts := make(map[string]int, len(byStatus))
	for s, n := range byStatus {
		statusCounts[string(s)] = n
	}
	for _, line := range countLines(statusCounts, "status") {
		analysis.Trends = append(analysis.Trends, line)
	}

	return analysis, nil
}

func bundleSet(categories []string) map[string]bool {
	if len(categories) == 0 {
		return map[string]bool{"opinions": true, "employees": true, "documents": true}
	}
	set := make(map[string]bool, len(categories))
	for _, c := range categories {
		set[strings.ToLower(c)] = true
	}
	return set
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexAny(text, ".!?"); idx > 0 {
		return text[:idx+1]
	}
	if len(text) > 120 {
		return text[:120] + "..."
	}
	return text
}

func countLines(counts map[string]int, label string) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s %s: %d", label, k, counts[k]))
	}
	return lines
}
