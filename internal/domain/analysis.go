package domain

// DocumentAnalysis is the structured payload returned by the document
// processor for an already-attached document.
type DocumentAnalysis struct {
	DocumentID       string           `json:"document_id"`
	Metadata         DocumentMetadata `json:"metadata"`
	ExecutiveSummary string           `json:"executive_summary"`
	KeyTopics        []string         `json:"key_topics"`
	Stakeholders     []string         `json:"stakeholders"`
}

// DocumentMetadata describes the analyzed document
type DocumentMetadata struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Opinion   string `json:"opinion_id"`
	Reference string `json:"reference_number"`
}
