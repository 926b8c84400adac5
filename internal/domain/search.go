package domain

// SearchOptions narrows a categorized search
type SearchOptions struct {
	Categories []string `json:"categories,omitempty"` // result bundles to include
	Limit      int      `json:"limit,omitempty"`
}

// SearchRequest is the body of POST /search/
type SearchRequest struct {
	Query   string        `json:"query"`
	Options SearchOptions `json:"options"`
}

// SearchBundle is one categorized group of search results
type SearchBundle struct {
	Category string        `json:"category"` // "opinions", "employees", "documents"
	Total    int64         `json:"total"`
	Results  []interface{} `json:"results"`
}

// SearchResponse groups results by category
type SearchResponse struct {
	Query   string         `json:"query"`
	Bundles []SearchBundle `json:"bundles"`
}

// SearchAnalysis is the body of POST /searchanalysis/search responses
type SearchAnalysis struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Trends    []string `json:"trends"`
}
