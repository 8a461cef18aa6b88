package models

// API request/response types

type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// ProductResult is one scored product in a search response.
type ProductResult struct {
	ProductID   uint     `json:"product_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	IsHot       bool     `json:"is_hot"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Score       int      `json:"score"`
	MatchedTags []string `json:"matched_tags"`
}

// AISearchResponse is the payload of the POST search endpoint. Failures are
// encoded in Error rather than the HTTP status code.
type AISearchResponse struct {
	Query          string          `json:"query"`
	Results        []ProductResult `json:"results"`
	TotalCount     int             `json:"total_count"`
	RelevantTags   []string        `json:"relevant_tags"`
	SearchMethod   string          `json:"search_method"`
	ResponseTimeMs int             `json:"response_time_ms"`
	Error          string          `json:"error,omitempty"`
}

// Pagination describes one page of a paginated listing.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	PerPage     int   `json:"per_page"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// KeywordSearchResponse is the payload of the GET search endpoint.
type KeywordSearchResponse struct {
	Results    []ProductResult `json:"results"`
	Pagination Pagination      `json:"pagination"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}
