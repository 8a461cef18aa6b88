// backend/internal/services/search.go
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vendora/backend/internal/events"
	"github.com/vendora/backend/internal/models"
	"github.com/vendora/backend/internal/search"
)

// ResponseCache is the slice of the cache layer the orchestrator needs.
type ResponseCache interface {
	Get(ctx context.Context, query string, result interface{}) bool
	Put(ctx context.Context, query string, response interface{})
}

// ClientInfo identifies the requester for the search log.
type ClientInfo struct {
	Session   string
	IPAddress string
	UserAgent string
}

// KeywordSearchParams are the GET endpoint parameters.
type KeywordSearchParams struct {
	Query    string
	Category string
	Sort     string
	Page     int
	PerPage  int
}

// Sort options for the paginated keyword search.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

// SearchService runs the ranked fallback chain: AI extraction, manual
// extraction, keyword substring search. Every request is logged and the
// full response is memoized behind the normalized query.
type SearchService struct {
	products        models.ProductRepository
	tags            models.TagRepository
	categories      models.CategoryRepository
	queries         models.SearchQueryRepository
	cache           ResponseCache
	bus             *events.Bus
	aiExtractor     search.Extractor
	manualExtractor search.Extractor
	maxResults      int
	logger          *logrus.Logger
}

// NewSearchService wires the orchestrator. aiExtractor may be nil when the
// AI provider is not configured; the chain then starts at manual extraction.
func NewSearchService(
	products models.ProductRepository,
	tags models.TagRepository,
	categories models.CategoryRepository,
	queries models.SearchQueryRepository,
	cache ResponseCache,
	bus *events.Bus,
	aiExtractor search.Extractor,
	manualExtractor search.Extractor,
	maxResults int,
	logger *logrus.Logger,
) *SearchService {
	if maxResults <= 0 {
		maxResults = 20
	}
	return &SearchService{
		products:        products,
		tags:            tags,
		categories:      categories,
		queries:         queries,
		cache:           cache,
		bus:             bus,
		aiExtractor:     aiExtractor,
		manualExtractor: manualExtractor,
		maxResults:      maxResults,
		logger:          logger,
	}
}

// Search runs the full pipeline for one query. It never returns an error to
// the caller; every failure mode degrades to a fallback or an explicit error
// payload. The second return value reports a cache hit.
func (s *SearchService) Search(ctx context.Context, query string, client ClientInfo) (*models.AISearchResponse, bool) {
	startTime := time.Now()

	if s.cache != nil {
		var cached models.AISearchResponse
		if s.cache.Get(ctx, query, &cached) {
			s.logger.WithField("query", query).Debug("Search response served from cache")
			return &cached, true
		}
	}

	response := s.runPipeline(ctx, query)
	response.ResponseTimeMs = int(time.Since(startTime).Milliseconds())

	s.recordQuery(query, client, response)

	if s.cache != nil && response.Error == "" {
		s.cache.Put(ctx, query, response)
	}

	if s.bus != nil {
		s.bus.Publish(events.SearchCompleted{
			Query:          query,
			UserSession:    client.Session,
			ResultsCount:   response.TotalCount,
			ResponseTimeMs: response.ResponseTimeMs,
			SearchMethod:   response.SearchMethod,
			Timestamp:      time.Now(),
		})
	}

	return response, false
}

func (s *SearchService) runPipeline(ctx context.Context, query string) *models.AISearchResponse {
	response := &models.AISearchResponse{Query: query}

	products, err := s.products.GetActive()
	if err != nil {
		s.logger.WithError(err).Error("Failed to load product catalog")
		response.SearchMethod = models.SearchMethodError
		response.Error = "search is temporarily unavailable"
		response.Results = []models.ProductResult{}
		return response
	}

	results, tags, method, tagErr := s.tagSearch(ctx, query, products)
	response.RelevantTags = tags

	if tagErr != nil {
		s.logger.WithError(tagErr).WithField("query", query).Error("Tag search pipeline failed, degrading to keyword search")
	}

	if method == "" {
		keywordResults, kwErr := s.keywordSearch(products, query)
		if kwErr != nil {
			s.logger.WithError(kwErr).WithField("query", query).Error("Keyword fallback failed")
			response.SearchMethod = models.SearchMethodError
			response.Error = "search is temporarily unavailable"
			response.Results = []models.ProductResult{}
			return response
		}
		results = keywordResults
		if tagErr != nil {
			method = models.SearchMethodEmergencyFallback
		} else {
			method = models.SearchMethodKeyword
		}
	}

	if len(results) > s.maxResults {
		results = results[:s.maxResults]
	}

	response.SearchMethod = method
	response.Results = toProductResults(results)
	response.TotalCount = len(response.Results)
	return response
}

// tagSearch walks the tag-based strategies in order. An empty method means
// the chain fell through to keyword search; a non-nil error means the
// pipeline failed unexpectedly and the caller should treat keyword search
// as an emergency fallback.
func (s *SearchService) tagSearch(ctx context.Context, query string, products []models.Product) (results []search.ScoredProduct, tags []string, method string, err error) {
	defer func() {
		if r := recover(); r != nil {
			results, method = nil, ""
			err = fmt.Errorf("tag search panic: %v", r)
		}
	}()

	tagRows, err := s.tags.GetAll()
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to load tag table: %w", err)
	}
	categories, err := s.categories.GetAll()
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to load categories: %w", err)
	}

	catalog := search.BuildCatalog(products, tagRows, categories)

	if s.aiExtractor != nil {
		if tags = s.aiExtractor.Extract(ctx, query, catalog); len(tags) > 0 {
			method = models.SearchMethodAI
		}
	}

	if len(tags) == 0 {
		if tags = s.manualExtractor.Extract(ctx, query, catalog); len(tags) > 0 {
			method = models.SearchMethodManual
		}
	}

	if len(tags) == 0 {
		return nil, nil, "", nil
	}

	// Tags existed but matched nothing: fall through to keyword search.
	if results = search.Score(products, tags, query); len(results) == 0 {
		return nil, tags, "", nil
	}

	return results, tags, method, nil
}

func (s *SearchService) keywordSearch(products []models.Product, query string) (results []search.ScoredProduct, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("keyword search panic: %v", r)
		}
	}()

	return search.KeywordMatch(products, query), nil
}

// recordQuery appends the query and its ranked results to the search log.
// Logging is best effort and never fails the request.
func (s *SearchService) recordQuery(query string, client ClientInfo, response *models.AISearchResponse) {
	record := &models.SearchQuery{
		QueryText:       query,
		UserSession:     client.Session,
		ResultsCount:    response.TotalCount,
		ResponseTimeMs:  response.ResponseTimeMs,
		SearchMethod:    response.SearchMethod,
		SearchTimestamp: time.Now(),
		UserAgent:       client.UserAgent,
		IPAddress:       client.IPAddress,
	}

	for i, result := range response.Results {
		record.Results = append(record.Results, models.SearchResult{
			ProductID:   result.ProductID,
			Rank:        i + 1,
			Score:       result.Score,
			MatchedTags: models.StringArray(result.MatchedTags),
		})
	}

	if err := s.queries.Create(record); err != nil {
		s.logger.WithError(err).WithField("query", query).Warn("Failed to log search query")
	}
}

// KeywordSearch serves the paginated non-AI endpoint.
func (s *SearchService) KeywordSearch(ctx context.Context, params KeywordSearchParams) (*models.KeywordSearchResponse, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 {
		params.PerPage = 20
	}
	if params.PerPage > 100 {
		params.PerPage = 100
	}
	if params.Sort == "" {
		params.Sort = SortRelevance
	}
	if !validSort(params.Sort) {
		return nil, fmt.Errorf("invalid sort option: %s", params.Sort)
	}

	var products []models.Product
	var err error
	if params.Category != "" {
		category, cerr := s.categories.GetByName(params.Category)
		if cerr != nil {
			return nil, fmt.Errorf("unknown category: %s", params.Category)
		}
		products, err = s.products.GetByCategory(category.ID)
	} else {
		products, err = s.products.GetActive()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	var results []models.ProductResult
	if strings.TrimSpace(params.Query) != "" {
		results = toProductResults(search.Score(products, nil, params.Query))
	} else {
		for _, product := range products {
			results = append(results, toProductResult(product, 0, nil))
		}
	}

	sortResults(results, params.Sort)

	total := int64(len(results))
	totalPages := int((total + int64(params.PerPage) - 1) / int64(params.PerPage))

	start := (params.Page - 1) * params.PerPage
	if start > len(results) {
		start = len(results)
	}
	end := start + params.PerPage
	if end > len(results) {
		end = len(results)
	}
	page := results[start:end]
	if page == nil {
		page = []models.ProductResult{}
	}

	return &models.KeywordSearchResponse{
		Results: page,
		Pagination: models.Pagination{
			CurrentPage: params.Page,
			TotalPages:  totalPages,
			TotalCount:  total,
			PerPage:     params.PerPage,
			HasNext:     params.Page < totalPages,
			HasPrevious: params.Page > 1 && totalPages > 0,
		},
	}, nil
}

func validSort(sortBy string) bool {
	switch sortBy {
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortNewest:
		return true
	}
	return false
}

func sortResults(results []models.ProductResult, sortBy string) {
	switch sortBy {
	case SortPriceAsc:
		sort.SliceStable(results, func(i, j int) bool { return results[i].Price < results[j].Price })
	case SortPriceDesc:
		sort.SliceStable(results, func(i, j int) bool { return results[i].Price > results[j].Price })
	case SortNewest:
		sort.SliceStable(results, func(i, j int) bool { return results[i].ProductID > results[j].ProductID })
	}
	// SortRelevance keeps scorer order.
}

func toProductResults(scored []search.ScoredProduct) []models.ProductResult {
	results := make([]models.ProductResult, 0, len(scored))
	for _, item := range scored {
		results = append(results, toProductResult(item.Product, item.Score, item.MatchedTags))
	}
	return results
}

func toProductResult(product models.Product, score int, matchedTags []string) models.ProductResult {
	if matchedTags == nil {
		matchedTags = []string{}
	}
	tags := product.TagList()
	if tags == nil {
		tags = []string{}
	}
	return models.ProductResult{
		ProductID:   product.ID,
		Name:        product.Name,
		Description: product.Description,
		Brand:       product.Brand,
		Price:       product.Price,
		Rating:      product.Rating,
		IsHot:       product.IsHot,
		Stock:       product.Stock,
		Category:    product.Category.Name,
		Tags:        tags,
		Score:       score,
		MatchedTags: matchedTags,
	}
}
