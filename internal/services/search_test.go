package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendora/backend/internal/models"
	"github.com/vendora/backend/internal/search"
	"github.com/vendora/backend/pkg/utils"
)

type fakeProductRepo struct {
	products []models.Product
	err      error
}

func (r *fakeProductRepo) Create(product *models.Product) error      { return nil }
func (r *fakeProductRepo) GetByID(id uint) (*models.Product, error)  { return nil, errors.New("not found") }
func (r *fakeProductRepo) GetActive() ([]models.Product, error)      { return r.products, r.err }
func (r *fakeProductRepo) Update(product *models.Product) error      { return nil }
func (r *fakeProductRepo) Delete(id uint) error                      { return nil }
func (r *fakeProductRepo) GetByCategory(categoryID uint) ([]models.Product, error) {
	var filtered []models.Product
	for _, product := range r.products {
		if product.CategoryID == categoryID {
			filtered = append(filtered, product)
		}
	}
	return filtered, r.err
}

type fakeTagRepo struct {
	tags []models.Tag
	err  error
}

func (r *fakeTagRepo) Create(tag *models.Tag) error              { return nil }
func (r *fakeTagRepo) GetAll() ([]models.Tag, error)             { return r.tags, r.err }
func (r *fakeTagRepo) FindOrCreate(name string) (*models.Tag, error) {
	return &models.Tag{Name: name}, nil
}

type fakeCategoryRepo struct {
	categories []models.Category
	err        error
}

func (r *fakeCategoryRepo) Create(category *models.Category) error { return nil }
func (r *fakeCategoryRepo) GetAll() ([]models.Category, error)     { return r.categories, r.err }
func (r *fakeCategoryRepo) GetByName(name string) (*models.Category, error) {
	for i := range r.categories {
		if r.categories[i].Name == name {
			return &r.categories[i], nil
		}
	}
	return nil, errors.New("category not found")
}

type fakeQueryRepo struct {
	records []*models.SearchQuery
	err     error
}

func (r *fakeQueryRepo) Create(query *models.SearchQuery) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, query)
	return nil
}
func (r *fakeQueryRepo) GetByID(id uint) (*models.SearchQuery, error) { return nil, errors.New("not found") }
func (r *fakeQueryRepo) GetBySession(session string) ([]models.SearchQuery, error) { return nil, nil }
func (r *fakeQueryRepo) GetRecentSearches(limit int) ([]models.SearchQuery, error) { return nil, nil }

// fakeCache mirrors the Redis layer's JSON round trip.
type fakeCache struct {
	store map[string][]byte
	puts  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, query string, result interface{}) bool {
	payload, ok := c.store[utils.QueryHash(query)]
	if !ok {
		return false
	}
	return json.Unmarshal(payload, result) == nil
}

func (c *fakeCache) Put(ctx context.Context, query string, response interface{}) {
	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	c.puts++
	c.store[utils.QueryHash(query)] = payload
}

type stubExtractor struct {
	tags  []string
	calls int32
}

func (e *stubExtractor) Name() string { return "stub" }

func (e *stubExtractor) Extract(ctx context.Context, query string, catalog *search.Catalog) []string {
	atomic.AddInt32(&e.calls, 1)
	return e.tags
}

type panicExtractor struct{}

func (e *panicExtractor) Name() string { return "panic" }

func (e *panicExtractor) Extract(ctx context.Context, query string, catalog *search.Catalog) []string {
	panic("extractor blew up")
}

func testProducts() []models.Product {
	return []models.Product{
		{
			BaseModel: models.BaseModel{ID: 1},
			Name:      "Bose QuietComfort 45",
			Brand:     "Bose",
			Tags:      "headphones,wireless,bluetooth,noise-cancelling",
			Rating:    4.5,
			IsHot:     true,
			Stock:     50,
			Price:     279.0,
		},
		{
			BaseModel: models.BaseModel{ID: 2},
			Name:      "Sony WH-1000XM5",
			Brand:     "Sony",
			Tags:      "headphones,wireless",
			Rating:    4.7,
			Stock:     30,
			Price:     349.0,
		},
		{
			BaseModel: models.BaseModel{ID: 3},
			Name:      "Garden Hose",
			Brand:     "HomeHaven",
			Tags:      "garden,outdoor",
			Rating:    4.2,
			Stock:     100,
			Price:     19.0,
		},
	}
}

type serviceFixture struct {
	service *SearchService
	queries *fakeQueryRepo
	cache   *fakeCache
	ai      *stubExtractor
	manual  *stubExtractor
}

func newServiceFixture(t *testing.T, mutate func(f *serviceFixture, products *fakeProductRepo, tags *fakeTagRepo)) *serviceFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	products := &fakeProductRepo{products: testProducts()}
	tags := &fakeTagRepo{tags: []models.Tag{{Name: "headphones"}, {Name: "wireless"}, {Name: "garden"}}}
	categories := &fakeCategoryRepo{categories: []models.Category{{BaseModel: models.BaseModel{ID: 1}, Name: "Audio"}}}

	fixture := &serviceFixture{
		queries: &fakeQueryRepo{},
		cache:   newFakeCache(),
		ai:      &stubExtractor{},
		manual:  &stubExtractor{},
	}
	if mutate != nil {
		mutate(fixture, products, tags)
	}

	var aiExtractor search.Extractor
	if fixture.ai != nil {
		aiExtractor = fixture.ai
	}

	fixture.service = NewSearchService(
		products, tags, categories, fixture.queries,
		fixture.cache, nil, aiExtractor, fixture.manual, 20, logger,
	)
	return fixture
}

func TestSearch_AIMethod(t *testing.T) {
	fixture := newServiceFixture(t, func(f *serviceFixture, _ *fakeProductRepo, _ *fakeTagRepo) {
		f.ai.tags = []string{"headphones", "wireless"}
	})

	response, cacheHit := fixture.service.Search(context.Background(), "wireless headphones", ClientInfo{Session: "s1"})

	assert.False(t, cacheHit)
	assert.Equal(t, models.SearchMethodAI, response.SearchMethod)
	assert.Equal(t, []string{"headphones", "wireless"}, response.RelevantTags)
	require.Len(t, response.Results, 2)
	// Both headphone products match; the garden hose scores zero.
	assert.Equal(t, 2, response.TotalCount)
	assert.GreaterOrEqual(t, response.Results[0].Score, response.Results[1].Score)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fixture.manual.calls))
}

func TestSearch_ManualWhenAIEmpty(t *testing.T) {
	fixture := newServiceFixture(t, func(f *serviceFixture, _ *fakeProductRepo, _ *fakeTagRepo) {
		f.manual.tags = []string{"headphones"}
	})

	response, _ := fixture.service.Search(context.Background(), "wireless headphones", ClientInfo{})

	assert.Equal(t, models.SearchMethodManual, response.SearchMethod)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fixture.ai.calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&fixture.manual.calls))
	assert.Len(t, response.Results, 2)
}

func TestSearch_ManualWhenAIUnconfigured(t *testing.T) {
	fixture := newServiceFixture(t, func(f *serviceFixture, _ *fakeProductRepo, _ *fakeTagRepo) {
		f.ai = nil
		f.manual.tags = []string{"headphones"}
	})

	response, _ := fixture.service.Search(context.Background(), "wireless headphones", ClientInfo{})

	assert.Equal(t, models.SearchMethodManual, response.SearchMethod)
}

func TestSearch_KeywordWhenNoTagsExtracted(t *testing.T) {
	fixture := newServiceFixture(t, nil)

	response, _ := fixture.service.Search(context.Background(), "quietcomfort", ClientInfo{})

	assert.Equal(t, models.SearchMethodKeyword, response.SearchMethod)
	require.Len(t, response.Results, 1)
	assert.Equal(t, "Bose QuietComfort 45", response.Results[0].Name)
	assert.Empty(t, response.RelevantTags)
}

func TestSearch_KeywordWhenTagsScoreNothing(t *testing.T) {
	// Extracted tags exist but match no product and the query text matches
	// no field either: the chain skips manual extraction and goes straight
	// to keyword search, which reports whatever it finds.
	fixture := newServiceFixture(t, func(f *serviceFixture, _ *fakeProductRepo, _ *fakeTagRepo) {
		f.ai.tags = []string{"budget"}
	})

	response, _ := fixture.service.Search(context.Background(), "zzzunknown", ClientInfo{})

	assert.Equal(t, models.SearchMethodKeyword, response.SearchMethod)
	assert.Equal(t, []string{"budget"}, response.RelevantTags)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fixture.manual.calls))
	assert.Empty(t, response.Results)
	assert.Equal(t, 0, response.TotalCount)
}

func TestSearch_EmergencyFallbackOnTagPipelineError(t *testing.T) {
	fixture := newServiceFixture(t, func(f *serviceFixture, _ *fakeProductRepo, tags *fakeTagRepo) {
		tags.err = errors.New("connection refused")
	})

	response, _ := fixture.service.Search(context.Background(), "quietcomfort", ClientInfo{})

	assert.Equal(t, models.SearchMethodEmergencyFallback, response.SearchMethod)
	assert.Empty(t, response.Error)
	require.Len(t, response.Results, 1)
	assert.Equal(t, "Bose QuietComfort 45", response.Results[0].Name)
}

func TestSearch_EmergencyFallbackOnExtractorPanic(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	products := &fakeProductRepo{products: testProducts()}
	tags := &fakeTagRepo{}
	categories := &fakeCategoryRepo{}
	queries := &fakeQueryRepo{}

	service := NewSearchService(
		products, tags, categories, queries,
		newFakeCache(), nil, &panicExtractor{}, &stubExtractor{}, 20, logger,
	)

	response, _ := service.Search(context.Background(), "quietcomfort", ClientInfo{})

	assert.Equal(t, models.SearchMethodEmergencyFallback, response.SearchMethod)
	require.Len(t, response.Results, 1)
}

func TestSearch_ErrorWhenCatalogUnavailable(t *testing.T) {
	fixture := newServiceFixture(t, func(f *serviceFixture, products *fakeProductRepo, _ *fakeTagRepo) {
		products.err = errors.New("database is down")
	})

	response, _ := fixture.service.Search(context.Background(), "headphones", ClientInfo{})

	assert.Equal(t, models.SearchMethodError, response.SearchMethod)
	assert.NotEmpty(t, response.Error)
	assert.NotNil(t, response.Results)
	assert.Empty(t, response.Results)
	// Error payloads are never cached.
	assert.Equal(t, 0, fixture.cache.puts)
}

func TestSearch_CacheHitSkipsPipeline(t *testing.T) {
	fixture := newServiceFixture(t, func(f *serviceFixture, _ *fakeProductRepo, _ *fakeTagRepo) {
		f.ai.tags = []string{"headphones"}
	})

	first, firstHit := fixture.service.Search(context.Background(), "Wireless Headphones", ClientInfo{})
	second, secondHit := fixture.service.Search(context.Background(), "  wireless headphones ", ClientInfo{})

	assert.False(t, firstHit)
	assert.True(t, secondHit)
	// One pipeline run total: the normalized query hits the cache.
	assert.Equal(t, int32(1), atomic.LoadInt32(&fixture.ai.calls))
	assert.Equal(t, first.SearchMethod, second.SearchMethod)
	assert.Equal(t, first.TotalCount, second.TotalCount)
	assert.Equal(t, first.Results, second.Results)
	// Cache hits are not logged again.
	assert.Len(t, fixture.queries.records, 1)
}

func TestSearch_RecordsRankedResults(t *testing.T) {
	fixture := newServiceFixture(t, func(f *serviceFixture, _ *fakeProductRepo, _ *fakeTagRepo) {
		f.ai.tags = []string{"headphones", "wireless"}
	})

	fixture.service.Search(context.Background(), "wireless headphones", ClientInfo{Session: "s1", IPAddress: "10.0.0.1"})

	require.Len(t, fixture.queries.records, 1)
	record := fixture.queries.records[0]
	assert.Equal(t, "wireless headphones", record.QueryText)
	assert.Equal(t, "s1", record.UserSession)
	assert.Equal(t, models.SearchMethodAI, record.SearchMethod)
	require.Len(t, record.Results, 2)
	for i, result := range record.Results {
		assert.Equal(t, i+1, result.Rank)
	}
	assert.Greater(t, record.Results[0].Score, 0)
}

func TestSearch_LoggingFailureDoesNotFailRequest(t *testing.T) {
	fixture := newServiceFixture(t, func(f *serviceFixture, _ *fakeProductRepo, _ *fakeTagRepo) {
		f.ai.tags = []string{"headphones"}
		f.queries.err = errors.New("insert failed")
	})

	response, _ := fixture.service.Search(context.Background(), "headphones", ClientInfo{})

	assert.Equal(t, models.SearchMethodAI, response.SearchMethod)
	assert.NotEmpty(t, response.Results)
}

func TestSearch_CapsResultsAtMaxResults(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	var many []models.Product
	for i := uint(1); i <= 10; i++ {
		many = append(many, models.Product{
			BaseModel: models.BaseModel{ID: i},
			Name:      "widget",
			Tags:      "widget",
		})
	}

	service := NewSearchService(
		&fakeProductRepo{products: many}, &fakeTagRepo{}, &fakeCategoryRepo{}, &fakeQueryRepo{},
		newFakeCache(), nil, nil, &stubExtractor{tags: []string{"widget"}}, 3, logger,
	)

	response, _ := service.Search(context.Background(), "widget", ClientInfo{})

	assert.Len(t, response.Results, 3)
	assert.Equal(t, 3, response.TotalCount)
}

func TestKeywordSearch_PaginationDefaults(t *testing.T) {
	fixture := newServiceFixture(t, nil)

	response, err := fixture.service.KeywordSearch(context.Background(), KeywordSearchParams{})

	require.NoError(t, err)
	assert.Equal(t, 1, response.Pagination.CurrentPage)
	assert.Equal(t, 20, response.Pagination.PerPage)
	assert.Equal(t, int64(3), response.Pagination.TotalCount)
	assert.False(t, response.Pagination.HasNext)
	assert.False(t, response.Pagination.HasPrevious)
	assert.Len(t, response.Results, 3)
}

func TestKeywordSearch_Paging(t *testing.T) {
	fixture := newServiceFixture(t, nil)

	response, err := fixture.service.KeywordSearch(context.Background(), KeywordSearchParams{Page: 2, PerPage: 2})

	require.NoError(t, err)
	assert.Len(t, response.Results, 1)
	assert.Equal(t, 2, response.Pagination.TotalPages)
	assert.True(t, response.Pagination.HasPrevious)
	assert.False(t, response.Pagination.HasNext)
}

func TestKeywordSearch_InvalidSort(t *testing.T) {
	fixture := newServiceFixture(t, nil)

	_, err := fixture.service.KeywordSearch(context.Background(), KeywordSearchParams{Sort: "alphabetical"})

	assert.Error(t, err)
}

func TestKeywordSearch_PriceSort(t *testing.T) {
	fixture := newServiceFixture(t, nil)

	response, err := fixture.service.KeywordSearch(context.Background(), KeywordSearchParams{Sort: SortPriceAsc})

	require.NoError(t, err)
	require.Len(t, response.Results, 3)
	for i := 1; i < len(response.Results); i++ {
		assert.LessOrEqual(t, response.Results[i-1].Price, response.Results[i].Price)
	}
}

func TestKeywordSearch_UnknownCategory(t *testing.T) {
	fixture := newServiceFixture(t, nil)

	_, err := fixture.service.KeywordSearch(context.Background(), KeywordSearchParams{Category: "Plumbing"})

	assert.Error(t, err)
}

func TestKeywordSearch_QueryRanksByScore(t *testing.T) {
	fixture := newServiceFixture(t, nil)

	response, err := fixture.service.KeywordSearch(context.Background(), KeywordSearchParams{Query: "bose headphones"})

	require.NoError(t, err)
	require.NotEmpty(t, response.Results)
	assert.Equal(t, "Bose QuietComfort 45", response.Results[0].Name)
}
