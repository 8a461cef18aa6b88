// backend/internal/api/handlers/search.go
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/vendora/backend/internal/models"
	"github.com/vendora/backend/internal/services"
	"github.com/vendora/backend/pkg/utils"
)

// MaxQueryLength bounds accepted query text.
const MaxQueryLength = 500

// SearchProvider is the slice of the search service the handler uses.
type SearchProvider interface {
	Search(ctx context.Context, query string, client services.ClientInfo) (*models.AISearchResponse, bool)
	KeywordSearch(ctx context.Context, params services.KeywordSearchParams) (*models.KeywordSearchResponse, error)
}

type SearchHandler struct {
	provider       SearchProvider
	popularQueries models.PopularQueryRepository
	logger         *logrus.Logger
}

func NewSearchHandler(provider SearchProvider, popularQueries models.PopularQueryRepository, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		provider:       provider,
		popularQueries: popularQueries,
		logger:         logger,
	}
}

// HandleAISearch processes POST search requests through the fallback chain.
// Pipeline failures are encoded in the payload, not the status code; only
// request validation produces a non-200.
func (h *SearchHandler) HandleAISearch(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Query cannot be empty", nil)
		return
	}
	if len(query) > MaxQueryLength {
		utils.ErrorResponse(c, http.StatusBadRequest, "Query too long", nil)
		return
	}

	client := services.ClientInfo{
		Session:   h.getUserSession(c),
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}

	h.logger.WithFields(logrus.Fields{
		"query":        query,
		"user_session": client.Session,
		"ip_address":   client.IPAddress,
	}).Info("Processing search request")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 45*time.Second)
	defer cancel()

	response, cached := h.provider.Search(ctx, query, client)

	h.logger.WithFields(logrus.Fields{
		"results_count": response.TotalCount,
		"search_method": response.SearchMethod,
		"response_time": response.ResponseTimeMs,
		"cached":        cached,
	}).Info("Search completed")

	c.JSON(http.StatusOK, response)
}

// HandleKeywordSearch serves the paginated non-AI search.
func (h *SearchHandler) HandleKeywordSearch(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	params := services.KeywordSearchParams{
		Query:    strings.TrimSpace(c.Query("q")),
		Category: strings.TrimSpace(c.Query("category")),
		Sort:     c.DefaultQuery("sort", services.SortRelevance),
		Page:     page,
		PerPage:  perPage,
	}

	response, err := h.provider.KeywordSearch(c.Request.Context(), params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid search parameters", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// HandleSearchSuggestions returns popular-query suggestions matching a prefix.
func (h *SearchHandler) HandleSearchSuggestions(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Query parameter 'q' is required", nil)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if limit > 10 {
		limit = 10
	}

	suggestions, err := h.popularQueries.GetTop(50)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get search suggestions")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get suggestions", err)
		return
	}

	queryLower := strings.ToLower(query)
	filtered := make([]models.PopularQuery, 0, limit)
	for _, suggestion := range suggestions {
		if strings.Contains(strings.ToLower(suggestion.QueryText), queryLower) {
			filtered = append(filtered, suggestion)
			if len(filtered) == limit {
				break
			}
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "Suggestions retrieved", filtered)
}

func (h *SearchHandler) getUserSession(c *gin.Context) string {
	if session := c.GetHeader("X-Session-ID"); session != "" {
		return session
	}

	// Basic fingerprint when the client sends no session
	return utils.GenerateSessionID(c.ClientIP() + c.GetHeader("User-Agent"))
}
