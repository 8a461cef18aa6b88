package search

import (
	"strings"

	"github.com/vendora/backend/internal/models"
)

// KeywordResultLimit caps the keyword fallback result list.
const KeywordResultLimit = 20

// keywordNominalScore is assigned to every keyword hit; the fallback does
// not rank.
const keywordNominalScore = 1

// KeywordMatch performs the last-resort substring search across
// name/description/brand/tags/category. Any match is included, capped at
// KeywordResultLimit, in catalog iteration order.
func KeywordMatch(products []models.Product, query string) []ScoredProduct {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	words := strings.Fields(queryLower)

	var results []ScoredProduct
	for _, product := range products {
		if !keywordHit(&product, queryLower, words) {
			continue
		}
		results = append(results, ScoredProduct{
			Product: product,
			Score:   keywordNominalScore,
		})
		if len(results) == KeywordResultLimit {
			break
		}
	}

	return results
}

func keywordHit(product *models.Product, queryLower string, words []string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		product.Name,
		product.Description,
		product.Brand,
		product.Tags,
		product.Category.Name,
	}, " "))

	if strings.Contains(haystack, queryLower) {
		return true
	}
	for _, word := range words {
		if strings.Contains(haystack, word) {
			return true
		}
	}
	return false
}
