package search

import (
	"sort"
	"strings"

	"github.com/vendora/backend/internal/models"
)

// Relevance weights. The rating boost threshold is strictly greater-than.
const (
	tagMatchWeight        = 15 // per matching tag, uncapped
	nameMatchBonus        = 20 // once, any query word in the name
	descriptionWordWeight = 5  // per query word in the description
	brandMatchBonus       = 10 // once, any query word in the brand
	categoryMatchBonus    = 8  // once, any query word in the category name

	ratingBoost = 3
	hotBoost    = 5
	stockBoost  = 1

	ratingBoostThreshold = 4.0
	stockBoostThreshold  = 10
)

// ScoredProduct is one ranked scoring outcome.
type ScoredProduct struct {
	Product     models.Product
	Score       int
	MatchedTags []string
}

// Score ranks products against the extracted tags and the raw query.
// Products with no relevance signal (score <= 0) are excluded. Ties keep
// catalog iteration order via a stable sort.
func Score(products []models.Product, tags []string, query string) []ScoredProduct {
	queryWords := strings.Fields(strings.ToLower(query))

	var scored []ScoredProduct
	for _, product := range products {
		score, matched := scoreProduct(&product, tags, queryWords)
		if score <= 0 {
			continue
		}
		scored = append(scored, ScoredProduct{
			Product:     product,
			Score:       score,
			MatchedTags: matched,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

func scoreProduct(product *models.Product, tags []string, queryWords []string) (int, []string) {
	score := 0

	// Tag matches, one add per matching extracted tag.
	productTags := make(map[string]bool)
	for _, tag := range product.TagList() {
		productTags[strings.ToLower(tag)] = true
	}

	var matched []string
	for _, tag := range tags {
		if productTags[strings.ToLower(tag)] {
			score += tagMatchWeight
			matched = append(matched, tag)
		}
	}

	nameLower := strings.ToLower(product.Name)
	descLower := strings.ToLower(product.Description)
	brandLower := strings.ToLower(product.Brand)
	categoryLower := strings.ToLower(product.Category.Name)

	nameHit := false
	brandHit := false
	categoryHit := false
	for _, word := range queryWords {
		if strings.Contains(nameLower, word) {
			nameHit = true
		}
		if strings.Contains(descLower, word) {
			score += descriptionWordWeight
		}
		if strings.Contains(brandLower, word) {
			brandHit = true
		}
		if strings.Contains(categoryLower, word) {
			categoryHit = true
		}
	}
	if nameHit {
		score += nameMatchBonus
	}
	if brandHit {
		score += brandMatchBonus
	}
	if categoryHit {
		score += categoryMatchBonus
	}

	// Quality boosts only stack on top of a relevance match; a hot,
	// well-rated product with no signal stays out of the results.
	if score <= 0 {
		return score, matched
	}
	if product.Rating > ratingBoostThreshold {
		score += ratingBoost
	}
	if product.IsHot {
		score += hotBoost
	}
	if product.Stock > stockBoostThreshold {
		score += stockBoost
	}

	return score, matched
}
