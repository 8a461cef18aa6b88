package search

import (
	"strings"

	"github.com/vendora/backend/internal/models"
)

// Catalog is the read-only set of known tags for one search request,
// assembled from product tag fields, the structured tag table, and category
// names. It must be rebuilt per request; catalog data changes frequently.
type Catalog struct {
	tags   []string          // first-seen order, case-preserving
	lookup map[string]string // lower-cased -> canonical form
}

// BuildCatalog returns the deduplicated union of the three tag sources. An
// empty catalog is valid.
func BuildCatalog(products []models.Product, tags []models.Tag, categories []models.Category) *Catalog {
	c := &Catalog{lookup: make(map[string]string)}

	for _, product := range products {
		for _, tag := range product.TagList() {
			c.add(tag)
		}
	}
	for _, tag := range tags {
		c.add(tag.Name)
	}
	for _, category := range categories {
		c.add(category.Name)
	}

	return c
}

func (c *Catalog) add(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	key := strings.ToLower(tag)
	if _, exists := c.lookup[key]; exists {
		return
	}
	c.lookup[key] = tag
	c.tags = append(c.tags, tag)
}

// Contains reports case-insensitive membership.
func (c *Catalog) Contains(tag string) bool {
	_, ok := c.lookup[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// Canonical returns the catalog's stored casing for a tag.
func (c *Catalog) Canonical(tag string) (string, bool) {
	canonical, ok := c.lookup[strings.ToLower(strings.TrimSpace(tag))]
	return canonical, ok
}

// Tags returns all catalog tags in first-seen order.
func (c *Catalog) Tags() []string {
	return c.tags
}

// Sample returns up to n tags, used to bound prompt size.
func (c *Catalog) Sample(n int) []string {
	if n >= len(c.tags) {
		return c.tags
	}
	return c.tags[:n]
}

func (c *Catalog) Len() int {
	return len(c.tags)
}
