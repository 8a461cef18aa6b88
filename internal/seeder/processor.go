package seeder

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/vendora/backend/internal/models"
	"github.com/vendora/backend/internal/repository"
)

// ProductFixture is one catalog entry to seed.
type ProductFixture struct {
	Name        string
	Description string
	Brand       string
	Price       float64
	Stock       int
	Rating      float64
	IsHot       bool
	Tags        string
	Category    string
	Vendor      string
	Priority    int // higher priority fixtures are seeded first
}

// CatalogSeeder loads a fixture catalog into the database for development
// and demos.
type CatalogSeeder struct {
	repoManager *repository.RepositoryManager
	logger      *logrus.Logger
	dryRun      bool
	processed   map[string]bool
	errors      []error
}

func NewCatalogSeeder(repoManager *repository.RepositoryManager, logger *logrus.Logger, dryRun bool) *CatalogSeeder {
	return &CatalogSeeder{
		repoManager: repoManager,
		logger:      logger,
		dryRun:      dryRun,
		processed:   make(map[string]bool),
		errors:      make([]error, 0),
	}
}

// Seed loads the fixtures, highest priority first, applying limit when > 0.
// Seeding is idempotent: vendors, categories, and tags are find-or-create
// and products are matched by name.
func (cs *CatalogSeeder) Seed(fixtures []ProductFixture, limit int) error {
	products := make([]ProductFixture, len(fixtures))
	copy(products, fixtures)
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Priority > products[j].Priority
	})

	if limit > 0 && limit < len(products) {
		products = products[:limit]
		cs.logger.WithField("limit", limit).Info("Limited fixtures to seed")
	}

	cs.logger.WithField("total", len(products)).Info("Seeding catalog fixtures")

	for i, fixture := range products {
		cs.logger.WithFields(logrus.Fields{
			"product":  fixture.Name,
			"progress": fmt.Sprintf("%d/%d", i+1, len(products)),
		}).Debug("Seeding product")

		if err := cs.seedProduct(fixture); err != nil {
			cs.logger.WithError(err).WithField("product", fixture.Name).Error("Failed to seed product")
			cs.errors = append(cs.errors, fmt.Errorf("failed to seed %s: %w", fixture.Name, err))
			continue
		}

		cs.processed[fixture.Name] = true
	}

	cs.logger.WithFields(logrus.Fields{
		"seeded": len(cs.processed),
		"errors": len(cs.errors),
	}).Info("Catalog seeding completed")

	if len(cs.errors) > 0 {
		for _, err := range cs.errors {
			cs.logger.WithError(err).Warn("Seeding error")
		}
		return fmt.Errorf("%d fixtures failed to seed", len(cs.errors))
	}

	return nil
}

func (cs *CatalogSeeder) seedProduct(fixture ProductFixture) error {
	if cs.dryRun {
		cs.logger.WithFields(logrus.Fields{
			"product":  fixture.Name,
			"category": fixture.Category,
			"vendor":   fixture.Vendor,
		}).Info("DRY RUN: would seed product")
		return nil
	}

	vendor, err := cs.findOrCreateVendor(fixture.Vendor)
	if err != nil {
		return fmt.Errorf("vendor: %w", err)
	}

	category, err := cs.findOrCreateCategory(fixture.Category)
	if err != nil {
		return fmt.Errorf("category: %w", err)
	}

	// Register each product tag in the structured tag table too so the
	// catalog loader sees both sources populated.
	product := &models.Product{
		Name:        fixture.Name,
		Description: fixture.Description,
		Brand:       fixture.Brand,
		Price:       fixture.Price,
		Stock:       fixture.Stock,
		Rating:      fixture.Rating,
		IsHot:       fixture.IsHot,
		Tags:        fixture.Tags,
		CategoryID:  category.ID,
		VendorID:    vendor.ID,
		IsActive:    true,
	}

	for _, tag := range product.TagList() {
		if _, err := cs.repoManager.Tag.FindOrCreate(tag); err != nil {
			cs.logger.WithError(err).WithField("tag", tag).Warn("Failed to register tag")
		}
	}

	return cs.repoManager.Product.Create(product)
}

func (cs *CatalogSeeder) findOrCreateVendor(name string) (*models.Vendor, error) {
	vendor, err := cs.repoManager.Vendor.GetByName(name)
	if err == nil {
		return vendor, nil
	}

	vendor = &models.Vendor{Name: name, IsActive: true}
	if err := cs.repoManager.Vendor.Create(vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (cs *CatalogSeeder) findOrCreateCategory(name string) (*models.Category, error) {
	category, err := cs.repoManager.Category.GetByName(name)
	if err == nil {
		return category, nil
	}

	category = &models.Category{Name: name}
	if err := cs.repoManager.Category.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}
