package models

// Catalog models (GORM)

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Vendor represents a storefront owner
type Vendor struct {
	BaseModel
	Name     string `json:"name" gorm:"unique;not null"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	// Associations
	Products []Product `json:"products" gorm:"foreignKey:VendorID"`
}

// Category represents a product category (flat view of the catalog tree)
type Category struct {
	BaseModel
	Name     string `json:"name" gorm:"unique;not null"`
	Slug     string `json:"slug"`
	ParentID *uint  `json:"parent_id"`

	// Associations
	Products []Product `json:"products" gorm:"foreignKey:CategoryID"`
}

// Tag represents a structured tag label
type Tag struct {
	BaseModel
	Name string `json:"name" gorm:"unique;not null"`
}

// Product is a searchable catalog entry. The search pipeline treats it as
// read-only; writes happen in the catalog/vendor subsystems.
type Product struct {
	BaseModel
	Name        string  `json:"name" gorm:"not null;index"`
	Description string  `json:"description"`
	Brand       string  `json:"brand" gorm:"index"`
	Price       float64 `json:"price" gorm:"type:decimal(10,2)"`
	Stock       int     `json:"stock" gorm:"default:0"`
	Rating      float64 `json:"rating" gorm:"type:decimal(3,2);default:0"`
	IsHot       bool    `json:"is_hot" gorm:"default:false"`
	Tags        string  `json:"tags"` // comma-separated free text
	CategoryID  uint    `json:"category_id" gorm:"index"`
	VendorID    uint    `json:"vendor_id" gorm:"index"`
	IsActive    bool    `json:"is_active" gorm:"default:true"`

	// Associations
	Category Category `json:"category" gorm:"foreignKey:CategoryID"`
	Vendor   Vendor   `json:"vendor" gorm:"foreignKey:VendorID"`
}

// TagList splits the free-text tag field into trimmed, non-empty entries.
func (p *Product) TagList() []string {
	if p.Tags == "" {
		return nil
	}
	parts := strings.Split(p.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// TableName methods for custom table names
func (Vendor) TableName() string   { return "vendors" }
func (Category) TableName() string { return "categories" }
func (Tag) TableName() string      { return "tags" }
func (Product) TableName() string  { return "products" }

// Model validation methods
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if p.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	if p.Rating < 0 || p.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	return nil
}

func (v *Vendor) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("vendor name is required")
	}
	return nil
}

// GORM hooks
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	return p.Validate()
}

func (p *Product) BeforeUpdate(tx *gorm.DB) error {
	return p.Validate()
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	return v.Validate()
}

// Repository interfaces for the catalog
type ProductRepository interface {
	Create(product *Product) error
	GetByID(id uint) (*Product, error)
	GetActive() ([]Product, error)
	GetByCategory(categoryID uint) ([]Product, error)
	Update(product *Product) error
	Delete(id uint) error
}

type CategoryRepository interface {
	Create(category *Category) error
	GetByName(name string) (*Category, error)
	GetAll() ([]Category, error)
}

type TagRepository interface {
	Create(tag *Tag) error
	GetAll() ([]Tag, error)
	FindOrCreate(name string) (*Tag, error)
}

type VendorRepository interface {
	Create(vendor *Vendor) error
	GetByName(name string) (*Vendor, error)
	GetAll() ([]Vendor, error)
}
