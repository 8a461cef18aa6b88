package models

// Search log models (GORM)

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Search method values recorded on every logged query.
const (
	SearchMethodAI                = "ai"
	SearchMethodManual            = "manual"
	SearchMethodKeyword           = "keyword"
	SearchMethodEmergencyFallback = "keyword_emergency_fallback"
	SearchMethodError             = "error"
)

// ValidSearchMethod reports whether method is one of the recorded values.
func ValidSearchMethod(method string) bool {
	switch method {
	case SearchMethodAI, SearchMethodManual, SearchMethodKeyword,
		SearchMethodEmergencyFallback, SearchMethodError:
		return true
	}
	return false
}

// StringArray for PostgreSQL array support
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "{}", nil
	}
	return fmt.Sprintf("{%s}", strings.Join(s, ",")), nil
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}

	switch v := value.(type) {
	case string:
		v = strings.Trim(v, "{}")
		if v == "" {
			*s = StringArray{}
			return nil
		}
		*s = StringArray(strings.Split(v, ","))
	case []byte:
		return s.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into StringArray", value)
	}
	return nil
}

// SearchQuery is the append-only log of search requests. Rows are created
// once per request and never updated.
type SearchQuery struct {
	BaseModel
	QueryText       string    `json:"query_text" gorm:"not null"`
	UserSession     string    `json:"user_session"`
	ResultsCount    int       `json:"results_count" gorm:"default:0"`
	ResponseTimeMs  int       `json:"response_time_ms"`
	SearchMethod    string    `json:"search_method" gorm:"not null;check:search_method IN ('ai','manual','keyword','keyword_emergency_fallback','error')"`
	SearchTimestamp time.Time `json:"search_timestamp" gorm:"default:NOW()"`
	UserAgent       string    `json:"user_agent"`
	IPAddress       string    `json:"ip_address" gorm:"type:inet"`

	// Associations
	Results []SearchResult `json:"results" gorm:"foreignKey:QueryID"`
}

// SearchResult is one ranked product returned for a logged query. Ranks
// within one query form the contiguous sequence 1..n.
type SearchResult struct {
	BaseModel
	QueryID     uint        `json:"query_id" gorm:"not null;uniqueIndex:idx_query_product"`
	ProductID   uint        `json:"product_id" gorm:"not null;uniqueIndex:idx_query_product"`
	Rank        int         `json:"rank" gorm:"not null"`
	Score       int         `json:"score" gorm:"not null"`
	MatchedTags StringArray `json:"matched_tags" gorm:"type:text[]"`

	// Associations
	Query   SearchQuery `json:"query" gorm:"foreignKey:QueryID"`
	Product Product     `json:"product" gorm:"foreignKey:ProductID"`
}

// PopularQuery represents frequently searched terms
type PopularQuery struct {
	BaseModel
	QueryText         string    `json:"query_text" gorm:"unique;not null"`
	SearchCount       int       `json:"search_count" gorm:"default:1"`
	AvgResultsCount   float64   `json:"avg_results_count" gorm:"type:decimal(5,2);default:0"`
	AvgResponseTimeMs int       `json:"avg_response_time_ms" gorm:"default:0"`
	LastSearched      time.Time `json:"last_searched" gorm:"default:NOW()"`
}

// SystemHealth represents service health monitoring
type SystemHealth struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ServiceName    string    `json:"service_name" gorm:"not null"`
	Status         string    `json:"status" gorm:"not null;check:status IN ('healthy','degraded','unhealthy')"`
	ResponseTimeMs int       `json:"response_time_ms"`
	ErrorMessage   string    `json:"error_message"`
	CheckedAt      time.Time `json:"checked_at" gorm:"default:NOW()"`
}

// TableName methods for custom table names
func (SearchQuery) TableName() string  { return "search_queries" }
func (SearchResult) TableName() string { return "search_results" }
func (PopularQuery) TableName() string { return "popular_queries" }
func (SystemHealth) TableName() string { return "system_health" }

// Model validation methods
func (sq *SearchQuery) Validate() error {
	if sq.QueryText == "" {
		return fmt.Errorf("query text is required")
	}
	if sq.ResultsCount < 0 {
		return fmt.Errorf("results count cannot be negative")
	}
	if sq.ResponseTimeMs < 0 {
		return fmt.Errorf("response time cannot be negative")
	}
	if !ValidSearchMethod(sq.SearchMethod) {
		return fmt.Errorf("invalid search method: %s", sq.SearchMethod)
	}
	return nil
}

func (sr *SearchResult) Validate() error {
	if sr.ProductID == 0 {
		return fmt.Errorf("product ID is required")
	}
	if sr.Rank < 1 {
		return fmt.Errorf("rank must start at 1")
	}
	return nil
}

// GORM hooks
func (sq *SearchQuery) BeforeCreate(tx *gorm.DB) error {
	return sq.Validate()
}

func (sr *SearchResult) BeforeCreate(tx *gorm.DB) error {
	return sr.Validate()
}

// Repository interfaces for the search log
type SearchQueryRepository interface {
	// Create persists the query row together with its ranked results.
	Create(query *SearchQuery) error
	GetByID(id uint) (*SearchQuery, error)
	GetBySession(session string) ([]SearchQuery, error)
	GetRecentSearches(limit int) ([]SearchQuery, error)
}

type PopularQueryRepository interface {
	IncrementCount(queryText string) error
	GetTop(limit int) ([]PopularQuery, error)
	UpdateStats(queryText string, resultsCount float64, responseTime int) error
}

type SystemHealthRepository interface {
	UpdateServiceHealth(serviceName, status string, responseTime int, errorMsg string) error
	GetServiceHealth(serviceName string) (*SystemHealth, error)
	GetAllServicesHealth() ([]SystemHealth, error)
}
