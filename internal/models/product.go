package models

import "time"

// Label is a quality/certification tag attached to a product. The set is
// closed: the upstream store only ever emits these values.
type Label string

const (
	LabelOrganic       Label = "organic"
	LabelVegan         Label = "vegan"
	LabelHandHarvested Label = "hand-harvested"
	LabelColdPressed   Label = "cold-pressed"
	LabelFragranceFree Label = "fragrance-free"
	LabelCrueltyFree   Label = "cruelty-free"
)

// KnownLabels is used by the filter codec to drop values outside the closed set.
var KnownLabels = map[Label]bool{
	LabelOrganic:       true,
	LabelVegan:         true,
	LabelHandHarvested: true,
	LabelColdPressed:   true,
	LabelFragranceFree: true,
	LabelCrueltyFree:   true,
}

// Translation holds per-locale overrides for the translatable product fields.
type Translation struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// ProductRecord is the raw product shape as delivered by the upstream store
// API, pre-localization. Prices are in major currency units (19.90, never
// 1990). Translations is always a map after decoding, possibly empty.
type ProductRecord struct {
	ID           string                 `json:"id"`
	Slug         string                 `json:"slug"`
	CategoryID   *string                `json:"category_id,omitempty"`
	Name         string                 `json:"name"`
	Description  *string                `json:"description,omitempty"`
	Price        float64                `json:"price"`
	Currency     string                 `json:"currency"`
	Stock        int                    `json:"stock"`
	Unit         string                 `json:"unit"`
	Labels       []Label                `json:"labels"`
	Ingredients  []string               `json:"inci"`
	Active       bool                   `json:"active"`
	ImageURL     *string                `json:"image_url,omitempty"`
	Translations map[string]Translation `json:"translations"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// ProductView is the locale-resolved, UI-ready product shape. Handlers only
// ever serve this type; raw records stay behind the mapper.
type ProductView struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	CategoryID   string   `json:"categoryId,omitempty"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Currency     string   `json:"currency"`
	PriceDisplay string   `json:"priceDisplay"`
	Unit         string   `json:"unit"`
	Labels       []Label  `json:"labels"`
	Ingredients  []string `json:"ingredients"`
	ImageURL     string   `json:"imageUrl"`
	InStock      bool     `json:"inStock"`
	LowStock     bool     `json:"isLowStock"`
}

// FilterCriteria captures the constrainable catalog filters. A nil field means
// "no constraint"; empty strings and zeros are never used as unset sentinels.
type FilterCriteria struct {
	CategoryID *string
	Labels     []Label
	Search     *string
	PriceMin   *float64
	PriceMax   *float64
	InStock    *bool
}

// Pagination describes one page of a list result.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

func NewPagination(page, pageSize, total int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}
