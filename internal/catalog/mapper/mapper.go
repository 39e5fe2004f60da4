// Package mapper turns raw upstream product records into locale-resolved view
// models. Handlers never see a ProductRecord; everything they serve has been
// through Map or MapList.
package mapper

import (
	"fmt"
	"sort"
	"strings"

	"github.com/calendula-cosmetics/storefront/internal/models"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LowStockThreshold is the stock count at or below which a product is
	// flagged as low stock (exclusive of zero, which is out of stock).
	LowStockThreshold = 10

	// DefaultLocale is the fallback when the requested locale has no translation.
	DefaultLocale = "en"

	// PlaceholderImageURL is served when a record carries no image.
	PlaceholderImageURL = "/assets/placeholder-product.svg"
)

// Map resolves a single record against the requested locale. It is pure: the
// input record is never mutated.
func Map(r *models.ProductRecord, locale string) models.ProductView {
	name := resolveField(r.Translations, locale, func(t models.Translation) string { return t.Name }, r.Name)
	if name == "" {
		name = fmt.Sprintf("Untitled product (%s)", r.Slug)
	}

	baseDescription := ""
	if r.Description != nil {
		baseDescription = *r.Description
	}

	description := resolveField(r.Translations, locale, func(t models.Translation) string { return t.Description }, baseDescription)

	view := models.ProductView{
		ID:           r.ID,
		Slug:         r.Slug,
		Name:         name,
		Description:  description,
		Price:        r.Price,
		Currency:     r.Currency,
		PriceDisplay: FormatPrice(r.Price, r.Currency, locale),
		Unit:         r.Unit,
		Labels:       r.Labels,
		Ingredients:  r.Ingredients,
		ImageURL:     PlaceholderImageURL,
		InStock:      r.Stock > 0,
		LowStock:     r.Stock > 0 && r.Stock <= LowStockThreshold,
	}

	if r.CategoryID != nil {
		view.CategoryID = *r.CategoryID
	}

	if r.ImageURL != nil && *r.ImageURL != "" {
		view.ImageURL = *r.ImageURL
	}

	// Downstream rendering must never need nil checks on these.
	if view.Labels == nil {
		view.Labels = []models.Label{}
	}

	if view.Ingredients == nil {
		view.Ingredients = []string{}
	}

	return view
}

// MapList maps every record, preserving order. Always returns a non-nil slice.
func MapList(records []*models.ProductRecord, locale string) []models.ProductView {
	views := make([]models.ProductView, 0, len(records))

	for _, r := range records {
		views = append(views, Map(r, locale))
	}

	return views
}

// resolveField walks the locale fallback chain: requested locale, default
// locale, first translation present (stable order), then the base field.
func resolveField(translations map[string]models.Translation, locale string, pick func(models.Translation) string, base string) string {
	if t, ok := translations[locale]; ok {
		if v := pick(t); v != "" {
			return v
		}
	}

	if locale != DefaultLocale {
		if t, ok := translations[DefaultLocale]; ok {
			if v := pick(t); v != "" {
				return v
			}
		}
	}

	keys := make([]string, 0, len(translations))
	for k := range translations {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		if v := pick(translations[k]); v != "" {
			return v
		}
	}

	return base
}

// FormatPrice renders the numeric price for display in the given locale and
// currency. The numeric value is only formatted, never rescaled: prices live
// in major units end to end.
func FormatPrice(price float64, currencyCode, locale string) string {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		// Unknown currency from upstream; fall back to a neutral rendering.
		return fmt.Sprintf("%.2f %s", price, strings.ToUpper(currencyCode))
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}

	p := message.NewPrinter(tag)

	return p.Sprint(currency.Symbol(unit.Amount(price)))
}
