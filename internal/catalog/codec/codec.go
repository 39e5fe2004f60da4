// Package codec translates between in-memory catalog filter criteria and
// their URL query-string representation. Both directions are pure; malformed
// or unknown parameters are dropped rather than errored so a hand-edited URL
// can never break the catalog page.
package codec

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/calendula-cosmetics/storefront/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

const (
	paramCategory = "category"
	paramLabels   = "labels"
	paramSearch   = "search"
	paramPriceMin = "price_min"
	paramPriceMax = "price_max"
	paramInStock  = "in_stock"
)

// Free-text search reaches the upstream API verbatim, so it goes through the
// strict policy first.
var sanitizer = bluemonday.StrictPolicy()

// Normalize returns a canonical copy of the criteria: labels sorted with
// unknown values dropped, search trimmed and sanitized, empty collections
// collapsed to nil. Cache keys and Encode both rely on this canonical form.
func Normalize(c models.FilterCriteria) models.FilterCriteria {
	out := models.FilterCriteria{
		CategoryID: c.CategoryID,
		PriceMin:   c.PriceMin,
		PriceMax:   c.PriceMax,
		InStock:    c.InStock,
	}

	if c.CategoryID != nil && *c.CategoryID == "" {
		out.CategoryID = nil
	}

	if len(c.Labels) > 0 {
		labels := make([]models.Label, 0, len(c.Labels))

		for _, l := range c.Labels {
			if models.KnownLabels[l] {
				labels = append(labels, l)
			}
		}

		sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

		if len(labels) > 0 {
			out.Labels = labels
		}
	}

	if c.Search != nil {
		term := strings.TrimSpace(sanitizer.Sanitize(*c.Search))
		if term != "" {
			out.Search = &term
		}
	}

	return out
}

// Encode renders the criteria as URL query values. The criteria are
// normalized first, so Encode is idempotent and two equivalent criteria
// always produce an identical query string.
func Encode(c models.FilterCriteria) url.Values {
	c = Normalize(c)
	values := url.Values{}

	if c.CategoryID != nil {
		values.Set(paramCategory, *c.CategoryID)
	}

	if len(c.Labels) > 0 {
		parts := make([]string, len(c.Labels))
		for i, l := range c.Labels {
			parts[i] = string(l)
		}

		values.Set(paramLabels, strings.Join(parts, ","))
	}

	if c.Search != nil {
		values.Set(paramSearch, *c.Search)
	}

	if c.PriceMin != nil {
		values.Set(paramPriceMin, strconv.FormatFloat(*c.PriceMin, 'f', -1, 64))
	}

	if c.PriceMax != nil {
		values.Set(paramPriceMax, strconv.FormatFloat(*c.PriceMax, 'f', -1, 64))
	}

	if c.InStock != nil {
		values.Set(paramInStock, strconv.FormatBool(*c.InStock))
	}

	return values
}

// Decode parses URL query values back into criteria. Absent parameters stay
// nil, never zero values. A parameter that fails to parse is ignored.
func Decode(values url.Values) models.FilterCriteria {
	var c models.FilterCriteria

	if v := values.Get(paramCategory); v != "" {
		c.CategoryID = &v
	}

	if v := values.Get(paramLabels); v != "" {
		for _, part := range strings.Split(v, ",") {
			label := models.Label(strings.TrimSpace(part))
			if models.KnownLabels[label] {
				c.Labels = append(c.Labels, label)
			}
		}
	}

	if v := values.Get(paramSearch); v != "" {
		c.Search = &v
	}

	if v := values.Get(paramPriceMin); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.PriceMin = &f
		}
	}

	if v := values.Get(paramPriceMax); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.PriceMax = &f
		}
	}

	if v := values.Get(paramInStock); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.InStock = &b
		}
	}

	return Normalize(c)
}
