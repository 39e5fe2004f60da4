package codec_test

import (
	"net/url"
	"testing"

	"github.com/calendula-cosmetics/storefront/internal/catalog/codec"
	"github.com/calendula-cosmetics/storefront/internal/models"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func boolPtr(b bool) *bool { return &b }

func TestRoundTrip(t *testing.T) {
	testCases := []struct {
		name     string
		criteria models.FilterCriteria
	}{
		{
			name:     "Empty criteria",
			criteria: models.FilterCriteria{},
		},
		{
			name: "Category only",
			criteria: models.FilterCriteria{
				CategoryID: strPtr("face-care"),
			},
		},
		{
			name: "All fields",
			criteria: models.FilterCriteria{
				CategoryID: strPtr("body-care"),
				Labels:     []models.Label{models.LabelOrganic, models.LabelVegan},
				Search:     strPtr("argan oil"),
				PriceMin:   floatPtr(5),
				PriceMax:   floatPtr(49.9),
				InStock:    boolPtr(true),
			},
		},
		{
			name: "In stock false is a constraint, not unset",
			criteria: models.FilterCriteria{
				InStock: boolPtr(false),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			decoded := codec.Decode(codec.Encode(tc.criteria))

			// Assert
			assert.Equal(t, codec.Normalize(tc.criteria), decoded)
		})
	}
}

func TestNormalizeSortsLabels(t *testing.T) {
	// Arrange
	a := models.FilterCriteria{Labels: []models.Label{models.LabelVegan, models.LabelOrganic}}
	b := models.FilterCriteria{Labels: []models.Label{models.LabelOrganic, models.LabelVegan}}

	// Act & Assert
	assert.Equal(t, codec.Normalize(a), codec.Normalize(b))
	assert.Equal(t, codec.Encode(a).Encode(), codec.Encode(b).Encode())
}

func TestNormalizeDropsUnknownLabels(t *testing.T) {
	// Arrange
	c := models.FilterCriteria{Labels: []models.Label{"gluten-free", models.LabelOrganic}}

	// Act
	normalized := codec.Normalize(c)

	// Assert
	assert.Equal(t, []models.Label{models.LabelOrganic}, normalized.Labels)
}

func TestNormalizeSanitizesSearch(t *testing.T) {
	// Arrange
	c := models.FilterCriteria{Search: strPtr("<script>alert(1)</script>rose water ")}

	// Act
	normalized := codec.Normalize(c)

	// Assert
	assert.NotNil(t, normalized.Search)
	assert.Equal(t, "rose water", *normalized.Search)
}

func TestDecodeIgnoresMalformedParams(t *testing.T) {
	// Arrange
	values := url.Values{}
	values.Set("price_min", "not-a-number")
	values.Set("price_max", "-3")
	values.Set("in_stock", "maybe")
	values.Set("labels", "unknown-label")
	values.Set("sort", "price_asc") // unsupported parameter

	// Act
	decoded := codec.Decode(values)

	// Assert
	assert.Equal(t, models.FilterCriteria{}, decoded)
}

func TestDecodeEmptyValuesMeanUnset(t *testing.T) {
	// Arrange
	values := url.Values{}
	values.Set("category", "")
	values.Set("search", "")

	// Act
	decoded := codec.Decode(values)

	// Assert
	assert.Nil(t, decoded.CategoryID)
	assert.Nil(t, decoded.Search)
}
