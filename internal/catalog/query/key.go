package query

import (
	"fmt"

	"github.com/calendula-cosmetics/storefront/internal/catalog/codec"
	"github.com/calendula-cosmetics/storefront/internal/models"
)

// SchemaVersion is baked into every cache key so a deploy that changes the
// record shape never reads entries written by the previous shape.
const SchemaVersion = "v1"

// ListKey derives the cache key for a list query. The criteria are normalized
// and rendered through the codec, and url.Values.Encode sorts by parameter
// name, so deeply-equal criteria always map to the same key regardless of
// field order or slice identity.
func ListKey(criteria models.FilterCriteria, page, pageSize int, locale string) string {
	return fmt.Sprintf("catalog:%s:list:%s:%d:%d:%s",
		SchemaVersion, locale, page, pageSize, codec.Encode(criteria).Encode())
}

// FamilyKey identifies a list query ignoring the page number. It anchors the
// "previous page stays visible while the next page loads" behavior.
func FamilyKey(criteria models.FilterCriteria, pageSize int, locale string) string {
	return fmt.Sprintf("catalog:%s:family:%s:%d:%s",
		SchemaVersion, locale, pageSize, codec.Encode(criteria).Encode())
}

// DetailKey derives the cache key for a slug lookup.
func DetailKey(slug, locale string) string {
	return fmt.Sprintf("catalog:%s:detail:%s:%s", SchemaVersion, locale, slug)
}
