package middleware

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

type localeContextKey string

const localeKey = localeContextKey("locale")

type LocaleMiddleware struct {
	matcher   language.Matcher
	supported []language.Tag
	fallback  string
}

// NewLocaleMiddleware builds a negotiator over the storefront's supported
// locales. The first supported locale doubles as the fallback.
func NewLocaleMiddleware(supported []string, fallback string) *LocaleMiddleware {
	tags := make([]language.Tag, 0, len(supported))
	for _, loc := range supported {
		if tag, err := language.Parse(loc); err == nil {
			tags = append(tags, tag)
		}
	}

	if len(tags) == 0 {
		tags = []language.Tag{language.English}
	}

	return &LocaleMiddleware{
		matcher:   language.NewMatcher(tags),
		supported: tags,
		fallback:  fallback,
	}
}

// Resolve picks the request locale: an explicit ?locale= wins, then the
// Accept-Language header, then the configured fallback. Unsupported values
// degrade to the closest supported match rather than failing the request.
func (m *LocaleMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested := r.URL.Query().Get("locale")
		acceptLanguage := r.Header.Get("Accept-Language")

		tag, _ := language.MatchStrings(m.matcher, requested, acceptLanguage)

		locale := m.fallback

		base, confidence := tag.Base()
		if confidence != language.No {
			locale = base.String()
		}

		ctx := context.WithValue(r.Context(), localeKey, locale)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func LocaleFromContext(ctx context.Context) string {
	if locale, ok := ctx.Value(localeKey).(string); ok {
		return locale
	}

	return "en"
}

// ContextWithLocale is exported for tests that exercise handlers directly.
func ContextWithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey, locale)
}
