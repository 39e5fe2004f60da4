// Package query is the catalog query client. It fronts the hosted store API
// with a stale-while-revalidate keyed cache, coalesces concurrent fetches per
// key, retries transient failures with exponential backoff, and hands out
// locale-resolved view models only.
package query

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/calendula-cosmetics/storefront/internal/catalog/codec"
	"github.com/calendula-cosmetics/storefront/internal/catalog/mapper"
	apperrors "github.com/calendula-cosmetics/storefront/internal/errors"
	"github.com/calendula-cosmetics/storefront/internal/metrics"
	"github.com/calendula-cosmetics/storefront/internal/models"
	"github.com/calendula-cosmetics/storefront/pkg/storeapi"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"
)

const (
	defaultPage     = 1
	defaultPageSize = 12
	maxPageSize     = 100

	// revalidateTimeout bounds a background refresh; it is detached from the
	// request context that triggered it.
	revalidateTimeout = 15 * time.Second
)

// ListQuery is the full tuple a list cache entry is keyed by.
type ListQuery struct {
	Criteria models.FilterCriteria
	Page     int
	PageSize int
	Locale   string
}

// ListResult is what the presentation layer consumes. Stale marks a value
// served from cache past its freshness window (or carried over from a
// previous page while the requested one failed).
type ListResult struct {
	Items      []models.ProductView `json:"items"`
	Pagination models.Pagination    `json:"pagination"`
	Stale      bool                 `json:"stale,omitempty"`
}

type Options struct {
	ListTTL         time.Duration
	DetailTTL       time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration // initial backoff interval, shrunk in tests
}

type Client struct {
	api   storeapi.API
	store *Store
	group singleflight.Group
	opts  Options

	mu       sync.Mutex
	lastGood map[string]*ListResult // last successful result per filter family
}

func NewClient(api storeapi.API, store *Store, opts Options) *Client {
	if opts.ListTTL <= 0 {
		opts.ListTTL = 60 * time.Second
	}

	if opts.DetailTTL <= 0 {
		opts.DetailTTL = 5 * time.Minute
	}

	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}

	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 200 * time.Millisecond
	}

	return &Client{
		api:      api,
		store:    store,
		opts:     opts,
		lastGood: make(map[string]*ListResult),
	}
}

// List resolves one page of the catalog. Fresh cache hits return immediately;
// stale hits are served as-is while a background revalidation runs. On an
// upstream failure List returns the last good result for the same filter
// family (if any) alongside the error, so a page change never flashes to
// empty.
func (c *Client) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	q = normalizeQuery(q)
	key := ListKey(q.Criteria, q.Page, q.PageSize, q.Locale)
	family := FamilyKey(q.Criteria, q.PageSize, q.Locale)

	if snap, ok := c.store.Lookup(key); ok && snap.State == StateFresh {
		res, resOK := snap.Value.(*ListResult)
		if resOK {
			if snap.Stale {
				metrics.CatalogCacheStaleServes.Inc()
				c.revalidateList(ctx, key, family, q)

				stale := *res
				stale.Stale = true

				return &stale, nil
			}

			metrics.CatalogCacheHits.Inc()

			return res, nil
		}
	}

	metrics.CatalogCacheMisses.Inc()

	res, err := c.fetchListShared(ctx, key, family, q)
	if err != nil {
		if prev := c.previousResult(family); prev != nil {
			stale := *prev
			stale.Stale = true

			return &stale, err
		}

		return nil, err
	}

	return res, nil
}

// GetBySlug resolves a single product. A 404 is terminal: the key is marked
// not-found and later calls return immediately without touching the network.
func (c *Client) GetBySlug(ctx context.Context, slug, locale string) (*models.ProductView, error) {
	key := DetailKey(slug, locale)

	if snap, ok := c.store.Lookup(key); ok {
		switch snap.State {
		case StateNotFound:
			return nil, apperrors.NotFoundError("Product not found").WithDetail(slug)
		case StateFresh:
			view, viewOK := snap.Value.(*models.ProductView)
			if viewOK {
				if snap.Stale {
					metrics.CatalogCacheStaleServes.Inc()
					c.revalidateDetail(ctx, key, slug, locale)
				} else {
					metrics.CatalogCacheHits.Inc()
				}

				return view, nil
			}
		}
	}

	metrics.CatalogCacheMisses.Inc()

	return c.fetchDetailShared(ctx, key, slug, locale)
}

// Refresh drops the cached entry for a list query so the next List issues a
// fetch. This is the manual-retry surface behind the UI's retry affordance.
func (c *Client) Refresh(q ListQuery) {
	q = normalizeQuery(q)
	c.store.Invalidate(ListKey(q.Criteria, q.Page, q.PageSize, q.Locale))
}

// Purge empties the whole cache. Wired to an admin-only endpoint.
func (c *Client) Purge() int {
	c.mu.Lock()
	c.lastGood = make(map[string]*ListResult)
	c.mu.Unlock()

	return c.store.Purge()
}

func normalizeQuery(q ListQuery) ListQuery {
	q.Criteria = codec.Normalize(q.Criteria)

	if q.Page < 1 {
		q.Page = defaultPage
	}

	if q.PageSize < 1 || q.PageSize > maxPageSize {
		q.PageSize = defaultPageSize
	}

	if q.Locale == "" {
		q.Locale = mapper.DefaultLocale
	}

	return q
}

// fetchListShared coalesces concurrent fetches of the same key onto a single
// upstream request. The fetch itself runs on a detached context so one
// canceled caller cannot fail the waiters that coalesced onto it.
func (c *Client) fetchListShared(ctx context.Context, key, family string, q ListQuery) (*ListResult, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		return c.fetchList(detachContext(ctx), key, family, q)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Shared {
			metrics.CatalogCoalescedWaits.Inc()
		}

		if ctx.Err() != nil {
			// Late result for a caller that lost interest: leave it in the
			// cache for others but do not apply it here.
			return nil, ctx.Err()
		}

		if r.Err != nil {
			return nil, r.Err
		}

		res, ok := r.Val.(*ListResult)
		if !ok {
			return nil, apperrors.InternalError("Unexpected cache value type")
		}

		return res, nil
	}
}

// fetchDetailShared mirrors fetchListShared: one upstream request per key, a
// canceled caller stops waiting immediately, and a result that lands after
// cancellation is kept for others but not applied here.
func (c *Client) fetchDetailShared(ctx context.Context, key, slug, locale string) (*models.ProductView, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		return c.fetchDetail(detachContext(ctx), key, slug, locale)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Shared {
			metrics.CatalogCoalescedWaits.Inc()
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if r.Err != nil {
			return nil, r.Err
		}

		view, ok := r.Val.(*models.ProductView)
		if !ok {
			return nil, apperrors.InternalError("Unexpected cache value type")
		}

		return view, nil
	}
}

func (c *Client) fetchList(ctx context.Context, key, family string, q ListQuery) (*ListResult, error) {
	var (
		records []*models.ProductRecord
		total   int
	)

	operation := func() error {
		var err error

		records, total, err = c.api.ListProducts(ctx, q.Criteria, q.Page, q.PageSize)
		if err != nil {
			return classify(err)
		}

		return nil
	}

	if err := backoff.Retry(c.instrumented(operation), c.newBackOff(ctx)); err != nil {
		c.store.SetError(key, err)

		return nil, wrapUpstream(err)
	}

	res := &ListResult{
		Items:      mapper.MapList(records, q.Locale),
		Pagination: models.NewPagination(q.Page, q.PageSize, total),
	}

	c.store.SetFresh(key, res, c.opts.ListTTL)

	c.mu.Lock()
	c.lastGood[family] = res
	c.mu.Unlock()

	return res, nil
}

func (c *Client) fetchDetail(ctx context.Context, key, slug, locale string) (*models.ProductView, error) {
	var record *models.ProductRecord

	operation := func() error {
		var err error

		record, err = c.api.GetProductBySlug(ctx, slug)
		if err != nil {
			return classify(err)
		}

		return nil
	}

	if err := backoff.Retry(c.instrumented(operation), c.newBackOff(ctx)); err != nil {
		if errors.Is(err, storeapi.ErrNotFound) {
			c.store.SetNotFound(key)

			return nil, apperrors.NotFoundError("Product not found").WithDetail(slug)
		}

		c.store.SetError(key, err)

		return nil, wrapUpstream(err)
	}

	view := mapper.Map(record, locale)
	c.store.SetFresh(key, &view, c.opts.DetailTTL)

	return &view, nil
}

func (c *Client) revalidateList(ctx context.Context, key, family string, q ListQuery) {
	metrics.CatalogRevalidations.Inc()

	go func() {
		bgCtx, cancel := context.WithTimeout(detachContext(ctx), revalidateTimeout)
		defer cancel()

		_, err, _ := c.group.Do(key, func() (any, error) {
			return c.fetchList(bgCtx, key, family, q)
		})
		if err != nil {
			// Keep serving the stale value; the next read tries again.
			slog.Warn("catalog list revalidation failed",
				slog.String("key", key), slog.String("error", err.Error()))
		}
	}()
}

func (c *Client) revalidateDetail(ctx context.Context, key, slug, locale string) {
	metrics.CatalogRevalidations.Inc()

	go func() {
		bgCtx, cancel := context.WithTimeout(detachContext(ctx), revalidateTimeout)
		defer cancel()

		_, err, _ := c.group.Do(key, func() (any, error) {
			return c.fetchDetail(bgCtx, key, slug, locale)
		})
		if err != nil {
			slog.Warn("catalog detail revalidation failed",
				slog.String("slug", slug), slog.String("error", err.Error()))
		}
	}()
}

func (c *Client) previousResult(family string) *ListResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastGood[family]
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.InitialInterval

	return backoff.WithContext(backoff.WithMaxRetries(b, c.opts.MaxRetries), ctx)
}

// instrumented counts every retry after the first attempt.
func (c *Client) instrumented(op backoff.Operation) backoff.Operation {
	first := true

	return func() error {
		if !first {
			metrics.CatalogUpstreamRetries.Inc()
		}

		first = false

		return op()
	}
}

// classify decides retryability: not-found and contract violations are
// permanent, everything else stays retryable.
func classify(err error) error {
	var contractErr *storeapi.ContractError

	switch {
	case errors.Is(err, storeapi.ErrNotFound):
		return backoff.Permanent(err)
	case errors.As(err, &contractErr):
		return backoff.Permanent(err)
	default:
		return err
	}
}

func wrapUpstream(err error) error {
	var contractErr *storeapi.ContractError
	if errors.As(err, &contractErr) {
		return apperrors.ContractViolationError("Store API returned an unexpected response shape").WithError(err)
	}

	return apperrors.UpstreamError("Store API is unavailable").WithError(err)
}

// detachContext severs cancellation but keeps values (trace context, logger)
// so a shared or background fetch survives its originating request.
func detachContext(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
