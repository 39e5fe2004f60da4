// Package storeapi is the HTTP client for the hosted commerce backend that
// owns the product data. It validates the response envelope at the boundary
// and classifies failures so the query layer can decide what is retryable.
package storeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/calendula-cosmetics/storefront/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrNotFound is returned for a 404 on a detail lookup. It is terminal: the
// query layer must never retry it.
var ErrNotFound = errors.New("product not found")

// ContractError marks an upstream response that does not match the agreed
// shape. Retrying cannot fix a shape mismatch.
type ContractError struct {
	Reason string
}

func (e *ContractError) Error() string {
	return "upstream contract violation: " + e.Reason
}

// TransientError marks a failure worth retrying: transport errors and non-2xx
// statuses other than 404.
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream request failed: %v", e.Err)
	}

	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// API is the surface the query layer depends on.
type API interface {
	ListProducts(ctx context.Context, criteria models.FilterCriteria, page, pageSize int) ([]*models.ProductRecord, int, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.ProductRecord, error)
}

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient constructs a store API client. The transport is wrapped with
// otelhttp so outbound calls carry trace spans.
func NewClient(baseURL, apiKey string, timeout time.Duration) API {
	return &client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type listEnvelope struct {
	Products *[]*models.ProductRecord `json:"products"`
	Total    *int                     `json:"total"`
}

type detailEnvelope struct {
	Product *models.ProductRecord `json:"product"`
}

// ListProducts fetches one page of the catalog. The criteria are assumed to
// be normalized already; the codec owns that.
func (c *client) ListProducts(ctx context.Context, criteria models.FilterCriteria, page, pageSize int) ([]*models.ProductRecord, int, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(pageSize))

	if criteria.CategoryID != nil {
		query.Set("category", *criteria.CategoryID)
	}

	if len(criteria.Labels) > 0 {
		labels := ""
		for i, l := range criteria.Labels {
			if i > 0 {
				labels += ","
			}
			labels += string(l)
		}

		query.Set("labels", labels)
	}

	if criteria.Search != nil {
		query.Set("search", *criteria.Search)
	}

	if criteria.PriceMin != nil {
		query.Set("price_min", strconv.FormatFloat(*criteria.PriceMin, 'f', -1, 64))
	}

	if criteria.PriceMax != nil {
		query.Set("price_max", strconv.FormatFloat(*criteria.PriceMax, 'f', -1, 64))
	}

	if criteria.InStock != nil {
		query.Set("in_stock", strconv.FormatBool(*criteria.InStock))
	}

	var envelope listEnvelope
	if err := c.doGet(ctx, "/products?"+query.Encode(), &envelope); err != nil {
		return nil, 0, err
	}

	// Absence of the envelope field is a contract violation, not an empty result.
	if envelope.Products == nil {
		return nil, 0, &ContractError{Reason: "missing 'products' field in list response"}
	}

	records := *envelope.Products
	for _, r := range records {
		normalizeRecord(r)
	}

	total := len(records)
	if envelope.Total != nil {
		total = *envelope.Total
	}

	return records, total, nil
}

func (c *client) GetProductBySlug(ctx context.Context, slug string) (*models.ProductRecord, error) {
	var envelope detailEnvelope
	if err := c.doGet(ctx, "/products/"+url.PathEscape(slug), &envelope); err != nil {
		return nil, err
	}

	if envelope.Product == nil {
		return nil, &ContractError{Reason: "missing 'product' field in detail response"}
	}

	normalizeRecord(envelope.Product)

	return envelope.Product, nil
}

func (c *client) doGet(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}

	req.Header.Set("Accept", "application/json")

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		return &TransientError{Err: err}
	}

	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &TransientError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransientError{Err: err}
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return &ContractError{Reason: "response is not valid JSON: " + err.Error()}
	}

	return nil
}

// normalizeRecord enforces the record invariants: translations always a map,
// optional arrays never nil.
func normalizeRecord(r *models.ProductRecord) {
	if r.Translations == nil {
		r.Translations = map[string]models.Translation{}
	}

	if r.Labels == nil {
		r.Labels = []models.Label{}
	}

	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
}
