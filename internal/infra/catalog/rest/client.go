// Package rest implements the mintresolve.Catalog interface against the
// backend catalog service's REST API, using a retrying HTTP client.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/openloot/packtrace/internal/mintresolve"
	"github.com/openloot/packtrace/internal/pkg/validator"

	"github.com/hashicorp/go-retryablehttp"
)

// client implements mintresolve.Catalog over HTTP.
type client struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

var _ mintresolve.Catalog = (*client)(nil)

// NewClient creates a catalog client rooted at baseURL. The retryablehttp
// client handles transport-level retries; resolution-level retry budgets
// stay with the resolver.
func NewClient(httpClient *retryablehttp.Client, baseURL string) *client {
	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// statusError carries a non-2xx response code so callers can map specific
// statuses to domain errors.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("catalog returned status %d", e.code)
}

// getJSON performs a GET against the given URL and decodes the JSON body
// into out. Non-2xx responses become a *statusError.
func (c *client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return &statusError{code: res.StatusCode}
	}

	return json.NewDecoder(res.Body).Decode(out)
}

// GetPackByID implements mintresolve.Catalog. A 404 maps to
// mintresolve.ErrPackNotFound so the resolver can keep retrying while the
// indexer catches up.
func (c *client) GetPackByID(ctx context.Context, packID int64) (mintresolve.PackRecord, error) {
	endpoint := fmt.Sprintf("%s/v1/packs/%d", c.baseURL, packID)

	var res packResponse
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		var serr *statusError
		if errors.As(err, &serr) && serr.code == http.StatusNotFound {
			return mintresolve.PackRecord{}, mintresolve.ErrPackNotFound
		}

		return mintresolve.PackRecord{}, err
	}

	if err := validator.Validate(res); err != nil {
		return mintresolve.PackRecord{}, err
	}

	return res.toPackRecord(), nil
}

// GetItemsByIDs implements mintresolve.Catalog. The catalog answers with
// whatever subset of the requested ids it has indexed; a partial result is
// not an error.
func (c *client) GetItemsByIDs(ctx context.Context, ids []int64) ([]mintresolve.CatalogItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idList := make([]string, len(ids))
	for i, id := range ids {
		idList[i] = strconv.FormatInt(id, 10)
	}

	endpoint := fmt.Sprintf("%s/v1/items?ids=%s", c.baseURL, strings.Join(idList, ","))

	var res itemsResponse
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return nil, err
	}

	items := make([]mintresolve.CatalogItem, 0, len(res.Items))
	for _, item := range res.Items {
		if err := validator.Validate(item); err != nil {
			return nil, err
		}

		items = append(items, item.toCatalogItem())
	}

	return items, nil
}

// GetRecentPacksForBuyer implements mintresolve.Catalog. The catalog orders
// packs newest first.
func (c *client) GetRecentPacksForBuyer(ctx context.Context, buyer string) (mintresolve.RecentPacks, error) {
	endpoint := fmt.Sprintf("%s/v1/buyers/%s/packs", c.baseURL, url.PathEscape(buyer))

	var res recentPacksResponse
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return mintresolve.RecentPacks{}, err
	}

	packs := make([]mintresolve.PackRecord, 0, len(res.Packs))
	for _, pack := range res.Packs {
		if err := validator.Validate(pack); err != nil {
			return mintresolve.RecentPacks{}, err
		}

		packs = append(packs, pack.toPackRecord())
	}

	return mintresolve.RecentPacks{
		Total: res.Total,
		Packs: packs,
	}, nil
}
