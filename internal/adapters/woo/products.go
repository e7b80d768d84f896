package woo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"inventory-sync/internal/adapters/woo/dto"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/infra/retry"

	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize  = 50
	DefaultPageDelay = 300 * time.Millisecond

	totalPagesHeader = "X-WP-TotalPages"
)

type FetchOptions struct {
	PageSize  int
	PageDelay time.Duration
	// MaxPages caps the discovered page count when > 0.
	MaxPages int
}

// ListProducts fetches one page of the catalog without retries.
func (c *Client) ListProducts(ctx context.Context, page, pageSize int) ([]model.CanonicalProduct, int, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(pageSize))

	var raw []dto.Product
	header, err := c.getJSON(ctx, "/products", query, &raw)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.CanonicalProduct, 0, len(raw))
	for _, p := range raw {
		products = append(products, mapProduct(p))
	}
	return products, totalPages(header), nil
}

// FetchAllProducts walks every page sequentially. A page is retried only on
// transient network failures; any other failure aborts the whole fetch so
// callers never diff against a partial snapshot.
func (c *Client) FetchAllProducts(ctx context.Context, opts FetchOptions) ([]model.CanonicalProduct, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	var (
		products []model.CanonicalProduct
		pages    = 1
	)
	for page := 1; page <= pages; page++ {
		if page > 1 {
			if err := retry.SleepWithContext(ctx, opts.PageDelay); err != nil {
				return nil, err
			}
		}

		var (
			items []model.CanonicalProduct
			total int
		)
		err := c.retry.Do(ctx, func(ctx context.Context) error {
			var err error
			items, total, err = c.ListProducts(ctx, page, opts.PageSize)
			if err != nil && isTransient(err) {
				c.logDebug("woocommerce page fetch failed, retrying", "page", page, "error", err.Error())
			}
			return err
		})
		if err != nil {
			c.logError("woocommerce catalog fetch aborted", err, "page", page)
			if errors.Is(err, model.ErrRemoteUnavailable) || errors.Is(err, model.ErrTransientNetwork) {
				return nil, fmt.Errorf("fetch page %d: %w", page, err)
			}
			return nil, fmt.Errorf("fetch page %d: %w: %w", page, model.ErrRemoteUnavailable, err)
		}

		if page == 1 {
			pages = total
			if opts.MaxPages > 0 && pages > opts.MaxPages {
				pages = opts.MaxPages
			}
		}
		products = append(products, items...)
	}

	c.logDebug("woocommerce catalog fetched", "pages", pages, "products", len(products))
	return products, nil
}

// FindProductBySKU runs a targeted lookup and reports model.ErrNotFound when
// the storefront has no product with that sku.
func (c *Client) FindProductBySKU(ctx context.Context, sku string) (model.CanonicalProduct, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return model.CanonicalProduct{}, fmt.Errorf("%w: empty sku", model.ErrDataInconsistency)
	}

	query := url.Values{}
	query.Set("sku", sku)

	var raw []dto.Product
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		_, err := c.getJSON(ctx, "/products", query, &raw)
		return err
	})
	if err != nil {
		return model.CanonicalProduct{}, err
	}
	for _, p := range raw {
		if strings.EqualFold(strings.TrimSpace(p.Sku), sku) {
			return mapProduct(p), nil
		}
	}
	return model.CanonicalProduct{}, fmt.Errorf("product sku %s: %w", sku, model.ErrNotFound)
}

func (c *Client) CreateProduct(ctx context.Context, payload ProductPayload) (int64, error) {
	if strings.TrimSpace(payload.Sku) == "" {
		return 0, errors.New("woocommerce product sku is required")
	}
	var created dto.Product
	if err := c.sendJSON(ctx, http.MethodPost, "/products", payload, &created); err != nil {
		return 0, err
	}
	if created.ID == 0 {
		return 0, errors.New("woocommerce product create returned empty id")
	}
	return created.ID, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, payload ProductPayload) error {
	if id <= 0 {
		return errors.New("woocommerce product id is required")
	}
	if payload.IsEmpty() {
		return nil
	}
	return c.sendJSON(ctx, http.MethodPut, "/products/"+strconv.FormatInt(id, 10), payload, nil)
}

// Ping checks that the credentials can read the catalog.
func (c *Client) Ping(ctx context.Context) (int, error) {
	query := url.Values{}
	query.Set("per_page", "1")
	var raw []dto.Product
	if _, err := c.getJSON(ctx, "/products", query, &raw); err != nil {
		return 0, err
	}
	return len(raw), nil
}

func totalPages(header http.Header) int {
	if header == nil {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(header.Get(totalPagesHeader)))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func mapProduct(p dto.Product) model.CanonicalProduct {
	product := model.CanonicalProduct{
		Sku:      strings.TrimSpace(p.Sku),
		Name:     p.Name,
		Price:    parsePrice(p.RegularPrice),
		RemoteID: p.ID,
		Status:   model.StatusHidden,
	}
	if strings.EqualFold(p.Status, statusPublish) {
		product.Status = model.StatusPublished
	}
	// Backordered products report negative stock; keep it so it differs from local 0.
	if p.StockQuantity != nil {
		product.Stock = *p.StockQuantity
	}
	if len(p.Categories) > 0 {
		product.CategoryPath = []string{p.Categories[0].Name}
		product.RemoteCategoryID = p.Categories[0].ID
	}
	if len(p.Images) > 0 {
		product.ImageURL = p.Images[0].Src
		product.ImageName = model.ImageNameFromURL(p.Images[0].Src)
		if product.ImageName == "" {
			product.ImageName = p.Images[0].Name
		}
	}
	return product
}

func parsePrice(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
