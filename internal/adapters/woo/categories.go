package woo

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"inventory-sync/internal/adapters/woo/dto"
	"inventory-sync/internal/domain/model"
)

// SearchCategories uses the storefront's fuzzy name search.
func (c *Client) SearchCategories(ctx context.Context, name string) ([]model.RemoteCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("woocommerce category name is required")
	}
	query := url.Values{}
	query.Set("search", name)
	query.Set("per_page", "100")

	var raw []dto.Category
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		_, err := c.getJSON(ctx, "/products/categories", query, &raw)
		return err
	})
	if err != nil {
		c.logError("woocommerce category lookup failed", err, "category", name)
		return nil, err
	}

	categories := make([]model.RemoteCategory, 0, len(raw))
	for _, cat := range raw {
		categories = append(categories, model.RemoteCategory{ID: cat.ID, Name: cat.Name, ParentID: cat.Parent})
	}
	return categories, nil
}

// CreateCategory creates a node; parentID 0 means root level.
func (c *Client) CreateCategory(ctx context.Context, name string, parentID int64) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("woocommerce category name is required")
	}
	var created dto.Category
	err := c.sendJSON(ctx, http.MethodPost, "/products/categories", dto.CategoryCreate{Name: name, Parent: parentID}, &created)
	if err != nil {
		c.logError("woocommerce category create failed", err, "category", name)
		return 0, err
	}
	if created.ID == 0 {
		return 0, errors.New("woocommerce category create returned empty id")
	}
	return created.ID, nil
}
