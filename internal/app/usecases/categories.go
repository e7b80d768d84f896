package usecases

import (
	"context"
	"fmt"
	"strings"

	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/logging"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// CategoryResolver maps a category path onto storefront category ids,
// creating missing nodes. It always searches before creating and keeps no
// state between calls, so repeated runs reuse the nodes created earlier.
// Concurrent lookups of the same (name, parent) share one search-then-create.
type CategoryResolver struct {
	store  CategoryStore
	logger logging.LoggerService
	group  singleflight.Group
}

func NewCategoryResolver(store CategoryStore, logger logging.LoggerService) *CategoryResolver {
	return &CategoryResolver{store: store, logger: logger}
}

// Resolve returns the ids from root to leaf.
func (r *CategoryResolver) Resolve(ctx context.Context, path []string) ([]int64, error) {
	ids := make([]int64, 0, len(path))
	var parent int64
	for _, name := range path {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		id, err := r.resolveNode(ctx, name, parent)
		if err != nil {
			return nil, err
		}
		parent = id
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *CategoryResolver) resolveNode(ctx context.Context, name string, parent int64) (int64, error) {
	key := fmt.Sprintf("%d/%s", parent, foldName(name))
	v, err, _ := r.group.Do(key, func() (any, error) {
		found, err := r.store.SearchCategories(ctx, name)
		if err != nil {
			return int64(0), fmt.Errorf("search category %q: %w", name, err)
		}
		if match, ok := pickCategory(found, name, parent); ok {
			return match.ID, nil
		}

		id, err := r.store.CreateCategory(ctx, name, parent)
		if err != nil {
			return int64(0), fmt.Errorf("create category %q parent=%d: %w", name, parent, err)
		}
		if r.logger != nil {
			r.logger.Log("category created", "category", name, "id", id, "parent", parent)
		}
		return id, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// pickCategory prefers an exact (case-folded) name under the expected parent,
// then an exact name anywhere, then the first search hit.
func pickCategory(found []model.RemoteCategory, name string, parent int64) (model.RemoteCategory, bool) {
	if len(found) == 0 {
		return model.RemoteCategory{}, false
	}
	want := foldName(name)
	var sameName *model.RemoteCategory
	for i := range found {
		if foldName(found[i].Name) != want {
			continue
		}
		if found[i].ParentID == parent {
			return found[i], true
		}
		if sameName == nil {
			sameName = &found[i]
		}
	}
	if sameName != nil {
		return *sameName, true
	}
	return found[0], true
}

func foldName(name string) string {
	// Storefronts return names HTML-escaped.
	name = strings.ReplaceAll(strings.TrimSpace(name), "&amp;", "&")
	return cases.Fold().String(norm.NFC.String(name))
}
