package usecases

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"inventory-sync/internal/adapters/woo"
	"inventory-sync/internal/domain/model"
	"inventory-sync/internal/logging"
)

type upsertResult int

const (
	resultUnchanged upsertResult = iota
	resultCreated
	resultUpdated
	resultSkipped
)

type upsertOutcome struct {
	result upsertResult
	entry  model.ChangeLogEntry
}

// Upserter applies one product to the storefront. It is shared by the
// change-record and remote-diff flows.
type Upserter struct {
	store      Storefront
	categories *CategoryResolver
	logger     logging.LoggerService
}

func NewUpserter(store Storefront, logger logging.LoggerService) *Upserter {
	return &Upserter{
		store:      store,
		categories: NewCategoryResolver(store, logger),
		logger:     logger,
	}
}

// Create runs the New path. Products failing the creation guard are skipped
// without any remote call.
func (u *Upserter) Create(ctx context.Context, p model.CanonicalProduct) (upsertOutcome, error) {
	if !p.CanBeCreated() {
		if u.logger != nil {
			u.logger.LogWarning("product not created: price and stock must be positive",
				"sku", p.Sku, "price", p.Price.String(), "stock", p.Stock)
		}
		return upsertOutcome{result: resultSkipped}, nil
	}

	ids, err := u.categoryIDs(ctx, p)
	if err != nil {
		return upsertOutcome{}, fmt.Errorf("resolve categories sku=%s: %w", p.Sku, err)
	}

	payload := newProductPayload(p, ids)
	id, err := u.store.CreateProduct(ctx, payload)
	if err != nil {
		return upsertOutcome{}, fmt.Errorf("create product sku=%s: %w", p.Sku, err)
	}

	fields := payload.Changes()
	fields["id"] = id
	if u.logger != nil {
		u.logger.Log("product created", "sku", p.Sku, "id", id)
	}
	return upsertOutcome{
		result: resultCreated,
		entry:  model.ChangeLogEntry{Sku: p.Sku, Kind: model.ChangeNew, Fields: fields},
	}, nil
}

// Update runs the Updated path. A product missing on the storefront is
// demoted to New and goes through the creation guard.
func (u *Upserter) Update(ctx context.Context, p model.CanonicalProduct) (upsertOutcome, error) {
	remote, err := u.store.FindProductBySKU(ctx, p.Sku)
	if errors.Is(err, model.ErrNotFound) {
		if u.logger != nil {
			u.logger.Log("updated product missing remotely, creating", "sku", p.Sku)
		}
		return u.Create(ctx, p)
	}
	if err != nil {
		return upsertOutcome{}, fmt.Errorf("lookup product sku=%s: %w", p.Sku, err)
	}

	payload := u.updatePayload(ctx, p, remote)
	if payload.IsEmpty() {
		return upsertOutcome{result: resultUnchanged}, nil
	}
	if err := u.store.UpdateProduct(ctx, remote.RemoteID, payload); err != nil {
		return upsertOutcome{}, fmt.Errorf("update product sku=%s id=%d: %w", p.Sku, remote.RemoteID, err)
	}
	return upsertOutcome{
		result: resultUpdated,
		entry:  model.ChangeLogEntry{Sku: p.Sku, Kind: model.ChangeUpdated, Fields: payload.Changes()},
	}, nil
}

// ApplyDiff pushes the fields named by a reconciliation diff.
func (u *Upserter) ApplyDiff(ctx context.Context, local model.CanonicalProduct, diff model.DiffEntry) (upsertOutcome, error) {
	var payload woo.ProductPayload
	if diff.Has(model.FieldStock) {
		payload.ManageStock = woo.BoolPtr(true)
		payload.StockQuantity = woo.IntPtr(local.Stock)
	}
	if diff.Has(model.FieldImage) {
		payload.Images = woo.ImageRefs(local)
	}
	if diff.Has(model.FieldPrice) {
		payload.RegularPrice = local.Price.String()
	}
	if payload.IsEmpty() {
		return upsertOutcome{result: resultUnchanged}, nil
	}
	if err := u.store.UpdateProduct(ctx, diff.RemoteID, payload); err != nil {
		return upsertOutcome{}, fmt.Errorf("update product sku=%s id=%d: %w", diff.Sku, diff.RemoteID, err)
	}
	return upsertOutcome{
		result: resultUpdated,
		entry:  model.ChangeLogEntry{Sku: diff.Sku, Kind: model.ChangeUpdated, Fields: payload.Changes()},
	}, nil
}

func (u *Upserter) categoryIDs(ctx context.Context, p model.CanonicalProduct) ([]int64, error) {
	if len(p.CategoryPath) > 0 {
		return u.categories.Resolve(ctx, p.CategoryPath)
	}
	if p.RemoteCategoryID > 0 {
		return []int64{p.RemoteCategoryID}, nil
	}
	return nil, nil
}

func newProductPayload(p model.CanonicalProduct, categoryIDs []int64) woo.ProductPayload {
	payload := woo.ProductPayload{
		Sku:           p.Sku,
		Type:          woo.ProductTypeSimple,
		Status:        woo.StatusFor(p.Status),
		RegularPrice:  p.Price.String(),
		ManageStock:   woo.BoolPtr(true),
		StockQuantity: woo.IntPtr(p.Stock),
		Images:        woo.ImageRefs(p),
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		payload.Name = woo.StringPtr(name)
	}
	if len(categoryIDs) > 0 {
		payload.Categories = woo.CategoryRefs(categoryIDs)
	}
	return payload
}

func (u *Upserter) updatePayload(ctx context.Context, local, remote model.CanonicalProduct) woo.ProductPayload {
	var payload woo.ProductPayload
	if local.Stock != remote.Stock {
		payload.ManageStock = woo.BoolPtr(true)
		payload.StockQuantity = woo.IntPtr(local.Stock)
	}
	if name := strings.TrimSpace(local.Name); name != "" && name != html.UnescapeString(remote.Name) {
		payload.Name = woo.StringPtr(name)
	}
	if local.HasImage() && local.ImageName != remote.ImageName {
		payload.Images = woo.ImageRefs(local)
	}
	if local.Hidden() && !remote.Hidden() {
		payload.Status = woo.StatusFor(model.StatusHidden)
	}

	// A failed category lookup must not block stock and name updates.
	ids, err := u.categoryIDs(ctx, local)
	if err != nil {
		if u.logger != nil {
			u.logger.LogWarning("categories left unchanged", "sku", local.Sku, "error", err.Error())
		}
	} else if len(ids) > 0 && !containsID(ids, remote.RemoteCategoryID) {
		payload.Categories = woo.CategoryRefs(ids)
	}
	return payload
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
