package usecases

import (
	"context"
	"errors"
	"html"
	"sort"
	"strings"
	"sync"
	"time"

	"inventory-sync/internal/adapters/woo"
	"inventory-sync/internal/config"
	"inventory-sync/internal/domain/model"

	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory storefront with fuzzy category search.
type fakeStore struct {
	mu         sync.Mutex
	nextID     int64
	products   map[string]model.CanonicalProduct
	categories []model.RemoteCategory

	created []woo.ProductPayload
	updates []woo.ProductPayload
	lookups int

	fetchErr       error
	createErr      map[string]error
	createCategory error
	// searchDelay widens the window between search and create.
	searchDelay time.Duration
}

func newFakeStore(products ...model.CanonicalProduct) *fakeStore {
	s := &fakeStore{nextID: 100, products: map[string]model.CanonicalProduct{}, createErr: map[string]error{}}
	for _, p := range products {
		s.nextID++
		if p.RemoteID == 0 {
			p.RemoteID = s.nextID
		}
		s.products[p.Sku] = p
	}
	return s
}

func (s *fakeStore) SearchCategories(_ context.Context, name string) ([]model.RemoteCategory, error) {
	if s.searchDelay > 0 {
		time.Sleep(s.searchDelay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.RemoteCategory
	for _, c := range s.categories {
		if strings.Contains(strings.ToLower(html.UnescapeString(c.Name)), strings.ToLower(name)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateCategory(_ context.Context, name string, parentID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createCategory != nil {
		return 0, s.createCategory
	}
	s.nextID++
	s.categories = append(s.categories, model.RemoteCategory{ID: s.nextID, Name: name, ParentID: parentID})
	return s.nextID, nil
}

func (s *fakeStore) FetchAllProducts(context.Context, woo.FetchOptions) ([]model.CanonicalProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	out := make([]model.CanonicalProduct, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sku < out[j].Sku })
	return out, nil
}

func (s *fakeStore) FindProductBySKU(_ context.Context, sku string) (model.CanonicalProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	p, ok := s.products[sku]
	if !ok {
		return model.CanonicalProduct{}, model.ErrNotFound
	}
	return p, nil
}

func (s *fakeStore) CreateProduct(_ context.Context, payload woo.ProductPayload) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.createErr[payload.Sku]; err != nil {
		return 0, err
	}
	s.nextID++
	s.created = append(s.created, payload)
	p := model.CanonicalProduct{Sku: payload.Sku, RemoteID: s.nextID, Status: model.StatusPublished}
	applyPayload(&p, payload)
	s.products[payload.Sku] = p
	return s.nextID, nil
}

func (s *fakeStore) UpdateProduct(_ context.Context, id int64, payload woo.ProductPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sku, p := range s.products {
		if p.RemoteID == id {
			s.updates = append(s.updates, payload)
			applyPayload(&p, payload)
			s.products[sku] = p
			return nil
		}
	}
	return errors.New("product not found")
}

func (s *fakeStore) categoryCount(name string, parent int64) int {
	n := 0
	for _, c := range s.categories {
		if c.Name == name && c.ParentID == parent {
			n++
		}
	}
	return n
}

func applyPayload(p *model.CanonicalProduct, payload woo.ProductPayload) {
	if payload.Name != nil {
		p.Name = *payload.Name
	}
	if payload.StockQuantity != nil {
		p.Stock = *payload.StockQuantity
	}
	if payload.RegularPrice != "" {
		p.Price = decimal.RequireFromString(payload.RegularPrice)
	}
	if len(payload.Images) > 0 {
		p.ImageURL = payload.Images[0].Src
		p.ImageName = model.ImageNameFromURL(p.ImageURL)
	}
	if len(payload.Categories) > 0 {
		p.RemoteCategoryID = payload.Categories[len(payload.Categories)-1].ID
	}
	switch payload.Status {
	case "draft":
		p.Status = model.StatusHidden
	case "publish":
		p.Status = model.StatusPublished
	}
}

type fakeFeed struct {
	products []model.CanonicalProduct
	changes  []model.ChangeRecord
	err      error
}

func (f *fakeFeed) FetchProducts(context.Context, config.StorefrontConfig) ([]model.CanonicalProduct, error) {
	return f.products, f.err
}

func (f *fakeFeed) FetchChangeRecords(context.Context, config.StorefrontConfig) ([]model.ChangeRecord, error) {
	return f.changes, f.err
}

func product(sku string, stock int, price, image string) model.CanonicalProduct {
	p := model.CanonicalProduct{
		Sku:    sku,
		Name:   "Product " + sku,
		Price:  decimal.RequireFromString(price),
		Stock:  stock,
		Status: model.StatusPublished,
	}
	switch {
	case model.IsNoImage(image):
		p.ImageURL, p.ImageName = image, image
	default:
		p.ImageURL = "https://cdn.example/img/" + image
		p.ImageName = model.ImageNameFromURL(p.ImageURL)
	}
	return p
}
