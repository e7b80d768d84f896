package woo

import (
	"inventory-sync/internal/adapters/woo/dto"
	"inventory-sync/internal/domain/model"
)

const (
	ProductTypeSimple = "simple"
	statusPublish     = "publish"
	statusDraft       = "draft"
)

// ProductPayload is the body of create and partial-update calls. Nil and
// empty fields are left out so updates only touch what changed.
type ProductPayload struct {
	Name          *string               `json:"name,omitempty"`
	Sku           string                `json:"sku,omitempty"`
	Type          string                `json:"type,omitempty"`
	Status        string                `json:"status,omitempty"`
	RegularPrice  string                `json:"regular_price,omitempty"`
	ManageStock   *bool                 `json:"manage_stock,omitempty"`
	StockQuantity *int                  `json:"stock_quantity,omitempty"`
	Categories    []dto.ProductCategory `json:"categories,omitempty"`
	Images        []dto.ProductImage    `json:"images,omitempty"`
}

func (p ProductPayload) IsEmpty() bool {
	return p.Name == nil && p.Sku == "" && p.Type == "" && p.Status == "" &&
		p.RegularPrice == "" && p.ManageStock == nil && p.StockQuantity == nil &&
		len(p.Categories) == 0 && len(p.Images) == 0
}

// Changes flattens the payload for change logs.
func (p ProductPayload) Changes() map[string]any {
	out := make(map[string]any)
	if p.Name != nil {
		out[model.FieldName] = *p.Name
	}
	if p.Status != "" {
		out[model.FieldStatus] = p.Status
	}
	if p.RegularPrice != "" {
		out[model.FieldPrice] = p.RegularPrice
	}
	if p.StockQuantity != nil {
		out[model.FieldStock] = *p.StockQuantity
	}
	if len(p.Categories) > 0 {
		ids := make([]int64, 0, len(p.Categories))
		for _, c := range p.Categories {
			ids = append(ids, c.ID)
		}
		out[model.FieldCategories] = ids
	}
	if len(p.Images) > 0 {
		out[model.FieldImage] = p.Images[0].Src
	}
	return out
}

func StatusFor(status model.ProductStatus) string {
	if status == model.StatusHidden {
		return statusDraft
	}
	return statusPublish
}

func CategoryRefs(ids []int64) []dto.ProductCategory {
	refs := make([]dto.ProductCategory, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, dto.ProductCategory{ID: id})
	}
	return refs
}

func ImageRefs(p model.CanonicalProduct) []dto.ProductImage {
	if !p.HasImage() {
		return nil
	}
	return []dto.ProductImage{{Src: p.ImageURL}}
}

func IntPtr(v int) *int          { return &v }
func BoolPtr(v bool) *bool       { return &v }
func StringPtr(v string) *string { return &v }
