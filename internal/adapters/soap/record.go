package soap

import (
	"strconv"
	"strings"

	"inventory-sync/internal/domain/model"

	"github.com/shopspring/decimal"
)

// Record is one warehouse item with lower-cased field names.
type Record map[string]string

func (r Record) Get(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[strings.ToLower(k)]; ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Product maps a warehouse item onto the canonical shape.
func (r Record) Product() model.CanonicalProduct {
	p := model.CanonicalProduct{
		Sku:      r.Get("codigo", "sku"),
		Name:     r.Get("descripcion", "nombre", "name"),
		Price:    parseDecimal(r.Get("precio", "price")),
		Stock:    parseStock(r.Get("stock")),
		ImageURL: r.Get("image_url", "image"),
		Status:   model.StatusPublished,
	}
	p.ImageName = model.ImageNameFromURL(p.ImageURL)
	p.CategoryPath = model.SplitCategoryPath(r.Get("familia", "categoria"))
	if hidden(r.Get("privacidad")) {
		p.Status = model.StatusHidden
	}
	return p
}

func (r Record) TierItem() model.TierItem {
	return model.TierItem{
		Sku:   r.Get("codigo", "sku"),
		Price: r.Get("precio", "price"),
	}
}

func hidden(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "s", "si", "sí", "privado", "private", "hidden":
		return true
	}
	return false
}

func parseDecimal(raw string) decimal.Decimal {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseStock(raw string) int {
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return max(n, 0)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return 0
	}
	return max(int(d.IntPart()), 0)
}
