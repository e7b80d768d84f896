package model

import (
	"net/url"
	"path"
	"strings"

	"github.com/shopspring/decimal"
)

// NoImage is the image placeholder used by upstream feeds for products
// without a picture. It never participates in image comparison.
const NoImage = "no image"

type ProductStatus string

const (
	StatusPublished ProductStatus = "published"
	StatusHidden    ProductStatus = "hidden"
)

type CanonicalProduct struct {
	Sku              string
	Name             string
	Price            decimal.Decimal
	Stock            int
	ImageURL         string
	ImageName        string
	CategoryPath     []string
	RemoteCategoryID int64
	Status           ProductStatus
	// RemoteID is zero for products not created on the storefront yet.
	RemoteID int64
}

func (p CanonicalProduct) Exists() bool {
	return p.RemoteID > 0
}

func (p CanonicalProduct) Hidden() bool {
	return p.Status == StatusHidden
}

// HasImage reports whether the product carries a comparable image.
func (p CanonicalProduct) HasImage() bool {
	return !IsNoImage(p.ImageName) && strings.TrimSpace(p.ImageURL) != "" && !IsNoImage(p.ImageURL)
}

// CanBeCreated applies the creation guard: only priced products with stock
// are ever pushed to the storefront.
func (p CanonicalProduct) CanBeCreated() bool {
	return p.Price.IsPositive() && p.Stock > 0
}

func IsNoImage(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, NoImage)
}

// ImageNameFromURL returns the last path segment of an image url, or "" for
// the no-image placeholder and unparsable values.
func ImageNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if IsNoImage(raw) {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
