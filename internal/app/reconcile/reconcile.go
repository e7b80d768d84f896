// Package reconcile computes the field-level difference between the local
// inventory and the storefront catalog, keyed by SKU.
package reconcile

import (
	"sort"
	"strings"

	"inventory-sync/internal/domain/model"
)

type Options struct {
	// ComparePrice enables the price comparison, used when a named price tier
	// feeds the local side.
	ComparePrice bool
}

type SkipReason string

const (
	SkipMissingSku    SkipReason = "missing sku"
	SkipDuplicateSku  SkipReason = "duplicate sku"
	SkipCreationGuard SkipReason = "price or stock not positive"
)

type SkippedRecord struct {
	Sku    string     `json:"sku"`
	Side   string     `json:"side"`
	Reason SkipReason `json:"reason"`
}

type Result struct {
	ToCreate  []model.CanonicalProduct `json:"toCreate"`
	ToUpdate  []model.DiffEntry        `json:"toUpdate"`
	Skipped   []SkippedRecord          `json:"skipped,omitempty"`
	Unchanged int                      `json:"unchanged"`
}

// Reconcile never deletes: remote-only SKUs produce no action.
func Reconcile(local, remote []model.CanonicalProduct, opts Options) Result {
	var res Result
	localBySku := index(local, "local", &res.Skipped)
	remoteBySku := index(remote, "remote", &res.Skipped)

	for _, sku := range sortedKeys(localBySku) {
		l := localBySku[sku]
		r, ok := remoteBySku[sku]
		if !ok {
			if !l.CanBeCreated() {
				res.Skipped = append(res.Skipped, SkippedRecord{Sku: sku, Side: "local", Reason: SkipCreationGuard})
				continue
			}
			res.ToCreate = append(res.ToCreate, l)
			continue
		}

		changes := Compare(l, r, opts)
		if len(changes) == 0 {
			res.Unchanged++
			continue
		}
		res.ToUpdate = append(res.ToUpdate, model.DiffEntry{
			Sku:           sku,
			RemoteID:      r.RemoteID,
			ChangedFields: changes,
		})
	}
	return res
}

// Compare returns only the fields whose values differ; nil when nothing does.
func Compare(local, remote model.CanonicalProduct, opts Options) map[string]model.FieldChange {
	var changes map[string]model.FieldChange
	set := func(field string, l, r any) {
		if changes == nil {
			changes = make(map[string]model.FieldChange)
		}
		changes[field] = model.FieldChange{Local: l, Remote: r}
	}

	if local.Stock != remote.Stock {
		set(model.FieldStock, local.Stock, remote.Stock)
	}
	if local.HasImage() && local.ImageName != remote.ImageName {
		set(model.FieldImage, local.ImageName, remote.ImageName)
	}
	if opts.ComparePrice && !local.Price.Equal(remote.Price) {
		set(model.FieldPrice, local.Price.String(), remote.Price.String())
	}
	return changes
}

// MissingRemote lists local SKUs absent from the storefront, without the
// creation guard.
func MissingRemote(local, remote []model.CanonicalProduct) []string {
	var skipped []SkippedRecord
	remoteBySku := index(remote, "remote", &skipped)
	seen := make(map[string]struct{})
	var missing []string
	for _, p := range local {
		sku := strings.TrimSpace(p.Sku)
		if sku == "" {
			continue
		}
		if _, ok := remoteBySku[sku]; ok {
			continue
		}
		if _, ok := seen[sku]; ok {
			continue
		}
		seen[sku] = struct{}{}
		missing = append(missing, sku)
	}
	sort.Strings(missing)
	return missing
}

func index(products []model.CanonicalProduct, side string, skipped *[]SkippedRecord) map[string]model.CanonicalProduct {
	bySku := make(map[string]model.CanonicalProduct, len(products))
	for _, p := range products {
		sku := strings.TrimSpace(p.Sku)
		if sku == "" {
			*skipped = append(*skipped, SkippedRecord{Side: side, Reason: SkipMissingSku})
			continue
		}
		if _, ok := bySku[sku]; ok {
			*skipped = append(*skipped, SkippedRecord{Sku: sku, Side: side, Reason: SkipDuplicateSku})
		}
		p.Sku = sku
		bySku[sku] = p
	}
	return bySku
}

func sortedKeys(m map[string]model.CanonicalProduct) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
