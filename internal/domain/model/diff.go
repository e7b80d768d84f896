package model

import "sort"

const (
	FieldStock      = "stock"
	FieldImage      = "image"
	FieldPrice      = "price"
	FieldName       = "name"
	FieldCategories = "categories"
	FieldStatus     = "status"
)

type FieldChange struct {
	Local  any `json:"local"`
	Remote any `json:"remote"`
}

type DiffEntry struct {
	Sku           string                 `json:"sku"`
	RemoteID      int64                  `json:"remoteId,omitempty"`
	ChangedFields map[string]FieldChange `json:"changedFields"`
}

func (d DiffEntry) Has(field string) bool {
	_, ok := d.ChangedFields[field]
	return ok
}

// Fields returns the changed field names in sorted order.
func (d DiffEntry) Fields() []string {
	fields := make([]string, 0, len(d.ChangedFields))
	for k := range d.ChangedFields {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}
