package model

type RecordError struct {
	Sku   string `json:"sku"`
	Error string `json:"error"`
}

type ChangeLogEntry struct {
	Sku    string         `json:"sku"`
	Kind   ChangeKind     `json:"kind"`
	Fields map[string]any `json:"fields"`
}

type SyncSummary struct {
	Client       string           `json:"client"`
	RunID        string           `json:"runId"`
	CreatedCount int              `json:"createdCount"`
	UpdatedCount int              `json:"updatedCount"`
	SkippedCount int              `json:"skippedCount"`
	Errors       []RecordError    `json:"errors"`
	ChangeLog    []ChangeLogEntry `json:"changeLog"`
}

const MaxPriceMessages = 10

type PriceListResult struct {
	PriceList string   `json:"priceList"`
	ListID    int64    `json:"listId"`
	Inserted  int      `json:"inserted"`
	Updated   int      `json:"updated"`
	Unchanged int      `json:"unchanged"`
	Messages  []string `json:"messages"`
	Error     string   `json:"error,omitempty"`
}
