package usecases

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"inventory-sync/internal/domain/model"
)

// WriteSummary renders a sync summary as plain text.
func WriteSummary(w io.Writer, s model.SyncSummary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "client: %s\n", s.Client)
	fmt.Fprintf(&b, "run: %s\n", s.RunID)
	fmt.Fprintf(&b, "created: %d\nupdated: %d\nskipped: %d\nerrors: %d\n",
		s.CreatedCount, s.UpdatedCount, s.SkippedCount, len(s.Errors))
	for _, e := range s.ChangeLog {
		fmt.Fprintf(&b, "  %-8s %s %s\n", e.Kind, e.Sku, formatFields(e.Fields))
	}
	for _, e := range s.Errors {
		fmt.Fprintf(&b, "  error    %s %s\n", e.Sku, e.Error)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func WritePriceResults(w io.Writer, results []model.PriceListResult) error {
	var b strings.Builder
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(&b, "%s: failed: %s\n", r.PriceList, r.Error)
			continue
		}
		fmt.Fprintf(&b, "%s (list %d): inserted=%d updated=%d unchanged=%d\n",
			r.PriceList, r.ListID, r.Inserted, r.Updated, r.Unchanged)
		for _, m := range r.Messages {
			fmt.Fprintf(&b, "  %s\n", m)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}
