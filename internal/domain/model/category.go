package model

import "strings"

type RemoteCategory struct {
	ID       int64
	Name     string
	ParentID int64
}

// SplitCategoryPath tokenizes "Root/Child", "Root > Child" or "Root » Child"
// into ordered names, dropping blank segments.
func SplitCategoryPath(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '/' || r == '>' || r == '»'
	})
	path := make([]string, 0, len(fields))
	for _, f := range fields {
		if name := strings.TrimSpace(f); name != "" {
			path = append(path, name)
		}
	}
	if len(path) == 0 {
		return nil
	}
	return path
}
