package model

import (
	"fmt"
	"strings"
)

type ChangeKind string

const (
	ChangeNew     ChangeKind = "New"
	ChangeUpdated ChangeKind = "Updated"
)

type ChangeRecord struct {
	Sku  string
	Kind ChangeKind
}

// ParseChangeKind accepts the spellings found in change-log tables.
func ParseChangeKind(raw string) (ChangeKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "new", "nuevo", "n", "insert", "created":
		return ChangeNew, nil
	case "updated", "update", "actualizado", "u", "modified":
		return ChangeUpdated, nil
	}
	return "", fmt.Errorf("%w: unknown change kind %q", ErrDataInconsistency, raw)
}
