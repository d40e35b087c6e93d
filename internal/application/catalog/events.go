package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ChangeKind names a committed catalog edit that can alter report output
type ChangeKind string

const (
	ChangeBrandUpdated   ChangeKind = "brand_updated"
	ChangeBrandDeleted   ChangeKind = "brand_deleted"
	ChangeProductUpdated ChangeKind = "product_updated"
	ChangeProductDeleted ChangeKind = "product_deleted"
)

// Change identifies the edited brand or product
type Change struct {
	Kind ChangeKind
	ID   uuid.UUID
}

// ChangeListener is told about renames, re-categorisations and deletions.
// It runs synchronously after the write and cannot fail it.
type ChangeListener interface {
	OnCatalogChange(ctx context.Context, change Change)
}

type changeFeed struct {
	listeners []ChangeListener
}

// AddListener registers l for every later change
func (f *changeFeed) AddListener(l ChangeListener) {
	f.listeners = append(f.listeners, l)
}

func (f *changeFeed) publish(ctx context.Context, kind ChangeKind, id uuid.UUID) {
	for _, l := range f.listeners {
		l.OnCatalogChange(ctx, Change{Kind: kind, ID: id})
	}
}
