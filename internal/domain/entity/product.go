// Package entity contains the core business objects of the project.
package entity

import "time"

// Product is a catalog item.
type Product struct {
	ID          string     `json:"id"`          // Immutable identifier assigned at creation (p-...).
	Name        string     `json:"name"`        // Display name, 1..200 characters.
	Price       float64    `json:"price"`       // Unit price, never negative.
	Description *string    `json:"description"` // Optional free text.
	UpdatedAt   *time.Time `json:"updated_at"`  // Last modification in UTC; null when served from cache.
}

// ProductPatch carries a partial update. Nil fields keep their current value.
type ProductPatch struct {
	Name        *string
	Price       *float64
	Description *string
}

// Apply overwrites the provided fields and refreshes UpdatedAt, even when the
// patch is empty.
func (p *Product) Apply(patch ProductPatch, now time.Time) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	ts := now.UTC()
	p.UpdatedAt = &ts
}

// CacheSnapshot returns the copy stored in the cache. The timestamp is
// dropped: cached entries are values, not a time source.
func (p Product) CacheSnapshot() Product {
	p.UpdatedAt = nil

	return p
}
