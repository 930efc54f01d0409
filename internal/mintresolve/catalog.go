package mintresolve

import (
	"context"
	"errors"
	"time"
)

// ErrPackNotFound is returned by Catalog.GetPackByID when the requested pack
// has not been indexed yet. The resolver treats it as a transient condition
// and retries within the tier's budget.
var ErrPackNotFound = errors.New("pack not found in catalog")

// BaseStats holds the descriptive stat block of a collectible item. Speed is
// derived server-side from the other four stats.
type BaseStats struct {
	Health  int `json:"health"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Special int `json:"special"`
	Speed   int `json:"speed"`
}

// CatalogItem is the immutable, fully descriptive record of a collectible
// item. Records are sourced only from the catalog service; the resolver never
// fabricates stat values.
type CatalogItem struct {
	ID             int64     `json:"id"`
	DisplayName    string    `json:"display_name"`
	Category       string    `json:"category"`
	RarityTier     string    `json:"rarity_tier"`
	BaseStats      BaseStats `json:"base_stats"`
	ImageRef       string    `json:"image_ref"`
	FusionLevel    int       `json:"fusion_level"`
	EvolutionStage int       `json:"evolution_stage"`
}

// PackRecord describes a purchased pack and the items it minted.
type PackRecord struct {
	PackID      int64         `json:"pack_id"`
	Buyer       string        `json:"buyer"`
	PaymentType string        `json:"payment_type"`
	PurchasedAt time.Time     `json:"purchased_at"`
	ItemIDs     []int64       `json:"item_ids"`
	Items       []CatalogItem `json:"items"`
}

// RecentPacks is the catalog's answer for a buyer's pack history: the total
// number of packs the buyer owns and the most recent records, newest first.
type RecentPacks struct {
	Total int          `json:"total"`
	Packs []PackRecord `json:"packs"`
}

// Catalog defines the read-only contract with the backend catalog service.
type Catalog interface {
	// GetPackByID returns the pack record for the given id, including its
	// hydrated items. It returns ErrPackNotFound when the pack is not yet
	// indexed.
	GetPackByID(ctx context.Context, packID int64) (PackRecord, error)

	// GetItemsByIDs returns whatever subset of the requested items is
	// currently indexed. A partial result is not an error.
	GetItemsByIDs(ctx context.Context, ids []int64) ([]CatalogItem, error)

	// GetRecentPacksForBuyer returns the buyer's pack history, newest first.
	GetRecentPacksForBuyer(ctx context.Context, buyer string) (RecentPacks, error)
}
