package rest

import (
	"time"

	"github.com/openloot/packtrace/internal/mintresolve"
)

type (
	// baseStatsResponse mirrors the catalog's stat block payload.
	baseStatsResponse struct {
		Health  int `json:"health"`
		Attack  int `json:"attack"`
		Defense int `json:"defense"`
		Special int `json:"special"`
		Speed   int `json:"speed"`
	}

	// itemResponse mirrors the catalog's item payload. The id and display
	// name are the minimum a record must carry to be usable.
	itemResponse struct {
		ID             int64             `json:"id" validate:"required"`
		DisplayName    string            `json:"display_name" validate:"required"`
		Category       string            `json:"category"`
		RarityTier     string            `json:"rarity_tier"`
		BaseStats      baseStatsResponse `json:"base_stats"`
		ImageRef       string            `json:"image_ref"`
		FusionLevel    int               `json:"fusion_level"`
		EvolutionStage int               `json:"evolution_stage"`
	}

	// itemsResponse wraps a batched item lookup.
	itemsResponse struct {
		Items []itemResponse `json:"items"`
	}

	// packResponse mirrors the catalog's pack payload.
	packResponse struct {
		PackID      int64          `json:"pack_id" validate:"required"`
		Buyer       string         `json:"buyer"`
		PaymentType string         `json:"payment_type"`
		PurchasedAt time.Time      `json:"purchased_at"`
		ItemIDs     []int64        `json:"item_ids"`
		Items       []itemResponse `json:"items"`
	}

	// recentPacksResponse mirrors the buyer pack-history payload, ordered
	// newest first.
	recentPacksResponse struct {
		Total int            `json:"total"`
		Packs []packResponse `json:"packs"`
	}
)

// toCatalogItem converts an itemResponse to the resolver's item record.
func (i itemResponse) toCatalogItem() mintresolve.CatalogItem {
	return mintresolve.CatalogItem{
		ID:          i.ID,
		DisplayName: i.DisplayName,
		Category:    i.Category,
		RarityTier:  i.RarityTier,
		BaseStats: mintresolve.BaseStats{
			Health:  i.BaseStats.Health,
			Attack:  i.BaseStats.Attack,
			Defense: i.BaseStats.Defense,
			Special: i.BaseStats.Special,
			Speed:   i.BaseStats.Speed,
		},
		ImageRef:       i.ImageRef,
		FusionLevel:    i.FusionLevel,
		EvolutionStage: i.EvolutionStage,
	}
}

// toPackRecord converts a packResponse to the resolver's pack record.
func (p packResponse) toPackRecord() mintresolve.PackRecord {
	items := make([]mintresolve.CatalogItem, len(p.Items))
	for i, item := range p.Items {
		items[i] = item.toCatalogItem()
	}

	return mintresolve.PackRecord{
		PackID:      p.PackID,
		Buyer:       p.Buyer,
		PaymentType: p.PaymentType,
		PurchasedAt: p.PurchasedAt,
		ItemIDs:     p.ItemIDs,
		Items:       items,
	}
}
