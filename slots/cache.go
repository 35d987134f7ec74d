package slots

import (
	"encoding/json"
	"log"
	"time"

	"dondar/models"
	"dondar/rdx"
)

const slotCacheKey = "slots:snapshot"
const slotCacheTTL = 10 * time.Second

// cachedSlotViews returns the cached public listing if it is still fresh.
// Any Redis trouble falls back to a Mongo read.
func cachedSlotViews() ([]models.SlotView, bool) {
	raw, err := rdx.RdxGet(slotCacheKey)
	if err != nil {
		return nil, false
	}
	var views []models.SlotView
	if err := json.Unmarshal([]byte(raw), &views); err != nil {
		log.Printf("slot cache unmarshal failed, dropping: %v", err)
		rdx.RdxDel(slotCacheKey)
		return nil, false
	}
	return views, true
}

func cacheSlotViews(views []models.SlotView) {
	data, err := json.Marshal(views)
	if err != nil {
		return
	}
	if err := rdx.RdxSet(slotCacheKey, string(data), slotCacheTTL); err != nil {
		log.Printf("slot cache write failed: %v", err)
	}
}

// InvalidateSlotCache drops the snapshot so the next listing reads through.
// Called after any write that moves a counter or edits a slot.
func InvalidateSlotCache() {
	if err := rdx.RdxDel(slotCacheKey); err != nil {
		log.Printf("slot cache invalidate failed: %v", err)
	}
}
