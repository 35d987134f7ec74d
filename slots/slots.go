package slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"dondar/apperr"
	"dondar/db"
	"dondar/models"
	"dondar/quota"
	"dondar/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ---------- Store access ----------

// FetchSlots reads every slot from the store, oldest first.
func FetchSlots(ctx context.Context) ([]models.Slot, error) {
	cur, err := db.SlotsCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var list []models.Slot
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FetchSlot resolves one slot by id.
func FetchSlot(ctx context.Context, slotID string) (models.Slot, error) {
	var s models.Slot
	err := db.SlotsCollection.FindOne(ctx, bson.M{"slotId": slotID}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return s, apperr.ErrUnknownSlot
	}
	return s, err
}

// IncrementRegistrations bumps a slot's counter by delta via an atomic field
// increment. This is the only mutation registrants perform on shared state.
func IncrementRegistrations(ctx context.Context, slotID string, delta int) error {
	_, err := db.SlotsCollection.UpdateOne(ctx,
		bson.M{"slotId": slotID},
		bson.M{
			"$inc": bson.M{"currentRegistrations": delta},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	return err
}

// UpdateSlotFields rewrites a slot's editable fields. Returns
// apperr.ErrNotFound when no slot matches the id.
func UpdateSlotFields(ctx context.Context, slotID, locationName, eventDate string, maxQuota int) error {
	res, err := db.SlotsCollection.UpdateOne(ctx,
		bson.M{"slotId": slotID},
		bson.M{"$set": bson.M{
			"locationName": locationName,
			"eventDate":    eventDate,
			"maxQuota":     maxQuota,
			"updatedAt":    time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// SetBannerPath records an uploaded banner's location on a slot. Returns
// apperr.ErrNotFound when no slot matches the id.
func SetBannerPath(ctx context.Context, slotID, path string) error {
	res, err := db.SlotsCollection.UpdateOne(ctx,
		bson.M{"slotId": slotID},
		bson.M{"$set": bson.M{"bannerPath": path, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// writeStoreError maps a store failure onto the response: the not-found
// sentinel becomes 404, anything else a generic 500.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		http.Error(w, "slot not found", http.StatusNotFound)
		return
	}
	http.Error(w, "db error", http.StatusInternalServerError)
}

// ---------- Handlers ----------

// GetSlots serves the public slot listing with remaining quota computed per
// slot. A short-TTL Redis snapshot backs the read so the form poll does not
// hit Mongo on every refresh.
func GetSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if cached, ok := cachedSlotViews(); ok {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"slots": cached})
		return
	}

	list, err := FetchSlots(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	views := make([]models.SlotView, 0, len(list))
	for _, s := range list {
		views = append(views, quota.View(s))
	}

	cacheSlotViews(views)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"slots": views})
}

// CreateSlot adds a new location/date slot. Admin only.
func CreateSlot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var s models.Slot
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if s.LocationName == "" || s.EventDate == "" || s.MaxQuota < 0 {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	if s.SlotID == "" {
		s.SlotID = utils.GenerateRandomString(14)
	}
	s.CurrentRegistrations = 0
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if _, err := db.SlotsCollection.InsertOne(ctx, s); err != nil {
		http.Error(w, "db insert failed", http.StatusInternalServerError)
		return
	}

	InvalidateSlotCache()
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"slot": s})
}

// EditSlot updates name, date, and capacity of an existing slot. The live
// counter is left alone; denormalized copies on past registrations keep the
// values they were submitted with.
func EditSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slotID := ps.ByName("slotId")
	if slotID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	var body struct {
		LocationName string `json:"locationName"`
		EventDate    string `json:"eventDate"`
		MaxQuota     int    `json:"maxQuota"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if body.LocationName == "" || body.EventDate == "" || body.MaxQuota < 0 {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := UpdateSlotFields(ctx, slotID, body.LocationName, body.EventDate, body.MaxQuota); err != nil {
		writeStoreError(w, err)
		return
	}

	InvalidateSlotCache()

	// Capacity edits move the remaining quota; let subscribers know.
	if s, err := FetchSlot(ctx, slotID); err == nil {
		BroadcastQuota(s.SlotID, quota.Remaining(s.MaxQuota, s.CurrentRegistrations))
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// SeedSlots inserts the launch stations if they are not present yet.
// Safe to call repeatedly.
func SeedSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	initial := []models.Slot{
		{SlotID: "juanda", LocationName: "Stasiun Juanda", EventDate: "2026-03-10", MaxQuota: 100},
		{SlotID: "manggarai", LocationName: "Stasiun Manggarai", EventDate: "2026-03-11", MaxQuota: 150},
		{SlotID: "tanahabang", LocationName: "Stasiun Tanah Abang", EventDate: "2026-03-12", MaxQuota: 80},
		{SlotID: "bogor", LocationName: "Stasiun Bogor", EventDate: "2026-03-13", MaxQuota: 120},
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	inserted := 0
	for _, s := range initial {
		exists := db.SlotsCollection.FindOne(ctx, bson.M{"slotId": s.SlotID}).Err()
		if exists == nil {
			continue
		}
		if exists != mongo.ErrNoDocuments {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		s.CreatedAt = now
		s.UpdatedAt = now
		if _, err := db.SlotsCollection.InsertOne(ctx, s); err != nil {
			http.Error(w, "db insert failed", http.StatusInternalServerError)
			return
		}
		inserted++
	}

	InvalidateSlotCache()
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "inserted": inserted})
}
