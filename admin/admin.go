// Package admin is the reporting and management surface: it reads across
// every identity's registrations and writes across every slot. All routes
// are gated on the single administrative identity at the router.
package admin

import (
	"context"
	"net/http"
	"time"

	"dondar/db"
	"dondar/models"
	"dondar/quota"
	"dondar/slots"
	"dondar/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fetchAllRegistrations reads every user's registrations, newest first.
// No pagination; the data set is assumed to fit in memory.
func fetchAllRegistrations(ctx context.Context) ([]models.Registration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "registrationDate", Value: -1}})
	cur, err := db.RegistrationsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var regs []models.Registration
	if err := cur.All(ctx, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// ListRegistrations serves GET /api/admin/registrations with an optional
// case-insensitive substring filter over name, NIK, and email.
func ListRegistrations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	regs, err := fetchAllRegistrations(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	if q := r.URL.Query().Get("q"); q != "" {
		regs = filterRegistrations(regs, q)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"registrations": regs,
		"total":         len(regs),
	})
}

// filterRegistrations keeps records whose name, NIK, or email contains the
// query, ignoring case.
func filterRegistrations(regs []models.Registration, q string) []models.Registration {
	filtered := make([]models.Registration, 0, len(regs))
	for _, reg := range regs {
		if utils.ContainsIgnoreCase(reg.FullName, q) ||
			utils.ContainsIgnoreCase(reg.NIK, q) ||
			utils.ContainsIgnoreCase(reg.Email, q) {
			filtered = append(filtered, reg)
		}
	}
	return filtered
}

// Store access, swappable in tests.
var (
	purgeRegistrations = func(ctx context.Context) error {
		_, err := db.RegistrationsCollection.DeleteMany(ctx, bson.M{})
		return err
	}
	zeroSlotCounters = func(ctx context.Context) error {
		_, err := db.SlotsCollection.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{
			"currentRegistrations": 0,
			"updatedAt":            time.Now().UTC(),
		}})
		return err
	}
	reloadSlots = slots.FetchSlots
)

// ResetAll deletes every registration across every identity and zeroes every
// slot counter. Irreversible; the caller's UI owns the confirmation. A
// registration racing this can land after the purge and leave an orphaned
// record against a zeroed counter.
func ResetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := purgeRegistrations(ctx); err != nil {
		http.Error(w, "reset failed", http.StatusInternalServerError)
		return
	}

	if err := zeroSlotCounters(ctx); err != nil {
		http.Error(w, "reset failed", http.StatusInternalServerError)
		return
	}

	slots.InvalidateSlotCache()

	// Every slot is back at full capacity; push that to live subscribers.
	if list, err := reloadSlots(ctx); err == nil {
		for _, s := range list {
			slots.BroadcastQuota(s.SlotID, quota.Remaining(s.MaxQuota, 0))
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
