// Package register implements the registration workflow: validate the
// submission, check the quota against the latest slot snapshot, persist the
// record under the submitting identity, bump the slot counter, and hand the
// side effects to the event bus.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"dondar/apperr"
	"dondar/db"
	"dondar/globals"
	"dondar/models"
	"dondar/mq"
	"dondar/quota"
	"dondar/slots"
	"dondar/utils"

	"github.com/julienschmidt/httprouter"
)

// Store access, swappable in tests.
var (
	loadSlots          = slots.FetchSlots
	insertRegistration = func(ctx context.Context, rec models.Registration) error {
		_, err := db.RegistrationsCollection.InsertOne(ctx, rec)
		return err
	}
	incrementCounter = slots.IncrementRegistrations
)

// evaluate runs the pre-write steps of the workflow against an in-memory
// slot snapshot: full validation, slot resolution, quota check. No writes
// happen until it returns nil error.
func evaluate(in FormInput, snapshot []models.Slot, userID string) (models.Slot, error) {
	if verr := validateInput(in); verr != nil {
		return models.Slot{}, verr
	}

	if userID == "" {
		return models.Slot{}, apperr.ErrNoSession
	}

	var selected models.Slot
	found := false
	for _, s := range snapshot {
		if s.SlotID == in.EventSlotID {
			selected = s
			found = true
			break
		}
	}
	if !found {
		return models.Slot{}, apperr.ErrUnknownSlot
	}

	if quota.IsFull(selected.MaxQuota, selected.CurrentRegistrations) {
		return models.Slot{}, apperr.ErrQuotaFull
	}

	return selected, nil
}

// buildRecord freezes the slot's display values into the new registration.
func buildRecord(in FormInput, selected models.Slot, userID string) models.Registration {
	return models.Registration{
		RegistrationID:   utils.GetUUID(),
		FullName:         strings.TrimSpace(in.FullName),
		NIK:              in.NIK,
		Email:            in.Email,
		Phone:            in.Phone,
		EventSlotID:      selected.SlotID,
		LocationName:     selected.LocationName,
		LocationDate:     selected.EventDate,
		RegistrationDate: time.Now().UTC(),
		UserID:           userID,
	}
}

// Submit is the full workflow. The record insert and the counter increment
// are two independent writes, not a transaction; two concurrent submissions
// racing for the last place can both pass the quota check. Correctness of
// the counter itself rests on Mongo's per-document atomicity of $inc.
func Submit(ctx context.Context, in FormInput, userID string) (models.Registration, error) {
	snapshot, err := loadSlots(ctx)
	if err != nil {
		return models.Registration{}, &apperr.PersistenceError{Op: "load slots", Err: err}
	}

	selected, err := evaluate(in, snapshot, userID)
	if err != nil {
		return models.Registration{}, err
	}

	record := buildRecord(in, selected, userID)

	if err := insertRegistration(ctx, record); err != nil {
		return models.Registration{}, &apperr.PersistenceError{Op: "insert registration", Err: err}
	}

	if err := incrementCounter(ctx, selected.SlotID, 1); err != nil {
		// The record is already in; there is no compensating delete. The
		// stores drift until an admin reset reconciles them.
		return models.Registration{}, &apperr.PersistenceError{Op: "increment slot counter", Err: err}
	}

	slots.InvalidateSlotCache()

	remaining := quota.Remaining(selected.MaxQuota, selected.CurrentRegistrations+1)
	go mq.Emit(globals.Ctx, models.RegistrationEvent{
		RegistrationID: record.RegistrationID,
		FullName:       record.FullName,
		Email:          record.Email,
		Phone:          record.Phone,
		SlotID:         record.EventSlotID,
		LocationName:   record.LocationName,
		LocationDate:   record.LocationDate,
		Remaining:      remaining,
	})

	return record, nil
}

// SubmitRegistration handles POST /api/register.
func SubmitRegistration(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in FormInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	userID, _ := r.Context().Value(globals.UserIDKey).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	record, err := Submit(ctx, in, userID)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	utils.SendResponse(w, http.StatusCreated, record, "Pendaftaran berhasil", nil)
}

func writeWorkflowError(w http.ResponseWriter, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		// The form shows violations next to their fields; hand back the map.
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"errors": verr.Fields})
	case err == apperr.ErrNoSession:
		utils.RespondWithError(w, http.StatusUnauthorized, "Sesi tidak valid")
	case err == apperr.ErrUnknownSlot:
		utils.RespondWithError(w, http.StatusBadRequest, "Lokasi tidak valid")
	case err == apperr.ErrQuotaFull:
		utils.RespondWithError(w, http.StatusConflict, "Kuota penuh")
	case apperr.IsPersistence(err):
		log.Printf("registration persistence failure: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Pendaftaran gagal, silakan coba lagi")
	default:
		log.Printf("registration failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Pendaftaran gagal, silakan coba lagi")
	}
}
