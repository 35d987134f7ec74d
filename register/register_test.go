package register

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"dondar/apperr"
	"dondar/models"
)

func testSnapshot() []models.Slot {
	return []models.Slot{
		{SlotID: "juanda", LocationName: "Stasiun Juanda", EventDate: "2026-03-10", MaxQuota: 100, CurrentRegistrations: 40},
		{SlotID: "bogor", LocationName: "Stasiun Bogor", EventDate: "2026-03-13", MaxQuota: 120, CurrentRegistrations: 120},
		{SlotID: "manggarai", LocationName: "Stasiun Manggarai", EventDate: "2026-03-11", MaxQuota: 150, CurrentRegistrations: 149},
	}
}

func validInput() FormInput {
	return FormInput{
		FullName:    "Roni Algifari",
		NIK:         "1234567890123456",
		Email:       "roni@contoh.com",
		EventSlotID: "juanda",
	}
}

func TestEvaluateAcceptsValidSubmission(t *testing.T) {
	selected, err := evaluate(validInput(), testSnapshot(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if selected.SlotID != "juanda" {
		t.Fatalf("resolved wrong slot: %s", selected.SlotID)
	}
}

func TestEvaluateRejectsBadNIK(t *testing.T) {
	for _, nik := range []string{"123456789012345", "12345678901234567", "12345678901234ab", ""} {
		in := validInput()
		in.NIK = nik
		_, err := evaluate(in, testSnapshot(), "user-1")
		var verr *apperr.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("nik %q: expected ValidationError, got %v", nik, err)
		}
		if _, ok := verr.Fields["nik"]; !ok {
			t.Fatalf("nik %q: violation not attributed to the nik field: %v", nik, verr.Fields)
		}
	}
}

func TestEvaluateCollectsAllViolations(t *testing.T) {
	in := FormInput{FullName: "ab", NIK: "123", Email: "not-an-email", EventSlotID: ""}
	_, err := evaluate(in, testSnapshot(), "user-1")
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"fullName", "nik", "email", "eventSlotId"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("missing violation for %s: %v", field, verr.Fields)
		}
	}
}

func TestEvaluateRequiresSession(t *testing.T) {
	if _, err := evaluate(validInput(), testSnapshot(), ""); err != apperr.ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestEvaluateRejectsUnknownSlot(t *testing.T) {
	in := validInput()
	in.EventSlotID = "depok"
	if _, err := evaluate(in, testSnapshot(), "user-1"); err != apperr.ErrUnknownSlot {
		t.Fatalf("expected ErrUnknownSlot, got %v", err)
	}
}

func TestEvaluateRejectsFullSlot(t *testing.T) {
	in := validInput()
	in.EventSlotID = "bogor"
	if _, err := evaluate(in, testSnapshot(), "user-1"); err != apperr.ErrQuotaFull {
		t.Fatalf("expected ErrQuotaFull, got %v", err)
	}
}

// The two workflow writes are not a transaction. Two submissions racing for
// the last place both evaluate against the same snapshot and both pass; the
// check does not serialize them. This pins the documented behavior.
func TestEvaluateDoesNotSerializeLastPlace(t *testing.T) {
	snapshot := testSnapshot() // manggarai has exactly one place left

	in := validInput()
	in.EventSlotID = "manggarai"

	if _, err := evaluate(in, snapshot, "user-1"); err != nil {
		t.Fatalf("first submission rejected: %v", err)
	}
	if _, err := evaluate(in, snapshot, "user-2"); err != nil {
		t.Fatalf("second concurrent submission rejected: %v", err)
	}
}

func TestBuildRecordFreezesSlotDisplayValues(t *testing.T) {
	selected := testSnapshot()[0]
	record := buildRecord(validInput(), selected, "user-1")

	if record.LocationName != "Stasiun Juanda" || record.LocationDate != "2026-03-10" {
		t.Fatalf("denormalized fields wrong: %q %q", record.LocationName, record.LocationDate)
	}
	if record.UserID != "user-1" {
		t.Fatalf("owner not set: %q", record.UserID)
	}
	if record.RegistrationID == "" {
		t.Fatal("registration id not generated")
	}
	if record.RegistrationDate.IsZero() {
		t.Fatal("registration date not assigned")
	}
}

// fakeStore stands in for the Mongo-backed store vars for one test.
type fakeStore struct {
	snapshot   []models.Slot
	inserted   []models.Registration
	increments []int
	insertErr  error
	incErr     error
}

func (f *fakeStore) install(t *testing.T) {
	t.Helper()
	origLoad, origInsert, origInc := loadSlots, insertRegistration, incrementCounter
	loadSlots = func(ctx context.Context) ([]models.Slot, error) { return f.snapshot, nil }
	insertRegistration = func(ctx context.Context, rec models.Registration) error {
		if f.insertErr != nil {
			return f.insertErr
		}
		f.inserted = append(f.inserted, rec)
		return nil
	}
	incrementCounter = func(ctx context.Context, slotID string, delta int) error {
		if f.incErr != nil {
			return f.incErr
		}
		for i := range f.snapshot {
			if f.snapshot[i].SlotID == slotID {
				f.snapshot[i].CurrentRegistrations += delta
			}
		}
		f.increments = append(f.increments, delta)
		return nil
	}
	t.Cleanup(func() {
		loadSlots, insertRegistration, incrementCounter = origLoad, origInsert, origInc
	})
}

func TestSubmitIncrementsCounterByExactlyOne(t *testing.T) {
	store := &fakeStore{snapshot: testSnapshot()}
	store.install(t)

	before := store.snapshot[0].CurrentRegistrations

	record, err := Submit(context.Background(), validInput(), "user-1")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if len(store.inserted) != 1 || store.inserted[0].RegistrationID != record.RegistrationID {
		t.Fatalf("record not persisted: %v", store.inserted)
	}
	if len(store.increments) != 1 || store.increments[0] != 1 {
		t.Fatalf("counter moved by %v, want a single +1", store.increments)
	}
	if got := store.snapshot[0].CurrentRegistrations; got != before+1 {
		t.Fatalf("counter went %d -> %d, want %d", before, got, before+1)
	}
}

func TestSubmitSkipsWritesWhenQuotaFull(t *testing.T) {
	store := &fakeStore{snapshot: testSnapshot()}
	store.install(t)

	in := validInput()
	in.EventSlotID = "bogor"
	if _, err := Submit(context.Background(), in, "user-1"); err != apperr.ErrQuotaFull {
		t.Fatalf("expected ErrQuotaFull, got %v", err)
	}
	if len(store.inserted) != 0 || len(store.increments) != 0 {
		t.Fatal("rejected submission must not touch the store")
	}
}

func TestSubmitReportsCounterFailureAfterInsert(t *testing.T) {
	store := &fakeStore{snapshot: testSnapshot(), incErr: errors.New("write timeout")}
	store.install(t)

	_, err := Submit(context.Background(), validInput(), "user-1")
	if !apperr.IsPersistence(err) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	// The record landed before the counter write failed; nothing deletes it.
	if len(store.inserted) != 1 {
		t.Fatalf("expected the orphaned record to remain, got %d", len(store.inserted))
	}
}

func TestWriteWorkflowErrorReturnsFieldMap(t *testing.T) {
	rec := httptest.NewRecorder()
	writeWorkflowError(rec, &apperr.ValidationError{Fields: map[string]string{
		"nik":   "NIK harus 16 digit",
		"email": "Email tidak valid",
	}})

	if rec.Code != 400 {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Errors["nik"] == "" || body.Errors["email"] == "" {
		t.Fatalf("violations not attributed per field: %v", body.Errors)
	}
}

func TestWriteWorkflowErrorMapsPersistenceTo500(t *testing.T) {
	rec := httptest.NewRecorder()
	writeWorkflowError(rec, &apperr.PersistenceError{Op: "insert registration", Err: errors.New("down")})
	if rec.Code != 500 {
		t.Fatalf("status %d, want 500", rec.Code)
	}
}

func TestValidateInputPhoneOptional(t *testing.T) {
	in := validInput()
	if verr := validateInput(in); verr != nil {
		t.Fatalf("empty phone rejected: %v", verr)
	}

	in.Phone = "081234567890"
	if verr := validateInput(in); verr != nil {
		t.Fatalf("digit phone rejected: %v", verr)
	}

	in.Phone = "08-1234"
	if verr := validateInput(in); verr == nil {
		t.Fatal("malformed phone accepted")
	}
}
