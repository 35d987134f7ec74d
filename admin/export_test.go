package admin

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dondar/models"
)

func TestBuildCSVStartsWithBOMAndHeader(t *testing.T) {
	out := BuildCSV(nil)
	if !strings.HasPrefix(out, "\uFEFF") {
		t.Fatal("export must start with a UTF-8 BOM")
	}
	rest := strings.TrimPrefix(out, "\uFEFF")
	if !strings.HasPrefix(rest, "Nama Lengkap,NIK,Email,Lokasi,Tanggal,Waktu Daftar\n") {
		t.Fatalf("unexpected header: %q", rest)
	}
}

func TestBuildCSVQuotesNIKAsText(t *testing.T) {
	regs := []models.Registration{{
		FullName:     "A B",
		NIK:          "1234567890123456",
		Email:        "a@b.com",
		LocationName: "X",
		LocationDate: "2026-01-01",
	}}

	out := BuildCSV(regs)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], ",'1234567890123456,") {
		t.Errorf("NIK must carry a leading quote to stay text: %q", lines[1])
	}
}

func TestBuildCSVOneRowPerRegistrant(t *testing.T) {
	regs := []models.Registration{
		{FullName: "Siti", NIK: "1111222233334444", Email: "siti@example.com", LocationName: "Stasiun Juanda", LocationDate: "2026-03-10"},
		{FullName: "Budi", NIK: "5555666677778888", Email: "budi@example.com", LocationName: "Stasiun Bogor", LocationDate: "2026-03-13"},
	}

	out := BuildCSV(regs)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "Siti") || !strings.Contains(lines[2], "Budi") {
		t.Errorf("rows out of order or missing: %q", lines[1:])
	}
}

func TestBuildCSVEscapesCommasInFields(t *testing.T) {
	regs := []models.Registration{{
		FullName:     "Doe, John",
		NIK:          "1234567890123456",
		LocationName: "Stasiun \"Utama\"",
		LocationDate: "2026-03-10",
	}}

	out := BuildCSV(regs)
	if !strings.Contains(out, "\"Doe, John\"") {
		t.Errorf("comma field must be quoted: %q", out)
	}
	if !strings.Contains(out, "\"Stasiun \"\"Utama\"\"\"") {
		t.Errorf("embedded quotes must be doubled: %q", out)
	}
}

func TestFormatWaktuDaftar(t *testing.T) {
	ts := time.Date(2026, 3, 10, 14, 5, 9, 0, time.UTC)
	if got := formatWaktuDaftar(ts); got != "10/03/2026 14.05.09" {
		t.Errorf("got %q", got)
	}
	if got := formatWaktuDaftar(time.Time{}); got != "" {
		t.Errorf("zero time must render empty, got %q", got)
	}
}

func TestFilterRegistrations(t *testing.T) {
	regs := []models.Registration{
		{FullName: "Siti Rahma", NIK: "1111222233334444", Email: "siti@example.com"},
		{FullName: "Budi Santoso", NIK: "5555666677778888", Email: "budi@example.com"},
	}

	cases := []struct {
		q    string
		want int
	}{
		{"siti", 1},
		{"SANTOSO", 1},
		{"5555", 1},
		{"example.com", 2},
		{"nobody", 0},
	}
	for _, tc := range cases {
		if got := filterRegistrations(regs, tc.q); len(got) != tc.want {
			t.Errorf("q=%q: got %d matches, want %d", tc.q, len(got), tc.want)
		}
	}
}

func TestCardQRPayloadIsDeterministicAndTamperEvident(t *testing.T) {
	a := cardQRPayload("reg-1", "juanda")
	b := cardQRPayload("reg-1", "juanda")
	if a != b {
		t.Fatal("payload must be deterministic for the same inputs")
	}
	c := cardQRPayload("reg-2", "juanda")
	if a == c {
		t.Fatal("different registrations must sign differently")
	}
	if !strings.HasPrefix(a, "reg-1|juanda|") {
		t.Errorf("payload must carry the plain ids up front: %q", a)
	}
}

func TestResetAllClearsStores(t *testing.T) {
	regs := []models.Registration{
		{RegistrationID: "r1", EventSlotID: "juanda"},
		{RegistrationID: "r2", EventSlotID: "bogor"},
	}
	counters := map[string]int{"juanda": 40, "bogor": 120}

	origPurge, origZero, origReload := purgeRegistrations, zeroSlotCounters, reloadSlots
	purgeRegistrations = func(ctx context.Context) error {
		regs = nil
		return nil
	}
	zeroSlotCounters = func(ctx context.Context) error {
		for id := range counters {
			counters[id] = 0
		}
		return nil
	}
	reloadSlots = func(ctx context.Context) ([]models.Slot, error) {
		return []models.Slot{
			{SlotID: "juanda", MaxQuota: 100, CurrentRegistrations: counters["juanda"]},
			{SlotID: "bogor", MaxQuota: 120, CurrentRegistrations: counters["bogor"]},
		}, nil
	}
	t.Cleanup(func() {
		purgeRegistrations, zeroSlotCounters, reloadSlots = origPurge, origZero, origReload
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/admin/reset", nil)
	ResetAll(rec, req, nil)

	if rec.Code != 200 {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if len(regs) != 0 {
		t.Fatalf("registrations survived the reset: %v", regs)
	}
	for id, n := range counters {
		if n != 0 {
			t.Fatalf("counter %s left at %d, want 0", id, n)
		}
	}
}

func TestResetAllFailsClosedOnPurgeError(t *testing.T) {
	zeroed := false
	origPurge, origZero := purgeRegistrations, zeroSlotCounters
	purgeRegistrations = func(ctx context.Context) error { return errors.New("down") }
	zeroSlotCounters = func(ctx context.Context) error {
		zeroed = true
		return nil
	}
	t.Cleanup(func() {
		purgeRegistrations, zeroSlotCounters = origPurge, origZero
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/admin/reset", nil)
	ResetAll(rec, req, nil)

	if rec.Code != 500 {
		t.Fatalf("status %d, want 500", rec.Code)
	}
	if zeroed {
		t.Fatal("counters must not be zeroed when the purge fails")
	}
}
