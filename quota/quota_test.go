package quota

import (
	"testing"

	"dondar/models"
)

func TestRemaining(t *testing.T) {
	cases := []struct {
		name     string
		max      int
		current  int
		expected int
	}{
		{"open slot", 100, 40, 60},
		{"exactly full", 50, 50, 0},
		{"overbooked floors at zero", 50, 53, 0},
		{"zero capacity", 0, 0, 0},
		{"negative capacity treated as zero", -10, 0, 0},
		{"negative count treated as zero", 30, -5, 30},
		{"one left", 80, 79, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Remaining(tc.max, tc.current); got != tc.expected {
				t.Fatalf("Remaining(%d, %d) = %d, want %d", tc.max, tc.current, got, tc.expected)
			}
			if got := Remaining(tc.max, tc.current); got < 0 {
				t.Fatalf("Remaining must never be negative, got %d", got)
			}
		})
	}
}

func TestIsFull(t *testing.T) {
	if IsFull(100, 40) {
		t.Fatal("slot with capacity left reported full")
	}
	if !IsFull(50, 50) {
		t.Fatal("exactly full slot not reported full")
	}
	if !IsFull(50, 60) {
		t.Fatal("overbooked slot not reported full")
	}
	if !IsFull(0, 0) {
		t.Fatal("zero-capacity slot not reported full")
	}
}

func TestView(t *testing.T) {
	v := View(models.Slot{SlotID: "juanda", MaxQuota: 100, CurrentRegistrations: 99})
	if v.Remaining != 1 || v.IsFull {
		t.Fatalf("unexpected view: remaining=%d isFull=%v", v.Remaining, v.IsFull)
	}

	v = View(models.Slot{SlotID: "bogor", MaxQuota: 120, CurrentRegistrations: 120})
	if v.Remaining != 0 || !v.IsFull {
		t.Fatalf("unexpected view: remaining=%d isFull=%v", v.Remaining, v.IsFull)
	}
}
