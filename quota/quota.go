// Package quota computes remaining capacity from a slot snapshot. Pure, no
// side effects; missing inputs behave as zero.
package quota

import "dondar/models"

// Remaining returns maxQuota - currentRegistrations, floored at zero.
func Remaining(maxQuota, currentRegistrations int) int {
	if maxQuota < 0 {
		maxQuota = 0
	}
	if currentRegistrations < 0 {
		currentRegistrations = 0
	}
	remaining := maxQuota - currentRegistrations
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFull reports whether a slot has no remaining capacity.
func IsFull(maxQuota, currentRegistrations int) bool {
	return Remaining(maxQuota, currentRegistrations) <= 0
}

// View decorates a slot with its computed remaining quota.
func View(s models.Slot) models.SlotView {
	remaining := Remaining(s.MaxQuota, s.CurrentRegistrations)
	return models.SlotView{
		Slot:      s,
		Remaining: remaining,
		IsFull:    remaining <= 0,
	}
}
