package models

import "time"

// Slot is one location+date pairing with a capacity and a live registrant
// counter. The counter is maintained server-side via $inc and is not derived
// by counting registrations.
type Slot struct {
	SlotID               string    `json:"slotId" bson:"slotId"`
	LocationName         string    `json:"locationName" bson:"locationName"`
	EventDate            string    `json:"eventDate" bson:"eventDate"` // YYYY-MM-DD
	MaxQuota             int       `json:"maxQuota" bson:"maxQuota"`
	CurrentRegistrations int       `json:"currentRegistrations" bson:"currentRegistrations"`
	BannerPath           string    `json:"bannerPath,omitempty" bson:"bannerPath,omitempty"`
	CreatedAt            time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt" bson:"updatedAt"`
}

// SlotView is a Slot plus the remaining quota computed at read time.
type SlotView struct {
	Slot
	Remaining int  `json:"remaining"`
	IsFull    bool `json:"isFull"`
}

// Registration is one participant's persisted sign-up, owned by the session
// identity that submitted it. LocationName and LocationDate freeze the slot's
// display values as of submission; later slot edits do not touch them.
type Registration struct {
	RegistrationID   string    `json:"registrationId" bson:"registrationId"`
	FullName         string    `json:"fullName" bson:"fullName"`
	NIK              string    `json:"nik" bson:"nik"`
	Email            string    `json:"email" bson:"email"`
	Phone            string    `json:"phone,omitempty" bson:"phone,omitempty"`
	EventSlotID      string    `json:"eventSlotId" bson:"eventSlotId"`
	LocationName     string    `json:"locationName" bson:"locationName"`
	LocationDate     string    `json:"locationDate" bson:"locationDate"`
	RegistrationDate time.Time `json:"registrationDate" bson:"registrationDate"`
	UserID           string    `json:"userId" bson:"userId"`
}

// User holds admin accounts. Public registrants never get a User document,
// only an anonymous session token.
type User struct {
	UserID    string    `json:"userid" bson:"userid"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	Role      []string  `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	LastLogin time.Time `json:"last_login" bson:"last_login"`
}

// QuotaUpdate is the frame pushed to live quota subscribers and carried on
// the registration-events channel.
type QuotaUpdate struct {
	Type      string `json:"type"`
	SlotID    string `json:"slotId"`
	Remaining int    `json:"remaining"`
}

// RegistrationEvent is published to Redis after both workflow writes have
// been issued. The notify worker and the quota hub consume it; neither can
// affect the registration outcome.
type RegistrationEvent struct {
	RegistrationID string `json:"registrationId"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	SlotID         string `json:"slotId"`
	LocationName   string `json:"locationName"`
	LocationDate   string `json:"locationDate"`
	Remaining      int    `json:"remaining"`
}
