package mq

import (
	"context"
	"encoding/json"
	"log"

	"dondar/models"
	"dondar/notify"
	"dondar/rdx"
	"dondar/slots"
)

const registrationChannel = "registration-events"

// Emit publishes a registration event to Redis after the workflow's writes
// have been issued. Publishing failure is logged and swallowed: the
// registration outcome is already decided by the time this runs.
func Emit(ctx context.Context, event models.RegistrationEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event: %v", err)
		return
	}

	if err := rdx.RdxPublish(registrationChannel, data); err != nil {
		log.Printf("[Emit] Failed to publish registration event: %v", err)
	}
}

// StartNotifyWorker consumes registration events and drives the outbound
// relays plus the live quota broadcast. Runs for the life of the process.
func StartNotifyWorker() {
	sub := rdx.Conn.Subscribe(context.Background(), registrationChannel)
	ch := sub.Channel()

	log.Println("[NotifyWorker] Listening for registration events...")

	for msg := range ch {
		var event models.RegistrationEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[NotifyWorker] Failed to parse event: %v", err)
			continue
		}

		slots.BroadcastQuota(event.SlotID, event.Remaining)

		if err := notify.SendConfirmationEmail(event.Email, event.FullName, event.LocationName, event.LocationDate); err != nil {
			log.Printf("[NotifyWorker] Email send failed for %s: %v", event.RegistrationID, err)
		}

		if event.Phone != "" {
			if err := notify.SendWhatsApp(event.Phone, event.FullName, event.LocationName, event.LocationDate); err != nil {
				log.Printf("[NotifyWorker] WhatsApp send failed for %s: %v", event.RegistrationID, err)
			}
		}
	}
}
