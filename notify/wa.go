package notify

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const fonnteEndpoint = "https://api.fonnte.com/send"

var waClient = &http.Client{Timeout: 10 * time.Second}

// SendWhatsApp pushes a registration confirmation through the Fonnte gateway.
// Same contract as the email relay: called after persistence, failure is the
// caller's to log and swallow.
func SendWhatsApp(phone, name, locationName, eventDate string) error {
	token := os.Getenv("FONNTE_TOKEN")
	if token == "" {
		return fmt.Errorf("FONNTE_TOKEN is not set")
	}

	message := fmt.Sprintf(
		"Halo %s, pendaftaran donor darah Anda di %s pada tanggal %s berhasil. Satu tetes darah Anda sangat berarti bagi sesama. Terima kasih!",
		name, locationName, eventDate,
	)

	form := url.Values{}
	form.Set("target", phone)
	form.Set("message", message)
	form.Set("countryCode", "62")

	req, err := http.NewRequest(http.MethodPost, fonnteEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := waClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fonnte responded %d: %s", resp.StatusCode, body)
	}
	return nil
}
