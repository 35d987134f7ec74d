package notify

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendConfirmationEmail mails a registration confirmation to a participant.
// Invoked only after the registration has been persisted; a failure here is
// logged by the caller and never reverts the registration.
func SendConfirmationEmail(toEmail, name, locationName, eventDate string) error {
	from := os.Getenv("SMTP_FROM")
	pass := os.Getenv("SMTP_PASSWORD")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	if smtpHost == "" {
		smtpHost = "smtp.gmail.com"
	}
	if smtpPort == "" {
		smtpPort = "587"
	}

	body := fmt.Sprintf(
		"Halo %s!\n\nTerima kasih telah mendaftar sebagai donor darah di %s pada tanggal %s. Kontribusi Anda sangat berarti.\n",
		name, locationName, eventDate,
	)
	msg := []byte("Subject: Konfirmasi Pendaftaran Donor Darah\n\n" + body)

	auth := smtp.PlainAuth("", from, pass, smtpHost)
	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{toEmail}, msg)
}
