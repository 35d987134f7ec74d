package register

import (
	"net/mail"
	"strings"

	"dondar/apperr"
	"dondar/utils"
)

// FormInput is the raw submission from the public form.
type FormInput struct {
	FullName    string `json:"fullName"`
	NIK         string `json:"nik"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	EventSlotID string `json:"eventSlotId"`
}

// validateInput checks the whole submission and reports every violated
// field at once. Nil means the input is acceptable.
func validateInput(in FormInput) *apperr.ValidationError {
	fields := map[string]string{}

	if len(strings.TrimSpace(in.FullName)) < 3 {
		fields["fullName"] = "Nama lengkap harus diisi (minimal 3 karakter)"
	}
	if len(in.NIK) != 16 || !utils.IsDigits(in.NIK) {
		fields["nik"] = "NIK harus 16 digit"
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		fields["email"] = "Email tidak valid"
	}
	if in.EventSlotID == "" {
		fields["eventSlotId"] = "Silakan pilih lokasi dan tanggal"
	}
	if in.Phone != "" && !utils.IsDigits(strings.TrimPrefix(in.Phone, "+")) {
		fields["phone"] = "Nomor WhatsApp hanya boleh berisi angka"
	}

	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}
	return nil
}
