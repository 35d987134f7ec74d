package admin

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"dondar/apperr"
	"dondar/db"
	"dondar/models"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// fetchRegistration resolves one registration by id. Returns
// apperr.ErrNotFound when no record matches.
func fetchRegistration(ctx context.Context, registrationID string) (models.Registration, error) {
	var reg models.Registration
	err := db.RegistrationsCollection.FindOne(ctx, bson.M{"registrationId": registrationID}).Decode(&reg)
	if err == mongo.ErrNoDocuments {
		return reg, apperr.ErrNotFound
	}
	return reg, err
}

func cardSecret() []byte {
	if s := os.Getenv("CARD_HMAC_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("change-me-card-secret")
}

// cardQRPayload signs registrationId|slotId so on-site staff can verify the
// card was issued by this system.
func cardQRPayload(registrationID, slotID string) string {
	data := fmt.Sprintf("%s|%s", registrationID, slotID)
	h := hmac.New(sha256.New, cardSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// PrintDonorCard renders a registrant's check-in card as a PDF with a
// signed QR code.
func PrintDonorCard(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	registrationID := ps.ByName("registrationId")
	if registrationID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	reg, err := fetchRegistration(ctx, registrationID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			http.Error(w, "registration not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	qrPNG, err := qrcode.Encode(cardQRPayload(reg.RegistrationID, reg.EventSlotID), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Kartu Donor Darah")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Nama: %s", reg.FullName))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("NIK: %s", reg.NIK))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Lokasi: %s", reg.LocationName))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Tanggal: %s", reg.LocationDate))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=kartu-"+reg.RegistrationID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
