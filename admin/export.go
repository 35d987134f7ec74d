package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	"dondar/models"

	"github.com/julienschmidt/httprouter"
)

// Spreadsheet tools sniff encoding from the BOM and auto-format long digit
// runs as numbers; the BOM and the literal quote on the NIK defeat both.
const csvBOM = "\uFEFF"

var csvHeader = []string{"Nama Lengkap", "NIK", "Email", "Lokasi", "Tanggal", "Waktu Daftar"}

// BuildCSV renders the registrant export. Column order is fixed; the NIK is
// prefixed with a quote so it survives as text; timestamps use the id-ID
// day-first convention.
func BuildCSV(regs []models.Registration) string {
	var b strings.Builder
	b.WriteString(csvBOM)
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteString("\n")

	for _, reg := range regs {
		row := []string{
			csvField(reg.FullName),
			"'" + reg.NIK,
			csvField(reg.Email),
			csvField(reg.LocationName),
			csvField(reg.LocationDate),
			formatWaktuDaftar(reg.RegistrationDate),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	return b.String()
}

// csvField quotes a value when it would break the row.
func csvField(v string) string {
	if strings.ContainsAny(v, ",\"\n") {
		return "\"" + strings.ReplaceAll(v, "\"", "\"\"") + "\""
	}
	return v
}

// formatWaktuDaftar renders the submission time the way id-ID locale tools
// display it: day/month/year with dot-separated clock.
func formatWaktuDaftar(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15.04.05")
}

// ExportCSV serves GET /api/admin/export as a downloadable file.
func ExportCSV(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	regs, err := fetchAllRegistrations(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=Data_Donor_KCI.csv")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(BuildCSV(regs)))
}
