package slots

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"dondar/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
)

var bannerUploadPath = "./static/slotpic"

// UploadBanner stores a location photo for a slot and a resized thumbnail
// next to it. Admin only.
func UploadBanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slotID := ps.ByName("slotId")
	if slotID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Unable to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("banner")
	if err != nil {
		http.Error(w, "Error retrieving banner file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	buf, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Error reading file", http.StatusInternalServerError)
		return
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		http.Error(w, "Invalid image data", http.StatusBadRequest)
		return
	}

	if err := utils.EnsureDir(filepath.Join(bannerUploadPath, "thumb")); err != nil {
		http.Error(w, "Error creating directory for banner", http.StatusInternalServerError)
		return
	}

	origPath := filepath.Join(bannerUploadPath, slotID+".jpg")
	out, err := os.Create(origPath)
	if err != nil {
		http.Error(w, "Error saving banner", http.StatusInternalServerError)
		return
	}
	defer out.Close()
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 90}); err != nil {
		http.Error(w, "Error saving banner", http.StatusInternalServerError)
		return
	}

	resized := imaging.Resize(img, 400, 0, imaging.Lanczos) // maintain aspect ratio
	thumbPath := filepath.Join(bannerUploadPath, "thumb", slotID+".jpg")
	thumbOut, err := os.Create(thumbPath)
	if err != nil {
		http.Error(w, "Error saving thumbnail", http.StatusInternalServerError)
		return
	}
	defer thumbOut.Close()
	if err := jpeg.Encode(thumbOut, resized, &jpeg.Options{Quality: 85}); err != nil {
		http.Error(w, "Error saving thumbnail", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := SetBannerPath(ctx, slotID, origPath); err != nil {
		writeStoreError(w, err)
		return
	}

	InvalidateSlotCache()
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"bannerPath": origPath})
}
