package handlers

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"recipeviewer/render"
	"recipeviewer/viewer"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

var errNotDataURI = errors.New("image is not a base64 data URI")

// ThumbCacheControl lets browsers reuse thumbnails across index views instead
// of reloading the dataset once per card.
const ThumbCacheControl = "public, max-age=3600"

// ThumbnailHandler decodes a recipe's embedded image, resizes it to the
// configured height keeping its aspect ratio, and returns it.
func ThumbnailHandler(d *Deps, w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	vs := d.Page.InitPage(r.Context(), render.DetailDocument, viewer.Values(query))
	if vs.Detail == nil {
		http.Error(w, "No matching recipe found", http.StatusNotFound)
		return
	}
	if !vs.Detail.HasImage() {
		http.Error(w, "Recipe has no image", http.StatusNotFound)
		return
	}
	if !render.Resizable(vs.Detail.Image) {
		http.Error(w, "Unsupported image format", http.StatusUnsupportedMediaType)
		return
	}

	etag := thumbETag(vs.Detail.Image, d.ThumbHeight)
	w.Header().Set("Cache-Control", ThumbCacheControl)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && strings.Contains(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	raw, err := decodeDataURI(vs.Detail.Image)
	if err != nil {
		d.Logger.Warn("Failed to decode embedded image", zap.String("recipe", vs.Detail.Self.Query()), zap.Error(err))
		http.Error(w, "Failed to decode image", http.StatusUnprocessableEntity)
		return
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		d.Logger.Warn("Failed to decode embedded image", zap.String("recipe", vs.Detail.Self.Query()), zap.Error(err))
		http.Error(w, "Failed to decode image", http.StatusUnprocessableEntity)
		return
	}

	resized := Thumbnail(img, d.ThumbHeight)

	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		err = jpeg.Encode(&buf, resized, nil)
	case "png":
		err = png.Encode(&buf, resized)
	default:
		http.Error(w, "Unsupported image format", http.StatusUnsupportedMediaType)
		return
	}
	if err != nil {
		d.Logger.Error("Failed to encode thumbnail", zap.Error(err))
		http.Error(w, "Failed to encode image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/"+format)
	if _, err := w.Write(buf.Bytes()); err != nil {
		d.Logger.Warn("Failed to write response", zap.Error(err))
	}
}

// Thumbnail scales img to height, preserving the aspect ratio.
func Thumbnail(img image.Image, height uint) image.Image {
	b := img.Bounds()
	if b.Dy() == 0 {
		return img
	}
	aspectRatio := float64(b.Dx()) / float64(b.Dy())
	width := uint(float64(height)*aspectRatio + 0.5)
	if width == 0 {
		width = 1
	}
	return resize.Resize(width, height, img, resize.Lanczos3)
}

// thumbETag identifies a thumbnail by its source image and target height.
func thumbETag(src string, height uint) string {
	h := fnv.New64a()
	h.Write([]byte(src))
	return fmt.Sprintf(`"%016x-%d"`, h.Sum64(), height)
}

func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 || !strings.HasSuffix(strings.ToLower(uri[:comma]), ";base64") {
		return nil, errNotDataURI
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(uri[comma+1:]))
}
