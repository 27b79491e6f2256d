// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"bytes"
	"fmt"
	"image"
	// registered decoders define the accepted upload formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-recipe-keeper/models"
)

// FieldImage is the multipart field carrying a recipe image.
const FieldImage = "image"

// MaxImagePixels bounds width*height of an upload. Larger images are
// rejected before their pixels are decoded.
const MaxImagePixels = 89_478_485

const (
	msgNoImage      = "No file was submitted."
	msgInvalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgImageTooBig  = "Image is too large: at most %d pixels are allowed."
	msgImageExt     = "File extension %q is not allowed. Allowed extensions are: %s."
)

// imageExtensions lists the file extensions accepted for each decoded
// format, matched case-insensitively.
var imageExtensions = map[string][]string{
	"gif":  {".gif"},
	"jpeg": {".jpg", ".jpeg", ".jpe", ".jfif"},
	"png":  {".png"},
}

// validateImage checks the header first, so images declaring huge
// dimensions never get a pixel buffer, then fully decodes the upload to
// reject truncated files. The file extension must name the decoded format.
func validateImage(upload models.ImageUpload) error {
	if len(upload.Data) == 0 {
		return NewFieldError(FieldImage, msgNoImage)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(upload.Data))
	if err != nil {
		return NewFieldError(FieldImage, msgInvalidImage)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return NewFieldError(FieldImage, msgInvalidImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return NewFieldError(FieldImage, fmt.Sprintf(msgImageTooBig, MaxImagePixels))
	}

	allowed := imageExtensions[format]
	ext := filepath.Ext(upload.Filename)
	if !hasExtension(allowed, ext) {
		return NewFieldError(FieldImage, fmt.Sprintf(msgImageExt, strings.TrimPrefix(ext, "."), strings.Join(allowed, ", ")))
	}

	if _, _, err = image.Decode(bytes.NewReader(upload.Data)); err != nil {
		return NewFieldError(FieldImage, msgInvalidImage)
	}

	return nil
}

func hasExtension(allowed []string, ext string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}
