// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging validates uploaded cover images before they are stored.
// It reads only the image header, so the payload is never fully decoded,
// and derives the content type from the bytes rather than from the
// client-supplied filename or header.
package imaging

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"newsdesk/internal/apperr"
)

const (
	// MaxUploadSize is the largest accepted upload in bytes.
	MaxUploadSize = 10 << 20

	// MaxPixels bounds width*height to reject decompression bombs.
	MaxPixels = 50_000_000
)

// Info describes an accepted image.
type Info struct {
	ContentType string
	Ext         string // with leading dot, e.g. ".jpg"
	Width       int
	Height      int
}

// formats maps image.DecodeConfig format names to content type and extension.
var formats = map[string]struct{ contentType, ext string }{
	"jpeg": {"image/jpeg", ".jpg"},
	"png":  {"image/png", ".png"},
	"gif":  {"image/gif", ".gif"},
	"webp": {"image/webp", ".webp"},
}

// Inspect checks that data is a supported image within the size limits.
// Rejections are validation errors carrying a message fit for the client.
func Inspect(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, apperr.Validation("file is empty")
	}
	if len(data) > MaxUploadSize {
		return Info{}, apperr.Validationf("file exceeds %d MB", MaxUploadSize>>20)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, apperr.Validation("unsupported image format; use JPEG, PNG, GIF or WebP")
	}
	f, ok := formats[format]
	if !ok {
		return Info{}, apperr.Validationf("unsupported image format %q", format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, apperr.Validation("image has no dimensions")
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return Info{}, apperr.Validationf("image is too large (%dx%d)", cfg.Width, cfg.Height)
	}

	return Info{
		ContentType: f.contentType,
		Ext:         f.ext,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}
