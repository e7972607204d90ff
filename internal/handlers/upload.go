// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/imaging"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 64 << 10

// UploadImage stores a cover image from the multipart "file" field and
// returns its public URL. The article is linked by saving the URL in
// cover_image_url.
func (a *Admin) UploadImage(w http.ResponseWriter, r *http.Request) {
	if a.objects == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "object storage is not configured"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": fmt.Sprintf("file exceeds %d MB", imaging.MaxUploadSize>>20),
			})
			return
		}
		writeError(w, r, apperr.Validation("expected a multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperr.Validation("no file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, imaging.MaxUploadSize+1))
	if err != nil {
		writeError(w, r, apperr.Storage("read upload", err))
		return
	}

	info, err := imaging.Inspect(data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("covers/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New(), info.Ext)

	url, err := a.objects.Upload(r.Context(), key, info.ContentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		writeError(w, r, apperr.Storage("upload image", err))
		return
	}
	slog.Info("cover image uploaded", "key", key, "type", info.ContentType, "bytes", len(data))

	writeJSON(w, http.StatusCreated, map[string]any{
		"url":    url,
		"width":  info.Width,
		"height": info.Height,
	})
}
