package rest

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/heartmarshall/instant-voices/internal/domain"
	"github.com/heartmarshall/instant-voices/internal/service/voice"
)

// multipartOverhead is the allowance for metadata parts and boundaries on top
// of the audio size ceiling.
const multipartOverhead = 1 << 20

// multipartMemory is how much of the form is buffered in memory before
// ParseMultipartForm spills file parts to disk.
const multipartMemory = 4 << 20

// Form field names. Legacy aliases are still sent by older clients.
var (
	fieldOwnerID      = []string{"ownerId", "userId"}
	fieldRecordID     = []string{"recordId", "id"}
	fieldText         = []string{"text"}
	fieldTranslation  = []string{"translation"}
	fieldIsCustom     = []string{"isCustom"}
	fieldMIMEType     = []string{"mimeType", "type"}
	fieldFileName     = []string{"originalFileName", "name"}
	fieldSize         = []string{"sizeBytes", "size"}
	fieldLastModified = []string{"sourceLastModified", "lastModified"}
)

// decodeUpload turns a multipart upload into an upsert input. A request
// without a file part is a metadata-only upsert.
func decodeUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (voice.UpsertInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return voice.UpsertInput{}, fmt.Errorf("request body: %w", domain.ErrPayloadTooLarge)
		}
		return voice.UpsertInput{}, domain.NewValidationError("body", "expected multipart/form-data")
	}
	form := r.MultipartForm

	input := voice.UpsertInput{
		RecordID:    formValue(form, fieldRecordID),
		OwnerID:     formValue(form, fieldOwnerID),
		Text:        formPtr(form, fieldText),
		Translation: formPtr(form, fieldTranslation),
		IsCustom:    parseFlag(formValue(form, fieldIsCustom)),
	}

	files := form.File["file"]
	if len(files) == 0 {
		return input, nil
	}
	if len(files) > 1 {
		return voice.UpsertInput{}, domain.NewValidationError("file", "exactly one file expected")
	}
	fh := files[0]

	// The declared size lets oversized uploads fail before the part is read.
	if raw := formValue(form, fieldSize); raw != "" {
		declared, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || declared < 0 {
			return voice.UpsertInput{}, domain.NewValidationError("sizeBytes", "must be a non-negative integer")
		}
		if declared > maxBytes {
			return voice.UpsertInput{}, fmt.Errorf("declared size %d: %w", declared, domain.ErrPayloadTooLarge)
		}
	}
	if fh.Size > maxBytes {
		return voice.UpsertInput{}, fmt.Errorf("file size %d: %w", fh.Size, domain.ErrPayloadTooLarge)
	}

	var lastModified int64
	if raw := formValue(form, fieldLastModified); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return voice.UpsertInput{}, domain.NewValidationError("sourceLastModified", "must be an integer")
		}
		lastModified = v
	}

	data, err := readPart(fh, maxBytes)
	if err != nil {
		return voice.UpsertInput{}, err
	}

	name := formValue(form, fieldFileName)
	if name == "" {
		name = fh.Filename
	}

	input.Audio = &domain.AudioPayload{
		Data:               data,
		MIMEType:           detectMIMEType(fh.Header.Get("Content-Type"), formValue(form, fieldMIMEType), data),
		OriginalFileName:   name,
		SourceLastModified: lastModified,
	}
	return input, nil
}

func readPart(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open file part: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read file part: %w", err)
	}
	return data, nil
}

// detectMIMEType prefers the part header, then the form field, and sniffs the
// bytes when neither names a concrete type.
func detectMIMEType(partHeader, declared string, data []byte) string {
	for _, candidate := range []string{partHeader, declared} {
		ct := domain.NormalizeMIMEType(candidate)
		if ct != "" && ct != "application/octet-stream" {
			return ct
		}
	}
	return domain.NormalizeMIMEType(mimetype.Detect(data).String())
}

func formValue(form *multipart.Form, names []string) string {
	for _, n := range names {
		if vs, ok := form.Value[n]; ok && len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
	}
	return ""
}

func formPtr(form *multipart.Form, names []string) *string {
	for _, n := range names {
		if vs, ok := form.Value[n]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
	}
	return nil
}

func parseFlag(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}
