package voiceclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
)

// File is the audio clip attached to an upload.
type File struct {
	Name         string
	MIMEType     string
	LastModified int64 // epoch ms, as reported by the client's file system
	Data         []byte
}

// Upload is one upsert. A nil File updates metadata only and keeps the
// stored audio.
type Upload struct {
	OwnerID     string
	RecordID    string
	Text        string
	Translation string
	IsCustom    bool
	File        *File
}

// Upload sends u as a single multipart request and returns the stored record.
func (c *Client) Upload(ctx context.Context, u Upload) (*Record, error) {
	if strings.TrimSpace(u.RecordID) == "" {
		return nil, fmt.Errorf("upload voice: record id: %w", ErrBadRequest)
	}

	body, err := encodeUpload(u)
	if err != nil {
		return nil, fmt.Errorf("upload voice %s: %w", u.RecordID, err)
	}

	var out Record
	if err := c.doJSON(ctx, http.MethodPost, pathVoices, body, &out); err != nil {
		return nil, fmt.Errorf("upload voice %s: %w", u.RecordID, err)
	}
	return &out, nil
}

// encodeUpload writes every metadata field as its own part, followed by the
// file part.
func encodeUpload(u Upload) (*payload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"ownerId", u.OwnerID},
		{"recordId", u.RecordID},
		{"isCustom", strconv.FormatBool(u.IsCustom)},
	}
	if u.Text != "" {
		fields = append(fields, [2]string{"text", u.Text})
	}
	if u.Translation != "" {
		fields = append(fields, [2]string{"translation", u.Translation})
	}
	if f := u.File; f != nil {
		fields = append(fields,
			[2]string{"mimeType", f.MIMEType},
			[2]string{"originalFileName", f.Name},
			[2]string{"sizeBytes", strconv.Itoa(len(f.Data))},
			[2]string{"sourceLastModified", strconv.FormatInt(f.LastModified, 10)},
		)
	}
	for _, kv := range fields {
		if kv[1] == "" {
			continue
		}
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}

	if f := u.File; f != nil {
		contentType := f.MIMEType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName(f.Name)))
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("write file part: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}
	return &payload{data: buf.Bytes(), contentType: mw.FormDataContentType()}, nil
}

func fileName(name string) string {
	if name == "" {
		return "audio"
	}
	return name
}
