package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/instant-voices/internal/domain"
	"github.com/heartmarshall/instant-voices/internal/service/voice"
)

// voiceService defines the minimal interface needed by VoiceHandler.
type voiceService interface {
	ListMap(ctx context.Context, input voice.ListInput) (map[string]*domain.Voice, error)
	Get(ctx context.Context, recordID string) (*domain.Voice, error)
	Upsert(ctx context.Context, input voice.UpsertInput) (*domain.Voice, error)
	Delete(ctx context.Context, input voice.DeleteInput) error
	MaxUploadBytes() int64
}

// VoiceHandler serves the custom voice REST endpoints.
type VoiceHandler struct {
	svc voiceService
	log *slog.Logger
}

// NewVoiceHandler creates a VoiceHandler.
func NewVoiceHandler(svc voiceService, logger *slog.Logger) *VoiceHandler {
	return &VoiceHandler{svc: svc, log: logger.With("handler", "voices")}
}

// voiceResponse is the JSON shape of a custom voice record.
type voiceResponse struct {
	RecordID           string    `json:"recordId"`
	OwnerID            string    `json:"ownerId"`
	Text               *string   `json:"text,omitempty"`
	Translation        *string   `json:"translation,omitempty"`
	IsCustom           bool      `json:"isCustom"`
	AudioURL           string    `json:"audioUrl,omitempty"`
	MIMEType           string    `json:"mimeType,omitempty"`
	OriginalFileName   string    `json:"originalFileName,omitempty"`
	SizeBytes          int64     `json:"sizeBytes"`
	SourceLastModified int64     `json:"sourceLastModified,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// List handles GET /voices?ownerId=...
// Responds with an object keyed by record id; an empty store yields {}.
func (h *VoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	voices, err := h.svc.ListMap(r.Context(), voice.ListInput{
		OwnerID: r.URL.Query().Get("ownerId"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make(map[string]voiceResponse, len(voices))
	for id, v := range voices {
		out[id] = toVoiceResponse(v)
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /voices/{recordId}.
func (h *VoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Get(r.Context(), r.PathValue("recordId"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toVoiceResponse(v))
}

// Upsert handles POST /voices (multipart/form-data).
func (h *VoiceHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	input, err := decodeUpload(w, r, h.svc.MaxUploadBytes())
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll() //nolint:errcheck
	}
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	v, err := h.svc.Upsert(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toVoiceResponse(v))
}

// Delete handles DELETE /voices/{recordId}?ownerId=...
func (h *VoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), voice.DeleteInput{
		RecordID: r.PathValue("recordId"),
		OwnerID:  r.URL.Query().Get("ownerId"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "voice deleted"})
}

func toVoiceResponse(v *domain.Voice) voiceResponse {
	resp := voiceResponse{
		RecordID:           v.RecordID,
		OwnerID:            v.OwnerID,
		IsCustom:           v.IsCustom,
		AudioURL:           v.Audio.URL,
		MIMEType:           v.MIMEType,
		OriginalFileName:   v.OriginalFileName,
		SizeBytes:          v.SizeBytes,
		SourceLastModified: v.SourceLastModified,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
	// Text belongs to records that define their own dialogue.
	if d, ok := v.Dialogue(); ok {
		resp.Text = &d.Text
		resp.Translation = &d.Translation
	}
	return resp
}
