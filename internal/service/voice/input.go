package voice

import (
	"strings"

	"github.com/heartmarshall/instant-voices/internal/domain"
)

const (
	maxRecordIDLen = 128
	maxOwnerIDLen  = 128
	maxTextLen     = 2000
	maxFileNameLen = 255
)

// UpsertInput holds the parameters for creating or updating a record.
// A nil Audio is a metadata-only write that keeps stored audio.
type UpsertInput struct {
	RecordID    string
	OwnerID     string
	Text        *string
	Translation *string
	IsCustom    bool
	Audio       *domain.AudioPayload
}

// Validate checks identifying and text fields and collects all errors.
// Size and media type are checked separately so they map to their own errors.
func (i UpsertInput) Validate() error {
	var errs domain.ValidationError

	id := strings.TrimSpace(i.RecordID)
	if id == "" {
		errs.Add("recordId", "required")
	}
	if len(id) > maxRecordIDLen {
		errs.Add("recordId", "max 128 characters")
	}

	owner := strings.TrimSpace(i.OwnerID)
	if owner == "" {
		errs.Add("ownerId", "required")
	}
	if len(owner) > maxOwnerIDLen {
		errs.Add("ownerId", "max 128 characters")
	}

	if i.Text != nil && len(*i.Text) > maxTextLen {
		errs.Add("text", "max 2000 characters")
	}
	if i.Translation != nil && len(*i.Translation) > maxTextLen {
		errs.Add("translation", "max 2000 characters")
	}

	if i.Audio != nil {
		if len(i.Audio.Data) == 0 {
			errs.Add("file", "empty")
		}
		if len(i.Audio.OriginalFileName) > maxFileNameLen {
			errs.Add("originalFileName", "max 255 characters")
		}
		if i.Audio.SourceLastModified < 0 {
			errs.Add("sourceLastModified", "must be non-negative")
		}
	}

	return errs.Err()
}

// ListInput holds the parameters for listing records.
// OwnerID narrows the listing; it is required in owner scope.
type ListInput struct {
	OwnerID string
}

// DeleteInput holds the parameters for deleting a record.
// OwnerID is required and enforced in owner scope, ignored in global scope.
type DeleteInput struct {
	RecordID string
	OwnerID  string
}

// Validate checks all fields and collects all errors.
func (i DeleteInput) Validate() error {
	if strings.TrimSpace(i.RecordID) == "" {
		return domain.NewValidationError("recordId", "required")
	}
	return nil
}
