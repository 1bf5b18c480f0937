package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/instant-voices/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedVoice inserts a custom voice with inline audio owned by ownerID.
// Returns the filled domain.Voice.
func SeedVoice(t *testing.T, pool *pgxpool.Pool, ownerID string) domain.Voice {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	text := "Seeded line " + suffix
	translation := "Seeded translation " + suffix

	v := domain.Voice{
		RecordID:    "seed-" + suffix,
		OwnerID:     ownerID,
		Text:        &text,
		Translation: &translation,
		IsCustom:    true,
		Audio: domain.AudioRef{
			Kind: domain.AudioKindInline,
			URL:  "data:audio/mpeg;base64,SUQz",
		},
		MIMEType:           "audio/mpeg",
		OriginalFileName:   "seed-" + suffix + ".mp3",
		SizeBytes:          3,
		SourceLastModified: now.UnixMilli(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO custom_voices (record_id, owner_id, text, translation, is_custom,
		                            audio_kind, audio_ref, audio_key, mime_type, original_file_name,
		                            size_bytes, source_last_modified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		v.RecordID, v.OwnerID, v.Text, v.Translation, v.IsCustom,
		string(v.Audio.Kind), v.Audio.URL, v.Audio.Key, v.MIMEType, v.OriginalFileName,
		v.SizeBytes, v.SourceLastModified, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedVoice insert: %v", err)
	}

	return v
}
