// Package voice implements the custom voice repository using PostgreSQL.
// Queries are built with squirrel and executed through the context querier,
// so every method joins a transaction started by TxManager.
package voice

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/instant-voices/internal/adapter/postgres"
	"github.com/heartmarshall/instant-voices/internal/domain"
)

const table = "custom_voices"

var columns = []string{
	"record_id", "owner_id", "text", "translation", "is_custom",
	"audio_kind", "audio_ref", "audio_key",
	"mime_type", "original_file_name", "size_bytes", "source_last_modified",
	"created_at", "updated_at",
}

// Audio columns are only touched on conflict when the write carries audio.
const (
	upsertKeepAudio = `ON CONFLICT (record_id) DO UPDATE SET
	owner_id = EXCLUDED.owner_id,
	text = EXCLUDED.text,
	translation = EXCLUDED.translation,
	updated_at = EXCLUDED.updated_at`

	upsertReplaceAudio = upsertKeepAudio + `,
	audio_kind = EXCLUDED.audio_kind,
	audio_ref = EXCLUDED.audio_ref,
	audio_key = EXCLUDED.audio_key,
	mime_type = EXCLUDED.mime_type,
	original_file_name = EXCLUDED.original_file_name,
	size_bytes = EXCLUDED.size_bytes,
	source_last_modified = EXCLUDED.source_last_modified`
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides custom voice persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new voice repository. db is normally a *pgxpool.Pool.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a voice by record id.
// Returns domain.ErrNotFound if the record does not exist.
func (r *Repo) GetByID(ctx context.Context, recordID string) (*domain.Voice, error) {
	return r.get(ctx, recordID, false)
}

// GetForUpdate returns a voice and locks its row until the surrounding
// transaction ends. Returns domain.ErrNotFound if the record does not exist.
func (r *Repo) GetForUpdate(ctx context.Context, recordID string) (*domain.Voice, error) {
	return r.get(ctx, recordID, true)
}

func (r *Repo) get(ctx context.Context, recordID string, lock bool) (*domain.Voice, error) {
	q := psql.Select(columns...).From(table).Where(sq.Eq{"record_id": recordID})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select custom_voice: %w", err)
	}

	v, err := scanVoice(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, recordID)
	}
	return v, nil
}

// List returns voices matching the filter ordered by creation time.
// Returns an empty slice when nothing matches.
func (r *Repo) List(ctx context.Context, filter domain.VoiceFilter) ([]*domain.Voice, error) {
	q := psql.Select(columns...).From(table).OrderBy("created_at ASC", "record_id ASC")
	if filter.OwnerID != nil {
		q = q.Where(sq.Eq{"owner_id": *filter.OwnerID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list custom_voices: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list")
	}
	defer rows.Close()

	voices := make([]*domain.Voice, 0)
	for rows.Next() {
		v, err := scanVoice(rows)
		if err != nil {
			return nil, mapError(err, "list")
		}
		voices = append(voices, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list")
	}

	return voices, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Upsert inserts v or merges it into the existing row with the same record id.
// On conflict owner, text, translation and updated_at are always overwritten;
// audio columns only when replaceAudio is set. is_custom and created_at are
// kept from the first write.
func (r *Repo) Upsert(ctx context.Context, v *domain.Voice, replaceAudio bool) (*domain.Voice, error) {
	suffix := upsertKeepAudio
	if replaceAudio {
		suffix = upsertReplaceAudio
	}

	query, args, err := psql.Insert(table).
		Columns(columns...).
		Values(
			v.RecordID, v.OwnerID, v.Text, v.Translation, v.IsCustom,
			string(v.Audio.Kind), v.Audio.URL, v.Audio.Key,
			v.MIMEType, v.OriginalFileName, v.SizeBytes, v.SourceLastModified,
			v.CreatedAt, v.UpdatedAt,
		).
		Suffix(suffix).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert custom_voice: %w", err)
	}

	saved, err := scanVoice(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, v.RecordID)
	}
	return saved, nil
}

// Delete removes a record and returns it so the caller can release its audio.
// When ownerID is set only a record owned by it is removed.
// Returns domain.ErrNotFound if nothing was deleted.
func (r *Repo) Delete(ctx context.Context, recordID string, ownerID *string) (*domain.Voice, error) {
	where := sq.Eq{"record_id": recordID}
	if ownerID != nil {
		where["owner_id"] = *ownerID
	}

	query, args, err := psql.Delete(table).
		Where(where).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delete custom_voice: %w", err)
	}

	v, err := scanVoice(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, recordID)
	}
	return v, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func joinColumns() string {
	return strings.Join(columns, ", ")
}

func scanVoice(row pgx.Row) (*domain.Voice, error) {
	var (
		v         domain.Voice
		audioKind string
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(
		&v.RecordID, &v.OwnerID, &v.Text, &v.Translation, &v.IsCustom,
		&audioKind, &v.Audio.URL, &v.Audio.Key,
		&v.MIMEType, &v.OriginalFileName, &v.SizeBytes, &v.SourceLastModified,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.Audio.Kind = domain.AudioKind(audioKind)
	v.CreatedAt = createdAt.UTC()
	v.UpdatedAt = updatedAt.UTC()
	return &v, nil
}

func mapError(err error, id string) error {
	return postgres.MapError(err, "custom_voice", id)
}
