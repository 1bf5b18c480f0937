package audiostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/heartmarshall/instant-voices/internal/domain"
)

// Object is a stored audio blob.
type Object struct {
	Key      string
	Modified time.Time
}

// Objects lists every file in the upload directory.
func (d *Disk) Objects(_ context.Context) ([]Object, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}

	out := make([]Object, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Object{Key: e.Name(), Modified: info.ModTime()})
	}
	return out, nil
}

// Objects lists every object in the bucket.
func (m *Minio) Objects(ctx context.Context) ([]Object, error) {
	var out []Object
	for obj := range m.cli.ListObjects(ctx, m.cfg.Bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("%w: list objects: %w", domain.ErrUnavailable, obj.Err)
		}
		out = append(out, Object{Key: obj.Key, Modified: obj.LastModified})
	}
	return out, nil
}

// Sweepable is a strategy whose objects can be enumerated and released.
type Sweepable interface {
	Objects(ctx context.Context) ([]Object, error)
	Release(ctx context.Context, ref domain.AudioRef) error
}

// SweepResult summarizes one sweep.
type SweepResult struct {
	Scanned  int
	Orphaned int
	Released int
}

// Sweep releases objects no record references. Objects younger than grace
// are kept: their upload may still be committing. With dryRun nothing is
// released.
func Sweep(ctx context.Context, store Sweepable, referenced map[string]struct{}, grace time.Duration, dryRun bool, log *slog.Logger) (SweepResult, error) {
	objects, err := store.Objects(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	res := SweepResult{Scanned: len(objects)}
	cutoff := time.Now().Add(-grace)

	var errs []error
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok || obj.Modified.After(cutoff) {
			continue
		}
		res.Orphaned++

		if dryRun {
			log.Info("orphaned audio", slog.String("key", obj.Key), slog.Time("modified", obj.Modified))
			continue
		}
		if err := store.Release(ctx, domain.AudioRef{Kind: domain.AudioKindURL, Key: obj.Key}); err != nil {
			errs = append(errs, err)
			continue
		}
		res.Released++
	}
	return res, errors.Join(errs...)
}

// ReferencedKeys collects the external object keys held by voices.
func ReferencedKeys(voices []*domain.Voice) map[string]struct{} {
	keys := make(map[string]struct{}, len(voices))
	for _, v := range voices {
		if v.Audio.IsExternal() {
			keys[v.Audio.Key] = struct{}{}
		}
	}
	return keys
}
