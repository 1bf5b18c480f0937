package audiostore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/instant-voices/internal/domain"
)

// tempPattern names in-flight writes; the sweep and the file server skip them.
const tempPattern = ".upload-*"

// Disk writes audio files into a directory and hands out URLs under a public
// path (optionally prefixed by an absolute base URL).
type Disk struct {
	dir        string
	publicPath string
	baseURL    string
}

// NewDisk creates the directory if needed and returns the disk strategy.
func NewDisk(dir, publicPath, baseURL string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Disk{dir: dir, publicPath: publicPath, baseURL: baseURL}, nil
}

// Put writes the payload to a temp file and renames it into place, so the
// public path never serves a partial file.
func (d *Disk) Put(_ context.Context, recordID string, p *domain.AudioPayload) (domain.AudioRef, error) {
	key := objectKey(recordID, p.MIMEType)

	if err := writeAtomic(filepath.Join(d.dir, key), p.Data); err != nil {
		return domain.AudioRef{}, fmt.Errorf("write audio file: %w", err)
	}

	return domain.AudioRef{
		Kind: domain.AudioKindURL,
		URL:  d.publicURL(key),
		Key:  key,
	}, nil
}

func writeAtomic(dst string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), tempPattern)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

// Release removes the file behind ref. A missing file is not an error.
func (d *Disk) Release(_ context.Context, ref domain.AudioRef) error {
	if !ref.IsExternal() {
		return nil
	}
	// Keys are generated by Put; anything with a path separator is foreign.
	if filepath.Base(ref.Key) != ref.Key {
		return fmt.Errorf("release audio file: invalid key %q", ref.Key)
	}
	err := os.Remove(filepath.Join(d.dir, ref.Key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("release audio file: %w", err)
	}
	return nil
}

// Handler serves stored files read-only. Mount it at PublicPath().
func (d *Disk) Handler() http.Handler {
	return http.StripPrefix(d.publicPath, http.FileServer(noDirFS{http.Dir(d.dir)}))
}

// PublicPath is the URL path prefix files are served under.
func (d *Disk) PublicPath() string { return d.publicPath }

// Name identifies the strategy in logs.
func (d *Disk) Name() string { return "disk" }

func (d *Disk) publicURL(key string) string {
	if d.baseURL != "" {
		return strings.TrimRight(d.baseURL, "/") + joinURL(d.publicPath, key)
	}
	return joinURL(d.publicPath, key)
}

// noDirFS hides directory listings and dot-files (in-flight temp writes).
type noDirFS struct {
	fs http.FileSystem
}

func (n noDirFS) Open(name string) (http.File, error) {
	if strings.HasPrefix(path.Base(name), ".") {
		return nil, fs.ErrNotExist
	}
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
