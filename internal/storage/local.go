// AngelaMos | 2026
// local.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type LocalDisk struct {
	root       string
	publicPath string
}

// NewLocalDisk creates root if it does not exist yet.
func NewLocalDisk(root, publicPath string) (*LocalDisk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	return &LocalDisk{
		root:       root,
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}, nil
}

func (d *LocalDisk) Put(
	_ context.Context,
	name string,
	body io.Reader,
	_ int64,
	_ string,
) (string, error) {
	dst := filepath.Join(d.root, filepath.Base(name))

	//nolint:gosec // G304: name is reduced to its base component above
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()      //nolint:errcheck // cleanup after failed write
		_ = os.Remove(dst) //nolint:errcheck // cleanup after failed write
		return "", fmt.Errorf("write upload file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(dst) //nolint:errcheck // cleanup after failed close
		return "", fmt.Errorf("close upload file: %w", err)
	}

	return path.Join(d.publicPath, filepath.Base(name)), nil
}

// Delete removes the file behind ref. Unknown or foreign references and
// files that are already gone are not errors.
func (d *LocalDisk) Delete(_ context.Context, ref string) error {
	name, ok := strings.CutPrefix(ref, d.publicPath+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return nil
	}

	err := os.Remove(filepath.Join(d.root, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete upload file: %w", err)
	}

	return nil
}

func (d *LocalDisk) PublicPath() string {
	return d.publicPath
}

// Handler serves stored files under the public path. Directory listings are
// not exposed.
func (d *LocalDisk) Handler() http.Handler {
	files := http.StripPrefix(d.publicPath, http.FileServer(http.Dir(d.root)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		files.ServeHTTP(w, r)
	})
}
