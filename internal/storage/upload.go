// AngelaMos | 2026
// upload.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/angelamos/artvia-backend/internal/core"
)

const multipartMemory = 32 << 20

type Kind int

const (
	KindImage Kind = iota + 1
	KindVideo
)

var (
	imageExts = map[string]struct{}{
		".jpeg": {}, ".jpg": {}, ".png": {}, ".gif": {}, ".webp": {},
	}
	videoExts = map[string]struct{}{
		".mp4": {}, ".webm": {}, ".ogg": {},
	}
)

const fileTypeMessage = "Only image and video files are allowed!"

// Classify accepts a file only when both its extension and its declared
// content type agree on image or video.
func Classify(filename, contentType string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType = strings.ToLower(contentType)

	if _, ok := imageExts[ext]; ok && strings.HasPrefix(contentType, "image/") {
		return KindImage, nil
	}
	if _, ok := videoExts[ext]; ok && strings.HasPrefix(contentType, "video/") {
		return KindVideo, nil
	}

	return 0, core.ValidationError(fileTypeMessage)
}

// FileName is "<unix millis>-<original base name>".
func FileName(now time.Time, original string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}

type StoredFile struct {
	Ref  string
	Kind Kind
}

type Uploader struct {
	disk    Disk
	maxSize int64
	logger  *slog.Logger
	now     func() time.Time
}

func NewUploader(disk Disk, maxSize int64, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{
		disk:    disk,
		maxSize: maxSize,
		logger:  logger,
		now:     time.Now,
	}
}

func (u *Uploader) tooLarge() *core.AppError {
	return core.ValidationError(fmt.Sprintf(
		"File size too large. Maximum size is %dMB.",
		u.maxSize>>20,
	))
}

// ParseForm bounds the request body and parses it as multipart. Requests
// that are not multipart are left alone so JSON bodies still work.
func (u *Uploader) ParseForm(w http.ResponseWriter, r *http.Request) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, u.maxSize*2+(1<<20))

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return u.tooLarge()
		}
		return core.ValidationError("Invalid multipart form")
	}

	return nil
}

// Save validates and stores the named form file. A missing file yields
// (nil, nil).
func (u *Uploader) Save(
	ctx context.Context,
	r *http.Request,
	field string,
) (*StoredFile, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}

	return u.SaveFile(ctx, r.MultipartForm.File[field][0])
}

func (u *Uploader) SaveFile(
	ctx context.Context,
	fh *multipart.FileHeader,
) (*StoredFile, error) {
	contentType := fh.Header.Get("Content-Type")

	kind, err := Classify(fh.Filename, contentType)
	if err != nil {
		return nil, err
	}

	if fh.Size > u.maxSize {
		return nil, u.tooLarge()
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	ref, err := u.disk.Put(
		ctx,
		FileName(u.now(), fh.Filename),
		f,
		fh.Size,
		contentType,
	)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	return &StoredFile{Ref: ref, Kind: kind}, nil
}

// Remove deletes a stored file. Failures are only logged.
func (u *Uploader) Remove(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := u.disk.Delete(ctx, ref); err != nil {
		u.logger.Warn("remove upload failed", "ref", ref, "error", err)
	}
}
