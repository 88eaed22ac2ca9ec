// AngelaMos | 2026
// disk.go

package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/angelamos/artvia-backend/internal/config"
)

// Disk stores uploaded media. Put returns the public reference that is
// persisted on the owning row; Delete accepts the same reference.
type Disk interface {
	Put(
		ctx context.Context,
		name string,
		body io.Reader,
		size int64,
		contentType string,
	) (string, error)
	Delete(ctx context.Context, ref string) error
}

func NewDisk(ctx context.Context, cfg config.UploadConfig) (Disk, error) {
	switch cfg.Disk {
	case config.DiskLocal:
		return NewLocalDisk(cfg.Dir, cfg.PublicPath)
	case config.DiskS3:
		return NewS3Disk(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported upload disk %q", cfg.Disk)
	}
}
