// AngelaMos | 2026
// service.go

package work

import (
	"context"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/storage"
)

var ErrMediaRequired = core.ValidationError(
	"At least one media (image, video, or videoUrl) is required",
)

type FileStore interface {
	SaveFile(ctx context.Context, fh *multipart.FileHeader) (*storage.StoredFile, error)
	Remove(ctx context.Context, ref string)
}

// Media holds the uploaded files of a create or update request.
type Media struct {
	Image *multipart.FileHeader
	Video *multipart.FileHeader
}

type Service struct {
	repo   Repository
	files  FileStore
	logger *slog.Logger
}

func NewService(repo Repository, files FileStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		files:  files,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]Work, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Work, error) {
	return s.repo.GetByID(ctx, id)
}

func descriptions(w *Work, in Input, partial bool) error {
	fields := []struct {
		dst     *string
		src     *string
		message string
	}{
		{&w.DescriptionUz, in.DescriptionUz, "Description (UZ) is required"},
		{&w.DescriptionRu, in.DescriptionRu, "Description (RU) is required"},
		{&w.DescriptionEn, in.DescriptionEn, "Description (EN) is required"},
	}

	for _, f := range fields {
		if f.src == nil && partial {
			continue
		}
		if f.src == nil || strings.TrimSpace(*f.src) == "" {
			return core.ValidationError(f.message)
		}
		*f.dst = strings.TrimSpace(*f.src)
	}

	return nil
}

func orDefault(v *string, def string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return def
	}
	return strings.TrimSpace(*v)
}

func (s *Service) Create(ctx context.Context, in Input, media Media) (*Work, error) {
	w := &Work{
		ID:       core.NewID(),
		Title:    orDefault(in.Title, DefaultTitle),
		Category: orDefault(in.Category, DefaultCategory),
	}
	if in.Featured != nil {
		w.Featured = bool(*in.Featured)
	}

	if err := descriptions(w, in, false); err != nil {
		return nil, err
	}

	var saved []string
	cleanup := func() {
		for _, ref := range saved {
			s.files.Remove(ctx, ref)
		}
	}

	if media.Image != nil {
		stored, err := s.files.SaveFile(ctx, media.Image)
		if err != nil {
			return nil, err
		}
		saved = append(saved, stored.Ref)
		w.Image = stored.Ref
	}

	if media.Video != nil {
		stored, err := s.files.SaveFile(ctx, media.Video)
		if err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, stored.Ref)
		w.Video = stored.Ref
	} else if in.VideoURL != nil {
		w.VideoURL = strings.TrimSpace(*in.VideoURL)
	}

	if !w.HasMedia() {
		cleanup()
		return nil, ErrMediaRequired
	}

	if err := s.repo.Create(ctx, w); err != nil {
		cleanup()
		return nil, err
	}

	s.logger.InfoContext(ctx, "work created", "work_id", w.ID)
	return w, nil
}

// Update replaces media selectively. A new video file clears videoUrl and a
// videoUrl field clears the video file. Replaced files are removed only once
// the row has been written.
func (s *Service) Update(
	ctx context.Context,
	id string,
	in Input,
	media Media,
) (*Work, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		w.Title = orDefault(in.Title, DefaultTitle)
	}
	if in.Category != nil {
		w.Category = orDefault(in.Category, DefaultCategory)
	}
	if in.Featured != nil {
		w.Featured = bool(*in.Featured)
	}

	if err := descriptions(w, in, true); err != nil {
		return nil, err
	}

	var saved, stale []string
	cleanup := func() {
		for _, ref := range saved {
			s.files.Remove(ctx, ref)
		}
	}

	if media.Image != nil {
		stored, err := s.files.SaveFile(ctx, media.Image)
		if err != nil {
			return nil, err
		}
		saved = append(saved, stored.Ref)
		stale = append(stale, w.Image)
		w.Image = stored.Ref
	}

	switch {
	case media.Video != nil:
		stored, err := s.files.SaveFile(ctx, media.Video)
		if err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, stored.Ref)
		stale = append(stale, w.Video)
		w.Video = stored.Ref
		w.VideoURL = ""
	case in.VideoURL != nil:
		stale = append(stale, w.Video)
		w.Video = ""
		w.VideoURL = strings.TrimSpace(*in.VideoURL)
	}

	if !w.HasMedia() {
		cleanup()
		return nil, ErrMediaRequired
	}

	if err := s.repo.Update(ctx, w); err != nil {
		cleanup()
		return nil, err
	}

	for _, ref := range stale {
		s.files.Remove(ctx, ref)
	}

	return w, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.files.Remove(ctx, w.Image)
	s.files.Remove(ctx, w.Video)

	s.logger.InfoContext(ctx, "work deleted", "work_id", id)
	return nil
}
