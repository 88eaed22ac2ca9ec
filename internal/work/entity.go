// AngelaMos | 2026
// entity.go

package work

import "time"

const (
	DefaultTitle    = "Untitled Work"
	DefaultCategory = "General"
)

type Work struct {
	ID            string    `db:"id"`
	Title         string    `db:"title"`
	DescriptionUz string    `db:"description_uz"`
	DescriptionRu string    `db:"description_ru"`
	DescriptionEn string    `db:"description_en"`
	Category      string    `db:"category"`
	Image         string    `db:"image"`
	Video         string    `db:"video"`
	VideoURL      string    `db:"video_url"`
	Featured      bool      `db:"featured"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (w *Work) HasMedia() bool {
	return w.Image != "" || w.Video != "" || w.VideoURL != ""
}
