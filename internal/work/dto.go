// AngelaMos | 2026
// dto.go

package work

import (
	"bytes"
	"net/http"
	"time"
)

// Flag decodes from a JSON boolean or from the string "true".
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = Flag(bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte(`"true"`)))
	return nil
}

// Input carries create and update fields. Nil means the field was not sent.
type Input struct {
	Title         *string `json:"title"`
	DescriptionUz *string `json:"descriptionUz"`
	DescriptionRu *string `json:"descriptionRu"`
	DescriptionEn *string `json:"descriptionEn"`
	Category      *string `json:"category"`
	VideoURL      *string `json:"videoUrl"`
	Featured      *Flag   `json:"featured"`
}

func InputFromForm(r *http.Request) Input {
	var in Input
	if r.MultipartForm == nil {
		return in
	}

	values := r.MultipartForm.Value
	field := func(name string) *string {
		v, ok := values[name]
		if !ok || len(v) == 0 {
			return nil
		}
		return &v[0]
	}

	in.Title = field("title")
	in.DescriptionUz = field("descriptionUz")
	in.DescriptionRu = field("descriptionRu")
	in.DescriptionEn = field("descriptionEn")
	in.Category = field("category")
	in.VideoURL = field("videoUrl")

	if raw := field("featured"); raw != nil {
		f := Flag(*raw == "true")
		in.Featured = &f
	}

	return in
}

type WorkResponse struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	DescriptionUz string    `json:"descriptionUz"`
	DescriptionRu string    `json:"descriptionRu"`
	DescriptionEn string    `json:"descriptionEn"`
	Category      string    `json:"category"`
	Image         string    `json:"image,omitempty"`
	Video         string    `json:"video,omitempty"`
	VideoURL      string    `json:"videoUrl,omitempty"`
	Featured      bool      `json:"featured"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func ToWorkResponse(w *Work) WorkResponse {
	return WorkResponse{
		ID:            w.ID,
		Title:         w.Title,
		DescriptionUz: w.DescriptionUz,
		DescriptionRu: w.DescriptionRu,
		DescriptionEn: w.DescriptionEn,
		Category:      w.Category,
		Image:         w.Image,
		Video:         w.Video,
		VideoURL:      w.VideoURL,
		Featured:      w.Featured,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

func ToWorkResponseList(works []Work) []WorkResponse {
	out := make([]WorkResponse, len(works))
	for i := range works {
		out[i] = ToWorkResponse(&works[i])
	}
	return out
}
