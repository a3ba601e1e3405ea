package model

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const EntityName = "photo"

// Variants of the stored content.
const (
	VariantOriginal  = "original"
	VariantThumbnail = "thumbnail"
)

// Photo is the metadata of a pet picture. The content fields are managed
// by the server and ignored when a client sends them.
type Photo struct {
	ID           *int64     `json:"id"`
	PetID        *int64     `json:"petId"`
	Caption      *string    `json:"caption"`
	ContentType  *string    `json:"contentType"`
	ObjectKey    *string    `json:"objectKey"`
	ThumbnailKey *string    `json:"thumbnailKey"`
	SizeBytes    *int64     `json:"sizeBytes"`
	UploadedAt   *time.Time `json:"uploadedAt"`
}

func New() *Photo { return &Photo{} }

func (p *Photo) GetID() *int64   { return p.ID }
func (p *Photo) SetID(id *int64) { p.ID = id }

func (p *Photo) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.PetID, validation.Required),
		validation.Field(&p.Caption, validation.Length(0, 255)),
	)
}

// Merge copies petId and caption. Content fields only change through an upload.
func (p *Photo) Merge(patch *Photo) {
	if patch.PetID != nil {
		p.PetID = patch.PetID
	}
	if patch.Caption != nil {
		p.Caption = patch.Caption
	}
}

// HasContent reports whether an image was uploaded.
func (p *Photo) HasContent() bool {
	return p.ObjectKey != nil && *p.ObjectKey != ""
}

// Key returns the storage key of a variant, or "" when there is none.
func (p *Photo) Key(variant string) string {
	var k *string
	switch variant {
	case VariantOriginal:
		k = p.ObjectKey
	case VariantThumbnail:
		k = p.ThumbnailKey
	}
	if k == nil {
		return ""
	}
	return *k
}

// Keys lists every stored object of the photo.
func (p *Photo) Keys() []string {
	var keys []string
	for _, k := range []*string{p.ObjectKey, p.ThumbnailKey} {
		if k != nil && *k != "" {
			keys = append(keys, *k)
		}
	}
	return keys
}

// Content is what an upload stores on a photo row.
type Content struct {
	ContentType  string
	ObjectKey    string
	ThumbnailKey string
	SizeBytes    int64
}

func OriginalKey(id int64, ext string) string {
	return fmt.Sprintf("photos/%d/original.%s", id, ext)
}

func ThumbnailKey(id int64) string {
	return fmt.Sprintf("photos/%d/thumbnail.jpg", id)
}
