package model

import "github.com/google/uuid"

// RepresentativeAttachment is the single cover image of a portfolio. At most
// one exists per portfolio; replacing it deletes the old blob first.
type RepresentativeAttachment struct {
	ID          uuid.UUID `json:"id"`
	PortfolioID uuid.UUID `json:"portfolio_id"`
	URL         string    `json:"url"`
}

// ImageAttachment is one gallery image. The gallery is replaced wholesale
// whenever a non-empty replacement list is supplied.
type ImageAttachment struct {
	ID          uuid.UUID `json:"id"`
	PortfolioID uuid.UUID `json:"portfolio_id"`
	URL         string    `json:"url"`
}

// ImageUpload is raw image content handed to the blob store.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IsEmpty reports whether the upload carries no content. Empty uploads are
// treated as "not supplied" on update paths.
func (u *ImageUpload) IsEmpty() bool {
	return u == nil || len(u.Data) == 0
}
