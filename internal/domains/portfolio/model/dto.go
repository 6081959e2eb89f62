package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreatePortfolioRequest carries everything needed to create a portfolio.
// Skills nil means "not supplied" and fails the operation; an empty list is
// valid and yields zero associations.
type CreatePortfolioRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	GitLink     string   `json:"git_link"`
	Content     string   `json:"content"`
	Skills      []string `json:"skills"`

	Representative *ImageUpload  `json:"-"`
	Images         []ImageUpload `json:"-"`
}

func (r CreatePortfolioRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.GitLink, validation.When(r.GitLink != "", is.URL.Error("git_link must be a valid URL"))),
	)
}

// UpdatePortfolioRequest applies patch semantics: a nil scalar leaves the
// stored value untouched. Skills must always be supplied; Representative and
// Images only take effect when non-empty.
type UpdatePortfolioRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	GitLink     *string  `json:"git_link"`
	Content     *string  `json:"content"`
	Skills      []string `json:"skills"`

	Representative *ImageUpload  `json:"-"`
	Images         []ImageUpload `json:"-"`
}

func (r UpdatePortfolioRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.When(r.Title != nil, validation.Length(1, 255))),
		validation.Field(&r.Description, validation.When(r.Description != nil, validation.Length(0, 2000))),
		validation.Field(&r.GitLink, validation.When(r.GitLink != nil && *r.GitLink != "", is.URL.Error("git_link must be a valid URL"))),
	)
}

// Sort keys accepted by the list and search operations. Every key maps to a
// strictly descending order on its column.
const (
	SortByCreatedAt = "createdAt"
	SortByViews     = "views"
	SortByLikes     = "likes"
)

var sortColumns = map[string]string{
	SortByCreatedAt: "created_at",
	SortByViews:     "view_count",
	SortByLikes:     "like_count",
}

// PageRequest is a validated zero-based page request with a resolved sort
// column.
type PageRequest struct {
	Page       int
	Size       int
	SortColumn string
}

// NewPageRequest validates page parameters and resolves the sort key.
// Unknown keys fail with ErrInvalidSearchCondition; non-positive sizes and
// negative pages fail fast rather than being passed through to the store.
func NewPageRequest(page, size int, sortBy string) (PageRequest, error) {
	if page < 0 {
		return PageRequest{}, NewInvalidPageRequestError("page must not be negative")
	}
	if size <= 0 {
		return PageRequest{}, NewInvalidPageRequestError("size must be positive")
	}

	column, ok := sortColumns[sortBy]
	if !ok {
		return PageRequest{}, NewInvalidSearchConditionError(sortBy)
	}

	return PageRequest{Page: page, Size: size, SortColumn: column}, nil
}

// Offset returns the row offset for the zero-based page index.
func (pr PageRequest) Offset() int {
	return pr.Page * pr.Size
}
