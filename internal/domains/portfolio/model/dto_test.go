package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageRequest_ResolvesSortColumns(t *testing.T) {
	cases := map[string]string{
		SortByCreatedAt: "created_at",
		SortByViews:     "view_count",
		SortByLikes:     "like_count",
	}

	for key, column := range cases {
		pr, err := NewPageRequest(0, 10, key)
		require.NoError(t, err)
		assert.Equal(t, column, pr.SortColumn)
	}
}

func TestNewPageRequest_RejectsUnknownSortKey(t *testing.T) {
	_, err := NewPageRequest(0, 10, "price")
	assert.ErrorIs(t, err, ErrInvalidSearchCondition)
}

func TestNewPageRequest_RejectsBadPaging(t *testing.T) {
	_, err := NewPageRequest(-1, 10, SortByCreatedAt)
	assert.ErrorIs(t, err, ErrInvalidPageRequest)

	_, err = NewPageRequest(0, 0, SortByCreatedAt)
	assert.ErrorIs(t, err, ErrInvalidPageRequest)

	_, err = NewPageRequest(0, -5, SortByCreatedAt)
	assert.ErrorIs(t, err, ErrInvalidPageRequest)
}

func TestPageRequest_Offset(t *testing.T) {
	pr, err := NewPageRequest(3, 20, SortByViews)
	require.NoError(t, err)
	assert.Equal(t, 60, pr.Offset())
}

func TestCreateRequest_Validate(t *testing.T) {
	req := CreatePortfolioRequest{Title: "My Project", GitLink: "https://github.com/alice/demo"}
	assert.NoError(t, req.Validate())

	req = CreatePortfolioRequest{}
	assert.Error(t, req.Validate())

	req = CreatePortfolioRequest{Title: "X", GitLink: "not a url"}
	assert.Error(t, req.Validate())
}

func TestImageUpload_IsEmpty(t *testing.T) {
	var nilUpload *ImageUpload
	assert.True(t, nilUpload.IsEmpty())
	assert.True(t, (&ImageUpload{Filename: "a.png"}).IsEmpty())
	assert.False(t, (&ImageUpload{Filename: "a.png", Data: []byte("x")}).IsEmpty())
}

func TestPortfolio_HasSkill(t *testing.T) {
	id := uuid.New()
	p := &Portfolio{Skills: []SkillLink{{SkillID: id, Name: "GO"}}}

	assert.True(t, p.HasSkill(id))
	assert.False(t, p.HasSkill(uuid.New()))
}

func TestStorageError_WrapsBothSentinelAndCause(t *testing.T) {
	cause := assert.AnError
	err := NewStorageError("upload", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeStorage, err.Code)
}
