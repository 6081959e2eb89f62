package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domains/portfolio/model"
	skillmodel "portfolio-backend/internal/domains/skill/model"
	usermodel "portfolio-backend/internal/domains/user/model"
)

// --- Fakes ---

type fakePortfolioRepo struct {
	store map[uuid.UUID]*model.Portfolio

	likeDeltas []int64
	viewCalls  int
}

func newFakePortfolioRepo() *fakePortfolioRepo {
	return &fakePortfolioRepo{store: make(map[uuid.UUID]*model.Portfolio)}
}

func (r *fakePortfolioRepo) SaveAggregate(_ context.Context, p *model.Portfolio) error {
	cp := *p
	r.store[p.ID] = &cp
	return nil
}

func (r *fakePortfolioRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Portfolio, error) {
	p, ok := r.store[id]
	if !ok {
		return nil, model.ErrPortfolioNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePortfolioRepo) GetAll(_ context.Context) ([]*model.Portfolio, error) {
	var out []*model.Portfolio
	for _, p := range r.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePortfolioRepo) ListAll(_ context.Context, pr model.PageRequest) ([]*model.Portfolio, int, error) {
	var out []*model.Portfolio
	for _, p := range r.store {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		switch pr.SortColumn {
		case "view_count":
			return out[i].ViewCount > out[j].ViewCount
		case "like_count":
			return out[i].LikeCount > out[j].LikeCount
		default:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
	})

	total := len(out)
	start := pr.Offset()
	if start > total {
		start = total
	}
	end := start + pr.Size
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (r *fakePortfolioRepo) ListByOwner(_ context.Context, userID uuid.UUID, pr model.PageRequest) ([]*model.Portfolio, int, error) {
	var out []*model.Portfolio
	for _, p := range r.store {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *fakePortfolioRepo) SearchByOwnerName(_ context.Context, name string, pr model.PageRequest) ([]*model.Portfolio, int, error) {
	var out []*model.Portfolio
	for _, p := range r.store {
		if p.UserName == name {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *fakePortfolioRepo) SearchByTitle(_ context.Context, title string, pr model.PageRequest) ([]*model.Portfolio, int, error) {
	var out []*model.Portfolio
	for _, p := range r.store {
		if strings.Contains(strings.ToLower(p.Title), strings.ToLower(title)) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *fakePortfolioRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store[id]; !ok {
		return model.ErrPortfolioNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *fakePortfolioRepo) AdjustLikes(_ context.Context, id uuid.UUID, delta int64) error {
	p, ok := r.store[id]
	if !ok {
		return model.ErrPortfolioNotFound
	}
	p.LikeCount += delta
	r.likeDeltas = append(r.likeDeltas, delta)
	return nil
}

func (r *fakePortfolioRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	p, ok := r.store[id]
	if !ok {
		return model.ErrPortfolioNotFound
	}
	p.ViewCount++
	r.viewCalls++
	return nil
}

func (r *fakePortfolioRepo) ListAttachmentURLs(_ context.Context) ([]string, error) {
	var urls []string
	for _, p := range r.store {
		if p.Representative != nil {
			urls = append(urls, p.Representative.URL)
		}
		for _, img := range p.Images {
			urls = append(urls, img.URL)
		}
	}
	return urls, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*usermodel.User
}

func newFakeUserRepo(users ...*usermodel.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*usermodel.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*usermodel.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, usermodel.ErrUserNotFound
	}
	return u, nil
}

type fakeBlobStore struct {
	uploads  []string
	deletes  []string
	seq      int
	failNext error // applied to the next upload, then cleared
}

func (b *fakeBlobStore) Upload(_ context.Context, folder, filename string, _ []byte, _ string) (string, error) {
	if b.failNext != nil {
		err := b.failNext
		b.failNext = nil
		return "", err
	}
	b.seq++
	url := fmt.Sprintf("http://blobs/%s/%d_%s", folder, b.seq, filename)
	b.uploads = append(b.uploads, url)
	return url, nil
}

func (b *fakeBlobStore) Delete(_ context.Context, url string) error {
	b.deletes = append(b.deletes, url)
	return nil
}

type fakeCatalog struct {
	skills map[string]*skillmodel.Skill
}

func newFakeCatalog(names ...string) *fakeCatalog {
	c := &fakeCatalog{skills: make(map[string]*skillmodel.Skill)}
	for _, n := range names {
		c.skills[n] = &skillmodel.Skill{ID: uuid.New(), Name: n}
	}
	return c
}

func (c *fakeCatalog) FindByName(_ context.Context, name string) (*skillmodel.Skill, error) {
	s, ok := c.skills[name]
	if !ok {
		return nil, skillmodel.ErrSkillNotFound
	}
	return s, nil
}

type fakeGuard struct {
	first bool
	err   error
	calls int
}

func (g *fakeGuard) FirstViewToday(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	g.calls++
	return g.first, g.err
}

// --- Helpers ---

type fixture struct {
	repo    *fakePortfolioRepo
	users   *fakeUserRepo
	blobs   *fakeBlobStore
	catalog *fakeCatalog
	guard   *fakeGuard
	owner   *usermodel.User
	svc     PortfolioService
}

func newFixture(t *testing.T, guard *fakeGuard) *fixture {
	t.Helper()

	owner := &usermodel.User{ID: uuid.New(), Name: "alice"}
	f := &fixture{
		repo:    newFakePortfolioRepo(),
		users:   newFakeUserRepo(owner),
		blobs:   &fakeBlobStore{},
		catalog: newFakeCatalog("GO", "POSTGRES"),
		guard:   guard,
		owner:   owner,
	}

	var g ViewGuard
	if guard != nil {
		g = guard
	}
	f.svc = NewPortfolioService(f.repo, f.users, f.blobs, f.catalog, g)
	return f
}

func (f *fixture) seedPortfolio(t *testing.T, mutate func(*model.Portfolio)) *model.Portfolio {
	t.Helper()

	p := &model.Portfolio{
		ID:       uuid.New(),
		UserID:   f.owner.ID,
		UserName: f.owner.Name,
		Title:    "Demo",
	}
	if mutate != nil {
		mutate(p)
	}
	err := f.repo.SaveAggregate(context.Background(), p)
	require.NoError(t, err)
	return p
}

func strPtr(s string) *string { return &s }

// --- Create ---

func TestCreate_Success(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	req := model.CreatePortfolioRequest{
		Title:          "My Project",
		Skills:         []string{"go", "postgres", "GO"},
		Representative: &model.ImageUpload{Filename: "cover.png", Data: []byte("img")},
		Images: []model.ImageUpload{
			{Filename: "a.png", Data: []byte("a")},
			{Filename: "b.png", Data: []byte("b")},
		},
	}

	p, err := f.svc.Create(ctx, f.owner.ID, req)
	require.NoError(t, err)

	assert.Equal(t, "My Project", p.Title)
	assert.Equal(t, f.owner.Name, p.UserName)

	// duplicate and lowercase names collapse to two canonical skills
	assert.Len(t, p.Skills, 2)

	// one cover plus two gallery uploads, nothing deleted
	assert.Len(t, f.blobs.uploads, 3)
	assert.Empty(t, f.blobs.deletes)
	require.NotNil(t, p.Representative)
	assert.Len(t, p.Images, 2)

	saved, err := f.repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, saved.ID)
}

func TestCreate_UnknownOwnerIsPermissionDenied(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Create(context.Background(), uuid.New(), model.CreatePortfolioRequest{
		Title:  "X",
		Skills: []string{},
	})

	assert.ErrorIs(t, err, model.ErrNoPermission)
}

func TestCreate_NilSkillsFailsBeforeAnyUpload(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Create(context.Background(), f.owner.ID, model.CreatePortfolioRequest{
		Title:          "X",
		Skills:         nil,
		Representative: &model.ImageUpload{Filename: "cover.png", Data: []byte("img")},
	})

	assert.ErrorIs(t, err, model.ErrMissingSkills)
	assert.Empty(t, f.blobs.uploads)
}

func TestCreate_EmptySkillListIsValid(t *testing.T) {
	f := newFixture(t, nil)

	p, err := f.svc.Create(context.Background(), f.owner.ID, model.CreatePortfolioRequest{
		Title:  "X",
		Skills: []string{},
	})

	require.NoError(t, err)
	assert.Empty(t, p.Skills)
}

func TestCreate_UnknownSkillRejected(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Create(context.Background(), f.owner.ID, model.CreatePortfolioRequest{
		Title:  "X",
		Skills: []string{"COBOL"},
	})

	assert.ErrorIs(t, err, model.ErrUnknownSkill)
}

// --- Update ---

func TestUpdate_PatchesOnlySuppliedScalars(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.seedPortfolio(t, func(p *model.Portfolio) {
		p.Description = "old description"
	})

	updated, err := f.svc.Update(ctx, f.owner.ID, p.ID, model.UpdatePortfolioRequest{
		Title:  strPtr("New Title"),
		Skills: []string{"GO"},
	})
	require.NoError(t, err)

	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "old description", updated.Description)
	assert.Len(t, updated.Skills, 1)
}

func TestUpdate_AbsentMediaKeepsCurrentAttachments(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.seedPortfolio(t, func(p *model.Portfolio) {
		p.Representative = &model.RepresentativeAttachment{
			ID: uuid.New(), PortfolioID: p.ID, URL: "http://blobs/images/old_cover.png",
		}
	})

	updated, err := f.svc.Update(ctx, f.owner.ID, p.ID, model.UpdatePortfolioRequest{
		Skills: []string{},
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Representative)
	assert.Equal(t, "http://blobs/images/old_cover.png", updated.Representative.URL)
	assert.Empty(t, f.blobs.deletes)
}

func TestUpdate_ReplacingCoverDeletesOldBlobFirst(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.seedPortfolio(t, func(p *model.Portfolio) {
		p.Representative = &model.RepresentativeAttachment{
			ID: uuid.New(), PortfolioID: p.ID, URL: "http://blobs/images/old_cover.png",
		}
	})

	updated, err := f.svc.Update(ctx, f.owner.ID, p.ID, model.UpdatePortfolioRequest{
		Skills:         []string{},
		Representative: &model.ImageUpload{Filename: "new.png", Data: []byte("new")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"http://blobs/images/old_cover.png"}, f.blobs.deletes)
	require.NotNil(t, updated.Representative)
	assert.NotEqual(t, "http://blobs/images/old_cover.png", updated.Representative.URL)
}

func TestUpdate_NilSkillsFailsLeavingStoredStateUntouched(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.seedPortfolio(t, nil)

	_, err := f.svc.Update(ctx, f.owner.ID, p.ID, model.UpdatePortfolioRequest{
		Title:  strPtr("Should Not Stick"),
		Skills: nil,
	})
	assert.ErrorIs(t, err, model.ErrMissingSkills)

	stored, err := f.repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Demo", stored.Title)
}

func TestUpdate_ByNonOwnerForbidden(t *testing.T) {
	f := newFixture(t, nil)
	p := f.seedPortfolio(t, nil)

	stranger := &usermodel.User{ID: uuid.New(), Name: "mallory"}
	f.users.users[stranger.ID] = stranger

	_, err := f.svc.Update(context.Background(), stranger.ID, p.ID, model.UpdatePortfolioRequest{
		Skills: []string{},
	})
	assert.ErrorIs(t, err, model.ErrNoPermission)
}

func TestUpdate_MissingPortfolio(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Update(context.Background(), f.owner.ID, uuid.New(), model.UpdatePortfolioRequest{
		Skills: []string{},
	})
	assert.ErrorIs(t, err, model.ErrPortfolioNotFound)
}

// --- Delete ---

func TestDelete_OwnerOnly(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.seedPortfolio(t, nil)

	err := f.svc.Delete(ctx, uuid.New(), p.ID)
	assert.ErrorIs(t, err, model.ErrNoPermission)

	err = f.svc.Delete(ctx, f.owner.ID, p.ID)
	require.NoError(t, err)

	_, err = f.repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, model.ErrPortfolioNotFound)
}

func TestDelete_LeavesBlobsForTheSweep(t *testing.T) {
	f := newFixture(t, nil)
	p := f.seedPortfolio(t, func(p *model.Portfolio) {
		p.Representative = &model.RepresentativeAttachment{
			ID: uuid.New(), PortfolioID: p.ID, URL: "http://blobs/images/cover.png",
		}
	})

	err := f.svc.Delete(context.Background(), f.owner.ID, p.ID)
	require.NoError(t, err)

	assert.Empty(t, f.blobs.deletes)
}

// --- Queries ---

func TestFindAll_ReturnsSnapshot(t *testing.T) {
	f := newFixture(t, nil)
	f.seedPortfolio(t, nil)
	f.seedPortfolio(t, func(p *model.Portfolio) { p.Title = "Second" })

	portfolios, err := f.svc.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, portfolios, 2)
}

func TestListAll_SortsByRequestedKeyDescending(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedPortfolio(t, func(p *model.Portfolio) {
		p.Title = "oldest, most viewed"
		p.ViewCount = 30
		p.LikeCount = 1
		p.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	})
	f.seedPortfolio(t, func(p *model.Portfolio) {
		p.Title = "newest, most liked"
		p.ViewCount = 10
		p.LikeCount = 9
		p.CreatedAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	})
	f.seedPortfolio(t, func(p *model.Portfolio) {
		p.Title = "middle"
		p.ViewCount = 20
		p.LikeCount = 5
		p.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	})

	page, err := f.svc.ListAll(ctx, model.SortByViews, 0, 10)
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	assert.Equal(t, []int64{30, 20, 10}, []int64{
		page.Items[0].ViewCount, page.Items[1].ViewCount, page.Items[2].ViewCount,
	})

	page, err = f.svc.ListAll(ctx, model.SortByLikes, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "newest, most liked", page.Items[0].Title)

	page, err = f.svc.ListAll(ctx, model.SortByCreatedAt, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "newest, most liked", page.Items[0].Title)
	assert.Equal(t, "oldest, most viewed", page.Items[2].Title)
}

func TestListAll_Pages(t *testing.T) {
	f := newFixture(t, nil)
	for i := 0; i < 5; i++ {
		views := int64(i)
		f.seedPortfolio(t, func(p *model.Portfolio) { p.ViewCount = views })
	}

	page, err := f.svc.ListAll(context.Background(), model.SortByViews, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, 5, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Items[0].ViewCount)
	assert.Equal(t, int64(1), page.Items[1].ViewCount)
}

func TestListAll_EmptyPageIsNotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.ListAll(context.Background(), model.SortByCreatedAt, 0, 10)
	assert.ErrorIs(t, err, model.ErrPortfolioNotSearched)
}

func TestListAll_UnknownSortKeyRejected(t *testing.T) {
	f := newFixture(t, nil)
	f.seedPortfolio(t, nil)

	_, err := f.svc.ListAll(context.Background(), "price", 0, 10)
	assert.ErrorIs(t, err, model.ErrInvalidSearchCondition)
}

func TestListByOwner_EmptyPageIsNotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.ListByOwner(context.Background(), uuid.New(), model.SortByCreatedAt, 0, 10)
	assert.ErrorIs(t, err, model.ErrPortfolioNotSearched)
}

func TestListByOwner_InvalidPageFailsFast(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.ListByOwner(context.Background(), f.owner.ID, model.SortByCreatedAt, -1, 10)
	assert.ErrorIs(t, err, model.ErrInvalidPageRequest)

	_, err = f.svc.ListByOwner(context.Background(), f.owner.ID, model.SortByCreatedAt, 0, 0)
	assert.ErrorIs(t, err, model.ErrInvalidPageRequest)
}

func TestListByOwner_UnknownSortKeyRejected(t *testing.T) {
	f := newFixture(t, nil)
	f.seedPortfolio(t, nil)

	_, err := f.svc.ListByOwner(context.Background(), f.owner.ID, "price", 0, 10)
	assert.ErrorIs(t, err, model.ErrInvalidSearchCondition)
}

func TestSearch_ByTitleAndByUserName(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedPortfolio(t, func(p *model.Portfolio) { p.Title = "Go Backend" })
	f.seedPortfolio(t, func(p *model.Portfolio) { p.Title = "Rust CLI" })

	page, err := f.svc.Search(ctx, 0, 10, SearchByTitle, model.SortByCreatedAt, "backend")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	page, err = f.svc.Search(ctx, 0, 10, SearchByUserName, model.SortByCreatedAt, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestSearch_UnknownCategoryRejected(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Search(context.Background(), 0, 10, "description", model.SortByCreatedAt, "x")
	assert.ErrorIs(t, err, model.ErrInvalidSearchCondition)
}

func TestSearch_NoMatchIsNotFound(t *testing.T) {
	f := newFixture(t, nil)
	f.seedPortfolio(t, nil)

	_, err := f.svc.Search(context.Background(), 0, 10, SearchByTitle, model.SortByCreatedAt, "nothing-matches")
	assert.ErrorIs(t, err, model.ErrPortfolioNotSearched)
}

// --- Counters ---

func TestAdjustLikes_SignedDeltaNoFloor(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.seedPortfolio(t, nil)

	require.NoError(t, f.svc.AdjustLikes(ctx, p.ID, 3))
	require.NoError(t, f.svc.AdjustLikes(ctx, p.ID, -5))

	stored, err := f.repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), stored.LikeCount)
}

func TestAdjustLikes_MissingPortfolio(t *testing.T) {
	f := newFixture(t, nil)

	err := f.svc.AdjustLikes(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, model.ErrPortfolioNotFound)
}

func TestIncreaseViews_WithoutGuardAlwaysCounts(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.seedPortfolio(t, nil)

	require.NoError(t, f.svc.IncreaseViews(ctx, p.ID, "viewer-1"))
	require.NoError(t, f.svc.IncreaseViews(ctx, p.ID, "viewer-1"))

	assert.Equal(t, 2, f.repo.viewCalls)
}

func TestIncreaseViews_GuardSuppressesRepeatViews(t *testing.T) {
	guard := &fakeGuard{first: false}
	f := newFixture(t, guard)
	ctx := context.Background()
	p := f.seedPortfolio(t, nil)

	require.NoError(t, f.svc.IncreaseViews(ctx, p.ID, "viewer-1"))

	assert.Equal(t, 1, guard.calls)
	assert.Equal(t, 0, f.repo.viewCalls)
}

func TestIncreaseViews_GuardErrorFailsOpen(t *testing.T) {
	guard := &fakeGuard{err: errors.New("redis down")}
	f := newFixture(t, guard)
	ctx := context.Background()
	p := f.seedPortfolio(t, nil)

	require.NoError(t, f.svc.IncreaseViews(ctx, p.ID, "viewer-1"))

	assert.Equal(t, 1, f.repo.viewCalls)
}
