package domain

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	imagedomain "photogram/core/image/domain"
	roledomain "photogram/core/role/domain"
	"photogram/modules/auth"
	"photogram/modules/entity"
	"photogram/modules/hmac"
	"photogram/modules/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type memPosts struct {
	mu       sync.Mutex
	posts    map[entity.ID]Post
	comments map[entity.ID]Comment
	likes    map[[2]entity.ID]struct{}
	nextID   entity.ID
	err      error
}

func newMemPosts() *memPosts {
	return &memPosts{
		posts:    map[entity.ID]Post{},
		comments: map[entity.ID]Comment{},
		likes:    map[[2]entity.ID]struct{}{},
	}
}

func (m *memPosts) withLikes(p Post) Post {
	p.Likes = 0
	for k := range m.likes {
		if k[0] == p.ID {
			p.Likes++
		}
	}
	return p
}

func (m *memPosts) ListPosts(_ context.Context, q PostQuery) ([]Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	var out []Post
	for _, p := range m.posts {
		if !q.IncludePrivate && p.Visibility != Public && p.UserID != q.ViewerID {
			continue
		}
		if !q.AuthorID.IsNew() && p.UserID != q.AuthorID {
			continue
		}
		if q.After != nil && !(p.CreationDate.Before(q.After.CreationDate) ||
			(p.CreationDate.Equal(q.After.CreationDate) && p.ID < q.After.ID)) {
			continue
		}
		out = append(out, m.withLikes(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreationDate.Equal(out[j].CreationDate) {
			return out[i].CreationDate.After(out[j].CreationDate)
		}
		return out[i].ID > out[j].ID
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memPosts) GetPost(_ context.Context, id entity.ID) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	p = m.withLikes(p)
	return &p, nil
}

func (m *memPosts) ListComments(_ context.Context, postIDs ...entity.ID) (map[entity.ID][]Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[entity.ID][]Comment{}
	for _, id := range postIDs {
		for _, c := range m.comments {
			if c.PostID == id {
				out[id] = append(out[id], c)
			}
		}
		sort.Slice(out[id], func(i, j int) bool { return out[id][i].ID < out[id][j].ID })
	}
	return out, nil
}

func (m *memPosts) GetComment(_ context.Context, id entity.ID) (*Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, ErrCommentNotFound
	}
	return &c, nil
}

func (m *memPosts) CreatePost(_ context.Context, p Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	p.Version = 1
	p.CreationDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(p.ID) * time.Minute)
	m.posts[p.ID] = p
	return &p, nil
}

func (m *memPosts) UpdatePost(_ context.Context, p Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.posts[p.ID]
	if !ok || cur.Version != p.Version {
		return nil, ErrPrecondition
	}
	p.Version++
	m.posts[p.ID] = p
	return &p, nil
}

func (m *memPosts) DeletePost(_ context.Context, id entity.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.posts, id)
	return nil
}

func (m *memPosts) AddLike(_ context.Context, postID, userID entity.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.likes[[2]entity.ID{postID, userID}] = struct{}{}
	return nil
}

func (m *memPosts) RemoveLike(_ context.Context, postID, userID entity.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.likes, [2]entity.ID{postID, userID})
	return nil
}

func (m *memPosts) CreateComment(_ context.Context, c Comment) (*Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	m.comments[c.ID] = c
	return &c, nil
}

func (m *memPosts) DeleteComment(_ context.Context, id entity.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.comments, id)
	return nil
}

type images map[entity.ID]entity.ID // image id -> owner

func (im images) GetImage(_ context.Context, id entity.ID) (*imagedomain.Image, error) {
	owner, ok := im[id]
	if !ok {
		return nil, imagedomain.ErrImageNotFound
	}
	return &imagedomain.Image{ID: id, OwnerID: owner}, nil
}

var (
	alice     = auth.Principal{UserID: 1, Username: "alice", Roles: []string{roledomain.RoleUser}}
	bob       = auth.Principal{UserID: 2, Username: "bobby", Roles: []string{roledomain.RoleUser}}
	moderator = auth.Principal{UserID: 3, Username: "mod", Roles: []string{roledomain.RoleModerator}}
	anonymous = auth.Principal{}
)

type fixture struct {
	app   *Application
	store *memPosts
	clock *fixedClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	signer, err := hmac.NewHMACSigner([]byte("cursor-key"))
	require.NoError(t, err)

	store := newMemPosts()
	clk := &fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	imgs := images{10: 1, 11: 1, 20: 2}
	return fixture{
		app:   NewApp(store, store, imgs, signer, WithClock(clk), WithCursorTTL(time.Minute)),
		store: store,
		clock: clk,
	}
}

func (f fixture) post(t *testing.T, actor auth.Principal, image entity.ID, vis Visibility) *Post {
	t.Helper()
	p, err := f.app.CreatePost(context.Background(), actor, NewPost{Caption: "hi", ImageID: image, Visibility: vis})
	require.NoError(t, err)
	return p
}

func TestCreatePost(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	p, err := f.app.CreatePost(context.Background(), alice, NewPost{Caption: "  sunset ", Location: "Gdansk", ImageID: 10})
	require.NoError(t, err)
	assert.Equal(t, "sunset", p.Caption)
	assert.Equal(t, Public, p.Visibility)
	assert.Equal(t, alice.UserID, p.UserID)
	assert.NotNil(t, p.Comments)
}

func TestCreatePost_Invalid(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    NewPost
		field string
	}{
		{name: "no image", in: NewPost{Caption: "x"}, field: "imageID"},
		{name: "unknown image", in: NewPost{ImageID: 99}, field: "imageId"},
		{name: "foreign image", in: NewPost{ImageID: 20}, field: "imageId"},
		{name: "bad visibility", in: NewPost{ImageID: 10, Visibility: "FRIENDS"}, field: "visibility"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.app.CreatePost(ctx, alice, tt.in)
			require.ErrorIs(t, err, ErrInvalidData)
			var verr *validate.Error
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}

	_, err := f.app.CreatePost(ctx, anonymous, NewPost{ImageID: 10})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestGetPost_Visibility(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	private := f.post(t, alice, 10, Private)

	for _, viewer := range []auth.Principal{alice, moderator} {
		p, err := f.app.GetPost(ctx, viewer, private.ID)
		require.NoError(t, err)
		assert.Equal(t, private.ID, p.ID)
	}
	for _, viewer := range []auth.Principal{bob, anonymous} {
		_, err := f.app.GetPost(ctx, viewer, private.ID)
		require.ErrorIs(t, err, ErrPostNotFound)
	}
	_, err := f.app.GetPost(ctx, alice, 0)
	require.ErrorIs(t, err, ErrInvalidData)
}

func TestListPosts_Pagination(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	var ids []entity.ID
	for range 5 {
		ids = append(ids, f.post(t, alice, 10, Public).ID)
	}
	f.post(t, bob, 20, Private)

	page, err := f.app.ListPosts(ctx, anonymous, "", 2)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, []entity.ID{ids[4], ids[3]}, []entity.ID{page.Posts[0].ID, page.Posts[1].ID})
	require.NotEmpty(t, page.Next)

	page, err = f.app.ListPosts(ctx, anonymous, page.Next, 2)
	require.NoError(t, err)
	assert.Equal(t, []entity.ID{ids[2], ids[1]}, []entity.ID{page.Posts[0].ID, page.Posts[1].ID})

	page, err = f.app.ListPosts(ctx, anonymous, page.Next, 2)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Empty(t, page.Next)

	all, err := f.app.ListPosts(ctx, bob, "", 0)
	require.NoError(t, err)
	assert.Len(t, all.Posts, 6)
}

func TestListPosts_BadCursor(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	for range 3 {
		f.post(t, alice, 10, Public)
	}

	_, err := f.app.ListPosts(ctx, anonymous, "garbage", 1)
	require.ErrorIs(t, err, ErrInvalidCursor)

	page, err := f.app.ListPosts(ctx, anonymous, "", 1)
	require.NoError(t, err)
	f.clock.now = f.clock.now.Add(2 * time.Minute)
	_, err = f.app.ListPosts(ctx, anonymous, page.Next, 1)
	require.ErrorIs(t, err, ErrInvalidCursor)

	_, err = f.app.ListPosts(ctx, anonymous, "", -1)
	require.ErrorIs(t, err, ErrInvalidData)
}

func TestListUserPosts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.post(t, alice, 10, Public)
	f.post(t, alice, 11, Private)
	f.post(t, bob, 20, Public)

	own, err := f.app.ListUserPosts(ctx, alice, alice.UserID)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	seen, err := f.app.ListUserPosts(ctx, bob, alice.UserID)
	require.NoError(t, err)
	assert.Len(t, seen, 1)
}

func TestUpdatePost(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, alice, 10, Public)

	caption := "edited"
	vis := Private
	updated, err := f.app.UpdatePost(ctx, alice, p.ID, PostChanges{Caption: &caption, Visibility: &vis, ExpectedVersion: 1})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Caption)
	assert.Equal(t, Private, updated.Visibility)
	assert.Equal(t, int64(2), updated.Version)

	_, err = f.app.UpdatePost(ctx, alice, p.ID, PostChanges{Caption: &caption, ExpectedVersion: 1})
	require.ErrorIs(t, err, ErrPrecondition)

	_, err = f.app.UpdatePost(ctx, moderator, p.ID, PostChanges{Caption: &caption})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.app.UpdatePost(ctx, bob, p.ID, PostChanges{Caption: &caption})
	require.ErrorIs(t, err, ErrPostNotFound)

	_, err = f.app.UpdatePost(ctx, alice, p.ID, PostChanges{})
	require.ErrorIs(t, err, ErrInvalidData)
}

func TestDeletePost(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	a := f.post(t, alice, 10, Public)
	b := f.post(t, alice, 11, Public)

	require.ErrorIs(t, f.app.DeletePost(ctx, bob, a.ID), ErrForbidden)
	require.NoError(t, f.app.DeletePost(ctx, alice, a.ID))
	require.NoError(t, f.app.DeletePost(ctx, moderator, b.ID))
	require.ErrorIs(t, f.app.DeletePost(ctx, alice, a.ID), ErrPostNotFound)
}

func TestLikes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, alice, 10, Public)

	got, err := f.app.LikePost(ctx, bob, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Likes)

	got, err = f.app.LikePost(ctx, bob, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Likes, "likes are idempotent per user")

	got, err = f.app.LikePost(ctx, alice, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Likes)

	got, err = f.app.UnlikePost(ctx, bob, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Likes)

	_, err = f.app.LikePost(ctx, anonymous, p.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestComments(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, alice, 10, Public)

	none, err := f.app.ListComments(ctx, anonymous, p.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)

	c, err := f.app.AddComment(ctx, bob, p.ID, NewComment{Content: "  nice  "})
	require.NoError(t, err)
	assert.Equal(t, "nice", c.Content)

	_, err = f.app.AddComment(ctx, bob, p.ID, NewComment{Content: "   "})
	require.ErrorIs(t, err, ErrInvalidData)

	withComments, err := f.app.GetPost(ctx, anonymous, p.ID)
	require.NoError(t, err)
	require.Len(t, withComments.Comments, 1)

	require.ErrorIs(t, f.app.DeleteComment(ctx, alice, p.ID, c.ID), ErrForbidden)
	require.ErrorIs(t, f.app.DeleteComment(ctx, bob, p.ID+100, c.ID), ErrPostNotFound)
	require.NoError(t, f.app.DeleteComment(ctx, bob, p.ID, c.ID))
	require.ErrorIs(t, f.app.DeleteComment(ctx, moderator, p.ID, c.ID), ErrCommentNotFound)
}

func TestListPosts_StoreFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.store.err = errors.New("connection reset")

	_, err := f.app.ListPosts(context.Background(), anonymous, "", 10)
	require.ErrorIs(t, err, ErrUnhandled)
}
