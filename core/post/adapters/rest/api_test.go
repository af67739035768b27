package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"photogram/core/post/domain"
	roledomain "photogram/core/role/domain"
	userdomain "photogram/core/user/domain"
	"photogram/modules/auth"
	"photogram/modules/hmac"
	"photogram/modules/mapper"
	"photogram/modules/middleware/problem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = &auth.Principal{UserID: 1, Username: "alice", Roles: []string{roledomain.RoleUser}}
	bob   = &auth.Principal{UserID: 2, Username: "bobby", Roles: []string{roledomain.RoleUser}}
	mod   = &auth.Principal{UserID: 3, Username: "mod", Roles: []string{roledomain.RoleModerator}}
)

type harness struct {
	mux     *http.ServeMux
	store   *memStore
	mappers *mapper.Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	signer, err := hmac.NewHMACSigner([]byte("cursor-key"))
	require.NoError(t, err)

	store := newMemStore()
	app := domain.NewApp(store, store, ownedImages{10: 1, 11: 1, 12: 1, 20: 2}, signer)

	comments := NewCommentMapper()
	svc, err := mapper.NewService(comments, NewPostMapper(comments, knownUsers{1: "alice", 2: "bobby"}))
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewPostAPI(app, svc).Routes(mux)
	return &harness{mux: mux, store: store, mappers: svc}
}

func (h *harness) do(method, path, body string, p *auth.Principal, headers ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, path, rd)
	r.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		r.Header.Set(headers[i], headers[i+1])
	}
	if p != nil {
		r = r.WithContext(auth.WithPrincipal(r.Context(), *p))
	}
	rec := httptest.NewRecorder()
	h.mux.ServeHTTP(rec, r)
	return rec
}

func (h *harness) create(t *testing.T, p *auth.Principal, image int64, visibility string) PostDto {
	t.Helper()
	body := fmt.Sprintf(`{"caption":"post on %d","imageId":%d,"visibility":%q}`, image, image, visibility)
	rec := h.do(http.MethodPost, "/posts", body, p)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[PostDto](t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCreatePost(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/posts", `{"caption":"  sunset ","location":"Lisbon","imageId":10}`, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/posts/1", rec.Header().Get("Location"))
	assert.Equal(t, `"v:1"`, rec.Header().Get("ETag"))

	dto := decode[PostDto](t, rec)
	assert.Equal(t, "sunset", dto.Caption)
	assert.Equal(t, "PUBLIC", dto.Visibility)
	assert.EqualValues(t, 1, dto.UserID)
	assert.NotNil(t, dto.Comments)
}

func TestCreatePost_Refused(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/posts", `{"imageId":10}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodPost, "/posts", `{"imageId":20}`, alice)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	prob := decode[problem.Problem](t, rec)
	require.NotEmpty(t, prob.InvalidParams)
	assert.Equal(t, "imageId", prob.InvalidParams[0].Name)

	rec = h.do(http.MethodPost, "/posts", `{"imageId":10,"visibility":"FRIENDS"}`, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/posts", `{"imageId":10,"unknown":true}`, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPosts_Pages(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	for _, img := range []int64{10, 11, 12} {
		h.create(t, alice, img, "PUBLIC")
	}

	rec := h.do(http.MethodGet, "/posts?limit=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[PageDto](t, rec)
	require.Len(t, first.Data, 2)
	assert.EqualValues(t, 3, first.Data[0].ID)
	require.NotEmpty(t, first.Next)

	rec = h.do(http.MethodGet, "/posts?limit=2&cursor="+first.Next, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[PageDto](t, rec)
	require.Len(t, second.Data, 1)
	assert.EqualValues(t, 1, second.Data[0].ID)
	assert.Empty(t, second.Next)

	rec = h.do(http.MethodGet, "/posts?cursor=forged", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodGet, "/posts?limit=-1", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPrivatePosts(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	public := h.create(t, alice, 10, "PUBLIC")
	private := h.create(t, alice, 11, "PRIVATE")

	rec := h.do(http.MethodGet, "/posts", "", bob)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[PageDto](t, rec)
	require.Len(t, page.Data, 1)
	assert.Equal(t, public.ID, page.Data[0].ID)

	path := fmt.Sprintf("/posts/%d", private.ID)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, path, "", bob).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, path, "", alice).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, path, "", mod).Code)

	rec = h.do(http.MethodGet, "/users/1/posts", "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]PostDto](t, rec), 2)

	rec = h.do(http.MethodGet, "/users/1/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]PostDto](t, rec), 1)
}

func TestUpdatePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		actor   *auth.Principal
		body    string
		ifMatch string
		status  int
	}{
		{"anonymous", nil, `{"caption":"x"}`, "", http.StatusUnauthorized},
		{"not the author", bob, `{"caption":"x"}`, "", http.StatusForbidden},
		{"empty body", alice, `{}`, "", http.StatusBadRequest},
		{"null visibility", alice, `{"visibility":null}`, "", http.StatusBadRequest},
		{"bad visibility", alice, `{"visibility":"HIDDEN"}`, "", http.StatusBadRequest},
		{"bad etag", alice, `{"caption":"x"}`, "v1", http.StatusBadRequest},
		{"stale etag", alice, `{"caption":"x"}`, `"v:7"`, http.StatusPreconditionFailed},
		{"ok", alice, `{"caption":"new","location":null,"visibility":"PRIVATE"}`, `"v:1"`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t)
			h.do(http.MethodPost, "/posts", `{"caption":"old","location":"Porto","imageId":10}`, alice)

			var headers []string
			if tt.ifMatch != "" {
				headers = []string{"If-Match", tt.ifMatch}
			}
			rec := h.do(http.MethodPut, "/posts/1", tt.body, tt.actor, headers...)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			switch tt.status {
			case http.StatusPreconditionFailed:
				assert.Equal(t, `"v:1"`, rec.Header().Get("ETag"))
			case http.StatusOK:
				dto := decode[PostDto](t, rec)
				assert.Equal(t, "new", dto.Caption)
				assert.Empty(t, dto.Location)
				assert.Equal(t, "PRIVATE", dto.Visibility)
				assert.EqualValues(t, 2, dto.Version)
			}
		})
	}
}

func TestDeletePost(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.create(t, alice, 10, "PUBLIC")
	h.create(t, alice, 11, "PUBLIC")

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodDelete, "/posts/1", "", bob).Code)

	rec := h.do(http.MethodDelete, "/posts/1", "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[DeletedDto](t, rec).ID)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/posts/1", "", alice).Code)

	assert.Equal(t, http.StatusOK, h.do(http.MethodDelete, "/posts/2", "", mod).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodDelete, "/posts/abc", "", alice).Code)
}

func TestLikes(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.create(t, alice, 10, "PUBLIC")

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/posts/1/likes", "", nil).Code)

	for range 2 {
		rec := h.do(http.MethodPost, "/posts/1/likes", "", bob)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 1, decode[PostDto](t, rec).LikesCount)
	}

	rec := h.do(http.MethodPost, "/posts/1/likes", "", alice)
	assert.EqualValues(t, 2, decode[PostDto](t, rec).LikesCount)

	rec = h.do(http.MethodDelete, "/posts/1/likes", "", bob)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[PostDto](t, rec).LikesCount)

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPost, "/posts/9/likes", "", bob).Code)
}

func TestComments(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.create(t, alice, 10, "PUBLIC")

	rec := h.do(http.MethodPost, "/posts/1/comments", `{"content":"nice shot"}`, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[CommentDto](t, rec)
	assert.Equal(t, "nice shot", created.Content)
	assert.Equal(t, fmt.Sprintf("/posts/1/comments/%d", created.ID), rec.Header().Get("Location"))

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/posts/1/comments", `{"content":"  "}`, alice).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/posts/1/comments", `{"content":"hi"}`, nil).Code)

	rec = h.do(http.MethodGet, "/posts/1/comments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]CommentDto](t, rec), 1)

	rec = h.do(http.MethodGet, "/posts/1", "", nil)
	require.Len(t, decode[PostDto](t, rec).Comments, 1)

	path := fmt.Sprintf("/posts/1/comments/%d", created.ID)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodDelete, path, "", bob).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodDelete, path, "", mod).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, path, "", alice).Code)

	rec = h.do(http.MethodGet, "/posts/1/comments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestPostMapper_Backward(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	p, err := mapper.To[domain.Post](ctx, h.mappers, PostDto{
		ID: 4, UserID: 2, Visibility: "PUBLIC",
		Comments: []CommentDto{{ID: 1, PostID: 4, UserID: 1, Content: "hey"}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.UserID)
	require.Len(t, p.Comments, 1)
	assert.Equal(t, "hey", p.Comments[0].Content)

	_, err = mapper.To[domain.Post](ctx, h.mappers, PostDto{ID: 4, UserID: 42})
	require.ErrorIs(t, err, userdomain.ErrUserNotFound)
}

func TestCreatePost_UnknownAuthor(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	// a valid token whose account no longer exists
	ghost := &auth.Principal{UserID: 99, Username: "ghost", Roles: []string{roledomain.RoleUser}}

	rec := h.do(http.MethodPost, "/posts", `{"caption":"hi","imageId":10}`, ghost)
	require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	assert.Equal(t, problem.ContentType, rec.Header().Get("Content-Type"))
	assert.Empty(t, h.store.posts)

	post := h.create(t, alice, 10, "PUBLIC")
	rec = h.do(http.MethodPost, fmt.Sprintf("/posts/%d/comments", post.ID), `{"content":"hello"}`, ghost)
	require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "user not found")
	assert.Empty(t, h.store.comments)
}
