package rest

import (
	"context"
	"slices"
	"sync"
	"time"

	imagedomain "photogram/core/image/domain"
	"photogram/core/post/domain"
	userdomain "photogram/core/user/domain"
	"photogram/modules/entity"
)

// memStore keeps posts in insertion order; ids grow with creation time.
type memStore struct {
	mu       sync.Mutex
	posts    []domain.Post
	comments []domain.Comment
	likes    map[entity.ID]map[entity.ID]bool
	next     entity.ID
}

func newMemStore() *memStore {
	return &memStore{likes: map[entity.ID]map[entity.ID]bool{}}
}

func (m *memStore) find(id entity.ID) int {
	return slices.IndexFunc(m.posts, func(p domain.Post) bool { return p.ID == id })
}

func (m *memStore) ListPosts(_ context.Context, q domain.PostQuery) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Post
	for i := len(m.posts) - 1; i >= 0; i-- {
		p := m.posts[i]
		switch {
		case !q.IncludePrivate && p.Visibility != domain.Public && p.UserID != q.ViewerID,
			!q.AuthorID.IsNew() && p.UserID != q.AuthorID,
			q.After != nil && p.ID >= q.After.ID:
			continue
		}
		p.Likes = int64(len(m.likes[p.ID]))
		out = append(out, p)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) GetPost(_ context.Context, id entity.ID) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(id)
	if i < 0 {
		return nil, domain.ErrPostNotFound
	}
	p := m.posts[i]
	p.Likes = int64(len(m.likes[id]))
	return &p, nil
}

func (m *memStore) ListComments(_ context.Context, postIDs ...entity.ID) (map[entity.ID][]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[entity.ID][]domain.Comment{}
	for _, c := range m.comments {
		if slices.Contains(postIDs, c.PostID) {
			out[c.PostID] = append(out[c.PostID], c)
		}
	}
	return out, nil
}

func (m *memStore) GetComment(_ context.Context, id entity.ID) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.comments {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, domain.ErrCommentNotFound
}

func (m *memStore) CreatePost(_ context.Context, p domain.Post) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	p.ID = m.next
	p.Version = 1
	p.CreationDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(p.ID) * time.Minute)
	m.posts = append(m.posts, p)
	return &p, nil
}

func (m *memStore) UpdatePost(_ context.Context, p domain.Post) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(p.ID)
	if i < 0 || m.posts[i].Version != p.Version {
		return nil, domain.ErrPrecondition
	}
	p.Version++
	m.posts[i] = p
	return &p, nil
}

func (m *memStore) DeletePost(_ context.Context, id entity.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(id)
	if i < 0 {
		return domain.ErrPostNotFound
	}
	m.posts = slices.Delete(m.posts, i, i+1)
	return nil
}

func (m *memStore) AddLike(_ context.Context, postID, userID entity.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.likes[postID] == nil {
		m.likes[postID] = map[entity.ID]bool{}
	}
	m.likes[postID][userID] = true
	return nil
}

func (m *memStore) RemoveLike(_ context.Context, postID, userID entity.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.likes[postID], userID)
	return nil
}

func (m *memStore) CreateComment(_ context.Context, c domain.Comment) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	c.ID = m.next
	m.comments = append(m.comments, c)
	return &c, nil
}

func (m *memStore) DeleteComment(_ context.Context, id entity.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.comments, func(c domain.Comment) bool { return c.ID == id })
	if i < 0 {
		return domain.ErrCommentNotFound
	}
	m.comments = slices.Delete(m.comments, i, i+1)
	return nil
}

type ownedImages map[entity.ID]entity.ID

func (o ownedImages) GetImage(_ context.Context, id entity.ID) (*imagedomain.Image, error) {
	owner, ok := o[id]
	if !ok {
		return nil, imagedomain.ErrImageNotFound
	}
	return &imagedomain.Image{ID: id, OwnerID: owner}, nil
}

type knownUsers map[entity.ID]string

func (k knownUsers) GetUserByID(_ context.Context, id entity.ID) (*userdomain.User, error) {
	name, ok := k[id]
	if !ok {
		return nil, userdomain.ErrUserNotFound
	}
	return &userdomain.User{ID: id, Username: name}, nil
}
