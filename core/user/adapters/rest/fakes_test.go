package rest

import (
	"context"
	"sync"
	"time"

	emaildomain "photogram/core/email/domain"
	imagedomain "photogram/core/image/domain"
	roledomain "photogram/core/role/domain"
	"photogram/core/user/domain"
	"photogram/modules/entity"
)

type memUsers struct {
	mu    sync.Mutex
	users map[entity.ID]domain.User
	next  entity.ID
}

func (m *memUsers) ListUsers(context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.users))
	for id := entity.ID(1); id <= m.next; id++ {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) find(match func(domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) GetUserByID(_ context.Context, id entity.ID) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.ID == id })
}

func (m *memUsers) GetUserByUsername(_ context.Context, name string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Username == name })
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Email == email })
}

func (m *memUsers) UpdateUser(_ context.Context, u domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.users[u.ID]
	if !ok || cur.Version != u.Version {
		return nil, domain.ErrPrecondition
	}
	u.Version++
	m.users[u.ID] = u
	return &u, nil
}

func (m *memUsers) DeleteUser(_ context.Context, id entity.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) SetPassword(_ context.Context, id entity.ID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	u.Password = hash
	m.users[id] = u
	return nil
}

func (m *memUsers) SetAvatar(_ context.Context, id, imageID entity.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	u.AvatarImageID = imageID
	m.users[id] = u
	return nil
}

func (m *memUsers) WithTx(ctx context.Context, fn func(context.Context, domain.UserWriteTx) error) error {
	return fn(ctx, m)
}

func (m *memUsers) WithTimeoutTx(ctx context.Context, _ time.Duration, fn func(context.Context, domain.UserWriteTx) error) error {
	return fn(ctx, m)
}

func (m *memUsers) CreateUser(_ context.Context, u domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.users {
		if other.Username == u.Username || other.Email == u.Email {
			return nil, domain.ErrDuplicateUser
		}
	}
	m.next++
	u.ID = m.next
	u.Version = 1
	m.users[u.ID] = u
	return &u, nil
}

func (m *memUsers) AssignRole(context.Context, entity.ID, entity.ID) error { return nil }

type defaultRole struct{}

func (defaultRole) GetDefault(context.Context) (*roledomain.Role, error) {
	return &roledomain.Role{ID: 1, Name: roledomain.RoleUser}, nil
}

type nopEmail struct{ resent int }

func (e *nopEmail) CreateEmailConfirmation(_ context.Context, r emaildomain.Recipient, _ bool) (*emaildomain.EmailConfirmation, error) {
	return &emaildomain.EmailConfirmation{UserID: r.UserID}, nil
}

func (e *nopEmail) ResendEmailConfirmation(_ context.Context, r emaildomain.Recipient) (*emaildomain.EmailConfirmation, error) {
	e.resent++
	return &emaildomain.EmailConfirmation{UserID: r.UserID}, nil
}

func (e *nopEmail) SetEmailConfirmed(_ context.Context, token string) (*emaildomain.EmailConfirmation, error) {
	if token != "good" {
		return nil, emaildomain.ErrConfirmationNotFound
	}
	return &emaildomain.EmailConfirmation{UserID: 1, Confirmed: true}, nil
}

func (e *nopEmail) SendNewPassword(context.Context, emaildomain.Recipient, string) error { return nil }

type memImageStore struct{ items map[entity.ID]imagedomain.Image }

func (m *memImageStore) GetImage(_ context.Context, id entity.ID) (*imagedomain.Image, error) {
	img, ok := m.items[id]
	if !ok {
		return nil, imagedomain.ErrImageNotFound
	}
	return &img, nil
}

func (m *memImageStore) CreateImage(_ context.Context, img imagedomain.Image) (*imagedomain.Image, error) {
	img.ID = entity.ID(len(m.items) + 1)
	m.items[img.ID] = img
	return &img, nil
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func (plainHasher) Compare(hash, p string) error {
	if hash != "hashed:"+p {
		return domain.ErrBadCredentials
	}
	return nil
}
