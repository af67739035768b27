package domain

import (
	"context"
	"strings"
	"sync"
	"time"

	emaildomain "photogram/core/email/domain"
	imagedomain "photogram/core/image/domain"
	roledomain "photogram/core/role/domain"
	"photogram/modules/entity"
)

// memUsers is an in-memory UserReadStore and UserWriteStore.
type memUsers struct {
	mu     sync.Mutex
	users  map[entity.ID]User
	nextID entity.ID
	err    error
}

func newMemUsers(seed ...User) *memUsers {
	m := &memUsers{users: map[entity.ID]User{}, nextID: 100}
	for _, u := range seed {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) ListUsers(context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, m.err
}

func (m *memUsers) find(match func(User) bool) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memUsers) GetUserByID(_ context.Context, id entity.ID) (*User, error) {
	return m.find(func(u User) bool { return u.ID == id })
}

func (m *memUsers) GetUserByUsername(_ context.Context, username string) (*User, error) {
	return m.find(func(u User) bool { return u.Username == username })
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*User, error) {
	return m.find(func(u User) bool { return strings.EqualFold(u.Email, email) })
}

func (m *memUsers) UpdateUser(_ context.Context, u User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.users[u.ID]
	if !ok {
		return nil, ErrUserNotFound
	}
	if cur.Version != u.Version {
		return nil, ErrPrecondition
	}
	for _, other := range m.users {
		if other.ID != u.ID && (other.Username == u.Username || other.Email == u.Email) {
			return nil, ErrDuplicateUser
		}
	}
	u.Version++
	m.users[u.ID] = u
	return &u, nil
}

func (m *memUsers) DeleteUser(_ context.Context, id entity.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) SetPassword(_ context.Context, id entity.ID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Password = hash
	m.users[id] = u
	return nil
}

func (m *memUsers) SetAvatar(_ context.Context, id entity.ID, imageID entity.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.AvatarImageID = imageID
	m.users[id] = u
	return nil
}

func (m *memUsers) WithTx(ctx context.Context, fn func(ctx context.Context, tx UserWriteTx) error) error {
	return fn(ctx, m)
}

func (m *memUsers) WithTimeoutTx(ctx context.Context, _ time.Duration, fn func(ctx context.Context, tx UserWriteTx) error) error {
	return fn(ctx, m)
}

func (m *memUsers) CreateUser(_ context.Context, u User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.users {
		if other.Username == u.Username || other.Email == u.Email {
			return nil, ErrDuplicateUser
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.users[u.ID] = u
	return &u, nil
}

func (m *memUsers) AssignRole(_ context.Context, userID, roleID entity.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[userID]
	u.Roles = append(u.Roles, roledomain.Role{ID: roleID, Name: roledomain.RoleUser})
	m.users[userID] = u
	return nil
}

type defaultRole struct{}

func (defaultRole) GetDefault(context.Context) (*roledomain.Role, error) {
	return &roledomain.Role{ID: 1, Name: roledomain.RoleUser}, nil
}

type recordingEmail struct {
	created   []emaildomain.Recipient
	passwords map[string]string
	confirmed string
}

func (e *recordingEmail) CreateEmailConfirmation(_ context.Context, r emaildomain.Recipient, _ bool) (*emaildomain.EmailConfirmation, error) {
	e.created = append(e.created, r)
	return &emaildomain.EmailConfirmation{UserID: r.UserID}, nil
}

func (e *recordingEmail) ResendEmailConfirmation(ctx context.Context, r emaildomain.Recipient) (*emaildomain.EmailConfirmation, error) {
	return e.CreateEmailConfirmation(ctx, r, true)
}

func (e *recordingEmail) SetEmailConfirmed(_ context.Context, token string) (*emaildomain.EmailConfirmation, error) {
	e.confirmed = token
	return &emaildomain.EmailConfirmation{Confirmed: true}, nil
}

func (e *recordingEmail) SendNewPassword(_ context.Context, r emaildomain.Recipient, password string) error {
	if e.passwords == nil {
		e.passwords = map[string]string{}
	}
	e.passwords[r.Email] = password
	return nil
}

type memImages struct {
	items map[entity.ID]imagedomain.Image
}

func (m *memImages) SaveImage(_ context.Context, owner entity.ID, data []byte) (*imagedomain.Image, error) {
	if len(data) == 0 {
		return nil, imagedomain.ErrInvalidData
	}
	img := imagedomain.Image{ID: entity.ID(len(m.items) + 1), OwnerID: owner, ContentType: "image/png", Data: data}
	m.items[img.ID] = img
	return &img, nil
}

func (m *memImages) GetImage(_ context.Context, id entity.ID) (*imagedomain.Image, error) {
	img, ok := m.items[id]
	if !ok {
		return nil, imagedomain.ErrImageNotFound
	}
	return &img, nil
}

// plainHasher keeps tests fast; bcrypt has its own test.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (plainHasher) Compare(hash, plain string) error {
	if hash != "hashed:"+plain {
		return ErrBadCredentials
	}
	return nil
}

type fixture struct {
	app    *Application
	users  *memUsers
	email  *recordingEmail
	images *memImages
}

func newFixture(seed ...User) fixture {
	f := fixture{
		users:  newMemUsers(seed...),
		email:  &recordingEmail{},
		images: &memImages{items: map[entity.ID]imagedomain.Image{}},
	}
	f.app = NewApp(Dependencies{
		Reader: f.users,
		Writer: f.users,
		Roles:  defaultRole{},
		Email:  f.email,
		Images: f.images,
		Hasher: plainHasher{},
	})
	return f
}
