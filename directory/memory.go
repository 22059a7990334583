package directory

import (
	"context"
	"sort"
	"sync"

	authlink "github.com/ebbhq/authlink"
)

// Memory is a map-backed Directory safe for concurrent use. Intended for
// tests and single-process demos; nothing persists past the process.
type Memory struct {
	mu    sync.RWMutex
	users map[string]authlink.User
}

// NewMemory returns an empty in-memory directory.
func NewMemory() *Memory {
	return &Memory{
		users: make(map[string]authlink.User),
	}
}

func (m *Memory) GetByEmail(_ context.Context, email string) (*authlink.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[email]
	if !ok {
		return nil, nil
	}

	user.Roles = user.Roles.Clone()
	return &user, nil
}

func (m *Memory) List(_ context.Context) ([]authlink.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]authlink.User, 0, len(m.users))
	for _, user := range m.users {
		user.Roles = user.Roles.Clone()
		users = append(users, user)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].Email < users[j].Email
	})

	return users, nil
}

func (m *Memory) Create(_ context.Context, u authlink.User) (*authlink.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[u.Email]; exists {
		return nil, authlink.ErrUserExists
	}

	u.Roles = authlink.NewRoleSet(u.Roles...)
	m.users[u.Email] = u

	created := u
	created.Roles = created.Roles.Clone()
	return &created, nil
}

func (m *Memory) Patch(_ context.Context, email string, patch authlink.UserPatch) (*authlink.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[email]
	if !ok {
		return nil, authlink.ErrUserNotFound
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Roles != nil {
		user.Roles = authlink.NewRoleSet(*patch.Roles...)
	}
	if patch.Email != nil && *patch.Email != email {
		if _, exists := m.users[*patch.Email]; exists {
			return nil, authlink.ErrUserExists
		}
		delete(m.users, email)
		user.Email = *patch.Email
	}

	m.users[user.Email] = user

	patched := user
	patched.Roles = patched.Roles.Clone()
	return &patched, nil
}

func (m *Memory) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[email]; !ok {
		return authlink.ErrUserNotFound
	}

	delete(m.users, email)
	return nil
}
