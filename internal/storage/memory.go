package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Varun5711/contatos/internal/models"
	usermodel "github.com/Varun5711/contatos/internal/models/user"
	"github.com/google/uuid"
)

// MemoryStorage keeps contacts in process memory. It is used by tests and by
// the API when no database DSN is configured.
type MemoryStorage struct {
	mu       sync.RWMutex
	nextID   int64
	contacts map[int64]*models.Contact
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		nextID:   1,
		contacts: make(map[int64]*models.Contact),
	}
}

func (s *MemoryStorage) Create(ctx context.Context, in *models.ContactCreate) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	c := &models.Contact{
		ID:          s.nextID,
		Name:        in.Name,
		Phone:       in.Phone,
		Email:       in.Email,
		Group:       in.Group,
		Favorite:    in.Favorite,
		Notes:       in.Notes,
		CallHistory: in.CallHistory,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.contacts[c.ID] = c
	s.nextID++

	out := *c
	return &out, nil
}

func (s *MemoryStorage) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.contacts[id]
	if !exists {
		return nil, nil
	}

	out := *c
	return &out, nil
}

func (s *MemoryStorage) List(ctx context.Context, params models.ListParams) ([]*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(params.Search)

	matched := make([]*models.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Phone), search) &&
			!strings.Contains(strings.ToLower(c.Email), search) {
			continue
		}
		if params.Group != "" && c.Group != params.Group {
			continue
		}
		if params.Favorite != nil && c.Favorite != *params.Favorite {
			continue
		}
		out := *c
		matched = append(matched, &out)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID < matched[j].ID
	})

	if params.Offset < 0 {
		params.Offset = 0
	}
	if params.Offset >= len(matched) {
		return []*models.Contact{}, nil
	}
	matched = matched[params.Offset:]

	if params.Limit > 0 && params.Limit < len(matched) {
		matched = matched[:params.Limit]
	}

	return matched, nil
}

func (s *MemoryStorage) Update(ctx context.Context, id int64, u *models.ContactUpdate) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.contacts[id]
	if !exists {
		return nil, nil
	}

	u.Apply(c)
	c.UpdatedAt = time.Now().UTC()

	out := *c
	return &out, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contacts[id]; !exists {
		return false, nil
	}

	delete(s.contacts, id)
	return true, nil
}

type MemoryUserStorage struct {
	mu      sync.RWMutex
	byID    map[string]*usermodel.User
	byEmail map[string]string
}

func NewMemoryUserStorage() *MemoryUserStorage {
	return &MemoryUserStorage{
		byID:    make(map[string]*usermodel.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserStorage) CreateUser(ctx context.Context, name, email, passwordHash string) (*usermodel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return nil, ErrDuplicateEmail
	}

	now := time.Now().UTC()
	u := &usermodel.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byID[u.ID] = u
	s.byEmail[email] = u.ID

	out := *u
	return &out, nil
}

func (s *MemoryUserStorage) GetUserByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[email]
	if !exists {
		return nil, nil
	}

	out := *s.byID[id]
	return &out, nil
}

func (s *MemoryUserStorage) GetUserByID(ctx context.Context, userID string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.byID[userID]
	if !exists {
		return nil, nil
	}

	out := *u
	return &out, nil
}
