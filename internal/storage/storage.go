package storage

import (
	"context"
	"errors"

	"github.com/Varun5711/contatos/internal/models"
	usermodel "github.com/Varun5711/contatos/internal/models/user"
)

var ErrDuplicateEmail = errors.New("email already registered")

// ContactStorage is the repository behind the contact service. Lookups of a
// missing id return (nil, nil).
type ContactStorage interface {
	Create(ctx context.Context, c *models.ContactCreate) (*models.Contact, error)
	GetByID(ctx context.Context, id int64) (*models.Contact, error)
	List(ctx context.Context, params models.ListParams) ([]*models.Contact, error)
	Update(ctx context.Context, id int64, u *models.ContactUpdate) (*models.Contact, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// UserStore persists logins. Lookups of a missing user return (nil, nil).
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*usermodel.User, error)
	GetUserByEmail(ctx context.Context, email string) (*usermodel.User, error)
	GetUserByID(ctx context.Context, userID string) (*usermodel.User, error)
}
