package ports

import (
	"context"

	"github.com/bilemo/catalog-api/internal/core/domain"
)

// UserRepository defines the persistence operations over the user directory.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.User, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
	// Create assigns the identifier and returns domain.ErrUsernameTaken when
	// the username is already stored.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

// PasswordHasher produces and checks one-way password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// OwnerLocker serialises user creation per owner. The returned func releases
// the lock and is safe to call once.
type OwnerLocker interface {
	Lock(ctx context.Context, ownerID int64) (func(), error)
}
