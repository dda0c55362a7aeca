package ports

import (
	"context"

	"github.com/bilemo/catalog-api/internal/core/domain"
)

// UserService defines the user directory use-cases. Every operation is
// scoped to the calling principal.
type UserService interface {
	ListOwnedUsers(ctx context.Context, caller domain.Principal) ([]domain.User, error)
	GetUser(ctx context.Context, id int64, caller domain.Principal) (*domain.User, error)
	CreateUser(ctx context.Context, caller domain.Principal, username, password string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, caller domain.Principal, password string) error
	DeleteUser(ctx context.Context, id int64, caller domain.Principal) error
}
