package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bilemo/catalog-api/internal/core/domain"
	"github.com/bilemo/catalog-api/internal/core/ports"
	"github.com/bilemo/catalog-api/internal/core/validation"
	"github.com/bilemo/catalog-api/internal/pkg/metrics"
)

const (
	msgReadForbidden     = "you are not allowed to access this user"
	msgUpdateForbidden   = "only the owner of this user can change its password"
	msgDeleteForbidden   = "you are not allowed to delete this user"
	msgCreateForbidden   = "only customers can create users"
	msgOwnerStillOwns    = "this account still owns users and cannot be deleted"
	msgUsernameAlreadyIn = "this username is already used"
)

// UserService implements the owner-scoped user directory.
type UserService struct {
	repo      ports.UserRepository
	hasher    ports.PasswordHasher
	cache     ports.ResponseCache
	locker    ports.OwnerLocker
	validator *validation.Engine
	log       zerolog.Logger
	now       func() time.Time
}

func NewUserService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	cache ports.ResponseCache,
	locker ports.OwnerLocker,
	validator *validation.Engine,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		repo:      repo,
		hasher:    hasher,
		cache:     cache,
		locker:    locker,
		validator: validator,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ListOwnedUsers returns the users owned by caller. There is no pagination.
func (s *UserService) ListOwnedUsers(ctx context.Context, caller domain.Principal) ([]domain.User, error) {
	return cachedJSON(ctx, s.cache, userIndexKey(caller.ID), func(ctx context.Context) ([]domain.User, error) {
		users, err := s.repo.ListByOwner(ctx, caller.ID)
		if err != nil {
			return nil, fmt.Errorf("list owned users: %w", err)
		}
		owner := &domain.UserRef{ID: caller.ID, Username: caller.Username}
		for i := range users {
			users[i].Owner = owner
		}
		return users, nil
	})
}

// GetUser checks existence before ownership, so an unknown id is always
// domain.ErrUserNotFound whoever asks.
func (s *UserService) GetUser(ctx context.Context, id int64, caller domain.Principal) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsOwnedBy(caller.ID) && !caller.IsAdmin() {
		return nil, domain.Forbidden(msgReadForbidden)
	}

	return cachedJSON(ctx, s.cache, userDetailKey(id), func(ctx context.Context) (*domain.User, error) {
		if err := s.attachOwner(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	})
}

// CreateUser creates a simple user owned by caller. The quota check, the
// uniqueness check and the insert run under the owner's lock, so a customer
// never exceeds domain.OwnedUsersQuota. The quota is checked before the
// payload is validated.
func (s *UserService) CreateUser(ctx context.Context, caller domain.Principal, username, password string) (*domain.User, error) {
	if !caller.HasRole(domain.RoleCustomer) || caller.IsAdmin() {
		return nil, domain.Forbidden(msgCreateForbidden)
	}

	start := time.Now()
	unlock, err := s.locker.Lock(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("lock owner %d: %w", caller.ID, err)
	}
	defer unlock()
	metrics.OwnerLockWaitDuration.Observe(time.Since(start).Seconds())

	owned, err := s.repo.CountByOwner(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("count owned users: %w", err)
	}
	if owned >= domain.OwnedUsersQuota {
		metrics.QuotaRejectionsTotal.Inc()
		s.log.Warn().Int64("owner_id", caller.ID).Int64("owned", owned).Msg("owned users quota reached")
		return nil, domain.ErrQuotaExceeded
	}

	violations := s.validator.NewUser(username, password)
	if !hasViolation(violations, "username") {
		taken, err := s.usernameTaken(ctx, username)
		if err != nil {
			return nil, err
		}
		if taken {
			violations = append(violations, usernameTakenViolation())
		}
	}
	if len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	ownerID := caller.ID
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Roles:        []string{domain.RoleUser},
		OwnerID:      &ownerID,
		CreatedAt:    s.now(),
	})
	if errors.Is(err, domain.ErrUsernameTaken) {
		return nil, domain.NewValidationError(usernameTakenViolation())
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.cache.Invalidate(ctx, userIndexKey(caller.ID))

	metrics.UsersCreatedTotal.Inc()
	s.log.Info().
		Int64("user_id", created.ID).
		Int64("owner_id", caller.ID).
		Msg("user created")

	created.Owner = &domain.UserRef{ID: caller.ID, Username: caller.Username}
	return created, nil
}

// UpdatePassword replaces the password of a user owned by caller. Admins
// are not exempt from the ownership check.
func (s *UserService) UpdatePassword(ctx context.Context, id int64, caller domain.Principal, password string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.IsOwnedBy(caller.ID) {
		return domain.Forbidden(msgUpdateForbidden)
	}

	if violations := s.validator.Password(password); len(violations) > 0 {
		return domain.NewValidationError(violations...)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info().Int64("user_id", id).Int64("caller_id", caller.ID).Msg("user password changed")
	return nil
}

// DeleteUser removes a user on behalf of its owner or an admin, then drops
// the owner's listing and the user's detail from the cache.
func (s *UserService) DeleteUser(ctx context.Context, id int64, caller domain.Principal) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.IsOwnedBy(caller.ID) && !caller.IsAdmin() {
		return domain.Forbidden(msgDeleteForbidden)
	}

	owned, err := s.repo.CountByOwner(ctx, id)
	if err != nil {
		return fmt.Errorf("count owned users: %w", err)
	}
	if owned > 0 {
		return domain.Forbidden(msgOwnerStillOwns)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	keys := []string{userDetailKey(id)}
	if user.OwnerID != nil {
		keys = append(keys, userIndexKey(*user.OwnerID))
	}
	s.cache.Invalidate(ctx, keys...)

	metrics.UsersDeletedTotal.Inc()
	s.log.Info().Int64("user_id", id).Int64("caller_id", caller.ID).Msg("user deleted")
	return nil
}

func (s *UserService) attachOwner(ctx context.Context, user *domain.User) error {
	if user.OwnerID == nil {
		return nil
	}
	owner, err := s.repo.FindByID(ctx, *user.OwnerID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find owner: %w", err)
	}
	ref := owner.Ref()
	user.Owner = &ref
	return nil
}

func (s *UserService) usernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrUserNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("check username: %w", err)
	}
}

func usernameTakenViolation() domain.Violation {
	return domain.Violation{PropertyPath: "username", Message: msgUsernameAlreadyIn}
}

func hasViolation(violations []domain.Violation, path string) bool {
	for _, v := range violations {
		if v.PropertyPath == path {
			return true
		}
	}
	return false
}
