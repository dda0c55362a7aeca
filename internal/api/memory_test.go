package api

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/bilemo/catalog-api/internal/core/domain"
	"github.com/bilemo/catalog-api/internal/core/ports"
)

type memUserRepo struct {
	mu     sync.Mutex
	users  map[int64]domain.User
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]domain.User), nextID: 1}
}

func (r *memUserRepo) seed(username, password string, roles []string, owner *int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.users[id] = domain.User{ID: id, Username: username, PasswordHash: "hashed:" + password, Roles: roles, OwnerID: owner}
	return id
}

func (r *memUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) ListByOwner(_ context.Context, ownerID int64) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.User{}
	for _, u := range r.users {
		if u.IsOwnedBy(ownerID) {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b domain.User) int { return int(a.ID - b.ID) })
	return out, nil
}

func (r *memUserRepo) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	users, _ := r.ListByOwner(ctx, ownerID)
	return int64(len(users)), nil
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	u := *user
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u
	return &u, nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	r.users[id] = u
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type memProductRepo struct {
	products []domain.Product
}

func newMemProductRepo() *memProductRepo {
	apple := &domain.Brand{ID: 1, Name: "Apple"}
	xiaomi := &domain.Brand{ID: 2, Name: "Xiaomi"}
	return &memProductRepo{products: []domain.Product{
		{ID: 1, Model: "iPhone 12 - 256", BrandID: 1, Brand: apple, Price: 816, ReleaseYear: "2020"},
		{ID: 2, Model: "iPhone SE - 256", BrandID: 1, Brand: apple, Price: 528, ReleaseYear: "2020"},
		{ID: 3, Model: "Mi 11 5G", BrandID: 2, Brand: xiaomi, Price: 640, ReleaseYear: "2021"},
	}}
}

func (r *memProductRepo) filter(brand string) []domain.Product {
	out := []domain.Product{}
	for _, p := range r.products {
		if brand == domain.AllBrands || strings.Contains(p.BrandName(), brand) {
			out = append(out, p)
		}
	}
	return out
}

func (r *memProductRepo) Count(_ context.Context, brand string) (int64, error) {
	return int64(len(r.filter(brand))), nil
}

func (r *memProductRepo) Search(_ context.Context, f ports.ProductFilter) ([]domain.Product, error) {
	items := r.filter(f.Brand)
	slices.SortFunc(items, func(a, b domain.Product) int {
		if f.Order == domain.SortDesc {
			return strings.Compare(b.Model, a.Model)
		}
		return strings.Compare(a.Model, b.Model)
	})
	if f.Offset >= int64(len(items)) {
		return []domain.Product{}, nil
	}
	return items[f.Offset:min(f.Offset+f.Limit, int64(len(items)))], nil
}

func (r *memProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *memProductRepo) BrandNames(_ context.Context) ([]string, error) {
	return []string{"Apple", "Xiaomi"}, nil
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func (plainHasher) Compare(hash, p string) bool { return hash == "hashed:"+p }
