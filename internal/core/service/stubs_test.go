package service

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bilemo/catalog-api/internal/core/domain"
	"github.com/bilemo/catalog-api/internal/core/ports"
	"github.com/bilemo/catalog-api/internal/infrastructure/cache"
)

var discardLogger = zerolog.Nop()

func newTestCache() *cache.ResponseCache {
	return cache.New(cache.NewMemoryStore(), nil, 0, discardLogger)
}

// --- users ---

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = slices.Clone(u.Roles)
	if u.OwnerID != nil {
		id := *u.OwnerID
		clone.OwnerID = &id
	}
	if u.Owner != nil {
		ref := *u.Owner
		clone.Owner = &ref
	}
	return &clone
}

// add stores u as-is and returns its id.
func (r *stubUserRepo) add(username string, roles []string, owner *int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.users[id] = &domain.User{ID: id, Username: username, PasswordHash: "hashed:secret", Roles: roles, OwnerID: owner}
	return id
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListByOwner(_ context.Context, ownerID int64) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.User{}
	for _, u := range r.users {
		if u.IsOwnedBy(ownerID) {
			out = append(out, *cloneUser(u))
		}
	}
	slices.SortFunc(out, func(a, b domain.User) int { return int(a.ID - b.ID) })
	return out, nil
}

func (r *stubUserRepo) CountByOwner(_ context.Context, ownerID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.IsOwnedBy(ownerID) {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	c := cloneUser(user)
	c.ID = r.nextID
	r.nextID++
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func (plainHasher) Compare(hash, p string) bool { return hash == "hashed:"+p }

// --- products ---

type stubProductRepo struct {
	mu          sync.Mutex
	products    []domain.Product
	brands      []string
	countCalls  int
	searchCalls int
}

func newStubProductRepo() *stubProductRepo {
	brands := map[string]*domain.Brand{
		"Apple":   {ID: 1, Name: "Apple"},
		"Samsung": {ID: 2, Name: "Samsung"},
		"Huawei":  {ID: 3, Name: "Huawei"},
	}
	models := []struct{ model, brand string }{
		{"iPhone 12", "Apple"},
		{"iPhone 11", "Apple"},
		{"iPhone SE", "Apple"},
		{"S21 Ultra", "Samsung"},
		{"S21+", "Samsung"},
		{"Galaxy A52", "Samsung"},
		{"P40 Pro", "Huawei"},
	}
	r := &stubProductRepo{brands: []string{"Apple", "Huawei", "Samsung"}}
	for i, m := range models {
		b := brands[m.brand]
		r.products = append(r.products, domain.Product{ID: int64(i + 1), Model: m.model, BrandID: b.ID, Brand: b})
	}
	return r
}

func (r *stubProductRepo) filter(brand string) []domain.Product {
	out := []domain.Product{}
	for _, p := range r.products {
		if brand == domain.AllBrands || strings.Contains(p.BrandName(), brand) {
			out = append(out, p)
		}
	}
	return out
}

func (r *stubProductRepo) Count(_ context.Context, brand string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.countCalls++
	return int64(len(r.filter(brand))), nil
}

func (r *stubProductRepo) Search(_ context.Context, f ports.ProductFilter) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searchCalls++
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
	end := min(f.Offset+f.Limit, int64(len(items)))
	return items[f.Offset:end], nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubProductRepo) BrandNames(_ context.Context) ([]string, error) {
	return slices.Clone(r.brands), nil
}
