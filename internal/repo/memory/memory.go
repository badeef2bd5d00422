// Package memory provides in-process implementations of the repositories,
// used by the "memory" db driver for local runs and by tests. Constraints
// mirror the SQL schema: unique users.email and unique clientes.telefono.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"clientra/internal/domain"
)

type UserRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.User
}

func NewUserRepo() *UserRepo { return &UserRepo{byID: map[string]domain.User{}} }

func (r *UserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	r.byID[u.ID] = *u
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

type CustomerRepo struct {
	mu   sync.RWMutex
	rows map[string]domain.Customer
}

func NewCustomerRepo() *CustomerRepo { return &CustomerRepo{rows: map[string]domain.Customer{}} }

func (r *CustomerRepo) phoneTaken(phone, exceptID string) bool {
	for id, c := range r.rows {
		if id != exceptID && c.Phone == phone {
			return true
		}
	}
	return false
}

func (r *CustomerRepo) Create(_ context.Context, c *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phoneTaken(c.Phone, "") {
		return domain.ErrDuplicate
	}
	r.rows[c.ID] = *c
	return nil
}

func (r *CustomerRepo) FindByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

// newestFirst 与 SQL 实现一致：created_at DESC, id DESC
func (r *CustomerRepo) newestFirst(keep func(domain.Customer) bool) []domain.Customer {
	out := make([]domain.Customer, 0, len(r.rows))
	for _, c := range r.rows {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *CustomerRepo) List(context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.newestFirst(func(domain.Customer) bool { return true }), nil
}

func (r *CustomerRepo) Search(_ context.Context, term string) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t := strings.ToLower(term)
	return r.newestFirst(func(c domain.Customer) bool {
		for _, f := range []string{c.Name, c.Phone, c.Address, c.Municipality} {
			if strings.Contains(strings.ToLower(f), t) {
				return true
			}
		}
		return false
	}), nil
}

func (r *CustomerRepo) Update(_ context.Context, c *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.rows[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.phoneTaken(c.Phone, c.ID) {
		return domain.ErrDuplicate
	}
	updated := *c
	updated.CreatedBy, updated.CreatedAt = old.CreatedBy, old.CreatedAt
	r.rows[c.ID] = updated
	return nil
}

func (r *CustomerRepo) Delete(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(r.rows, id)
	return &c, nil
}
