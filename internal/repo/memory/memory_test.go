package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientra/internal/domain"
)

func TestCustomerRepo_UniquePhone(t *testing.T) {
	r := NewCustomerRepo()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &domain.Customer{ID: "a", Phone: "300"}))
	assert.ErrorIs(t, r.Create(ctx, &domain.Customer{ID: "b", Phone: "300"}), domain.ErrDuplicate)

	require.NoError(t, r.Create(ctx, &domain.Customer{ID: "b", Phone: "301"}))
	assert.ErrorIs(t, r.Update(ctx, &domain.Customer{ID: "b", Phone: "300"}), domain.ErrDuplicate)
	assert.NoError(t, r.Update(ctx, &domain.Customer{ID: "b", Phone: "301"}))
}

func TestCustomerRepo_UpdateKeepsOwner(t *testing.T) {
	r := NewCustomerRepo()
	ctx := context.Background()
	at := time.Now()
	require.NoError(t, r.Create(ctx, &domain.Customer{ID: "a", Phone: "300", CreatedBy: "u-1", CreatedAt: at}))

	require.NoError(t, r.Update(ctx, &domain.Customer{ID: "a", Phone: "300", CreatedBy: "u-2", Name: "x"}))
	got, err := r.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.CreatedBy)
	assert.True(t, got.CreatedAt.Equal(at))
	assert.Equal(t, "x", got.Name)
}

func TestCustomerRepo_OrderAndSearch(t *testing.T) {
	r := NewCustomerRepo()
	ctx := context.Background()
	base := time.Now()
	require.NoError(t, r.Create(ctx, &domain.Customer{ID: "1", Name: "Ana", Phone: "1", CreatedAt: base}))
	require.NoError(t, r.Create(ctx, &domain.Customer{ID: "2", Name: "Beto", Phone: "2", Municipality: "Anapoima", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, r.Create(ctx, &domain.Customer{ID: "3", Name: "Carla", Phone: "3", CreatedAt: base.Add(2 * time.Minute)}))

	all, _ := r.List(ctx)
	assert.Equal(t, []string{"3", "2", "1"}, ids(all))

	hits, _ := r.Search(ctx, "ANA")
	assert.Equal(t, []string{"2", "1"}, ids(hits))

	none, _ := r.Search(ctx, "zz")
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCustomerRepo_DeleteMissing(t *testing.T) {
	_, err := NewCustomerRepo().Delete(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo(t *testing.T) {
	r := NewUserRepo()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, &domain.User{ID: "u-1", Email: "ana@example.com"}))
	assert.ErrorIs(t, r.Create(ctx, &domain.User{ID: "u-2", Email: "ana@example.com"}), domain.ErrDuplicate)

	u, err := r.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)

	_, err = r.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func ids(cs []domain.Customer) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}
