package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientra/internal/core/cache"
	"clientra/internal/domain"
)

// stepClock 每次调用前进 1s
func stepClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newCustomerSvc(t *testing.T, opts ...CustomerOption) (*CustomerService, *flakyCustomers) {
	t.Helper()
	repo := newFlakyCustomers()
	opts = append([]CustomerOption{WithClock(stepClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))}, opts...)
	return NewCustomerService(repo, opts...), repo
}

func ana() domain.CustomerFields {
	return domain.CustomerFields{
		Name:         "Ana Ruiz",
		Phone:        "3001234567",
		Address:      "Calle 10 #5-20",
		Municipality: "Centro",
		DeliveryFee:  8000,
	}
}

func kindOf(t *testing.T, err error) domain.Kind {
	t.Helper()
	require.Error(t, err)
	return domain.KindOf(err)
}

func seed(t *testing.T, s *CustomerService) []*domain.Customer {
	t.Helper()
	ctx := context.Background()
	in := []domain.CustomerFields{
		ana(),
		{Name: "Luis Gómez", Phone: "3109876543", Address: "Carrera 7 #20-10", Municipality: "Chapinero", DeliveryFee: 5000},
		{Name: "María Centeno", Phone: "3201112233", Address: "Avenida 68", Municipality: "Suba", DeliveryFee: 7000},
		{Name: "Pedro", Phone: "3150000000", Address: "Calle 80", Municipality: "Engativá", DeliveryFee: 6000},
	}
	out := make([]*domain.Customer, 0, len(in))
	for _, f := range in {
		c, err := s.Create(ctx, f, "u-1")
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func TestCustomerService_CreateThenGet(t *testing.T) {
	s, _ := newCustomerSvc(t)
	ctx := context.Background()

	c, err := s.Create(ctx, ana(), "u-1")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "u-1", c.CreatedBy)
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)

	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, ana(), domain.CustomerFields{
		Name: got.Name, Phone: got.Phone,
		Address: got.Address, Municipality: got.Municipality, DeliveryFee: got.DeliveryFee,
	})
	assert.Empty(t, got.Email)
}

func TestCustomerService_UpdateWithoutEmailKeepsStoredEmail(t *testing.T) {
	s, _ := newCustomerSvc(t)
	ctx := context.Background()
	email := "ana@x.com"
	f := ana()
	f.Email = &email
	c, err := s.Create(ctx, f, "u-1")
	require.NoError(t, err)

	_, err = s.Update(ctx, c.ID, ana())
	require.NoError(t, err)
	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", got.Email)

	cleared := ""
	f.Email = &cleared
	_, err = s.Update(ctx, c.ID, f)
	require.NoError(t, err)
	got, err = s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Email)
}

func TestCustomerService_CreateDuplicatePhone(t *testing.T) {
	s, _ := newCustomerSvc(t)
	ctx := context.Background()

	_, err := s.Create(ctx, ana(), "u-1")
	require.NoError(t, err)

	other := ana()
	other.Name = "Otra Ana"
	_, err = s.Create(ctx, other, "u-2")
	assert.Equal(t, domain.KindDuplicate, kindOf(t, err))

	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, MsgCustomerDuplicate, de.Message)
	assert.Equal(t, "Ya existe un cliente con ese teléfono", de.Fields["duplicate"])
}

func TestCustomerService_GetNotFound(t *testing.T) {
	s, _ := newCustomerSvc(t)
	_, err := s.Get(context.Background(), "missing")
	assert.Equal(t, domain.KindNotFound, kindOf(t, err))
}

func TestCustomerService_UpdateKeepsOwnerAndBumpsUpdatedAt(t *testing.T) {
	s, _ := newCustomerSvc(t)
	ctx := context.Background()
	c, err := s.Create(ctx, ana(), "u-1")
	require.NoError(t, err)

	f := ana()
	f.Address = "Calle 11 #6-30"
	f.DeliveryFee = 9000
	updated, err := s.Update(ctx, c.ID, f)
	require.NoError(t, err)

	assert.Equal(t, "u-1", updated.CreatedBy)
	assert.Equal(t, c.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(c.UpdatedAt))
	assert.Equal(t, "Calle 11 #6-30", updated.Address)
	assert.Equal(t, 9000.0, updated.DeliveryFee)

	again, err := s.Update(ctx, c.ID, f)
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))
}

func TestCustomerService_UpdatedAtStrictlyIncreasesWithFrozenClock(t *testing.T) {
	frozen := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s, _ := newCustomerSvc(t, WithClock(func() time.Time { return frozen }))
	ctx := context.Background()

	c, err := s.Create(ctx, ana(), "u-1")
	require.NoError(t, err)
	u1, err := s.Update(ctx, c.ID, ana())
	require.NoError(t, err)
	u2, err := s.Update(ctx, c.ID, ana())
	require.NoError(t, err)

	assert.True(t, u1.UpdatedAt.After(c.UpdatedAt))
	assert.True(t, u2.UpdatedAt.After(u1.UpdatedAt))
}

func TestCustomerService_UpdateErrors(t *testing.T) {
	s, _ := newCustomerSvc(t)
	ctx := context.Background()
	cs := seed(t, s)

	_, err := s.Update(ctx, "missing", ana())
	assert.Equal(t, domain.KindNotFound, kindOf(t, err))

	f := ana()
	f.Name = "Luis renamed"
	_, err = s.Update(ctx, cs[1].ID, f)
	assert.Equal(t, domain.KindDuplicate, kindOf(t, err))
}

func TestCustomerService_Delete(t *testing.T) {
	s, _ := newCustomerSvc(t)
	ctx := context.Background()
	c, _ := s.Create(ctx, ana(), "u-1")

	deleted, err := s.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, deleted.ID)

	_, err = s.Get(ctx, c.ID)
	assert.Equal(t, domain.KindNotFound, kindOf(t, err))

	_, err = s.Delete(ctx, c.ID)
	assert.Equal(t, domain.KindNotFound, kindOf(t, err))
}

func TestCustomerService_ListNewestFirst(t *testing.T) {
	s, _ := newCustomerSvc(t)
	cs := seed(t, s)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, len(cs))
	for i := range list {
		assert.Equal(t, cs[len(cs)-1-i].ID, list[i].ID)
	}
}

func TestCustomerService_SearchBlankEqualsList(t *testing.T) {
	s, _ := newCustomerSvc(t)
	seed(t, s)
	ctx := context.Background()

	list, err := s.List(ctx)
	require.NoError(t, err)
	for _, q := range []string{"", " ", "\t \n"} {
		got, err := s.Search(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, list, got, "query %q", q)
	}
}

func TestCustomerService_SearchSubsetAndMatches(t *testing.T) {
	s, _ := newCustomerSvc(t)
	seed(t, s)
	ctx := context.Background()
	list, _ := s.List(ctx)

	for _, term := range []string{"CENT", "chap", "310", "calle", "zzz"} {
		got, err := s.Search(ctx, term)
		require.NoError(t, err)
		assert.NotNil(t, got)
		lower := strings.ToLower(term)
		for _, c := range got {
			assert.Contains(t, list, c)
			hit := false
			for _, f := range []string{c.Name, c.Phone, c.Address, c.Municipality} {
				hit = hit || strings.Contains(strings.ToLower(f), lower)
			}
			assert.True(t, hit, "%s should match %q", c.Name, term)
		}
	}

	got, _ := s.Search(ctx, "cent")
	assert.Len(t, got, 2) // Ana (Centro) + María Centeno
	none, _ := s.Search(ctx, "zzz")
	assert.Empty(t, none)
}

func TestCustomerService_StoreFailureIsInternal(t *testing.T) {
	s, repo := newCustomerSvc(t)
	repo.err = errors.New("connection refused")

	_, err := s.List(context.Background())
	assert.Equal(t, domain.KindInternal, kindOf(t, err))
	_, err = s.Create(context.Background(), ana(), "u-1")
	assert.Equal(t, domain.KindInternal, kindOf(t, err))
}

func TestCustomerService_CachedGet(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	s, repo := newCustomerSvc(t, WithCache(c, time.Minute))
	ctx := context.Background()
	created, err := s.Create(ctx, ana(), "u-1")
	require.NoError(t, err)

	_, err = s.Get(ctx, created.ID)
	require.NoError(t, err)
	_, err = s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.gets)

	f := ana()
	f.Name = "Ana María Ruiz"
	_, err = s.Update(ctx, created.ID, f)
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana María Ruiz", got.Name)

	_, err = s.Delete(ctx, created.ID)
	require.NoError(t, err)
	_, err = s.Get(ctx, created.ID)
	assert.Equal(t, domain.KindNotFound, kindOf(t, err))
}
