package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"clientra/internal/core/cache"
	"clientra/internal/domain"
	"clientra/pkg/utils"
)

const (
	MsgCustomerNotFound  = "Cliente no encontrado"
	MsgCustomerDuplicate = "Cliente duplicado"
)

// 数据库时间精度按毫秒对齐（mysql datetime(3)）
const clockPrecision = time.Millisecond

type CustomerService struct {
	repo  domain.CustomerRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

type CustomerOption func(*CustomerService)

// WithCache 单条查询走 redis 读穿缓存；更新/删除时失效
func WithCache(c *cache.Cache, ttl time.Duration) CustomerOption {
	return func(s *CustomerService) { s.cache, s.ttl = c, ttl }
}

func WithClock(now func() time.Time) CustomerOption {
	return func(s *CustomerService) { s.now = now }
}

func WithLogger(l *zap.Logger) CustomerOption {
	return func(s *CustomerService) { s.log = l }
}

func NewCustomerService(repo domain.CustomerRepository, opts ...CustomerOption) *CustomerService {
	s := &CustomerService{repo: repo, log: zap.NewNop(), now: time.Now, ttl: time.Minute}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *CustomerService) clock() time.Time { return s.now().UTC().Truncate(clockPrecision) }

func notFound() error {
	return domain.NewNotFound(MsgCustomerNotFound, map[string]string{"id": "No existe un cliente con ese ID"})
}

func duplicate() error {
	return domain.NewDuplicate(MsgCustomerDuplicate, map[string]string{"duplicate": "Ya existe un cliente con ese teléfono"})
}

// mapErr 将 repo 错误翻译为对外错误
func mapErr(err error, op string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return notFound()
	case errors.Is(err, domain.ErrDuplicate):
		return duplicate()
	default:
		return domain.NewInternal(op, err)
	}
}

func cacheKey(id string) string { return "cliente:" + id }

func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapErr(err, "Error al obtener clientes")
	}
	return out, nil
}

// Search 空白关键字等同 List
func (s *CustomerService) Search(ctx context.Context, term string) ([]domain.Customer, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx)
	}
	out, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, mapErr(err, "Error al buscar clientes")
	}
	return out, nil
}

func (s *CustomerService) Create(ctx context.Context, f domain.CustomerFields, ownerID string) (*domain.Customer, error) {
	now := s.clock()
	c := &domain.Customer{
		ID:        utils.NewID(),
		CreatedBy: ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.Apply(f)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, mapErr(err, "Error al crear el cliente")
	}
	s.log.Info("customer created", zap.String("id", c.ID), zap.String("owner", ownerID))
	return c, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	load := func(ctx context.Context) (*domain.Customer, error) {
		c, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, mapErr(err, "Error al obtener el cliente")
		}
		return c, nil
	}
	if s.cache == nil {
		return load(ctx)
	}
	c, err := cache.GetOrLoadJSON(ctx, s.cache, cacheKey(id), s.ttl, load)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound()
	}
	return c, nil
}

// Update 覆盖全部字段，所属用户不变，updatedAt 严格递增
func (s *CustomerService) Update(ctx context.Context, id string, f domain.CustomerFields) (*domain.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapErr(err, "Error al actualizar el cliente")
	}
	now := s.clock()
	if !now.After(c.UpdatedAt) {
		now = c.UpdatedAt.Add(clockPrecision)
	}
	c.Apply(f)
	c.UpdatedAt = now
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, mapErr(err, "Error al actualizar el cliente")
	}
	s.invalidate(ctx, id)
	return c, nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) (*domain.Customer, error) {
	c, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, mapErr(err, "Error al eliminar el cliente")
	}
	s.invalidate(ctx, id)
	s.log.Info("customer deleted", zap.String("id", id))
	return c, nil
}

func (s *CustomerService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(id)); err != nil {
		s.log.Warn("cache invalidate failed", zap.String("id", id), zap.Error(err))
	}
}
