package service

import (
	"context"

	"clientra/internal/domain"
	"clientra/internal/repo/memory"
)

// flakyCustomers 包装内存仓储：统计 FindByID 次数，err 非空时所有调用失败
type flakyCustomers struct {
	*memory.CustomerRepo
	err  error
	gets int
}

func newFlakyCustomers() *flakyCustomers {
	return &flakyCustomers{CustomerRepo: memory.NewCustomerRepo()}
}

func (f *flakyCustomers) Create(ctx context.Context, c *domain.Customer) error {
	if f.err != nil {
		return f.err
	}
	return f.CustomerRepo.Create(ctx, c)
}

func (f *flakyCustomers) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	f.gets++
	if f.err != nil {
		return nil, f.err
	}
	return f.CustomerRepo.FindByID(ctx, id)
}

func (f *flakyCustomers) List(ctx context.Context) ([]domain.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.CustomerRepo.List(ctx)
}

type flakyUsers struct {
	*memory.UserRepo
	findErr error
}

func newFlakyUsers() *flakyUsers { return &flakyUsers{UserRepo: memory.NewUserRepo()} }

func (f *flakyUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.UserRepo.FindByEmail(ctx, email)
}
