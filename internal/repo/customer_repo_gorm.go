package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"clientra/internal/domain"
)

// 参与模糊搜索的列
var searchColumns = []string{"nombre", "telefono", "direccion", "municipio"}

type CustomerRepo struct{ db *gorm.DB }

func NewCustomerRepo(db *gorm.DB) *CustomerRepo { return &CustomerRepo{db: db} }

func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CustomerRepo) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CustomerRepo) newestFirst(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Customer{}).Order("created_at DESC").Order("id DESC")
}

func (r *CustomerRepo) List(ctx context.Context) ([]domain.Customer, error) {
	out := make([]domain.Customer, 0)
	if err := r.newestFirst(ctx).Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Search 大小写不敏感的子串匹配，四列 OR
func (r *CustomerRepo) Search(ctx context.Context, term string) ([]domain.Customer, error) {
	like := "%" + escapeLike(strings.ToLower(term)) + "%"
	conds := make([]string, 0, len(searchColumns))
	args := make([]any, 0, len(searchColumns))
	for _, col := range searchColumns {
		conds = append(conds, "LOWER("+col+") LIKE ?")
		args = append(args, like)
	}
	out := make([]domain.Customer, 0)
	q := r.newestFirst(ctx).Where(strings.Join(conds, " OR "), args...)
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Update 覆盖可写字段；id、created_by、created_at 不动
func (r *CustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	res := r.db.WithContext(ctx).Model(&domain.Customer{}).Where("id = ?", c.ID).Updates(map[string]any{
		"nombre":          c.Name,
		"email":           c.Email,
		"telefono":        c.Phone,
		"direccion":       c.Address,
		"municipio":       c.Municipality,
		"valor_domicilio": c.DeliveryFee,
		"updated_at":      c.UpdatedAt,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) Delete(ctx context.Context, id string) (*domain.Customer, error) {
	var deleted domain.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deleted, "id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Customer{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &deleted, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
