package domain

import (
	"context"
	"time"
)

type Customer struct {
	ID           string    `gorm:"primaryKey;size:36" json:"_id"`
	Name         string    `gorm:"column:nombre;size:191;not null" json:"nombre"`
	Email        string    `gorm:"size:191" json:"email,omitempty"`
	Phone        string    `gorm:"column:telefono;size:64;not null;uniqueIndex" json:"telefono"`
	Address      string    `gorm:"column:direccion;size:255;not null" json:"direccion"`
	Municipality string    `gorm:"column:municipio;size:128;not null" json:"municipio"`
	DeliveryFee  float64   `gorm:"column:valor_domicilio;not null" json:"valorDomicilio"`
	CreatedBy    string    `gorm:"size:36;not null;index" json:"createdBy"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

func (Customer) TableName() string { return "clientes" }

// CustomerFields 可由调用方写入的字段（已校验、已 trim）
// Email 为 nil 表示请求未携带，更新时保留原值
type CustomerFields struct {
	Name         string
	Email        *string
	Phone        string
	Address      string
	Municipality string
	DeliveryFee  float64
}

func (c *Customer) Apply(f CustomerFields) {
	c.Name = f.Name
	if f.Email != nil {
		c.Email = *f.Email
	}
	c.Phone = f.Phone
	c.Address = f.Address
	c.Municipality = f.Municipality
	c.DeliveryFee = f.DeliveryFee
}

type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Search(ctx context.Context, term string) ([]Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id string) (*Customer, error)
}
