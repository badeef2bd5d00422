package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"clientra/internal/domain"
	"clientra/internal/transport/http/ez"
	mdw "clientra/internal/transport/http/middleware"
	resp "clientra/internal/transport/http/response"
	"clientra/internal/validation"
)

type CustomerService interface {
	List(ctx context.Context) ([]domain.Customer, error)
	Search(ctx context.Context, term string) ([]domain.Customer, error)
	Create(ctx context.Context, f domain.CustomerFields, ownerID string) (*domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Update(ctx context.Context, id string, f domain.CustomerFields) (*domain.Customer, error)
	Delete(ctx context.Context, id string) (*domain.Customer, error)
}

type CustomerHandler struct{ svc CustomerService }

func NewCustomerHandler(svc CustomerService) *CustomerHandler { return &CustomerHandler{svc: svc} }

type savedOut = resp.Saved[*domain.Customer]

// Mount 挂在 AuthJWT 分组上；/search 必须先于 /:id 注册
func (h *CustomerHandler) Mount(g gin.IRoutes) {
	ez.RegisterAction(g, ez.Action[struct{}, []domain.Customer]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Customer, error) {
			return h.svc.List(c.Request.Context())
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, []domain.Customer]{
		Method: http.MethodGet,
		Path:   "/search",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Customer, error) {
			term, err := validation.Search(c.GetQuery("q"))
			if err != nil {
				return nil, err
			}
			return h.svc.Search(c.Request.Context(), term)
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, *domain.Customer]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Customer, error) {
			return h.svc.Get(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(g, ez.Action[validation.CustomerPayload, savedOut]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *validation.CustomerPayload) (savedOut, error) {
			f, err := validation.Customer(*in)
			if err != nil {
				return savedOut{}, err
			}
			cl, err := h.svc.Create(c.Request.Context(), f, c.GetString(mdw.KeyUserID))
			return savedOut{Message: "Cliente creado exitosamente", Cliente: cl}, err
		},
	})

	ez.RegisterAction(g, ez.Action[validation.CustomerPayload, savedOut]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *validation.CustomerPayload) (savedOut, error) {
			f, err := validation.Customer(*in)
			if err != nil {
				return savedOut{}, err
			}
			cl, err := h.svc.Update(c.Request.Context(), c.Param("id"), f)
			return savedOut{Message: "Cliente actualizado exitosamente", Cliente: cl}, err
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, savedOut]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (savedOut, error) {
			cl, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
			return savedOut{Message: "Cliente eliminado exitosamente", Cliente: cl}, err
		},
	})
}
