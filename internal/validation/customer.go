package validation

import (
	"strings"

	"clientra/internal/domain"
)

const MsgInvalidCustomer = "Datos de cliente inválidos"

var customerMessages = map[string]string{
	"nombre":         "El nombre debe tener al menos 2 caracteres",
	"telefono":       "El teléfono debe tener al menos 6 caracteres",
	"direccion":      "La dirección debe tener al menos 5 caracteres",
	"municipio":      "El municipio debe tener al menos 2 caracteres",
	"valorDomicilio": "El valor del domicilio debe ser un número positivo",
}

// CustomerPayload 原样接收 JSON，类型检查在 Customer 中完成
type CustomerPayload struct {
	Nombre         any `json:"nombre"`
	Email          any `json:"email"`
	Telefono       any `json:"telefono"`
	Direccion      any `json:"direccion"`
	Municipio      any `json:"municipio"`
	ValorDomicilio any `json:"valorDomicilio"`
}

type customerInput struct {
	Nombre         string  `json:"nombre" validate:"trimmin=2"`
	Telefono       string  `json:"telefono" validate:"trimmin=6"`
	Direccion      string  `json:"direccion" validate:"trimmin=5"`
	Municipio      string  `json:"municipio" validate:"trimmin=2"`
	ValorDomicilio float64 `json:"valorDomicilio" validate:"gt=0"`
}

// Customer 校验全部字段（不短路），成功时返回 trim 后的字段
func Customer(p CustomerPayload) (domain.CustomerFields, error) {
	errs := map[string]string{}
	str := func(key string, v any) string {
		s, ok := v.(string)
		if !ok {
			errs[key] = customerMessages[key]
		}
		return s
	}

	in := customerInput{
		Nombre:    str("nombre", p.Nombre),
		Telefono:  str("telefono", p.Telefono),
		Direccion: str("direccion", p.Direccion),
		Municipio: str("municipio", p.Municipio),
	}
	fee, ok := toNumber(p.ValorDomicilio)
	if !ok {
		errs["valorDomicilio"] = customerMessages["valorDomicilio"]
	}
	in.ValorDomicilio = fee

	for k, msg := range fieldErrors(validate.Struct(in), customerMessages) {
		if _, seen := errs[k]; !seen {
			errs[k] = msg
		}
	}
	if len(errs) > 0 {
		return domain.CustomerFields{}, domain.NewValidation(MsgInvalidCustomer, errs)
	}

	var email *string
	if s, ok := p.Email.(string); ok {
		s = strings.ToLower(strings.TrimSpace(s))
		email = &s
	}
	return domain.CustomerFields{
		Name:         strings.TrimSpace(in.Nombre),
		Email:        email,
		Phone:        strings.TrimSpace(in.Telefono),
		Address:      strings.TrimSpace(in.Direccion),
		Municipality: strings.TrimSpace(in.Municipio),
		DeliveryFee:  in.ValorDomicilio,
	}, nil
}
