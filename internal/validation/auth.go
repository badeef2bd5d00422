package validation

import (
	"strings"

	"clientra/internal/domain"
)

type LoginPayload struct {
	Email    any `json:"email"`
	Password any `json:"password"`
}

type RegisterPayload struct {
	Nombre   any `json:"nombre"`
	Email    any `json:"email"`
	Password any `json:"password"`
}

// Login 按顺序三道关：必填 → email 格式 → 密码长度
func Login(p LoginPayload) (email, password string, err error) {
	if !present(p.Email) || !present(p.Password) {
		errs := map[string]string{}
		if !present(p.Email) {
			errs["email"] = "El email es requerido"
		}
		if !present(p.Password) {
			errs["password"] = "La contraseña es requerida"
		}
		return "", "", domain.NewValidation("Email y contraseña son requeridos", errs)
	}

	email, ok := p.Email.(string)
	if !ok || validate.Var(email, "contains=@") != nil {
		return "", "", domain.NewValidation("Email inválido", map[string]string{"email": "Debe ser un email válido"})
	}

	password, ok = p.Password.(string)
	if !ok || validate.Var(password, "min=6") != nil {
		return "", "", domain.NewValidation("Contraseña inválida", map[string]string{
			"password": "La contraseña debe tener al menos 6 caracteres",
		})
	}
	return email, password, nil
}

// Register 只做存储层必填约束 + email 含 @（不校验密码长度）
func Register(p RegisterPayload) (name, email, password string, err error) {
	errs := map[string]string{}

	name, _ = p.Nombre.(string)
	name = strings.TrimSpace(name)
	if name == "" {
		errs["nombre"] = "El nombre es requerido"
	}

	email, _ = p.Email.(string)
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		errs["email"] = "El email es requerido"
	case validate.Var(email, "contains=@") != nil:
		errs["email"] = "Debe ser un email válido"
	}

	password, _ = p.Password.(string)
	if password == "" {
		errs["password"] = "La contraseña es requerida"
	}

	if len(errs) > 0 {
		return "", "", "", domain.NewValidation("Datos de registro inválidos", errs)
	}
	return name, email, password, nil
}
