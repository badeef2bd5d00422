package response

import (
	"net/http"

	"clientra/internal/domain"
)

const (
	MsgInternal     = "Error interno del servidor"
	MsgUnauthorized = "No autorizado"
	MsgNotFound     = "Ruta no encontrada"
	MsgTooMany      = "Demasiadas solicitudes"
	MsgBusy         = "Servidor ocupado"
	MsgBodyTooLarge = "Cuerpo de la solicitud demasiado grande"
	MsgTimeout      = "Tiempo de espera agotado"
	MsgBadJSON      = "JSON inválido"
)

// StatusOf 错误分类 → HTTP 状态码
func StatusOf(k domain.Kind) int {
	switch k {
	case domain.KindValidation, domain.KindDuplicate:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
