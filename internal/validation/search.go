package validation

import (
	"strings"

	"clientra/internal/domain"
)

// Search q 必须出现在查询串里；出现但为空白时返回 ""（调用方按列表处理）
func Search(q string, ok bool) (string, error) {
	if !ok {
		return "", domain.NewValidation("Término de búsqueda inválido", map[string]string{
			"query": "El término de búsqueda es requerido",
		})
	}
	return strings.TrimSpace(q), nil
}
