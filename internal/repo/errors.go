package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"clientra/internal/domain"
)

// translate 将 gorm/驱动错误收敛为 domain 哨兵错误
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isDupKey(err):
		return errors.Join(domain.ErrDuplicate, err)
	default:
		return err
	}
}

// TranslateError 未覆盖的驱动（或被包装过的错误）按消息兜底
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
