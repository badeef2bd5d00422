package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger 健康检查依赖（数据库、redis）
type Pinger func(ctx context.Context) error

type SystemHandler struct {
	checks map[string]Pinger
	now    func() time.Time
}

func NewSystemHandler(checks map[string]Pinger) *SystemHandler {
	return &SystemHandler{checks: checks, now: time.Now}
}

func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "pong",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"status":    "healthy",
	})
}

// Health 任一依赖失败返回 503
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, ok := http.StatusOK, true
	deps := gin.H{}
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			_ = c.Error(err)
			deps[name] = "down"
			ok = false
			continue
		}
		deps[name] = "up"
	}
	if !ok {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"ok": ok, "deps": deps})
}
