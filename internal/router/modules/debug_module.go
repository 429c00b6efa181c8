package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

// DebugModule exposes expvar counters, including the "users" map, at /debug/vars.
type DebugModule struct {
	middlewares []gin.HandlerFunc
}

func NewDebugModule(mw ...gin.HandlerFunc) *DebugModule { return &DebugModule{middlewares: mw} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	handlers := append(m.middlewares, gin.WrapH(expvar.Handler()))
	rg.GET("/debug/vars", handlers...)
}
