package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-user-directory/internal/interface/http"
)

// UserModule mounts the user CRUD routes under /users:
// POST /users/, GET /users/, GET|PATCH|DELETE /users/:id
type UserModule struct {
	Handler     *handlers.UserHandler
	middlewares []gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

// Use attaches middleware to the users group only, e.g. the token check.
func (m *UserModule) Use(mw ...gin.HandlerFunc) *UserModule {
	m.middlewares = append(m.middlewares, mw...)
	return m
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users", m.middlewares...)
	{
		users.POST("/", m.Handler.Create)
		users.POST("", m.Handler.Create)
		users.GET("/", m.Handler.List)
		users.GET("", m.Handler.List)
		users.GET("/:id", m.Handler.Get)
		users.PATCH("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
	}
}
