package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-directory/pkg/response"
)

type RootModule struct{}

func NewRootModule() *RootModule { return &RootModule{} }

func (m *RootModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", func(c *gin.Context) {
		response.Message(c, http.StatusOK, "Hello Bigger Applications!")
	})
}
