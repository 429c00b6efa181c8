package router

import "github.com/gin-gonic/gin"

// Module registers its routes on the registry's prefixed group.
// Root, users and debug are the modules wired by InitModules.
type Module interface {
	Register(rg *gin.RouterGroup)
}
