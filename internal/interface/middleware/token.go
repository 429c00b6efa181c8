package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-directory/pkg/response"
)

const (
	TokenHeader     = "X-Token"
	TokenQueryParam = "token"
)

// RequireToken rejects requests whose X-Token header (or token query
// parameter) does not equal expected. It is independent of user identity and
// is only attached where explicitly configured. An empty expected value
// rejects everything.
func RequireToken(expected string) gin.HandlerFunc {
	want := []byte(expected)
	return func(c *gin.Context) {
		got := c.GetHeader(TokenHeader)
		if got == "" {
			got = c.Query(TokenQueryParam)
		}
		if len(want) == 0 || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			response.Error(c, http.StatusForbidden, "Invalid token", nil)
			return
		}
		c.Next()
	}
}
