package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/gym-api/internal/apperr"
)

// NotFound answers routes nothing else matched.
func NotFound(exposeStack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		apperr.Write(c, apperr.NotFound("Not Found - %s", c.Request.URL.Path), exposeStack)
	}
}

// Recovery turns a panic into a 500 JSON body.
func Recovery(exposeStack bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(gin.DefaultErrorWriter, func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}
		apperr.Write(c, apperr.Server(err, "Server error"), exposeStack)
	})
}
