package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinRequireAuth adapts the net/http AuthMiddleware to Gin. Auth
// decisions stay session-based and provider-agnostic.
func GinRequireAuth(auth *AuthMiddleware) gin.HandlerFunc {
	return ginAdapter(func(next http.Handler) http.Handler {
		return auth.RequireAuth(next)
	})
}

// GinRequireAuthRedirect is the browser-facing variant: it redirects
// to the login destination instead of returning 401.
func GinRequireAuthRedirect(auth *AuthMiddleware, target string) gin.HandlerFunc {
	return ginAdapter(func(next http.Handler) http.Handler {
		return auth.RequireAuthRedirect(target, next)
	})
}

func ginAdapter(wrap func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		handler := wrap(next)
		handler.ServeHTTP(c.Writer, c.Request)

		// If auth middleware already handled the response, stop Gin chain
		if c.Writer.Written() {
			c.Abort()
			return
		}
	}
}
