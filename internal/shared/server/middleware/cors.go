package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS sets CORS headers and handles preflight requests. A "*" entry in
// allowedOrigins switches to the permissive wildcard mode the public API
// runs with; otherwise only listed origins are allowed.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowAll := false
	origins := make(map[string]struct{})
	for _, o := range allowedOrigins {
		trimmed := strings.TrimSpace(o)
		if trimmed == "*" {
			allowAll = true
			continue
		}
		if trimmed != "" {
			origins[trimmed] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		origin := c.GetHeader("Origin")
		allowed := false
		switch {
		case allowAll:
			h.Set("Access-Control-Allow-Origin", "*")
			allowed = true
		case origin != "":
			if _, ok := origins[origin]; ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Vary", "Origin")
				h.Set("Access-Control-Allow-Credentials", "true")
				allowed = true
			}
		}
		if allowed {
			h.Set("Access-Control-Allow-Methods", "OPTIONS,POST,GET")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id, X-Amz-Date, X-Api-Key, X-Amz-Security-Token")
			h.Set("Access-Control-Expose-Headers", "X-Request-Id")
			h.Set("Access-Control-Max-Age", "600")
		}

		// Preflights get a bare 200 with the headers above.
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusOK)
			c.Abort()
			return
		}

		c.Next()
	}
}
