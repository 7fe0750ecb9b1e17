package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// identityHeader carries the caller identity issued by the auth proxy in
// front of this service. The API trusts the header as-is; token validation
// happens upstream.
const identityHeader = "X-User-ID"

// Identity resolves the caller identity into the Gin context under "userID".
//
// The value comes from the X-User-ID header set by the edge proxy after
// verifying the session. Requests without the header pass through anonymous;
// handlers fall back to a demo identity so local development works without a
// proxy in front.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader(identityHeader)); id != "" {
			c.Set("userID", id)
		}
		c.Next()
	}
}
