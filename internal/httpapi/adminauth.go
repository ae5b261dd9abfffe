package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// adminClaims is the minimal claim set the shutdown endpoint checks.
type adminClaims struct {
	jwt.RegisteredClaims
}

// adminAuth gates the admin-only routes (currently just graceful shutdown)
// behind a bearer JWT signed with the configured secret. Grounded on the
// teacher's HFT auth middleware (internal/hft/middleware/auth.go), narrowed
// to the one claim this surface needs. An empty secret disables the check
// for local/dev use, matching the teacher's own "your-secret-key" default
// commentary about loading it from config in production.
func adminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims := &adminClaims{}
		token, err := jwt.ParseWithClaims(header[len("Bearer "):], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Next()
	}
}
