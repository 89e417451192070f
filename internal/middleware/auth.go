package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/auth"
)

const principalKey = "principal"

// RequireAuth validates the bearer token, resolves the Principal from its
// collection and stores it request-scoped. When allowedRoles is given, the
// resolved role must match one of them.
func RequireAuth(db *mongo.Database, secret string, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			log.Println("[AUTH] [ERROR]", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		id, role, err := auth.ParseAccessToken(raw, secret)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		principal, err := auth.Resolve(c.Request.Context(), db, id, role)
		if err != nil {
			log.Println("[AUTH] [ERROR] principal resolution failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if len(allowedRoles) > 0 {
			match := false
			for _, r := range allowedRoles {
				if principal.Role == r {
					match = true
					break
				}
			}
			if !match {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func CustomerAuth(db *mongo.Database, secret string) gin.HandlerFunc {
	return RequireAuth(db, secret, auth.RoleCustomer)
}

func SellerAuth(db *mongo.Database, secret string) gin.HandlerFunc {
	return RequireAuth(db, secret, auth.RoleSeller)
}

func AdminAuth(db *mongo.Database, secret string) gin.HandlerFunc {
	return RequireAuth(db, secret, auth.RoleAdmin)
}

// PrincipalFrom returns the Principal stored by RequireAuth.
func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	principal, ok := value.(auth.Principal)
	return principal, ok
}
