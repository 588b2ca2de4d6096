// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/nft-marketplace/internal/models"
	"github.com/javajoker/nft-marketplace/internal/utils"
)

// Identity resolves the caller from an optional bearer token. Requests
// without a valid token proceed as the anonymous identity.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := models.AnonymousIdentity

		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			subject, err := utils.ValidateJWT(secret, token)
			if err != nil {
				logrus.WithError(err).WithField("ip", c.ClientIP()).Debug("Ignoring invalid bearer token")
			} else {
				identity = subject
			}
		}

		c.Set(utils.ContextKeyIdentity, identity)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
