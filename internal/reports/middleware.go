package reports

import (
	"net/http"

	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// exportOrgIDKey is the gin context key carrying the organization unlocked
// by a Basic-Auth export login.
const exportOrgIDKey = "exportOrgID"

// BasicAuthMiddleware validates per-organization Basic-Auth logins for the
// public export endpoints.
func BasicAuthMiddleware(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, secret, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="exports"`)
			httpkit.Error(c, http.StatusUnauthorized, "missing export credentials", nil)
			c.Abort()
			return
		}

		orgID, err := svc.VerifyCredential(c.Request.Context(), username, secret)
		if err != nil {
			c.Header("WWW-Authenticate", `Basic realm="exports"`)
			httpkit.Error(c, http.StatusUnauthorized, "invalid export credentials", nil)
			c.Abort()
			return
		}

		c.Set(exportOrgIDKey, orgID)
		c.Next()
	}
}
