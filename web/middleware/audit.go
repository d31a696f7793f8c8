package middleware

import (
	"net/http"
	"strings"

	"github.com/Romankivs/Lab1Istp/logger"
	"github.com/Romankivs/Lab1Istp/web/session"

	"github.com/gin-gonic/gin"
)

// Audit logs every write request together with the acting staff member
// and the resulting status.
func Audit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			return
		}
		actor := "anonymous"
		if staff := session.GetLoginStaff(c); staff != nil {
			actor = staff.Email
		}
		action, resource := extractActionFromPath(c.Request.Method, c.Request.URL.Path)
		logger.Infof("%s %s %s by %s from %s: %d [%s]",
			action, resource, c.Param("key"), actor, c.ClientIP(), c.Writer.Status(), c.GetString("request_id"))
	}
}

// extractActionFromPath names the operation and the entity of a request.
func extractActionFromPath(method, path string) (action, resource string) {
	switch method {
	case http.MethodPost:
		action = "CREATE"
		if strings.HasSuffix(path, "/upload_excel") {
			action = "IMPORT"
		} else if path == "/login" {
			action = "LOGIN"
		}
	case http.MethodPut, http.MethodPatch:
		action = "UPDATE"
	case http.MethodDelete:
		action = "DELETE"
	default:
		action = method
	}
	resource = strings.Trim(path, "/")
	if i := strings.IndexByte(resource, '/'); i >= 0 {
		resource = resource[:i]
	}
	if resource == "" {
		resource = "root"
	}
	return action, resource
}
