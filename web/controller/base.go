// Package controller provides the HTTP handlers of the car rental panel:
// login and logout, the generic entity pages and the entity-specific
// extras built on them.
package controller

import (
	"net/http"

	"github.com/Romankivs/Lab1Istp/web/locale"
	"github.com/Romankivs/Lab1Istp/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers, including authentication checks.
type BaseController struct{}

// checkLogin rejects requests without a resolved staff identity before
// the handler runs.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		if isAjax(c) {
			pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "pages.login.loginAgain"))
		} else {
			c.Redirect(http.StatusSeeOther, "/login")
		}
		c.Abort()
	} else {
		c.Next()
	}
}

// I18nWeb retrieves an internationalized message for the web interface based on the current locale.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	return locale.I18n(locale.FromContext(c), name, params...)
}
