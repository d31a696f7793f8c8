package controller

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/Romankivs/Lab1Istp/config"
	"github.com/Romankivs/Lab1Istp/logger"
	"github.com/Romankivs/Lab1Istp/util/common"
	"github.com/Romankivs/Lab1Istp/web/entity"
	"github.com/Romankivs/Lab1Istp/web/locale"
	"github.com/Romankivs/Lab1Istp/web/session"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return strings.TrimSpace(ips[0])
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonObj sends a JSON response with an object and error status.
func jsonObj(c *gin.Context, obj any, err error) {
	jsonMsgObj(c, "", obj, err)
}

// jsonMsgObj sends a JSON response with a message, object, and error status.
func jsonMsgObj(c *gin.Context, msg string, obj any, err error) {
	m := entity.Msg{
		Obj: obj,
	}
	if err == nil {
		m.Success = true
		if msg != "" {
			m.Msg = msg
		}
		c.JSON(http.StatusOK, m)
		return
	}
	m.Success = false
	m.Msg = msg + " (" + err.Error() + ")"
	logger.Warning(msg+" failed: ", err)
	c.JSON(statusOf(err), m)
}

// pureJsonMsg sends a pure JSON message response with custom status code.
func pureJsonMsg(c *gin.Context, statusCode int, success bool, msg string) {
	c.JSON(statusCode, entity.Msg{
		Success: success,
		Msg:     msg,
	})
}

// html renders a page with 200 OK.
func html(c *gin.Context, name string, title string, data gin.H) {
	htmlStatus(c, http.StatusOK, name, title, data)
}

// htmlStatus renders a page. title is a translation key.
func htmlStatus(c *gin.Context, code int, name string, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["request_uri"] = c.Request.RequestURI
	c.HTML(code, name, getContext(c, data))
}

// getContext adds the values every page needs to data.
func getContext(c *gin.Context, h gin.H) gin.H {
	a := gin.H{
		"cur_ver":    config.GetVersion(),
		"app_name":   config.GetName(),
		"loc":        locale.FromContext(c),
		"staff":      session.GetLoginStaff(c),
		"request_id": c.GetString("request_id"),
	}
	for key, value := range h {
		a[key] = value
	}
	return a
}

// isAjax checks if the request is an AJAX request.
func isAjax(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case common.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorMessageKey is the translation key shown for a status code.
func errorMessageKey(code int) string {
	switch code {
	case http.StatusNotFound:
		return "pages.error.notFound"
	case http.StatusBadRequest:
		return "pages.error.badRequest"
	case http.StatusUnprocessableEntity:
		return "pages.error.unprocessable"
	default:
		return "pages.error.internal"
	}
}

// renderError answers a failed operation with the error page. Validation
// failures show their reason; store failures are only logged.
func renderError(c *gin.Context, err error) {
	code := statusOf(err)
	data := gin.H{
		"code":    code,
		"message": errorMessageKey(code),
	}
	switch code {
	case http.StatusBadRequest:
		data["detail"] = err.Error()
	case http.StatusInternalServerError:
		logger.Errorf("%s %s failed [%s]: %v", c.Request.Method, c.Request.URL.Path, c.GetString("request_id"), err)
	}
	if isAjax(c) {
		pureJsonMsg(c, code, false, locale.I18n(locale.FromContext(c), errorMessageKey(code)))
		c.Abort()
		return
	}
	htmlStatus(c, code, "error.html", "pages.error.title", data)
	c.Abort()
}

// seeOther redirects after a successful write.
func seeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
