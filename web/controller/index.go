package controller

import (
	"errors"
	"net/http"
	"text/template"

	"github.com/Romankivs/Lab1Istp/logger"
	"github.com/Romankivs/Lab1Istp/util/common"
	"github.com/Romankivs/Lab1Istp/web/entity"
	"github.com/Romankivs/Lab1Istp/web/service"
	"github.com/Romankivs/Lab1Istp/web/session"

	"github.com/gin-gonic/gin"
)

// IndexController handles the root route, login and logout.
type IndexController struct {
	BaseController

	settingService *service.SettingService
	staffService   *service.StaffService
}

// NewIndexController creates a new IndexController and initializes its routes.
func NewIndexController(g *gin.RouterGroup, settingService *service.SettingService, staffService *service.StaffService) *IndexController {
	a := &IndexController{settingService: settingService, staffService: staffService}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/login", a.loginPage)
	g.POST("/login", a.login)
	g.GET("/logout", a.logout)
}

// index sends staff to the car list and everyone else to the login page.
func (a *IndexController) index(c *gin.Context) {
	if session.IsLogin(c) {
		seeOther(c, "/car/list")
		return
	}
	seeOther(c, "/login")
}

func (a *IndexController) loginPage(c *gin.Context) {
	if session.IsLogin(c) {
		seeOther(c, "/")
		return
	}
	flashes, err := session.Flashes(c)
	if err != nil {
		logger.Warning("unable to clear flashes:", err)
	}
	html(c, "login.html", "pages.login.title", gin.H{"flashes": flashes})
}

// login checks the credentials. A failure is flashed and redirects back
// to the login page without touching the identity cookie.
func (a *IndexController) login(c *gin.Context) {
	var form entity.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warning("unable to bind login form:", err)
	}
	safeEmail := template.HTMLEscapeString(form.Email)

	staff, err := a.staffService.CheckStaff(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		var key string
		switch {
		case errors.Is(err, common.ErrEmailNotFound):
			key = "pages.login.emailNotFound"
		case errors.Is(err, common.ErrWrongPassword):
			key = "pages.login.wrongPassword"
		default:
			renderError(c, err)
			return
		}
		logger.Warningf("failed login for \"%s\", IP: \"%s\": %v", safeEmail, getRemoteIp(c), err)
		if err := session.AddFlash(c, I18nWeb(c, key)); err != nil {
			logger.Warning("unable to save flash:", err)
		}
		seeOther(c, "/login")
		return
	}

	sessionMaxAge, err := a.settingService.GetSessionMaxAge()
	if err != nil {
		logger.Warning("unable to get session's max age from DB:", err)
		sessionMaxAge = 60
	}
	if err := session.SetLoginStaff(c, staff, sessionMaxAge*60); err != nil {
		renderError(c, err)
		return
	}
	logger.Infof("%s logged in successfully, IP: %s", safeEmail, getRemoteIp(c))
	seeOther(c, "/")
}

func (a *IndexController) logout(c *gin.Context) {
	if staff := session.GetLoginStaff(c); staff != nil {
		logger.Infof("%s logged out", staff.Email)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("unable to clear session:", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}
