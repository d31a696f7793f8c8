package controller

import (
	"errors"

	"github.com/Romankivs/Lab1Istp/database/model"
	"github.com/Romankivs/Lab1Istp/logger"
	"github.com/Romankivs/Lab1Istp/web/entity"
	"github.com/Romankivs/Lab1Istp/web/service"
	"github.com/Romankivs/Lab1Istp/web/session"

	"github.com/gin-gonic/gin"
)

// StaffController manages staff accounts under /data. Registration stays
// open until the first staff member exists.
type StaffController struct {
	*Resource[model.Staff, int, entity.StaffForm, *entity.StaffForm]

	staffService *service.StaffService
}

func NewStaffController(g *gin.RouterGroup, staff *service.StaffService) *StaffController {
	a := &StaffController{
		Resource:     NewResource[model.Staff, int, entity.StaffForm]("staff", "entity.staff.title", staff.Crud, parseIntKey).WithRedirect("/"),
		staffService: staff,
	}
	a.initRouter(g)
	return a
}

func (a *StaffController) initRouter(g *gin.RouterGroup) {
	g.GET("/register", a.checkLoginOrBootstrap, a.addMenu)

	data := g.Group("/data")
	data.POST("", a.checkLoginOrBootstrap, a.register)

	guarded := data.Group("", a.checkLogin)
	guarded.GET("/update/:key", a.updateMenu)
	guarded.GET("/:key", a.show)
	guarded.PUT("/:key", a.update)
	guarded.DELETE("/:key", a.delete)
}

// register creates a staff member. Anonymous requests may only create the
// first one.
func (a *StaffController) register(c *gin.Context) {
	if session.IsLogin(c) {
		a.create(c)
		return
	}
	row, err := a.bind(c, nil)
	if err != nil {
		renderError(c, err)
		return
	}
	err = a.staffService.Bootstrap(c.Request.Context(), row)
	if errors.Is(err, service.ErrRegistrationClosed) {
		a.checkLogin(c)
		return
	}
	if err != nil {
		renderError(c, err)
		return
	}
	logger.Noticef("first staff member %s registered from %s", row.Email, getRemoteIp(c))
	seeOther(c, a.redirect)
}

// checkLoginOrBootstrap lets anonymous requests through only while the
// staff table is empty.
func (a *StaffController) checkLoginOrBootstrap(c *gin.Context) {
	if session.IsLogin(c) {
		c.Next()
		return
	}
	empty, err := a.staffService.IsEmpty(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	if empty {
		logger.Notice("no staff registered yet, allowing bootstrap registration from", getRemoteIp(c))
		c.Next()
		return
	}
	a.checkLogin(c)
}
