package controller

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// PublicController serves regular files below a root folder. Directories,
// missing files and paths escaping the root are 404.
type PublicController struct {
	root http.FileSystem
}

func NewPublicController(g *gin.RouterGroup, root http.FileSystem) *PublicController {
	a := &PublicController{root: root}
	g.GET("/public/*path", a.serve)
	g.HEAD("/public/*path", a.serve)
	return a
}

func (a *PublicController) serve(c *gin.Context) {
	name := path.Clean("/" + c.Param("path"))
	f, err := a.root.Open(name)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}
