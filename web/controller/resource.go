package controller

import (
	"context"
	"strconv"
	"strings"

	"github.com/Romankivs/Lab1Istp/util/common"
	"github.com/Romankivs/Lab1Istp/web/service"

	"github.com/gin-gonic/gin"
)

// Form converts bound form input into a row. key is nil on create and
// names the row being replaced on update.
type Form[T any, K any] interface {
	ToModel(key *K) (*T, error)
}

type formPtr[F any, T any, K any] interface {
	*F
	Form[T, K]
}

// Resource serves the seven standard pages of one entity:
//
//	GET    /<name>/list          list
//	GET    /<name>/:key          show
//	GET    /<name>/add           add form
//	POST   /<name>               create
//	GET    /<name>/update/:key   update form
//	PUT    /<name>/:key          full replace
//	DELETE /<name>/:key          delete
//
// Templates are named <name>_list.html, <name>_show.html, <name>_add.html
// and <name>_update.html.
type Resource[T any, K comparable, F any, PF formPtr[F, T, K]] struct {
	BaseController

	name       string
	title      string
	redirect   string
	crud       *service.Crud[T, K]
	parseKey   func(string) (K, error)
	references func(ctx context.Context) (gin.H, error)
}

// NewResource builds the pages of an entity. title is the translation key
// of the page heading.
func NewResource[T any, K comparable, F any, PF formPtr[F, T, K]](name, title string, crud *service.Crud[T, K], parseKey func(string) (K, error)) *Resource[T, K, F, PF] {
	return &Resource[T, K, F, PF]{
		name:     name,
		title:    title,
		redirect: "/" + name + "/list",
		crud:     crud,
		parseKey: parseKey,
	}
}

// WithReferences sets the loader of the rows the add and update forms
// choose from.
func (r *Resource[T, K, F, PF]) WithReferences(fn func(ctx context.Context) (gin.H, error)) *Resource[T, K, F, PF] {
	r.references = fn
	return r
}

// WithRedirect changes where successful writes land.
func (r *Resource[T, K, F, PF]) WithRedirect(location string) *Resource[T, K, F, PF] {
	r.redirect = location
	return r
}

// initRouter registers every page on g, which is already rooted at
// /<name> and guarded.
func (r *Resource[T, K, F, PF]) initRouter(g *gin.RouterGroup) {
	g.GET("/list", r.list)
	g.GET("/add", r.addMenu)
	g.GET("/update/:key", r.updateMenu)
	g.GET("/:key", r.show)
	g.POST("", r.create)
	g.PUT("/:key", r.update)
	g.DELETE("/:key", r.delete)
}

func (r *Resource[T, K, F, PF]) template(page string) string {
	return r.name + "_" + page + ".html"
}

func (r *Resource[T, K, F, PF]) key(c *gin.Context) (K, error) {
	key, err := r.parseKey(c.Param("key"))
	if err != nil {
		return key, common.ErrNotFound
	}
	return key, nil
}

// bind decodes the request form. Binding failures are validation errors.
func (r *Resource[T, K, F, PF]) bind(c *gin.Context, key *K) (*T, error) {
	form := PF(new(F))
	if err := c.ShouldBind(form); err != nil {
		return nil, common.NewValidationError("", "%v", err)
	}
	return form.ToModel(key)
}

func (r *Resource[T, K, F, PF]) withReferences(c *gin.Context, data gin.H) (gin.H, error) {
	if r.references == nil {
		return data, nil
	}
	refs, err := r.references(c.Request.Context())
	if err != nil {
		return nil, err
	}
	for k, v := range refs {
		data[k] = v
	}
	return data, nil
}

func (r *Resource[T, K, F, PF]) list(c *gin.Context) {
	rows, err := r.crud.List(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	html(c, r.template("list"), r.title, gin.H{"rows": rows})
}

func (r *Resource[T, K, F, PF]) show(c *gin.Context) {
	key, err := r.key(c)
	if err != nil {
		renderError(c, err)
		return
	}
	row, err := r.crud.Get(c.Request.Context(), key)
	if err != nil {
		renderError(c, err)
		return
	}
	html(c, r.template("show"), r.title, gin.H{"row": row, "key": key})
}

func (r *Resource[T, K, F, PF]) addMenu(c *gin.Context) {
	data, err := r.withReferences(c, gin.H{})
	if err != nil {
		renderError(c, err)
		return
	}
	html(c, r.template("add"), r.title, data)
}

func (r *Resource[T, K, F, PF]) create(c *gin.Context) {
	row, err := r.bind(c, nil)
	if err != nil {
		renderError(c, err)
		return
	}
	if err := r.crud.Create(c.Request.Context(), row); err != nil {
		renderError(c, err)
		return
	}
	seeOther(c, r.redirect)
}

func (r *Resource[T, K, F, PF]) updateMenu(c *gin.Context) {
	key, err := r.key(c)
	if err != nil {
		renderError(c, err)
		return
	}
	row, err := r.crud.Get(c.Request.Context(), key)
	if err != nil {
		renderError(c, err)
		return
	}
	data, err := r.withReferences(c, gin.H{"row": row, "key": key})
	if err != nil {
		renderError(c, err)
		return
	}
	html(c, r.template("update"), r.title, data)
}

func (r *Resource[T, K, F, PF]) update(c *gin.Context) {
	key, err := r.key(c)
	if err != nil {
		renderError(c, err)
		return
	}
	row, err := r.bind(c, &key)
	if err != nil {
		renderError(c, err)
		return
	}
	if err := r.crud.Update(c.Request.Context(), key, row); err != nil {
		renderError(c, err)
		return
	}
	seeOther(c, r.redirect)
}

func (r *Resource[T, K, F, PF]) delete(c *gin.Context) {
	key, err := r.key(c)
	if err != nil {
		renderError(c, err)
		return
	}
	if err := r.crud.Delete(c.Request.Context(), key); err != nil {
		renderError(c, err)
		return
	}
	seeOther(c, r.redirect)
}

func parseIntKey(s string) (int, error) {
	return strconv.Atoi(s)
}

func parsePlateKey(s string) (string, error) {
	plate := strings.ToUpper(strings.TrimSpace(s))
	if plate == "" {
		return "", common.ErrNotFound
	}
	return plate, nil
}
