package locale

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFS = fstest.MapFS{
	"translation/translate.en_US.toml": {Data: []byte("[pages.login]\n\"title\" = \"Log in\"\n\"hello\" = \"Hello {{.Name}}\"\n")},
	"translation/translate.uk_UA.toml": {Data: []byte("[pages.login]\n\"title\" = \"Вхід\"\n")},
}

func TestI18nByLanguage(t *testing.T) {
	bundle, err := NewBundle(testFS)
	require.NoError(t, err)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(LocalizerMiddleware(bundle))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, I18n(FromContext(c), "pages.login.title"))
	})

	get := func(setup func(*http.Request)) string {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		setup(req)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Body.String()
	}

	assert.Equal(t, "Log in", get(func(*http.Request) {}))
	assert.Equal(t, "Вхід", get(func(r *http.Request) { r.Header.Set("Accept-Language", "uk-UA,uk;q=0.9") }))
	assert.Equal(t, "Вхід", get(func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "lang", Value: "uk-UA"}) }))
	assert.Equal(t, "Log in", get(func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "lang", Value: "en-US"})
		r.Header.Set("Accept-Language", "uk-UA")
	}))
}

func TestI18nParamsAndFallback(t *testing.T) {
	bundle, err := NewBundle(testFS)
	require.NoError(t, err)

	r := gin.New()
	r.Use(LocalizerMiddleware(bundle))
	r.GET("/", func(c *gin.Context) {
		loc := FromContext(c)
		c.String(http.StatusOK, I18n(loc, "pages.login.hello", "Name==Olena")+"|"+I18n(loc, "missing.key")+"|"+I18n(nil, "no.localizer"))
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "Hello Olena|missing.key|no.localizer", w.Body.String())
}

func TestCreateTemplateData(t *testing.T) {
	data := createTemplateData([]string{"Count==3", "broken", "Sep::x"}, "==")
	assert.Equal(t, map[string]any{"Count": "3"}, data)
	assert.Equal(t, map[string]any{"Sep": "x"}, createTemplateData([]string{"Sep::x"}, "::"))
}
