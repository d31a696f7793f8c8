// Package locale translates panel messages with go-i18n. The localizer is
// chosen per request from the lang cookie or the Accept-Language header.
package locale

import (
	"io/fs"
	"strings"

	"github.com/Romankivs/Lab1Istp/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

const (
	DefaultLanguage = "en-US"
	contextKey      = "localizer"
)

// NewBundle parses every TOML file under translation/ in fsys.
func NewBundle(fsys fs.FS) (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.MustParse(DefaultLanguage))
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	if err := parseTranslationFiles(fsys, bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

func createTemplateData(params []string, seperator ...string) map[string]any {
	var sep string = "=="
	if len(seperator) > 0 {
		sep = seperator[0]
	}

	templateData := make(map[string]any)
	for _, param := range params {
		parts := strings.SplitN(param, sep, 2)
		if len(parts) != 2 {
			continue
		}
		templateData[parts[0]] = parts[1]
	}

	return templateData
}

// I18n localizes key. params are name==value pairs for the message
// template. A missing localizer or message yields the key itself.
func I18n(localizer *i18n.Localizer, key string, params ...string) string {
	if localizer == nil {
		return key
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	if err != nil {
		logger.Warningf("failed to localize message %q: %v", key, err)
		return key
	}
	return msg
}

// LocalizerMiddleware stores a localizer for the request's language in
// the gin context.
func LocalizerMiddleware(bundle *i18n.Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string
		if cookie, err := c.Request.Cookie("lang"); err == nil {
			lang = cookie.Value
		}
		c.Set(contextKey, i18n.NewLocalizer(bundle, lang, c.GetHeader("Accept-Language"), DefaultLanguage))
		c.Next()
	}
}

// FromContext returns the localizer LocalizerMiddleware stored, or nil.
func FromContext(c *gin.Context) *i18n.Localizer {
	if obj, ok := c.Get(contextKey); ok {
		if l, ok := obj.(*i18n.Localizer); ok {
			return l
		}
	}
	return nil
}

func parseTranslationFiles(fsys fs.FS, bundle *i18n.Bundle) error {
	return fs.WalkDir(fsys, "translation",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			data, err := fs.ReadFile(fsys, path)
			if err != nil {
				return err
			}
			_, err = bundle.ParseMessageFileBytes(data, path)
			return err
		})
}
