// Package web provides the HTTP server of the car rental panel: routing,
// templates, sessions and static files.
package web

import (
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"html/template"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/Romankivs/Lab1Istp/config"
	"github.com/Romankivs/Lab1Istp/logger"
	"github.com/Romankivs/Lab1Istp/util/common"
	"github.com/Romankivs/Lab1Istp/util/excel"
	"github.com/Romankivs/Lab1Istp/util/money"
	"github.com/Romankivs/Lab1Istp/web/controller"
	"github.com/Romankivs/Lab1Istp/web/locale"
	"github.com/Romankivs/Lab1Istp/web/middleware"
	"github.com/Romankivs/Lab1Istp/web/network"
	"github.com/Romankivs/Lab1Istp/web/service"
	"github.com/Romankivs/Lab1Istp/web/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:embed html/*
var htmlFS embed.FS

//go:embed translation/*
var i18nFS embed.FS

const shutdownTimeout = 10 * time.Second

// Server is the panel's HTTP server.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	settingService *service.SettingService
	services       *controller.Services

	index  *controller.IndexController
	panel  *controller.PanelController
	public *controller.PublicController

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a server whose services share db.
func NewServer(db *gorm.DB) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	settingService := service.NewSettingService(db)
	return &Server{
		settingService: settingService,
		services:       controller.NewServices(settingService, db),
		ctx:            ctx,
		cancel:         cancel,
	}
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"i18n": func(loc *i18n.Localizer, key string, params ...string) string {
			return locale.I18n(loc, key, params...)
		},
		"price": func(d decimal.Decimal) string {
			return money.Format(d)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(excel.DateLayout)
		},
	}
}

// getHtmlTemplate parses the embedded templates.
func (s *Server) getHtmlTemplate(funcMap template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(htmlFS, "html/*.html")
}

// initRouter initializes Gin, registers middleware, templates, static
// files and controllers and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	secret, err := s.settingService.GetSecret()
	if err != nil {
		return nil, err
	}
	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	bundle, err := locale.NewBundle(i18nFS)
	if err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	// spreadsheets are zip archives already
	engine.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/rental_cases/excel"}),
	))
	engine.Use(sessions.SessionsMany(session.Names, store))
	engine.Use(locale.LocalizerMiddleware(bundle))
	engine.Use(middleware.Identity(s.services.Staff))
	engine.Use(middleware.Audit())

	funcs := funcMap()
	engine.SetFuncMap(funcs)
	if config.IsDebug() {
		engine.LoadHTMLGlob("web/html/*.html")
	} else {
		tpl, err := s.getHtmlTemplate(funcs)
		if err != nil {
			return nil, err
		}
		engine.SetHTMLTemplate(tpl)
	}

	g := engine.Group("/")
	s.public = controller.NewPublicController(g, http.Dir(config.GetPublicFolder()))
	s.index = controller.NewIndexController(g, s.settingService, s.services.Staff)
	s.panel = controller.NewPanelController(g, s.services)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// Handler returns the routed engine behind the method override.
func (s *Server) Handler() (http.Handler, error) {
	engine, err := s.initRouter()
	if err != nil {
		return nil, err
	}
	return middleware.MethodOverride(engine), nil
}

// Start listens on the configured address and serves in the background.
// With a certificate configured, plain HTTP on the same port is
// redirected to HTTPS.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	certFile, err := s.settingService.GetCertFile()
	if err != nil {
		return err
	}
	keyFile, err := s.settingService.GetKeyFile()
	if err != nil {
		return err
	}
	listen, err := s.settingService.GetListen()
	if err != nil {
		return err
	}
	port, err := s.settingService.GetPort()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(listen, strconv.Itoa(port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	if certFile != "" || keyFile != "" {
		if cert, err := tls.LoadX509KeyPair(certFile, keyFile); err == nil {
			cfg := &tls.Config{Certificates: []tls.Certificate{cert}}
			listener = network.NewAutoHttpsListener(listener)
			listener = tls.NewListener(listener, cfg)
			logger.Info("Web server running HTTPS on", listener.Addr())
		} else {
			logger.Error("Error loading certificates:", err)
			logger.Info("Web server running HTTP on", listener.Addr())
		}
	} else {
		logger.Info("Web server running HTTP on", listener.Addr())
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return s.ctx },
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("web server stopped:", err)
		}
	}()

	return nil
}

// Stop shuts the server down, waiting for in-flight requests.
func (s *Server) Stop() error {
	defer s.cancel()
	var err1, err2 error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err1 = s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
		if errors.Is(err2, net.ErrClosed) {
			err2 = nil
		}
	}
	return common.Combine(err1, err2)
}
