// Package server assembles the HTTP router: middleware, operational
// endpoints, the wiring API, uploaded files and the single-page front end.
package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devprbtt/wiringmaster/internal/database"
	"github.com/devprbtt/wiringmaster/internal/middleware"
	"github.com/devprbtt/wiringmaster/internal/wiring/handler"
	"github.com/gin-contrib/gzip"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	Logger    *zap.Logger
	DB        *gorm.DB
	Handlers  *handler.Handlers
	WebDir    string
	Version   string
	BuildTime string
}

// NewRouter builds the gin engine. Gin's mode must be set before calling it.
func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.RecoveryWithZap(opts.Logger, true))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/metrics"}),
		gzip.WithExcludedPathsRegexs([]string{`^/api/diagrams/[^/]+/events$`}),
	))

	registerRoutes(r, opts)
	return r
}

func registerRoutes(r *gin.Engine, opts Options) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		if err := database.Ping(opts.DB); err != nil {
			opts.Logger.Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    opts.Version,
			"build_time": opts.BuildTime,
		})
	})

	r.GET("/metrics", middleware.MetricsHandler())

	handler.RegisterFiles(r, opts.Handlers)
	handler.Register(r.Group("/api"), opts.Handlers)

	// SPA 路由回退 - 所有非 API 路由返回 index.html
	r.NoRoute(spaFallback(opts.WebDir))
}

// spaFallback serves files that exist under webDir and index.html for any
// other path. Unknown /api paths get a JSON 404 instead.
func spaFallback(webDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		if path != "/" {
			file := filepath.Join(webDir, filepath.FromSlash(filepath.Clean("/"+path)))
			if info, err := os.Stat(file); err == nil && !info.IsDir() {
				if strings.HasPrefix(path, "/assets/") {
					c.Header("Cache-Control", "public, max-age=31536000, immutable")
				}
				c.File(file)
				return
			}
		}

		indexData, err := os.ReadFile(filepath.Join(webDir, "index.html"))
		if err != nil {
			c.String(http.StatusInternalServerError, "index.html not found")
			return
		}
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexData)
	}
}

// NewHTTPServer wraps router with the configured timeouts. WriteTimeout
// stays 0 by default so event streams are not cut off.
func NewHTTPServer(addr string, router http.Handler, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
	}
}
