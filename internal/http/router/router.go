// Package router assembles the Gin engine, global middleware, and all
// module routes into a runnable HTTP handler.
package router

import (
	"net/http"
	"time"

	apphttp "leadconvert/internal/http"
	"leadconvert/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// New builds the Gin engine from the composed application. Global middleware
// runs first, then each module registers its own routes via the RouterContext.
func New(app *apphttp.App) *gin.Engine {
	if app.Config.GetEnv() == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: app.Config.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if app.Config.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = app.Config.GetCORSOrigins()
	}
	engine.Use(cors.New(corsCfg))

	// Global rate limit; auth routes get a stricter limiter via the module context.
	globalLimiter := httpkit.NewIPRateLimiter(rate.Limit(100), 200, app.Logger)
	engine.Use(globalLimiter.RateLimit())

	engine.GET("/health", func(c *gin.Context) {
		if err := app.Health.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	api := engine.Group("/api")

	protected := api.Group("")
	protected.Use(app.AuthMiddleware)

	admin := protected.Group("/admin")
	admin.Use(httpkit.RequireRole("admin"))

	routerCtx := &apphttp.RouterContext{
		Engine:          engine,
		API:             api,
		Protected:       protected,
		Admin:           admin,
		AuthMiddleware:  app.AuthMiddleware,
		AuthRateLimiter: httpkit.NewAuthRateLimiter(app.Logger),
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Info("registered module routes", "module", module.Name())
	}

	return engine
}
