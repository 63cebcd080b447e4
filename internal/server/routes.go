package server

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/middleware"
	"github.com/mantonx/lineup/internal/services"
	"github.com/mantonx/lineup/internal/telemetry"
)

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	if len(s.opts.Config.Server.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(s.opts.Config.Server.TrustedProxies); err != nil {
			s.logger.Warn("invalid trusted proxies", "error", err)
		}
	}

	r.Use(telemetry.Recovery())
	r.Use(middleware.RequestLogger(s.opts.Logger))
	r.Use(telemetry.ReportServerErrors())
	if s.opts.Config.Server.EnableCORS {
		r.Use(cors(s.opts.Config.Security.AllowedOrigins))
	}
	if s.opts.Metrics != nil {
		r.Use(s.opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(s.opts.Metrics.Handler()))
	}

	identity, err := services.GetServiceFrom[services.IdentityService](s.opts.Services, services.IdentityServiceName)
	if err != nil {
		s.logger.Warn("identity service unavailable, every request is a guest", "error", err)
		identity = nil
	}
	r.Use(middleware.ViewerMiddleware(identity))

	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/events/ws", s.handleEventStream)
	}

	if s.opts.Registry != nil {
		s.opts.Registry.RegisterRoutes(r)
		s.logModuleStatus()
	}

	r.GET("/api", s.handleAPIRoot(r))
	return r
}

type apiRoute struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// handleAPIRoot lists every registered route
func (s *Server) handleAPIRoot(r *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		routes := make([]apiRoute, 0)
		for _, info := range r.Routes() {
			routes = append(routes, apiRoute{Method: info.Method, Path: info.Path})
		}
		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Path != routes[j].Path {
				return routes[i].Path < routes[j].Path
			}
			return routes[i].Method < routes[j].Method
		})
		c.JSON(http.StatusOK, gin.H{
			"name":    "lineup",
			"version": s.opts.Version,
			"routes":  routes,
		})
	}
}

// cors answers preflight requests and sets allow headers. An empty origin
// list allows any origin.
func cors(allowed []string) gin.HandlerFunc {
	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		origins[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case len(origins) == 0:
			c.Header("Access-Control-Allow-Origin", "*")
		case origins[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, If-Match")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
