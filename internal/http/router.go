package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carbon-trace/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	footprintH *FootprintHandler,
	authH *AuthHandler,
	jwtSvc *service.JWTService,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.POST("/predict", footprintH.Submit)
	r.GET("/analyze_reduction/:username", footprintH.Insights)
	r.POST("/user", footprintH.History)

	r.POST("/register", authH.Register)
	r.POST("/login", authH.Login)

	auth := r.Group("/auth")
	auth.POST("/refresh", authH.Refresh)

	me := r.Group("/me")
	me.Use(JWTAuthMiddleware(jwtSvc))
	me.GET("", authH.Me)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
