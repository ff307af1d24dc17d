package api

import (
	"net/http"

	"Minerva_1.0/internal/config"
	"Minerva_1.0/pkg/ratelimiter"

	"github.com/gin-gonic/gin"
)

// SetupRouter 配置和返回一个 Gin 引擎实例。
// 限流中间件只挂在 visualize 路由上：它的目的不是保护本服务，而是保护 LLM 配额。
func SetupRouter(h *API, mw config.MiddlewareConfig) *gin.Engine {
	// 使用默认中间件 (logger, recovery) 创建一个 Gin 引擎。
	r := gin.Default()

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/sheets", h.ListSheetsHandler)

		viz := apiV1.Group("/visualize")
		if mw.RateLimiter.Enabled {
			limiter := ratelimiter.NewTokenBucket(
				mw.RateLimiter.TokenBucket.Rate,
				mw.RateLimiter.TokenBucket.Capacity,
			)
			viz.Use(RateLimit(limiter))
		}
		viz.POST("", h.VisualizeHandler)
	}

	return r
}

// RateLimit is a gin middleware applying a shared rate limiter.
func RateLimit(limiter ratelimiter.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
			return
		}
		c.Next()
	}
}
