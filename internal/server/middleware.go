package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/scholara/internal/tenantcontext"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// tenantMiddleware resolves the billing scope from the X-Tenant-ID and
// X-Academic-Year-ID headers. Upstream auth has already verified the caller
// belongs to the tenant; this layer only carries the scope.
func tenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, err := parseIDHeader(c, "X-Tenant-ID")
		if err != nil {
			AbortWithError(c, newValidationError("tenant_id", "invalid_tenant", "invalid tenant id"))
			return
		}
		if tenantID == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		yearID, err := parseIDHeader(c, "X-Academic-Year-ID")
		if err != nil {
			AbortWithError(c, newValidationError("academic_year_id", "invalid_academic_year", "invalid academic year id"))
			return
		}

		ctx := tenantcontext.WithTenant(c.Request.Context(), tenantID, yearID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func parseIDHeader(c *gin.Context, name string) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.GetHeader(name))
	if raw == "" {
		return 0, nil
	}
	return snowflake.ParseString(raw)
}

type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	return &clientLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	return limiter.Allow()
}

func rateLimitMiddleware() gin.HandlerFunc {
	limiter := newClientLimiter(50, 100)
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader("X-Tenant-ID"))
		if key == "" {
			key = c.ClientIP()
		}
		if !limiter.allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"code": "rate_limited", "message": "too many requests"},
			})
			return
		}
		c.Next()
	}
}
