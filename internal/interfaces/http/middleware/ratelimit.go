package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solepos/backend/internal/interfaces/http/dto"
)

// RateLimiter is a fixed-window limiter keyed by client IP
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*window
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

// NewRateLimiter allows limit requests per client per window
func NewRateLimiter(limit int, per time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  per,
		clients: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow counts one request for key and reports whether it fits in the window
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[key]
	if !ok || now.Sub(w.start) >= l.window {
		// drop stale windows while we hold the lock
		if len(l.clients) > 10000 {
			for k, old := range l.clients {
				if now.Sub(old.start) >= l.window {
					delete(l.clients, k)
				}
			}
		}
		l.clients[key] = &window{start: now, count: 1}
		return true, 0
	}
	if w.count >= l.limit {
		return false, l.window - now.Sub(w.start)
	}
	w.count++
	return true, 0
}

// Middleware answers 429 with Retry-After once a client exhausts its window
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := l.Allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests, try again later",
				GetRequestID(c),
			))
			return
		}
		c.Next()
	}
}
